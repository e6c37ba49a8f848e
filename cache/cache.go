// Package cache models a set-associative cache in front of the SM83 memory
// bus using Akita cache components.
package cache

import (
	"fmt"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds cache configuration parameters.
type Config struct {
	// Size in bytes
	Size int `json:"size"`
	// Associativity (number of ways)
	Associativity int `json:"associativity"`
	// BlockSize in bytes (cache line size)
	BlockSize int `json:"block_size"`
}

// DefaultConfig returns an 8KB, 4-way cache with 16B lines.
func DefaultConfig() Config {
	return Config{
		Size:          8 * 1024,
		Associativity: 4,
		BlockSize:     16,
	}
}

// Validate checks that the geometry describes a whole number of sets of
// power-of-two blocks that fit in the 16-bit address space.
func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("cache size must be > 0")
	}
	if c.Associativity <= 0 {
		return fmt.Errorf("cache associativity must be > 0")
	}
	if c.BlockSize <= 0 || c.BlockSize&(c.BlockSize-1) != 0 {
		return fmt.Errorf("cache block_size must be a power of two, got %d", c.BlockSize)
	}
	if c.Size > addressSpace {
		return fmt.Errorf("cache size %d exceeds the 64KB address space", c.Size)
	}
	if c.Size%(c.Associativity*c.BlockSize) != 0 {
		return fmt.Errorf("cache size %d is not a multiple of associativity*block_size (%d)",
			c.Size, c.Associativity*c.BlockSize)
	}
	return nil
}

// NumSets returns the number of sets.
func (c Config) NumSets() int {
	return c.Size / (c.Associativity * c.BlockSize)
}

const addressSpace = 0x10000

// Statistics holds cache performance statistics.
type Statistics struct {
	Reads      uint64 `json:"reads"`
	Writes     uint64 `json:"writes"`
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
	Evictions  uint64 `json:"evictions"`
	Writebacks uint64 `json:"writebacks"`
}

// HitRate returns hits over total accesses, or 0 before any access.
func (s Statistics) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// BackingStore is the next level in the memory hierarchy. emu.Memory and
// any other emu.Bus satisfy it.
type BackingStore interface {
	Read8(addr uint16) byte
	Write8(addr uint16, value byte)
}

// Cache is a write-back, write-allocate cache. It implements the same
// byte interface as its backing store, so it can be handed to the
// emulator as its bus.
type Cache struct {
	// Configuration
	config Config

	// Akita cache directory for tag/state management
	directory *akitacache.DirectoryImpl

	// Data storage - indexed by (setID * associativity + wayID)
	dataStore [][]byte

	// Statistics
	stats Statistics

	backing BackingStore
}

// New creates a new cache with the given configuration.
func New(config Config, backing BackingStore) (*Cache, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	numSets := config.NumSets()
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]byte, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]byte, config.BlockSize)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}, nil
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears cache statistics.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

// Backing returns the next level in the hierarchy.
func (c *Cache) Backing() BackingStore {
	return c.backing
}

// blockIndex computes the index into dataStore for a block.
func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

func (c *Cache) blockAddr(addr uint16) uint64 {
	size := uint64(c.config.BlockSize)
	return uint64(addr) / size * size
}

// Read8 reads one byte through the cache.
func (c *Cache) Read8(addr uint16) byte {
	c.stats.Reads++
	_, data, offset := c.access(addr)
	return data[offset]
}

// Write8 writes one byte into the cache, allocating the line on a miss.
func (c *Cache) Write8(addr uint16, value byte) {
	c.stats.Writes++
	block, data, offset := c.access(addr)
	data[offset] = value
	block.IsDirty = true
}

// access returns the line holding addr and the offset of addr within it,
// filling the line from the backing store on a miss.
func (c *Cache) access(addr uint16) (*akitacache.Block, []byte, uint64) {
	blockAddr := c.blockAddr(addr)
	offset := uint64(addr) - blockAddr

	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
	} else {
		c.stats.Misses++
		block = c.fill(blockAddr)
	}

	return block, c.dataStore[c.blockIndex(block)], offset
}

// fill evicts a victim, writing it back if dirty, and loads blockAddr.
func (c *Cache) fill(blockAddr uint64) *akitacache.Block {
	victim := c.directory.FindVictim(blockAddr)
	victimData := c.dataStore[c.blockIndex(victim)]

	if victim.IsValid {
		c.stats.Evictions++
		if victim.IsDirty {
			c.writeBack(victim.Tag, victimData)
		}
	}

	readBlock(c.backing, blockAddr, victimData)

	// Tag stores the block-aligned address.
	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)

	return victim
}

func (c *Cache) writeBack(blockAddr uint64, data []byte) {
	c.stats.Writebacks++
	writeBlock(c.backing, blockAddr, data)
}

// Contains reports whether addr is currently cached. It does not touch
// the statistics or the replacement state.
func (c *Cache) Contains(addr uint16) bool {
	block := c.directory.Lookup(0, c.blockAddr(addr))
	return block != nil && block.IsValid
}

// Invalidate drops the line holding addr without writing it back.
func (c *Cache) Invalidate(addr uint16) {
	block := c.directory.Lookup(0, c.blockAddr(addr))
	if block != nil && block.IsValid {
		block.IsValid = false
		block.IsDirty = false
	}
}

// Flush writes back all dirty blocks and invalidates them.
func (c *Cache) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid && block.IsDirty {
				c.writeBack(block.Tag, c.dataStore[c.blockIndex(block)])
			}
			block.IsValid = false
			block.IsDirty = false
		}
	}
}

// Reset invalidates all cache lines without writeback.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}
