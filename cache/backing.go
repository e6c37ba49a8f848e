package cache

// readBlock fills data from the backing store starting at blockAddr.
// A nil backing store reads as zeros.
func readBlock(backing BackingStore, blockAddr uint64, data []byte) {
	for i := range data {
		if backing == nil {
			data[i] = 0
			continue
		}
		data[i] = backing.Read8(uint16(blockAddr + uint64(i)))
	}
}

// writeBlock stores data to the backing store starting at blockAddr.
func writeBlock(backing BackingStore, blockAddr uint64, data []byte) {
	if backing == nil {
		return
	}
	for i, b := range data {
		backing.Write8(uint16(blockAddr+uint64(i)), b)
	}
}
