package img

// quantization range of a pixel pair difference and the bits it can carry
type RangeEntry struct {
	Lower	uint8
	Upper	uint8
	Bits	uint
}

// ascending, no gaps, covers 0..255
var pvdRanges = [...]RangeEntry{
	{ Lower: 0, Upper: 7, Bits: 3 },
	{ Lower: 8, Upper: 15, Bits: 3 },
	{ Lower: 16, Upper: 31, Bits: 4 },
	{ Lower: 32, Upper: 63, Bits: 5 },
	{ Lower: 64, Upper: 127, Bits: 6 },
	{ Lower: 128, Upper: 255, Bits: 7 },
}

func RangeFor( absDiff uint8 ) RangeEntry {
	for _, r := range pvdRanges {
		if absDiff <= r.Upper {
			return r
		}
	}
	return pvdRanges[ len(pvdRanges) - 1 ]
}

// bits carried by a pair whose range is r, never more than maxBitsPerPair
func(r RangeEntry) capacity( maxBitsPerPair int ) uint {
	if uint(maxBitsPerPair) < r.Bits {
		return uint(maxBitsPerPair)
	}
	return r.Bits
}
