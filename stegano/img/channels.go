package img

/*
 * ChannelIterator yields the offsets of the bytes which take part in the
 * embedding, in strictly ascending order. The encoder and the decoder must
 * walk exactly the same sequence, so this is the only place which decides it.
 */
type ChannelIterator struct {
	size	int
	alpha	bool
	pos	int
}

func EligibleIndices( pix []byte, alphaEligible bool ) *ChannelIterator {
	return &ChannelIterator{
		size: len(pix),
		alpha: alphaEligible,
	}
}

func(it *ChannelIterator) Next() (int, bool) {
	for it.pos < it.size {
		idx := it.pos
		it.pos++
		if !it.alpha && idx % 4 == 3 {
			continue
		}
		return idx, true
	}
	return 0, false
}

func(it *ChannelIterator) Reset() {
	it.pos = 0
}

// total amount of eligible bytes, regardless of the current position
func(it *ChannelIterator) Count() int {
	return EligibleCount( it.size, it.alpha )
}

func EligibleCount( size int, alphaEligible bool ) int {
	if alphaEligible {
		return size
	}
	// offsets 3, 7, 11, ... below size
	return size - size / 4
}
