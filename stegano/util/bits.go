package util

// anything we can pull carrier bits from, one at a time.
type BitSource interface {
	NextBit() (uint8, bool)
	Remaining() int		// bits left before the source runs dry
}

/*
 * BitReader walks a byte slice MSB first. It is used on the encoding side to
 * cut the framed stream into groups of arbitrary width.
 */
type BitReader struct {
	data	[]byte
	pos	int		// in bits
}

func NewBitReader( data []byte ) *BitReader {
	return &BitReader{
		data: data,
	}
}

func(r *BitReader) Len() int {
	return len(r.data) * 8
}

func(r *BitReader) Remaining() int {
	return r.Len() - r.pos
}

func(r *BitReader) NextBit() (uint8, bool) {
	if r.pos >= r.Len() {
		return 0, false
	}
	b := r.data[ r.pos / 8 ]
	bit := (b >> (7 - uint(r.pos % 8))) & 1
	r.pos++
	return bit, true
}

// reads up to 8 bits into the low `width` bits of the result, MSB first.
// Bits past the end of the stream read as zero.
func(r *BitReader) ReadBits( width uint ) uint8 {
	var v uint8
	for i := uint(0); i < width && i < 8; i++ {
		bit, _ := r.NextBit()
		v = v << 1 | bit
	}
	return v
}

/*
 * GroupSource turns a sequence of (value, width) groups taken out of the
 * carrier back into a flat bit stream. The codecs hand it a closure which
 * knows how to pull the next group out of the pixels.
 */
type GroupSource struct {
	next		func() (uint8, uint, bool)
	group		uint8
	left		uint		// unread bits of group
	remaining	int
}

func NewGroupSource( next func() (uint8, uint, bool), total int ) *GroupSource {
	return &GroupSource{
		next: next,
		remaining: total,
	}
}

func(s *GroupSource) Remaining() int {
	return s.remaining
}

func(s *GroupSource) NextBit() (uint8, bool) {
	for s.left == 0 {
		group, width, ok := s.next()
		if !ok {
			return 0, false
		}
		s.group, s.left = group, width
	}
	s.left--
	if s.remaining > 0 {
		s.remaining--
	}
	return (s.group >> s.left) & 1, true
}
