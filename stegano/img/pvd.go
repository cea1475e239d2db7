package img
import (
	"fmt"

	"pixhide/stegano/util"
)

const (
	MinBitsPerPair = 1
	MaxBitsPerPair = 7
)

func checkBitsPerPair( maxBitsPerPair int ) error {
	if maxBitsPerPair < MinBitsPerPair || maxBitsPerPair > MaxBitsPerPair {
		return fmt.Errorf("%w: max bits per pair must be in [%d, %d], got %d",
			util.ErrInvalidParameter, MinBitsPerPair, MaxBitsPerPair, maxBitsPerPair)
	}
	return nil
}

/*
 * pvdPairs walks eligible bytes two at a time. A trailing odd byte is never
 * returned.
 */
func pvdPairs( it *ChannelIterator ) func() (int, int, bool) {
	return func() (int, int, bool) {
		i, ok := it.Next()
		if !ok {
			return 0, 0, false
		}
		j, ok := it.Next()
		if !ok {
			return 0, 0, false
		}
		return i, j, true
	}
}

func pairCount( it *ChannelIterator ) int {
	return it.Count() / 2
}

// capacity in bits of the pairs as they are in pix now
func pvdCapacity( pix []byte, alpha bool, maxBitsPerPair int ) int {
	next := pvdPairs( EligibleIndices( pix, alpha ) )
	total := 0
	for {
		i, j, ok := next()
		if !ok {
			return total
		}
		d := int(pix[j]) - int(pix[i])
		total += int(RangeFor( uint8(util.Abs( d )) ).capacity( maxBitsPerPair ))
	}
}

/*
 * embedPair moves p and q so that q' - p' has the sign of q - p and the
 * magnitude r.Lower + m, keeping both inside [0, 255] and as close to the
 * original midpoint as the bounds allow.
 */
func embedPair( p, q uint8, r RangeEntry, m uint8 ) (uint8, uint8) {
	target := int(r.Lower) + int(m)
	if int(q) < int(p) {
		target = -target
	}

	lo := util.Clamp( -target, 0, 255 )
	hi := util.Clamp( 255 - target, 0, 255 )

	// round half up of (p + q - target) / 2; >> floors negative values too
	mid := (int(p) + int(q) - target + 1) >> 1
	np := util.Clamp( mid, lo, hi )
	return uint8(np), uint8(np + target)
}

// the value hidden in a pair and how many bits of it are meaningful
func extractPair( p, q uint8, maxBitsPerPair int ) (uint8, uint) {
	absDiff := util.Abs( int(q) - int(p) )
	r := RangeFor( uint8(absDiff) )
	t := r.capacity( maxBitsPerPair )
	m := util.Clamp( absDiff - int(r.Lower), 0, (1 << t) - 1 )
	return uint8(m), t
}

/*
 * EncodePVD hides message in the differences of consecutive eligible byte
 * pairs. Each pair carries as many bits as its difference range allows, capped
 * by maxBitsPerPair.
 */
func EncodePVD( pixels *PixelBuffer, message []byte, maxBitsPerPair int, policy AlphaPolicy ) (*PixelBuffer, error) {
	if err := pixels.Validate(); err != nil {
		return nil, err
	}
	if err := checkBitsPerPair( maxBitsPerPair ); err != nil {
		return nil, err
	}
	if err := util.CheckPayloadSize( len(message) ); err != nil {
		return nil, err
	}

	alpha := ResolveAlpha( policy, pixels.Pix )
	eligible := EligibleIndices( pixels.Pix, alpha )
	if pairCount( eligible ) == 0 {
		return nil, fmt.Errorf("%w: carrier has no eligible byte pair", util.ErrInvalidParameter)
	}

	// pairs are disjoint, so the capacity of the untouched carrier is exact
	required := util.RequiredBits( len(message) )
	capacity := pvdCapacity( pixels.Pix, alpha, maxBitsPerPair )
	if required > capacity {
		return nil, fmt.Errorf("%w: need %d bits, carrier holds %d (pvd, max %d bits per pair, alpha %v)",
			util.ErrInsufficientCapacity, required, capacity, maxBitsPerPair, alpha)
	}

	out := pixels.Clone()
	bits := util.NewBitReader( util.Frame( message ) )
	next := pvdPairs( eligible )

	for bits.Remaining() > 0 {
		i, j, ok := next()
		if !ok {
			return nil, fmt.Errorf("%w: carrier exhausted", util.ErrInsufficientCapacity)
		}
		p, q := out.Pix[i], out.Pix[j]
		r := RangeFor( uint8(util.Abs( int(q) - int(p) )) )
		m := bits.ReadBits( r.capacity( maxBitsPerPair ) )
		out.Pix[i], out.Pix[j] = embedPair( p, q, r, m )
	}
	return out, nil
}

func DecodePVD( pixels *PixelBuffer, maxBitsPerPair int, policy AlphaPolicy ) ([]byte, error) {
	if err := pixels.Validate(); err != nil {
		return nil, err
	}
	if err := checkBitsPerPair( maxBitsPerPair ); err != nil {
		return nil, err
	}

	alpha := ResolveAlpha( policy, pixels.Pix )
	eligible := EligibleIndices( pixels.Pix, alpha )
	if pairCount( eligible ) == 0 {
		return nil, fmt.Errorf("%w: carrier has no eligible byte pair", util.ErrInvalidParameter)
	}
	next := pvdPairs( eligible )

	src := util.NewGroupSource( func() (uint8, uint, bool) {
		i, j, ok := next()
		if !ok {
			return 0, 0, false
		}
		m, t := extractPair( pixels.Pix[i], pixels.Pix[j], maxBitsPerPair )
		return m, t, true
	}, pvdCapacity( pixels.Pix, alpha, maxBitsPerPair ) )

	return util.Unframe( src )
}
