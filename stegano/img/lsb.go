package img
import (
	"fmt"

	"pixhide/stegano/util"
)

const (
	MinBitsPerChannel = 1
	MaxBitsPerChannel = 8
)

func checkBitsPerChannel( bitsPerChannel int ) error {
	if bitsPerChannel < MinBitsPerChannel || bitsPerChannel > MaxBitsPerChannel {
		return fmt.Errorf("%w: bits per channel must be in [%d, %d], got %d",
			util.ErrInvalidParameter, MinBitsPerChannel, MaxBitsPerChannel, bitsPerChannel)
	}
	return nil
}

/*
 * EncodeLSB replaces the low bitsPerChannel bits of every eligible byte with
 * the next group of the framed message, most significant group first.
 * The input buffer is left untouched, a modified copy is returned.
 */
func EncodeLSB( pixels *PixelBuffer, message []byte, bitsPerChannel int, policy AlphaPolicy ) (*PixelBuffer, error) {
	if err := pixels.Validate(); err != nil {
		return nil, err
	}
	if err := checkBitsPerChannel( bitsPerChannel ); err != nil {
		return nil, err
	}
	if err := util.CheckPayloadSize( len(message) ); err != nil {
		return nil, err
	}

	alpha := ResolveAlpha( policy, pixels.Pix )
	eligible := EligibleIndices( pixels.Pix, alpha )

	required := util.RequiredBits( len(message) )
	capacity := eligible.Count() * bitsPerChannel
	if required > capacity {
		return nil, fmt.Errorf("%w: need %d bits, carrier holds %d (lsb, %d bits per channel, alpha %v)",
			util.ErrInsufficientCapacity, required, capacity, bitsPerChannel, alpha)
	}

	out := pixels.Clone()
	bits := util.NewBitReader( util.Frame( message ) )
	width := uint(bitsPerChannel)
	keep := byte( uint16(0xff) << width )

	for bits.Remaining() > 0 {
		idx, ok := eligible.Next()
		if !ok {
			// capacity was checked above
			return nil, fmt.Errorf("%w: carrier exhausted", util.ErrInsufficientCapacity)
		}
		out.Pix[idx] = (out.Pix[idx] & keep) | bits.ReadBits( width )
	}
	return out, nil
}

func DecodeLSB( pixels *PixelBuffer, bitsPerChannel int, policy AlphaPolicy ) ([]byte, error) {
	if err := pixels.Validate(); err != nil {
		return nil, err
	}
	if err := checkBitsPerChannel( bitsPerChannel ); err != nil {
		return nil, err
	}

	alpha := ResolveAlpha( policy, pixels.Pix )
	eligible := EligibleIndices( pixels.Pix, alpha )
	width := uint(bitsPerChannel)
	mask := byte( uint16(1) << width - 1 )

	src := util.NewGroupSource( func() (uint8, uint, bool) {
		idx, ok := eligible.Next()
		if !ok {
			return 0, 0, false
		}
		return pixels.Pix[idx] & mask, width, true
	}, eligible.Count() * bitsPerChannel )

	return util.Unframe( src )
}
