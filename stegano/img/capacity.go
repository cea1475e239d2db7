package img
import (
	"fmt"

	"pixhide/stegano/util"
)

// how much a carrier holds under given options
type Capacity struct {
	Method		Method
	Alpha		bool		// resolved alpha eligibility
	CapacityBits	int
	RequiredBits	int		// header + payload
	MaxPayload	int		// bytes
	Fits		bool
}

func CapacityLSB( pixels *PixelBuffer, bitsPerChannel int, policy AlphaPolicy ) (int, error) {
	if err := pixels.Validate(); err != nil {
		return 0, err
	}
	if err := checkBitsPerChannel( bitsPerChannel ); err != nil {
		return 0, err
	}
	alpha := ResolveAlpha( policy, pixels.Pix )
	return EligibleCount( len(pixels.Pix), alpha ) * bitsPerChannel, nil
}

func CapacityPVD( pixels *PixelBuffer, maxBitsPerPair int, policy AlphaPolicy ) (int, error) {
	if err := pixels.Validate(); err != nil {
		return 0, err
	}
	if err := checkBitsPerPair( maxBitsPerPair ); err != nil {
		return 0, err
	}
	alpha := ResolveAlpha( policy, pixels.Pix )
	return pvdCapacity( pixels.Pix, alpha, maxBitsPerPair ), nil
}

// largest payload that fits into capacityBits, header included
func MaxPayload( capacityBits int ) int {
	n := capacityBits / 8 - util.HeaderSize
	if n < 0 {
		return 0
	}
	return n
}

/*
 * Plan tells whether payloadLen bytes fit into pixels under opts without
 * touching the pixels. Callers use it to fail fast or to size a carrier.
 */
func Plan( pixels *PixelBuffer, payloadLen int, opts Options ) (Capacity, error) {
	var bits int
	var err error

	switch opts.Method {
	case MethodLSB:
		bits, err = CapacityLSB( pixels, opts.BitsPerChannel, opts.Alpha )
	case MethodPVD:
		bits, err = CapacityPVD( pixels, opts.MaxBitsPerPair, opts.Alpha )
	default:
		err = fmt.Errorf("%w: unknown method %v", util.ErrInvalidParameter, opts.Method)
	}
	if err != nil {
		return Capacity{}, err
	}

	required := util.RequiredBits( payloadLen )
	return Capacity{
		Method: opts.Method,
		Alpha: ResolveAlpha( opts.Alpha, pixels.Pix ),
		CapacityBits: bits,
		RequiredBits: required,
		MaxPayload: MaxPayload( bits ),
		Fits: payloadLen >= 0 && required <= bits,
	}, nil
}
