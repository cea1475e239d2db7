package img
import (
	"fmt"
	"strings"

	"pixhide/stegano/util"
)

type Method uint8

const (
	MethodLSB = Method(0)
	MethodPVD = Method(1)
)

func ParseMethod( s string ) (Method, error) {
	switch strings.ToLower( strings.TrimSpace( s ) ) {
	case "", "lsb":
		return MethodLSB, nil
	case "pvd":
		return MethodPVD, nil
	}
	return MethodLSB, fmt.Errorf("%w: unknown method %q", util.ErrInvalidParameter, s)
}

func(m Method) String() string {
	switch m {
	case MethodLSB:
		return "lsb"
	case MethodPVD:
		return "pvd"
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

func(m Method) MarshalText() ([]byte, error) {
	return []byte( m.String() ), nil
}

func(m *Method) UnmarshalText( text []byte ) error {
	method, err := ParseMethod( string(text) )
	if err != nil {
		return err
	}
	*m = method
	return nil
}

// everything a codec call needs besides the pixels and the payload
type Options struct {
	Method		Method
	BitsPerChannel	int		// lsb only
	MaxBitsPerPair	int		// pvd only
	Alpha		AlphaPolicy
}

func DefaultOptions() Options {
	return Options{
		Method: MethodLSB,
		BitsPerChannel: 1,
		MaxBitsPerPair: 1,
		Alpha: AlphaAuto,
	}
}

func(o Options) Validate() error {
	switch o.Method {
	case MethodLSB:
		return checkBitsPerChannel( o.BitsPerChannel )
	case MethodPVD:
		return checkBitsPerPair( o.MaxBitsPerPair )
	}
	return fmt.Errorf("%w: unknown method %v", util.ErrInvalidParameter, o.Method)
}

/*
 * ResolveOptions pins an Auto alpha policy to what it resolves to for pixels.
 * Hand the result to the decoder: re-deriving Auto on the encoded image may
 * disagree once alpha bytes have been rewritten.
 */
func ResolveOptions( pixels *PixelBuffer, opts Options ) Options {
	if opts.Alpha == AlphaAuto && pixels != nil {
		opts.Alpha = AlphaFromBool( ResolveAlpha( AlphaAuto, pixels.Pix ) )
	}
	return opts
}

func Encode( pixels *PixelBuffer, message []byte, opts Options ) (*PixelBuffer, error) {
	switch opts.Method {
	case MethodLSB:
		return EncodeLSB( pixels, message, opts.BitsPerChannel, opts.Alpha )
	case MethodPVD:
		return EncodePVD( pixels, message, opts.MaxBitsPerPair, opts.Alpha )
	}
	return nil, fmt.Errorf("%w: unknown method %v", util.ErrInvalidParameter, opts.Method)
}

func Decode( pixels *PixelBuffer, opts Options ) ([]byte, error) {
	switch opts.Method {
	case MethodLSB:
		return DecodeLSB( pixels, opts.BitsPerChannel, opts.Alpha )
	case MethodPVD:
		return DecodePVD( pixels, opts.MaxBitsPerPair, opts.Alpha )
	}
	return nil, fmt.Errorf("%w: unknown method %v", util.ErrInvalidParameter, opts.Method)
}
