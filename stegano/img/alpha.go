package img
import (
	"fmt"
	"strings"

	"pixhide/stegano/util"
)

// whether the alpha channel carries payload bits.
type AlphaPolicy uint8

const (
	AlphaAuto = AlphaPolicy(0)	// use alpha only if the image is already translucent
	AlphaAlways = AlphaPolicy(1)
	AlphaNever = AlphaPolicy(2)
)

func ParseAlphaPolicy( s string ) (AlphaPolicy, error) {
	switch strings.ToLower( strings.TrimSpace( s ) ) {
	case "", "auto":
		return AlphaAuto, nil
	case "true", "always", "yes":
		return AlphaAlways, nil
	case "false", "never", "no":
		return AlphaNever, nil
	}
	return AlphaAuto, fmt.Errorf("%w: unknown alpha policy %q", util.ErrInvalidParameter, s)
}

func AlphaFromBool( use bool ) AlphaPolicy {
	if use {
		return AlphaAlways
	}
	return AlphaNever
}

func(a AlphaPolicy) String() string {
	switch a {
	case AlphaAuto:
		return "auto"
	case AlphaAlways:
		return "always"
	case AlphaNever:
		return "never"
	}
	return fmt.Sprintf("AlphaPolicy(%d)", uint8(a))
}

// so that yaml and the command line see "auto" and not a number
func(a AlphaPolicy) MarshalText() ([]byte, error) {
	return []byte( a.String() ), nil
}

func(a *AlphaPolicy) UnmarshalText( text []byte ) error {
	policy, err := ParseAlphaPolicy( string(text) )
	if err != nil {
		return err
	}
	*a = policy
	return nil
}

/*
 * ResolveAlpha decides once per call whether alpha bytes are eligible.
 * Auto picks alpha only if some pixel is already less than fully opaque.
 */
func ResolveAlpha( policy AlphaPolicy, pix []byte ) bool {
	switch policy {
	case AlphaAlways:
		return true
	case AlphaNever:
		return false
	}
	for i := 3; i < len(pix); i += 4 {
		if pix[i] < 0xff {
			return true
		}
	}
	return false
}
