package img
import (
	"bytes"
	"testing"
	"image/png"

	"github.com/stretchr/testify/require"
)

func pngBytes( t *testing.T, pixels *PixelBuffer ) []byte {
	buf := new(bytes.Buffer)
	require.NoError( t, png.Encode( buf, pixels.Image() ) )
	return buf.Bytes()
}

func TestPNG( t *testing.T ) {
	images := [][]byte{
		pngBytes( t, randomPixels( 64, 48, 31, true ) ),
		pngBytes( t, randomPixels( 64, 48, 32, false ) ),
	}

	tests := [][]byte{
		nil,
		[]byte{},
		[]byte("Hello world!"),
		bytes.Repeat([]byte("a"), 1024),
	}

	modes := []Options{
		DefaultOptions(),
		{ Method: MethodLSB, BitsPerChannel: 2, Alpha: AlphaNever },
		{ Method: MethodLSB, BitsPerChannel: 4, Alpha: AlphaAlways },
		{ Method: MethodPVD, MaxBitsPerPair: 3, Alpha: AlphaAuto },
		{ Method: MethodPVD, MaxBitsPerPair: 7, Alpha: AlphaAlways },
	}

	for _, data := range tests {
		for _, img := range images {
			for _, mode := range modes {
				enc, _, err := Hide( img, data, mode )
				if err != nil {
					t.Errorf("Failed to encode data: %v", err)
				} else {
					dec, err := Reveal( enc, mode )
					if err != nil {
						t.Errorf("Failed to extract data: %v", err)
					} else if bytes.Equal( data, dec ) == false {
						t.Errorf("Steganography spoiled the data. %v != %v",
							data, dec)
					}
				}
			}
		}
	}
}

func TestCarrierFormats( t *testing.T ) {
	pixels := randomPixels( 8, 8, 33, false )
	data := pngBytes( t, pixels )
	if DetectFormat( data ) != PNGFormat {
		t.Fatalf("PNG not detected")
	}

	decoded, format, err := DecodeCarrier( data )
	require.NoError( t, err )
	if format != PNGFormat || bytes.Equal( decoded.Pix, pixels.Pix ) == false {
		t.Errorf("PNG carrier did not survive decoding")
	}

	for _, decoy := range [][]byte{
		[]byte("GIF89a......"),
		{ 0xff, 0xd8, 0xff, 0xe0 },
		[]byte("plain text"),
	} {
		if _, _, err := Hide( decoy, []byte("x"), DefaultOptions() ); err == nil {
			t.Errorf("Expected an error for %v", DetectFormat( decoy ))
		}
		if _, _, err := DecodeCarrier( decoy ); err == nil {
			t.Errorf("Expected an error for %v", DetectFormat( decoy ))
		}
	}
}

func TestHidePinsAlpha( t *testing.T ) {
	opaque := pngBytes( t, randomPixels( 16, 16, 34, true ) )
	_, used, err := Hide( opaque, []byte("x"), DefaultOptions() )
	require.NoError( t, err )
	if used.Alpha != AlphaNever {
		t.Errorf("Expected alpha to be pinned to never, got %v", used.Alpha)
	}

	translucent := pngBytes( t, randomPixels( 16, 16, 35, false ) )
	enc, used, err := Hide( translucent, []byte("x"), DefaultOptions() )
	require.NoError( t, err )
	if used.Alpha != AlphaAlways {
		t.Errorf("Expected alpha to be pinned to always, got %v", used.Alpha)
	}
	dec, err := Reveal( enc, used )
	require.NoError( t, err )
	if string(dec) != "x" {
		t.Errorf("Pinned options failed to reveal the data: %v", dec)
	}
}
