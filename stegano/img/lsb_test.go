package img
import (
	"bytes"
	"errors"
	"testing"
	"math/rand"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixhide/stegano/util"
)

func randomPixels( width, height int, seed int64, opaque bool ) *PixelBuffer {
	rnd := rand.New( rand.NewSource( seed ) )
	pb := NewPixelBuffer( width, height )
	for i := range pb.Pix {
		pb.Pix[i] = byte( rnd.Intn( 256 ) )
		if opaque && i % 4 == 3 {
			pb.Pix[i] = 0xff
		}
	}
	return pb
}

func testPayloads() [][]byte {
	return [][]byte{
		nil,
		[]byte{},
		[]byte("Hello world!"),
		{ 0x00, 0xff, 0x80, 0x01 },
		bytes.Repeat( []byte("a"), 512 ),
	}
}

func TestLSB( t *testing.T ) {
	images := []*PixelBuffer{
		randomPixels( 64, 64, 1, true ),
		randomPixels( 64, 64, 2, false ),
		NewPixelBuffer( 64, 64 ),	// all zero, transparent
	}
	policies := []AlphaPolicy{ AlphaAuto, AlphaAlways, AlphaNever }

	for _, data := range testPayloads() {
		for _, pixels := range images {
			for bits := MinBitsPerChannel; bits <= MaxBitsPerChannel; bits++ {
				for _, policy := range policies {
					enc, err := EncodeLSB( pixels, data, bits, policy )
					if err != nil {
						t.Errorf("Failed to encode data (%d bits, %v): %v", bits, policy, err)
						continue
					}
					dec, err := DecodeLSB( enc, bits, policy )
					if err != nil {
						t.Errorf("Failed to extract data (%d bits, %v): %v", bits, policy, err)
					} else if bytes.Equal( data, dec ) == false {
						t.Errorf("Steganography spoiled the data (%d bits, %v). %v != %v",
							bits, policy, data, dec)
					}
				}
			}
		}
	}
}

func TestLSBDoesNotMutateInput( t *testing.T ) {
	pixels := randomPixels( 16, 16, 3, false )
	orig := pixels.Clone()

	enc, err := EncodeLSB( pixels, []byte("Hello world!"), 2, AlphaAlways )
	require.NoError( t, err )
	assert.Equal( t, orig.Pix, pixels.Pix )
	assert.NotSame( t, &pixels.Pix[0], &enc.Pix[0] )
}

func TestLSBKeepsHighBits( t *testing.T ) {
	pixels := randomPixels( 16, 16, 4, true )
	for bits := MinBitsPerChannel; bits <= MaxBitsPerChannel; bits++ {
		enc, err := EncodeLSB( pixels, []byte("abc"), bits, AlphaNever )
		require.NoError( t, err )
		keep := byte( uint16(0xff) << uint(bits) )
		for i := range pixels.Pix {
			if i % 4 == 3 {
				assert.Equal( t, pixels.Pix[i], enc.Pix[i], "alpha byte %d touched", i )
				continue
			}
			assert.Equal( t, pixels.Pix[i] & keep, enc.Pix[i] & keep, "high bits of byte %d", i )
		}
	}
}

func TestLSBSingleByteScenario( t *testing.T ) {
	// 2x1 opaque image, 2 bits per channel, alpha excluded
	pixels := &PixelBuffer{
		Width: 2,
		Height: 1,
		Pix: []byte{ 27, 71, 112, 255, 201, 123, 99, 255 },
	}
	assert.Equal( t, []byte{ 0, 0, 0, 1, 0x4b }, util.Frame( []byte("K") ) )

	// 6 eligible bytes hold 12 bits, the framed byte needs 40
	_, err := EncodeLSB( pixels, []byte("K"), 2, AlphaNever )
	assert.True( t, errors.Is( err, util.ErrInsufficientCapacity ), "got %v", err )

	// the same two pixels in front of a carrier large enough
	carrier := NewPixelBuffer( 4, 2 )
	copy( carrier.Pix, pixels.Pix )
	for i := 8; i < len(carrier.Pix); i++ {
		carrier.Pix[i] = 0xff
	}
	enc, err := EncodeLSB( carrier, []byte("K"), 2, AlphaNever )
	require.NoError( t, err )

	// the first twelve framed bits are zero
	assert.Equal( t, []byte{ 24, 68, 112, 255, 200, 120, 96, 255 }, enc.Pix[:8] )

	dec, err := DecodeLSB( enc, 2, AlphaNever )
	require.NoError( t, err )
	assert.Equal( t, []byte{ 0x4b }, dec )
}

func TestLSBCapacityBoundary( t *testing.T ) {
	// 4x4 opaque, alpha excluded: 48 bytes * 2 bits = 96 bits = header + 8 bytes
	pixels := randomPixels( 4, 4, 5, true )

	exact := bytes.Repeat( []byte{ 0xa5 }, 8 )
	enc, err := EncodeLSB( pixels, exact, 2, AlphaNever )
	require.NoError( t, err )
	dec, err := DecodeLSB( enc, 2, AlphaNever )
	require.NoError( t, err )
	assert.Equal( t, exact, dec )

	_, err = EncodeLSB( pixels, append( exact, 0x5a ), 2, AlphaNever )
	assert.True( t, errors.Is( err, util.ErrInsufficientCapacity ), "got %v", err )

	// 2 pixels with alpha, 5 bits each: exactly the 40 bits of a one byte payload
	small := randomPixels( 2, 1, 6, false )
	enc, err = EncodeLSB( small, []byte("K"), 5, AlphaAlways )
	require.NoError( t, err )
	dec, err = DecodeLSB( enc, 5, AlphaAlways )
	require.NoError( t, err )
	assert.Equal( t, []byte("K"), dec )
	_, err = EncodeLSB( small, []byte("KK"), 5, AlphaAlways )
	assert.True( t, errors.Is( err, util.ErrInsufficientCapacity ), "got %v", err )

	// 13 opaque pixels at 1 bit: 39 bits, one short of a one byte payload
	short := randomPixels( 13, 1, 9, true )
	capacity, err := CapacityLSB( short, 1, AlphaNever )
	require.NoError( t, err )
	assert.Equal( t, util.RequiredBits( 1 ) - 1, capacity )
	_, err = EncodeLSB( short, []byte("K"), 1, AlphaNever )
	assert.True( t, errors.Is( err, util.ErrInsufficientCapacity ), "got %v", err )
	enc, err = EncodeLSB( short, []byte{}, 1, AlphaNever )
	require.NoError( t, err )
	dec, err = DecodeLSB( enc, 1, AlphaNever )
	require.NoError( t, err )
	assert.Empty( t, dec )
}

func TestLSBInvalidParameters( t *testing.T ) {
	pixels := randomPixels( 8, 8, 7, true )
	for _, bits := range []int{ -1, 0, 9 } {
		_, err := EncodeLSB( pixels, []byte("x"), bits, AlphaAuto )
		assert.True( t, errors.Is( err, util.ErrInvalidParameter ), "bits %d: %v", bits, err )
		_, err = DecodeLSB( pixels, bits, AlphaAuto )
		assert.True( t, errors.Is( err, util.ErrInvalidParameter ), "bits %d: %v", bits, err )
	}

	broken := &PixelBuffer{ Width: 2, Height: 2, Pix: make( []byte, 15 ) }
	_, err := EncodeLSB( broken, []byte("x"), 1, AlphaAuto )
	assert.True( t, errors.Is( err, util.ErrInvalidParameter ), "got %v", err )

	_, err = EncodeLSB( nil, []byte("x"), 1, AlphaAuto )
	assert.True( t, errors.Is( err, util.ErrInvalidParameter ), "got %v", err )
}

func TestLSBTruncated( t *testing.T ) {
	// fewer than 32 bits in the whole carrier
	tiny := randomPixels( 1, 1, 8, true )
	_, err := DecodeLSB( tiny, 8, AlphaNever )
	assert.True( t, errors.Is( err, util.ErrTruncatedHeader ), "got %v", err )

	// a header which promises more than the carrier holds
	pixels := NewPixelBuffer( 4, 4 )
	enc, err := EncodeLSB( pixels, []byte{}, 8, AlphaAlways )
	require.NoError( t, err )
	enc.Pix[0] = 0x01	// length is now 2^24
	_, err = DecodeLSB( enc, 8, AlphaAlways )
	assert.True( t, errors.Is( err, util.ErrTruncatedPayload ), "got %v", err )
}
