package util
import (
	"fmt"
	"math"
	"encoding/binary"
)

const (
	HeaderSize = 4			// uint32 big-endian payload length
	HeaderBits = HeaderSize * 8
	MaxPayloadSize = math.MaxUint32
)

/*
 * framing of the data we hide: the length of the payload in front of it,
 * so the decoder knows where to stop. This framed stream is the only thing
 * which ever gets written into the carrier.
 */
func Frame( payload []byte ) []byte {
	framed := make( []byte, HeaderSize + len(payload) )
	binary.BigEndian.PutUint32( framed, uint32(len(payload)) )
	copy( framed[HeaderSize:], payload )
	return framed
}

// amount of carrier bits required to hide payloadLen bytes
func RequiredBits( payloadLen int ) int {
	return (HeaderSize + payloadLen) * 8
}

func CheckPayloadSize( payloadLen int ) error {
	if uint64(payloadLen) > MaxPayloadSize {
		return fmt.Errorf("%w: payload of %d bytes does not fit the length header",
			ErrInvalidParameter, payloadLen)
	}
	return nil
}

// consumes exactly 32 bits, MSB first.
func ReadHeader( src BitSource ) (uint32, error) {
	var length uint32
	for i := 0; i < HeaderBits; i++ {
		bit, ok := src.NextBit()
		if !ok {
			return 0, fmt.Errorf("%w: got %d of %d bits", ErrTruncatedHeader, i, HeaderBits)
		}
		length = length << 1 | uint32(bit)
	}
	return length, nil
}

type unframeState uint8

const (
	readingHeader = unframeState(0)
	readingPayload = unframeState(1)
	unframed = unframeState(2)
)

/*
 * Unframe drains the header and then exactly the declared amount of bytes
 * from src. Either the whole payload is returned or an error, never a part.
 */
func Unframe( src BitSource ) ([]byte, error) {
	var payload []byte
	state := readingHeader

	for state != unframed {
		switch state {
		case readingHeader:
			length, err := ReadHeader( src )
			if err != nil {
				return nil, err
			}
			// refuse to allocate what the carrier can't possibly hold
			if uint64(length) * 8 > uint64(src.Remaining()) {
				return nil, fmt.Errorf("%w: header declares %d bytes, carrier has %d bits left",
					ErrTruncatedPayload, length, src.Remaining())
			}
			payload = make( []byte, length )
			state = readingPayload

		case readingPayload:
			for i := range payload {
				b, ok := readByte( src )
				if !ok {
					return nil, fmt.Errorf("%w: got %d of %d bytes",
						ErrTruncatedPayload, i, len(payload))
				}
				payload[i] = b
			}
			state = unframed
		}
	}
	return payload, nil
}

func readByte( src BitSource ) (byte, bool) {
	var b byte
	for i := 0; i < 8; i++ {
		bit, ok := src.NextBit()
		if !ok {
			return 0, false
		}
		b = b << 1 | bit
	}
	return b, true
}
