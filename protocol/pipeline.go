package protocol
import (
	"fmt"
	"errors"

	"pixhide/config"
	"pixhide/cryptography"
)

var (
	ErrMalformedPayload = errors.New("protocol: malformed payload")
)

/*
 * Prepare turns a message into what gets hidden in the pixels:
 * compression flag | (maybe compressed) message, encrypted as a whole.
 * The codecs never see anything else.
 */
func Prepare( data, password []byte, conf *config.CryptoConfig ) ([]byte, error) {
	flag, body := Uncompressed, data
	if conf.Compress {
		var err error
		if flag, body, err = Compress( data ); err != nil {
			return nil, err
		}
	}

	packed := make( []byte, 0, 1 + len(body) )
	packed = append( packed, flag )
	packed = append( packed, body... )
	return cryptography.Encrypt( packed, password, conf.Algorithm )
}

// Restore reverses Prepare. Whether the message was compressed is read from
// the payload itself, so conf.Compress does not matter here.
func Restore( data, password []byte, conf *config.CryptoConfig ) ([]byte, error) {
	packed, err := cryptography.Decrypt( data, password, conf.Algorithm )
	if err != nil {
		return nil, err
	}
	if len(packed) == 0 {
		return nil, fmt.Errorf("%w: no compression flag", ErrMalformedPayload)
	}

	switch packed[0] {
	case Uncompressed:
		return packed[1:], nil
	case Compressed:
		return Decompress( packed[1:] )
	}
	return nil, fmt.Errorf("%w: unknown compression flag %d", ErrMalformedPayload, packed[0])
}
