package protocol
import (
	"github.com/klauspost/compress/zstd"
)

const (
	Uncompressed = uint8(0)
	Compressed = uint8(1)

	// decompressed payloads can't get bigger than this
	MaxDecompressedSize = 64 << 20
)

func Compress( data []byte ) (uint8, []byte, error) {
	if data == nil || len(data) == 0 {
		return Uncompressed, data, nil
	}

	compressed, err := compress( data )
	if err != nil {
		return Uncompressed, nil, err
	}
	// check if we are able to decrease the total
	// size of data
	if len(compressed) >= len(data) {
		return Uncompressed, data, nil
	} else {
		return Compressed, compressed, nil
	}
}

func compress( data []byte ) ([]byte, error) {
	enc, err := zstd.NewWriter( nil, zstd.WithEncoderLevel( zstd.SpeedBestCompression ) )
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll( data, nil ), nil
}

func Decompress( data []byte ) ([]byte, error) {
	return decompress( data, MaxDecompressedSize )
}

// limit bounds both the declared and the actual decompressed size
func decompress( data []byte, limit uint64 ) ([]byte, error) {
	if data == nil || len(data) == 0 {
		return data, nil
	}
	dec, err := zstd.NewReader( nil, zstd.WithDecoderMaxMemory( limit ) )
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll( data, nil )
}
