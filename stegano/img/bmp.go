package img
import (
	"bytes"
	"golang.org/x/image/bmp"
)

// basically, the same as with png, just another package imported.
func decodeBMP( data []byte ) (*PixelBuffer, error) {
	img, err := bmp.Decode( bytes.NewReader( data ) )
	if err != nil {
		return nil, err
	}
	return FromImage( img ), nil
}

func encodeBMP( pixels *PixelBuffer ) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bmp.Encode( buf, pixels.Image() ); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
