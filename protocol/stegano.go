package protocol
import (
	"os"
	"fmt"
	"errors"
	"context"
	"strings"
	"path/filepath"

	"pixhide/util"
	"pixhide/stegano/img"
	stegutil "pixhide/stegano/util"
)

const (
	ImageFile = int8(1)
	UnknownFile = int8(-1)
)

var (
	ErrNoDecoys = errors.New("protocol: no usable decoy files")
)

/*
 * Carrier runs the image codecs on whole image files. The worker pool
 * implements it; Direct runs everything in the calling goroutine.
 */
type Carrier interface {
	Hide( ctx context.Context, decoy, data []byte, opts img.Options ) ([]byte, img.Options, error)
	Reveal( ctx context.Context, decoy []byte, opts img.Options ) ([]byte, error)
}

type Direct struct{}

func(Direct) Hide( ctx context.Context, decoy, data []byte, opts img.Options ) ([]byte, img.Options, error) {
	return img.Hide( decoy, data, opts )
}

func(Direct) Reveal( ctx context.Context, decoy []byte, opts img.Options ) ([]byte, error) {
	return img.Reveal( decoy, opts )
}

// only lossless formats we can write back survive as carriers
func DetermineFileType( ext string ) int8 {
	switch strings.ToLower( strings.TrimPrefix( ext, "." ) ) {
	case "png", "bmp":
		return ImageFile
	}
	return UnknownFile
}

func SupportedExtensions( extensions []string ) []string {
	res := []string{}
	for _, ext := range extensions {
		if DetermineFileType( ext ) == ImageFile {
			res = append( res, ext )
		}
	}
	return res
}

/*
 * HideInFile picks random decoys from folder until one of them holds data.
 * Returns the decoy's name, the new file and the options which must be used
 * to reveal the data.
 */
func HideInFile(
	ctx context.Context,
	c Carrier,
	folder string,
	extensions []string,
	data []byte,
	opts img.Options ) (string, []byte, img.Options, error) {

	files, err := util.ReadFiles( folder, SupportedExtensions( extensions ) )
	if err != nil {
		return "", nil, opts, err
	}
	if len(files) == 0 {
		return "", nil, opts, fmt.Errorf("%w in %s", ErrNoDecoys, folder)
	}

	for len(files) > 0 {
		var file string
		file, files = util.PickFileAtRandom( files )
		fileBytes, err := os.ReadFile( file )
		if err != nil {
			return "", nil, opts, err
		}

		res, used, err := c.Hide( ctx, fileBytes, data, opts )
		if errors.Is( err, stegutil.ErrInsufficientCapacity ) {
			util.DebugPrintln( "[-] Decoy is too small:", file )
			continue
		}
		if errors.Is( err, img.ErrAlphaDropped ) {
			util.DebugPrintln( "[-] Decoy can't keep alpha:", file )
			continue
		}
		if err != nil {
			return file, nil, used, err
		}
		return file, res, used, nil
	}
	return "", nil, opts, fmt.Errorf("%w: no decoy in %s can hold %d bytes (%v, alpha %v)",
		ErrNoDecoys, folder, len(data), opts.Method, opts.Alpha)
}

func RevealFromFile(
	ctx context.Context,
	c Carrier,
	filename string,
	data []byte,
	opts img.Options ) ([]byte, error) {

	if DetermineFileType( filepath.Ext( filename ) ) != ImageFile {
		return nil, fmt.Errorf("Unknown file format: %s", filename)
	}
	return c.Reveal( ctx, data, opts )
}
