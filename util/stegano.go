package util
import (
	"os"
	"sort"
	"strings"
	"path/filepath"
)

func PickFileAtRandom( files []string ) (string, []string) {
	if len(files) == 0 {
		return "", files
	}
	idx := RandInt( len(files) )
	file := files[idx]
	files = append( files[:idx], files[idx+1:]... )
	return file, files
}

// decoy files in folder with one of the extensions, sorted by name
func ReadFiles( folder string, supportedExtensions []string ) ([]string, error) {
	allFiles, err := os.ReadDir( folder )
	if err != nil {
		return nil, err
	}
	result := []string{}
	for _, f := range allFiles {
		if f.IsDir() {
			continue
		}
		name := strings.ToLower( f.Name() )
		for _, ext := range supportedExtensions {
			if strings.HasSuffix( name, "." + strings.ToLower( ext ) ) == true {
				result = append( result, filepath.Join( folder, f.Name() ) )
				break
			}
		}
	}
	sort.Strings( result )
	return result, nil
}
