package util
import (
	"os"
	"fmt"
	"bufio"
	"strings"
	"golang.org/x/term"
)

const (
	PasswordVariableName = "PIXHIDE_PASSWORD"
)

// environment first, then the terminal without echo, then a plain line
// from stdin when it is piped.
func GetPasswd( prompt string ) ([]byte, error) {
	if pass, ok := os.LookupEnv( PasswordVariableName ); ok {
		return []byte(pass), nil
	}
	fd := int(os.Stdin.Fd())
	if term.IsTerminal( fd ) {
		fmt.Fprint( os.Stderr, prompt )
		bytepw, err := term.ReadPassword( fd )
		fmt.Fprintln( os.Stderr )
		return bytepw, err
	}
	line, err := bufio.NewReader( os.Stdin ).ReadString( '\n' )
	if err != nil && line == "" {
		return nil, fmt.Errorf("Failed to read password: %w", err)
	}
	return []byte( strings.TrimRight( line, "\r\n" ) ), nil
}
