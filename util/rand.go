package util
import (
	"math/big"
	"strconv"
	"sync/atomic"
	"encoding/base64"
	"crypto/rand"
	"pixhide/cryptography"
)

const (
	IDLength = 18
)

var (
	lastIDFailed atomic.Uint64
)

func RandInt( max int ) int {
	if max <= 0 {
		return 0
	}
	limit := big.NewInt( int64(max) )
	integer, err := rand.Int( rand.Reader, limit )
	if err != nil {
		return 0
	}
	return int(integer.Int64())
}

// random identifier, used as a correlation id for queued requests
func GenID() string {
	buffer, err := cryptography.GenRandom( uint(IDLength) )
	if err != nil {
		return "gen-id-failed-" + strconv.FormatUint( lastIDFailed.Add( 1 ), 10 )
	}
	return base64.RawURLEncoding.EncodeToString( buffer )
}
