package cryptography
import (
	"fmt"
	"io"
	"errors"
	"strings"
	"crypto/rand"
	"crypto/sha512" // used for hashing data
	"encoding/hex"
	"encoding/base64"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrInvalidKey = errors.New("cryptography: invalid key")
	ErrUnknownAlgorithm = errors.New("cryptography: unknown algorithm")
	ErrShortCiphertext = errors.New("cryptography: ciphertext too short")
)

// chacha20poly1305 encryption+authentication with a raw key.
// Used for the local files: configuration and logs.
func EncryptWithKey( data, key []byte ) ( []byte, error ) {

	if key == nil || len(key) != SymKeySize {
		return nil, ErrInvalidKey
	}
	nonce := make( []byte, NonceSize )
	aead, err := chacha20poly1305.New( key )
	if err != nil {
		return nil, err
	}
	if _, err := rand.Read( nonce ); err != nil {
		return nil, err
	}

	ct := aead.Seal( nil, nonce, data, nil )
	return append( nonce, ct... ), nil
}

func DecryptWithKey( data, key []byte ) ( []byte, error ) {

	if key == nil || len(key) != SymKeySize {
		return nil, ErrInvalidKey
	}
	if len(data) < NonceSize + TagSize {
		return nil, ErrShortCiphertext
	}

	nonce := data[:NonceSize]
	data = data[NonceSize:]
	aead, err := chacha20poly1305.New( key )
	if err != nil {
		return nil, err
	}
	return aead.Open( nil, nonce, data, nil )
}

// generate a random amount of bytes
func GenRandom( size uint ) ([]byte, error) {
	if size == 0 {
		return nil, fmt.Errorf("[cryptography/common.go] GenRandom: Invalid size of random data")
	}
	data := make( []byte, size )
	if _, err := rand.Read( data ); err != nil {
		return nil, err
	}
	return data, nil
}

// calculate the hash of data
func Hash( data []byte ) string {
	if data == nil {
		return ""
	}
	hash := sha512.Sum512( data )
	return hex.EncodeToString( hash[:] )
}

// format: <base64-encoded-salt>:<password>
func SplitWithSalt( password string ) ([]byte, []byte, error) {
	parts := strings.Split( password, ":" )
	if len(parts) < 2 {
		return nil, nil, fmt.Errorf("no salt supplied")
	} else if len(parts) > 2 {
		// consider the first ':' is a delimeter
		parts[1] = strings.Join(parts[1:], ":")
	}
	saltBytes, err := base64.StdEncoding.DecodeString( parts[0] )
	if err != nil {
		return nil, nil, err
	}

	return []byte( parts[1] ), saltBytes, nil
}

// the same password typed on different systems must give the same key
func NormalizePassword( password []byte ) []byte {
	return norm.NFC.Bytes( password )
}

// derive encryption key from password.
func DeriveKey( password, saltBytes []byte ) []byte {
	// the lane count is part of the key, it must not depend on the machine
	return argon2.IDKey( NormalizePassword( password ), saltBytes, KdfTime, KdfMemory, KdfThreads, SymKeySize )
}

// expand a master key into a key bound to purpose
func SubKey( master []byte, purpose string ) ([]byte, error) {
	if len(master) != SymKeySize {
		return nil, ErrInvalidKey
	}
	kdf := hkdf.New( sha512.New, master, nil, []byte( purpose ) )
	key := make( []byte, SymKeySize )
	if _, err := io.ReadFull( kdf, key ); err != nil {
		return nil, err
	}
	return key, nil
}
