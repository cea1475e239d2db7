package cryptography
import (
	"fmt"
	"strings"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"golang.org/x/crypto/chacha20poly1305"
)

func NormalizeAlgorithm( algorithm string ) (string, error) {
	switch strings.ToLower( strings.TrimSpace( algorithm ) ) {
	case "", ChaCha20Poly1305:
		return ChaCha20Poly1305, nil
	case XChaCha20Poly1305:
		return XChaCha20Poly1305, nil
	case AES256GCM, "aes-gcm", "aes":
		return AES256GCM, nil
	case NoEncryption:
		return NoEncryption, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
}

func newAEAD( algorithm string, key []byte ) (cipher.AEAD, error) {
	switch algorithm {
	case ChaCha20Poly1305:
		return chacha20poly1305.New( key )
	case XChaCha20Poly1305:
		return chacha20poly1305.NewX( key )
	case AES256GCM:
		block, err := aes.NewCipher( key )
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM( block )
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
}

// argon2 over password and salt, then bound to the algorithm
func passwordKey( password, salt []byte, algorithm string ) ([]byte, error) {
	return SubKey( DeriveKey( password, salt ), "pixhide/" + algorithm )
}

/*
 * Encrypt is the preprocessor the payload goes through before it is hidden.
 * Output layout: salt | nonce | sealed data. With "none" the data is returned
 * as a copy, untouched.
 */
func Encrypt( data, password []byte, algorithm string ) ([]byte, error) {
	algorithm, err := NormalizeAlgorithm( algorithm )
	if err != nil {
		return nil, err
	}
	if algorithm == NoEncryption {
		return append( []byte{}, data... ), nil
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: empty password", ErrInvalidKey)
	}

	salt, err := GenRandom( SaltSize )
	if err != nil {
		return nil, err
	}
	key, err := passwordKey( password, salt, algorithm )
	if err != nil {
		return nil, err
	}
	aead, err := newAEAD( algorithm, key )
	if err != nil {
		return nil, err
	}

	nonce := make( []byte, aead.NonceSize() )
	if _, err := rand.Read( nonce ); err != nil {
		return nil, err
	}

	out := make( []byte, 0, SaltSize + len(nonce) + len(data) + aead.Overhead() )
	out = append( out, salt... )
	out = append( out, nonce... )
	return aead.Seal( out, nonce, data, nil ), nil
}

func Decrypt( data, password []byte, algorithm string ) ([]byte, error) {
	algorithm, err := NormalizeAlgorithm( algorithm )
	if err != nil {
		return nil, err
	}
	if algorithm == NoEncryption {
		return append( []byte{}, data... ), nil
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: empty password", ErrInvalidKey)
	}
	if len(data) < SaltSize {
		return nil, ErrShortCiphertext
	}

	salt := data[:SaltSize]
	key, err := passwordKey( password, salt, algorithm )
	if err != nil {
		return nil, err
	}
	aead, err := newAEAD( algorithm, key )
	if err != nil {
		return nil, err
	}

	rest := data[SaltSize:]
	if len(rest) < aead.NonceSize() + aead.Overhead() {
		return nil, ErrShortCiphertext
	}
	nonce := rest[:aead.NonceSize()]
	pt, err := aead.Open( nil, nonce, rest[aead.NonceSize():], nil )
	if err != nil {
		return nil, fmt.Errorf("Failed to decrypt payload: %w; Invalid password?", err)
	}
	return pt, nil
}
