package cryptography
import (
	"crypto/sha512"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	SymKeySize = 32
	SaltSize = 16
	TagSize = 16
	NonceSize = chacha20poly1305.NonceSize
	HashSize = sha512.Size

	// argon2id parameters, the draft RFC recommends time=3 and 32 MB of memory
	KdfTime = 3
	KdfMemory = 32 * 1024
	KdfThreads = 4

	// algorithms understood by Encrypt/Decrypt
	ChaCha20Poly1305 = "chacha20poly1305"
	XChaCha20Poly1305 = "xchacha20poly1305"
	AES256GCM = "aes-256-gcm"
	NoEncryption = "none"

	DefaultAlgorithm = ChaCha20Poly1305
)
