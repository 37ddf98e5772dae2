package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrPassphraseRequired = errors.New("passphrase is required")
	ErrSealedDataInvalid  = errors.New("sealed data is invalid or the passphrase is wrong")
)

// Ensure Sealer satisfies the store's expectations at compile time.
var _ interface {
	Seal([]byte) ([]byte, error)
	Open([]byte) ([]byte, error)
} = (*Sealer)(nil)

// Sealer encrypts small records (the session file) with a key derived from
// a passphrase.
//
// Layout of a sealed record: salt | nonce | ciphertext. A fresh salt and
// nonce are generated per Seal, so sealing the same plaintext twice yields
// different bytes.
type Sealer struct {
	passphrase []byte

	// Argon2id cost parameters.
	// @ref https://cheatsheetseries.owasp.org/cheatsheets/Password_Storage_Cheat_Sheet.html
	Memory      uint32 // Memory cost in KiB
	Iterations  uint32 // Number of iterations (time cost)
	Parallelism uint8  // Number of parallel threads
	SaltLength  uint32 // Length of random salt
}

// NewSealer creates a Sealer with OWASP-recommended argon2id parameters.
func NewSealer(passphrase string) (*Sealer, error) {
	if passphrase == "" {
		return nil, ErrPassphraseRequired
	}
	return &Sealer{
		passphrase:  []byte(passphrase),
		Memory:      64 * 1024, // 64 MB
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
	}, nil
}

func (s *Sealer) key(salt []byte) []byte {
	return argon2.IDKey(
		s.passphrase,
		salt,
		s.Iterations,
		s.Memory,
		s.Parallelism,
		chacha20poly1305.KeySize,
	)
}

// Seal encrypts plain and returns the self-contained sealed record.
func (s *Sealer) Seal(plain []byte) ([]byte, error) {
	salt := make([]byte, s.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	aead, err := chacha20poly1305.NewX(s.key(salt))
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, len(salt)+len(nonce)+len(plain)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plain, nil), nil
}

// Open decrypts a record produced by Seal. A truncated record or a wrong
// passphrase both surface as ErrSealedDataInvalid.
func (s *Sealer) Open(box []byte) ([]byte, error) {
	if uint32(len(box)) < s.SaltLength+chacha20poly1305.NonceSizeX {
		return nil, ErrSealedDataInvalid
	}

	salt := box[:s.SaltLength]
	nonce := box[s.SaltLength : s.SaltLength+chacha20poly1305.NonceSizeX]
	ciphertext := box[s.SaltLength+chacha20poly1305.NonceSizeX:]

	aead, err := chacha20poly1305.NewX(s.key(salt))
	if err != nil {
		return nil, err
	}

	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrSealedDataInvalid
	}
	return plain, nil
}
