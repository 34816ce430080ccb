package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

const (
	// scrypt parameters for sealed wallet secrets.
	//
	// A key is derived on every payment, so the default is N=2^15 (~32MB).
	// The cost is recorded in each envelope and can be raised without a migration.
	DefaultScryptN = 1 << 15
	scryptR        = 8
	scryptP        = 1
	scryptKeyLen   = 32
	saltLen        = 32
	nonceLen       = 12

	envelopeVersion = 1
	kdfScrypt       = "scrypt"
)

// Params controls the key derivation cost used by Seal.
type Params struct {
	N int
}

// DefaultParams returns the production KDF cost.
func DefaultParams() Params {
	return Params{N: DefaultScryptN}
}

// Sealed is a password-sealed secret. It is an opaque JSON envelope that only
// Unseal can interpret.
type Sealed string

// String redacts the envelope so it never ends up in logs verbatim.
func (s Sealed) String() string {
	return "[sealed]"
}

// MarshalJSON redacts the envelope in JSON output.
func (s Sealed) MarshalJSON() ([]byte, error) {
	return []byte(`"[sealed]"`), nil
}

// envelope is the on-disk structure of a Sealed value.
type envelope struct {
	Version    int    `json:"v"`
	KDF        string `json:"kdf"`
	N          int    `json:"n"`
	R          int    `json:"r"`
	P          int    `json:"p"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// Seal encrypts secret with a key derived from password.
// Empty passwords are accepted; length policy belongs to the caller.
// password must be []byte for security (caller should zero it after use)
func Seal(secret, password []byte, params Params) (Sealed, error) {
	if params.N == 0 {
		params.N = DefaultScryptN
	}

	// Generate salt and nonce
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	aesGCM, err := newGCM(password, salt, params.N, scryptR, scryptP)
	if err != nil {
		return "", err
	}

	ciphertext := aesGCM.Seal(nil, nonce, secret, nil)

	data, err := json.Marshal(envelope{
		Version:    envelopeVersion,
		KDF:        kdfScrypt,
		N:          params.N,
		R:          scryptR,
		P:          scryptP,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(ciphertext),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal sealed envelope: %w", err)
	}

	return Sealed(data), nil
}

// newGCM derives an AES-256 key from password and wraps it in GCM.
func newGCM(password, salt []byte, n, r, p int) (cipher.AEAD, error) {
	key, err := scrypt.Key(password, salt, n, r, p, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
