package crypto

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// ErrKeyClosed is returned when a Key is used after Close.
var ErrKeyClosed = errors.New("key is closed")

// GenerateKeypair creates a new random Solana keypair. It returns an error
// instead of panicking when the random source fails.
func GenerateKeypair() (solana.PrivateKey, error) {
	priv, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate keypair: %w", err)
	}
	return priv, nil
}

// Vault pairs a wallet's public key with its sealed secret. It is the only way
// to reach the secret: the sealed bytes are not exported.
type Vault struct {
	publicKey solana.PublicKey
	sealed    Sealed
}

// NewVault builds a Vault from persisted values.
func NewVault(publicKey solana.PublicKey, sealed Sealed) *Vault {
	return &Vault{publicKey: publicKey, sealed: sealed}
}

// PublicKey returns the wallet address the vault belongs to.
func (v *Vault) PublicKey() solana.PublicKey {
	return v.publicKey
}

// Open unseals the secret with password and returns a Key that can sign.
// The caller must Close the key.
func (v *Vault) Open(password []byte) (*Key, error) {
	plaintext, err := Unseal(v.sealed, password)
	if err != nil {
		return nil, err
	}

	if len(plaintext) != ed25519.PrivateKeySize {
		clear(plaintext)
		return nil, ErrAuthentication
	}

	priv := solana.PrivateKey(plaintext)
	if !priv.PublicKey().Equals(v.publicKey) {
		clear(plaintext)
		return nil, fmt.Errorf("sealed secret does not match wallet address")
	}

	return &Key{priv: priv}, nil
}

// Key is an unsealed signing key. It never exposes the raw secret.
type Key struct {
	mu   sync.Mutex
	priv solana.PrivateKey
}

// PublicKey returns the key's address.
func (k *Key) PublicKey() solana.PublicKey {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.priv == nil {
		return solana.PublicKey{}
	}
	return k.priv.PublicKey()
}

// SignTransaction adds the key's signature to tx.
func (k *Key) SignTransaction(tx *solana.Transaction) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.priv == nil {
		return ErrKeyClosed
	}

	pub := k.priv.PublicKey()
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if pub.Equals(key) {
			return &k.priv
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	return nil
}

// Close wipes the secret. It is safe to call more than once.
func (k *Key) Close() {
	k.mu.Lock()
	defer k.mu.Unlock()
	clear(k.priv)
	k.priv = nil
}
