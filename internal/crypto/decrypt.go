package crypto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// ErrAuthentication is returned by Unseal for a wrong password and for a
// malformed or tampered envelope alike.
var ErrAuthentication = errors.New("invalid password")

// maxScryptN bounds the cost accepted from an envelope.
const maxScryptN = 1 << 20

// Unseal decrypts a Sealed secret with password.
// The caller owns the returned slice and must clear it after use.
// password must be []byte for security (caller should zero it after use)
func Unseal(sealed Sealed, password []byte) ([]byte, error) {
	env, salt, nonce, ciphertext, ok := parseEnvelope(sealed)
	if !ok {
		// Run the KDF anyway so a corrupt row costs the same as a wrong password.
		_, _ = newGCM(password, make([]byte, saltLen), DefaultScryptN, scryptR, scryptP)
		return nil, ErrAuthentication
	}

	aesGCM, err := newGCM(password, salt, env.N, env.R, env.P)
	if err != nil {
		return nil, ErrAuthentication
	}
	if len(nonce) != aesGCM.NonceSize() {
		return nil, ErrAuthentication
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}

func parseEnvelope(sealed Sealed) (env envelope, salt, nonce, ciphertext []byte, ok bool) {
	if err := json.Unmarshal([]byte(sealed), &env); err != nil {
		return env, nil, nil, nil, false
	}
	if env.Version != envelopeVersion || env.KDF != kdfScrypt {
		return env, nil, nil, nil, false
	}
	if env.N <= 1 || env.N > maxScryptN || env.N&(env.N-1) != 0 || env.R <= 0 || env.P <= 0 {
		return env, nil, nil, nil, false
	}

	var err error
	if salt, err = base64.StdEncoding.DecodeString(env.Salt); err != nil {
		return env, nil, nil, nil, false
	}
	if nonce, err = base64.StdEncoding.DecodeString(env.Nonce); err != nil {
		return env, nil, nil, nil, false
	}
	if ciphertext, err = base64.StdEncoding.DecodeString(env.CipherText); err != nil {
		return env, nil, nil, nil, false
	}
	return env, salt, nonce, ciphertext, true
}
