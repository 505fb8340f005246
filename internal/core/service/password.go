package service

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

const passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomPassword returns a cryptographically random alphanumeric password
// of the given length.
func RandomPassword(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("random password: %w", err)
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}

func sha1Hex(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

func sha256Hex(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// StorageDigest computes the stored credential digest: sha256 over the
// sha1 hex digest of the plaintext. This is a stored-constant convention
// carried for compatibility with existing rows, not a hardening scheme;
// there is no per-record salt.
func StorageDigest(plain string) string {
	return sha256Hex(sha1Hex(plain))
}

// LoginDigest hashes the secret as supplied at login. Clients submit the
// sha1 hex digest of the password, so one sha256 pass lines it up with
// StorageDigest output.
func LoginDigest(supplied string) string {
	return sha256Hex(supplied)
}
