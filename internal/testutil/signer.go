package testutil

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// DefaultTrustedComment is the trusted comment of signatures made by Sign.
const DefaultTrustedComment = "timestamp:1700000000\tfile:source.md\thashed"

// Signer creates minisign signatures with a deterministic key.
type Signer struct {
	priv  ed25519.PrivateKey
	keyID [8]byte
}

// NewSigner derives a key pair from seed. Different seeds give different
// keys and key ids.
func NewSigner(seed byte) *Signer {
	signer := &Signer{priv: keyFromSeed(seed)}
	for i := range signer.keyID {
		signer.keyID[i] = seed + byte(i)
	}
	return signer
}

// WithKey returns a signer sharing s's key id but holding the key derived
// from seed.
func (s *Signer) WithKey(seed byte) *Signer {
	return &Signer{priv: keyFromSeed(seed), keyID: s.keyID}
}

func keyFromSeed(seed byte) ed25519.PrivateKey {
	s := make([]byte, ed25519.SeedSize)
	for i := range s {
		s[i] = seed
	}
	return ed25519.NewKeyFromSeed(s)
}

// PublicKey returns the key in the form used by minisign_key.
func (s *Signer) PublicKey() string {
	bin := append([]byte("Ed"), s.keyID[:]...)
	bin = append(bin, s.priv.Public().(ed25519.PublicKey)...)
	return base64.StdEncoding.EncodeToString(bin)
}

// Sign returns a prehashed .minisig document for data.
func (s *Signer) Sign(data []byte) []byte {
	return s.SignWith(data, true, DefaultTrustedComment)
}

// SignWith returns a .minisig document for data with the given trusted
// comment. Without prehash the signature covers data itself, as minisign
// did before version 0.9.
func (s *Signer) SignWith(data []byte, prehash bool, trusted string) []byte {
	alg, signed := "Ed", data
	if prehash {
		digest := blake2b.Sum512(data)
		alg, signed = "ED", digest[:]
	}
	sig := ed25519.Sign(s.priv, signed)
	global := ed25519.Sign(s.priv, append(append([]byte{}, sig...), trusted...))

	bin := append([]byte(alg), s.keyID[:]...)
	bin = append(bin, sig...)

	return []byte(fmt.Sprintf("untrusted comment: signature from minisign secret key\n%s\ntrusted comment: %s\n%s\n",
		base64.StdEncoding.EncodeToString(bin),
		trusted,
		base64.StdEncoding.EncodeToString(global)))
}
