package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
)

// KeyPair couples a private key with its public half.
type KeyPair interface {
	Private() crypto.PrivateKey
	Public() crypto.PublicKey
	// Algorithm is "RSA", "EC" or "Ed25519".
	Algorithm() string
	Equals(other KeyPair) bool
	String() string
}

type keyPair struct {
	priv crypto.Signer
	alg  string
}

// NewKeyPair wraps an existing RSA, ECDSA or Ed25519 private key.
func NewKeyPair(priv crypto.Signer) (KeyPair, error) {
	alg, err := keyAlgorithm(priv)
	if err != nil {
		return nil, err
	}
	return &keyPair{priv: priv, alg: alg}, nil
}

func keyAlgorithm(priv crypto.PrivateKey) (string, error) {
	switch priv.(type) {
	case *rsa.PrivateKey:
		return "RSA", nil
	case *ecdsa.PrivateKey:
		return "EC", nil
	case ed25519.PrivateKey:
		return "Ed25519", nil
	}
	return "", fmt.Errorf("%w: %T", ErrKeyType, priv)
}

// GenerateKeyPair creates a key pair. bits is the RSA modulus size or the
// EC curve size (256 or 384) and is ignored for Ed25519.
func GenerateKeyPair(algorithm string, bits int) (KeyPair, error) {
	switch normalize(algorithm) {
	case "RSA":
		if bits == 0 {
			bits = 2048
		}
		k, err := rsa.GenerateKey(rand.Reader, bits)
		if err != nil {
			return nil, fmt.Errorf("security: generate RSA key: %w", err)
		}
		return &keyPair{priv: k, alg: "RSA"}, nil
	case "EC", "ECDSA":
		var curve elliptic.Curve
		switch bits {
		case 0, 256:
			curve = elliptic.P256()
		case 384:
			curve = elliptic.P384()
		default:
			return nil, unsupported(fmt.Sprintf("EC P-%d", bits))
		}
		k, err := ecdsa.GenerateKey(curve, rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("security: generate EC key: %w", err)
		}
		return &keyPair{priv: k, alg: "EC"}, nil
	case "ED25519":
		_, k, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("security: generate Ed25519 key: %w", err)
		}
		return &keyPair{priv: k, alg: "Ed25519"}, nil
	}
	return nil, unsupported(algorithm)
}

func (k *keyPair) Private() crypto.PrivateKey { return k.priv }
func (k *keyPair) Public() crypto.PublicKey   { return k.priv.Public() }
func (k *keyPair) Algorithm() string          { return k.alg }

func (k *keyPair) String() string {
	switch p := k.priv.(type) {
	case *rsa.PrivateKey:
		return fmt.Sprintf("KeyPair[RSA %d]", p.N.BitLen())
	case *ecdsa.PrivateKey:
		return fmt.Sprintf("KeyPair[EC %s]", p.Curve.Params().Name)
	}
	return "KeyPair[" + k.alg + "]"
}

type equaler interface {
	Equal(crypto.PrivateKey) bool
}

// Equals compares both halves by value.
func (k *keyPair) Equals(other KeyPair) bool {
	if other == nil {
		return false
	}
	if o, ok := other.(*keyPair); ok && o == k {
		return true
	}
	eq, ok := k.priv.(equaler)
	return ok && k.alg == other.Algorithm() && eq.Equal(other.Private())
}
