package security

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"hash"
)

// Signer produces and checks signatures in init/update/final form.
type Signer interface {
	// InitSign prepares for signing with a KeyPair or a private key.
	InitSign(key any) error
	// InitVerify prepares for verification with a KeyPair or a public key.
	InitVerify(key any) error
	// Update feeds message bytes. Before InitSign or InitVerify the bytes
	// are dropped and GenerateSignature or VerifySignature return
	// ErrNotInitialized.
	Update(p []byte)
	GenerateSignature() ([]byte, error)
	VerifySignature(sig []byte) (bool, error)
	AlgorithmName() string
	Equals(other Signer) bool
	String() string
}

type signatureScheme int

const (
	schemePKCS1 signatureScheme = iota
	schemePSS
	schemeECDSA
	schemeEd25519
)

type signerAlgorithm struct {
	name   string
	hash   crypto.Hash
	scheme signatureScheme
}

var signerAlgorithms = []signerAlgorithm{
	{"SHA256withRSA", crypto.SHA256, schemePKCS1},
	{"SHA384withRSA", crypto.SHA384, schemePKCS1},
	{"SHA512withRSA", crypto.SHA512, schemePKCS1},
	{"SHA256withRSAandMGF1", crypto.SHA256, schemePSS},
	{"SHA256withECDSA", crypto.SHA256, schemeECDSA},
	{"SHA384withECDSA", crypto.SHA384, schemeECDSA},
	{"Ed25519", 0, schemeEd25519},
}

// NewSigner creates a signer by name such as SHA256withRSA or Ed25519.
func NewSigner(name string) (Signer, error) {
	key := normalize(name)
	for _, a := range signerAlgorithms {
		if normalize(a.name) == key {
			return &signer{alg: a}, nil
		}
	}
	return nil, unsupported(name)
}

type signer struct {
	alg     signerAlgorithm
	priv    crypto.PrivateKey
	pub     crypto.PublicKey
	signing bool
	h       hash.Hash
	msg     bytes.Buffer // Ed25519 signs the whole message
}

func (s *signer) InitSign(key any) error {
	if kp, ok := key.(KeyPair); ok {
		key = kp.Private()
	}
	if err := s.checkKey(key, true); err != nil {
		return err
	}
	s.priv, s.pub, s.signing = key, nil, true
	s.reset()
	return nil
}

func (s *signer) InitVerify(key any) error {
	if kp, ok := key.(KeyPair); ok {
		key = kp.Public()
	}
	if err := s.checkKey(key, false); err != nil {
		return err
	}
	s.pub, s.priv, s.signing = key, nil, false
	s.reset()
	return nil
}

func (s *signer) checkKey(key any, private bool) error {
	ok := false
	switch s.alg.scheme {
	case schemePKCS1, schemePSS:
		if private {
			_, ok = key.(*rsa.PrivateKey)
		} else {
			_, ok = key.(*rsa.PublicKey)
		}
	case schemeECDSA:
		if private {
			_, ok = key.(*ecdsa.PrivateKey)
		} else {
			_, ok = key.(*ecdsa.PublicKey)
		}
	case schemeEd25519:
		if private {
			_, ok = key.(ed25519.PrivateKey)
		} else {
			_, ok = key.(ed25519.PublicKey)
		}
	}
	if !ok {
		return fmt.Errorf("%w: %T for %s", ErrKeyType, key, s.alg.name)
	}
	return nil
}

func (s *signer) reset() {
	s.msg.Reset()
	if s.alg.hash != 0 {
		s.h = s.alg.hash.New()
	}
}

func (s *signer) initialized() bool { return s.priv != nil || s.pub != nil }

func (s *signer) Update(p []byte) {
	if !s.initialized() {
		return
	}
	if s.alg.scheme == schemeEd25519 {
		s.msg.Write(p)
		return
	}
	s.h.Write(p)
}

func (s *signer) GenerateSignature() ([]byte, error) {
	if !s.initialized() || !s.signing {
		return nil, ErrNotInitialized
	}
	defer s.reset()
	switch s.alg.scheme {
	case schemePKCS1:
		return rsa.SignPKCS1v15(rand.Reader, s.priv.(*rsa.PrivateKey), s.alg.hash, s.h.Sum(nil))
	case schemePSS:
		opts := &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash, Hash: s.alg.hash}
		return rsa.SignPSS(rand.Reader, s.priv.(*rsa.PrivateKey), s.alg.hash, s.h.Sum(nil), opts)
	case schemeECDSA:
		return ecdsa.SignASN1(rand.Reader, s.priv.(*ecdsa.PrivateKey), s.h.Sum(nil))
	default:
		return ed25519.Sign(s.priv.(ed25519.PrivateKey), s.msg.Bytes()), nil
	}
}

func (s *signer) VerifySignature(sig []byte) (bool, error) {
	if !s.initialized() || s.signing {
		return false, ErrNotInitialized
	}
	defer s.reset()
	switch s.alg.scheme {
	case schemePKCS1:
		return rsa.VerifyPKCS1v15(s.pub.(*rsa.PublicKey), s.alg.hash, s.h.Sum(nil), sig) == nil, nil
	case schemePSS:
		opts := &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash, Hash: s.alg.hash}
		return rsa.VerifyPSS(s.pub.(*rsa.PublicKey), s.alg.hash, s.h.Sum(nil), sig, opts) == nil, nil
	case schemeECDSA:
		return ecdsa.VerifyASN1(s.pub.(*ecdsa.PublicKey), s.h.Sum(nil), sig), nil
	default:
		return ed25519.Verify(s.pub.(ed25519.PublicKey), s.msg.Bytes(), sig), nil
	}
}

func (s *signer) AlgorithmName() string { return s.alg.name }
func (s *signer) String() string        { return "Signer[" + s.alg.name + "]" }

// Equals reports whether other is the same signer instance.
func (s *signer) Equals(other Signer) bool {
	o, ok := other.(*signer)
	return ok && o == s
}
