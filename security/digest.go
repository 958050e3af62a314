package security

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/asn1"
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

// Digest is a message digest in update/doFinal form.
type Digest interface {
	Update(p []byte)
	UpdateByte(b byte)
	// DoFinal returns the digest and resets the state.
	DoFinal() []byte
	// DoFinalWith updates with input, then behaves like DoFinal.
	DoFinalWith(input []byte) []byte
	Reset()
	AlgorithmName() string
	DigestLength() int
	Equals(other Digest) bool
	String() string
	// Unwrap returns the underlying hash.
	Unwrap() hash.Hash
}

type digestAlgorithm struct {
	name string
	oid  asn1.ObjectIdentifier
	new  func() hash.Hash
}

var digestAlgorithms = []digestAlgorithm{
	{"MD5", asn1.ObjectIdentifier{1, 2, 840, 113549, 2, 5}, md5.New},
	{"SHA-1", asn1.ObjectIdentifier{1, 3, 14, 3, 2, 26}, sha1.New},
	{"SHA-224", asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 4}, sha256.New224},
	{"SHA-256", asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 1}, sha256.New},
	{"SHA-384", asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 2}, sha512.New384},
	{"SHA-512", asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 3}, sha512.New},
	{"SHA3-256", asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 8}, func() hash.Hash { return sha3.New256() }},
	{"SHA3-384", asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 9}, func() hash.Hash { return sha3.New384() }},
	{"SHA3-512", asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 10}, func() hash.Hash { return sha3.New512() }},
	{"RIPEMD-160", asn1.ObjectIdentifier{1, 3, 36, 3, 2, 1}, ripemd160.New},
	{"BLAKE2b-256", asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 1722, 12, 2, 1, 8}, newBlake2b256},
	{"BLAKE2b-512", asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 1722, 12, 2, 1, 16}, newBlake2b512},
}

func newBlake2b256() hash.Hash {
	h, _ := blake2b.New256(nil) // only fails for keys longer than 64 bytes
	return h
}

func newBlake2b512() hash.Hash {
	h, _ := blake2b.New512(nil)
	return h
}

func lookupDigest(name string) (digestAlgorithm, bool) {
	key := normalize(name)
	for _, a := range digestAlgorithms {
		if normalize(a.name) == key || a.oid.String() == name {
			return a, true
		}
	}
	return digestAlgorithm{}, false
}

// DigestOID returns the object identifier of a digest algorithm.
func DigestOID(name string) (asn1.ObjectIdentifier, error) {
	a, ok := lookupDigest(name)
	if !ok {
		return nil, unsupported(name)
	}
	return a.oid, nil
}

// DigestName maps an object identifier back to the algorithm name.
func DigestName(oid asn1.ObjectIdentifier) (string, bool) {
	for _, a := range digestAlgorithms {
		if a.oid.Equal(oid) {
			return a.name, true
		}
	}
	return "", false
}

// NewDigest creates a digest by name or dotted OID.
func NewDigest(name string) (Digest, error) {
	a, ok := lookupDigest(name)
	if !ok {
		return nil, unsupported(name)
	}
	return WrapDigest(a.name, a.new()), nil
}

// WrapDigest adapts an existing hash under the given algorithm name.
func WrapDigest(name string, h hash.Hash) Digest {
	return &digest{name: name, h: h}
}

type digest struct {
	name string
	h    hash.Hash
}

func (d *digest) Update(p []byte)   { d.h.Write(p) }
func (d *digest) UpdateByte(b byte) { d.h.Write([]byte{b}) }
func (d *digest) Reset()            { d.h.Reset() }

func (d *digest) DoFinal() []byte {
	sum := d.h.Sum(nil)
	d.h.Reset()
	return sum
}

func (d *digest) DoFinalWith(input []byte) []byte {
	d.h.Write(input)
	return d.DoFinal()
}

func (d *digest) AlgorithmName() string { return d.name }
func (d *digest) DigestLength() int     { return d.h.Size() }
func (d *digest) Unwrap() hash.Hash     { return d.h }
func (d *digest) String() string        { return "Digest[" + d.name + "]" }

// Equals reports whether other wraps the same hash instance.
func (d *digest) Equals(other Digest) bool {
	o, ok := other.(*digest)
	if !ok || o == nil {
		return false
	}
	return d == o || d.h == o.h
}
