// Package security adapts Go's crypto packages to a connector vocabulary of
// digests, signers, ciphers and key pairs, and builds and parses the CMS
// containers used by PDF signatures.
package security

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedAlgorithm is returned for algorithm names the factory
	// does not know.
	ErrUnsupportedAlgorithm = errors.New("security: unsupported algorithm")
	// ErrNotInitialized is returned when a signer or cipher is used before Init.
	ErrNotInitialized = errors.New("security: not initialized")
	// ErrKeyType is returned when a key does not fit the algorithm.
	ErrKeyType = errors.New("security: key type does not match algorithm")
)

func unsupported(name string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, name)
}

// normalize folds case and drops separators so "sha-256", "SHA256" and
// "Sha_256" resolve to the same entry.
func normalize(name string) string {
	r := strings.NewReplacer("-", "", "_", "", " ", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(name)))
}
