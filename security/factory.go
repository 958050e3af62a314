package security

// Factory creates the adapters by algorithm name. Lookups ignore case and
// separators; digests also accept dotted OIDs.
type Factory interface {
	CreateDigest(name string) (Digest, error)
	CreateSigner(name string) (Signer, error)
	CreateCipher(name string) (Cipher, error)
	GenerateKeyPair(algorithm string, bits int) (KeyPair, error)
}

type defaultFactory struct{}

// DefaultFactory returns the factory backed by the Go crypto packages and
// golang.org/x/crypto.
func DefaultFactory() Factory { return defaultFactory{} }

func (defaultFactory) CreateDigest(name string) (Digest, error) { return NewDigest(name) }
func (defaultFactory) CreateSigner(name string) (Signer, error) { return NewSigner(name) }
func (defaultFactory) CreateCipher(name string) (Cipher, error) { return NewCipher(name) }

func (defaultFactory) GenerateKeyPair(algorithm string, bits int) (KeyPair, error) {
	return GenerateKeyPair(algorithm, bits)
}
