package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rc4"
	"errors"
	"fmt"
)

var (
	// ErrBadPadding is returned when PKCS#7 padding does not verify.
	ErrBadPadding = errors.New("security: invalid padding")
	// ErrNotBlockAligned is returned by unpadded modes on partial blocks.
	ErrNotBlockAligned = errors.New("security: input not a multiple of the block size")
)

// Cipher encrypts or decrypts in init/update/final form.
type Cipher interface {
	// Init keys the cipher. iv is ignored by ECB and RC4.
	Init(forEncryption bool, key, iv []byte) error
	// Update processes input and returns the output available so far.
	// Before Init it discards in and returns nil; the missing key surfaces
	// as ErrNotInitialized from DoFinal.
	Update(in []byte) []byte
	// DoFinal flushes buffered input, applying or removing padding, and
	// resets the cipher to its initialised state.
	DoFinal() ([]byte, error)
	BlockSize() int
	AlgorithmName() string
	Equals(other Cipher) bool
	String() string
}

const (
	cipherAESCBCPKCS7 = "AES/CBC/PKCS7Padding"
	cipherAESCBC      = "AES/CBC/NoPadding"
	cipherAESECB      = "AES/ECB/NoPadding"
	cipherRC4         = "RC4"
)

var cipherNames = []string{cipherAESCBCPKCS7, cipherAESCBC, cipherAESECB, cipherRC4}

// NewCipher creates a cipher by transformation name.
func NewCipher(name string) (Cipher, error) {
	key := normalize(name)
	if key == normalize("AES/CBC/PKCS5Padding") {
		key = normalize(cipherAESCBCPKCS7)
	}
	for _, n := range cipherNames {
		if normalize(n) != key {
			continue
		}
		if n == cipherRC4 {
			return &streamCipher{}, nil
		}
		return &blockCipher{name: n}, nil
	}
	return nil, unsupported(name)
}

type blockCipher struct {
	name    string
	encrypt bool
	key, iv []byte
	mode    cipher.BlockMode
	buf     []byte
}

func (c *blockCipher) padded() bool { return c.name == cipherAESCBCPKCS7 }

func (c *blockCipher) Init(forEncryption bool, key, iv []byte) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("security: %s: %w", c.name, err)
	}
	if c.name != cipherAESECB && len(iv) != block.BlockSize() {
		return fmt.Errorf("security: %s: IV must be %d bytes", c.name, block.BlockSize())
	}
	c.encrypt = forEncryption
	c.key = append([]byte(nil), key...)
	c.iv = append([]byte(nil), iv...)
	c.buf = nil
	switch {
	case c.name == cipherAESECB:
		c.mode = &ecbMode{b: block, encrypt: forEncryption}
	case forEncryption:
		c.mode = cipher.NewCBCEncrypter(block, c.iv)
	default:
		c.mode = cipher.NewCBCDecrypter(block, c.iv)
	}
	return nil
}

func (c *blockCipher) BlockSize() int { return aes.BlockSize }

func (c *blockCipher) Update(in []byte) []byte {
	if c.mode == nil {
		return nil
	}
	c.buf = append(c.buf, in...)
	n := len(c.buf) / aes.BlockSize * aes.BlockSize
	// Hold back the last block when decrypting so DoFinal can strip padding.
	if !c.encrypt && c.padded() && n == len(c.buf) {
		n -= aes.BlockSize
	}
	if n <= 0 {
		return nil
	}
	out := make([]byte, n)
	c.mode.CryptBlocks(out, c.buf[:n])
	c.buf = append([]byte(nil), c.buf[n:]...)
	return out
}

func (c *blockCipher) DoFinal() ([]byte, error) {
	if c.mode == nil {
		return nil, ErrNotInitialized
	}
	defer func() { _ = c.Init(c.encrypt, c.key, c.iv) }()
	in := c.buf
	if c.encrypt && c.padded() {
		pad := aes.BlockSize - len(in)%aes.BlockSize
		for i := 0; i < pad; i++ {
			in = append(in, byte(pad))
		}
	}
	if len(in)%aes.BlockSize != 0 {
		return nil, ErrNotBlockAligned
	}
	out := make([]byte, len(in))
	c.mode.CryptBlocks(out, in)
	if !c.encrypt && c.padded() {
		return unpad(out)
	}
	return out, nil
}

func unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, ErrBadPadding
	}
	pad := int(b[len(b)-1])
	if pad == 0 || pad > aes.BlockSize || pad > len(b) {
		return nil, ErrBadPadding
	}
	for _, v := range b[len(b)-pad:] {
		if int(v) != pad {
			return nil, ErrBadPadding
		}
	}
	return b[:len(b)-pad], nil
}

func (c *blockCipher) AlgorithmName() string { return c.name }
func (c *blockCipher) String() string        { return "Cipher[" + c.name + "]" }

func (c *blockCipher) Equals(other Cipher) bool {
	o, ok := other.(*blockCipher)
	return ok && o == c
}

// ecbMode encrypts each block independently.
type ecbMode struct {
	b       cipher.Block
	encrypt bool
}

func (m *ecbMode) BlockSize() int { return m.b.BlockSize() }

func (m *ecbMode) CryptBlocks(dst, src []byte) {
	bs := m.b.BlockSize()
	for i := 0; i+bs <= len(src); i += bs {
		if m.encrypt {
			m.b.Encrypt(dst[i:i+bs], src[i:i+bs])
		} else {
			m.b.Decrypt(dst[i:i+bs], src[i:i+bs])
		}
	}
}

type streamCipher struct {
	key []byte
	c   *rc4.Cipher
}

func (s *streamCipher) Init(_ bool, key, _ []byte) error {
	c, err := rc4.NewCipher(key)
	if err != nil {
		return fmt.Errorf("security: RC4: %w", err)
	}
	s.key = append([]byte(nil), key...)
	s.c = c
	return nil
}

func (s *streamCipher) Update(in []byte) []byte {
	if s.c == nil {
		return nil
	}
	out := make([]byte, len(in))
	s.c.XORKeyStream(out, in)
	return out
}

func (s *streamCipher) DoFinal() ([]byte, error) {
	if s.c == nil {
		return nil, ErrNotInitialized
	}
	return nil, s.Init(true, s.key, nil)
}

func (s *streamCipher) BlockSize() int        { return 0 }
func (s *streamCipher) AlgorithmName() string { return cipherRC4 }
func (s *streamCipher) String() string        { return "Cipher[RC4]" }

func (s *streamCipher) Equals(other Cipher) bool {
	o, ok := other.(*streamCipher)
	return ok && o == s
}
