package security

import (
	"bytes"
	"crypto"
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/digitorus/pkcs7"
	"github.com/digitorus/timestamp"
	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// ErrNoSigner is returned when a container carries no SignerInfo.
var ErrNoSigner = errors.New("security: container has no signer")

// SignDetached builds a detached CMS SignedData over data. digest names the
// message digest (SHA-256 when empty).
func SignDetached(data []byte, cert *x509.Certificate, key crypto.PrivateKey, chain []*x509.Certificate, digest string) ([]byte, error) {
	if cert == nil {
		return nil, errors.New("security: signer certificate is required")
	}
	if digest == "" {
		digest = "SHA-256"
	}
	oid, err := DigestOID(digest)
	if err != nil {
		return nil, err
	}
	if kp, ok := key.(KeyPair); ok {
		key = kp.Private()
	}
	sd, err := pkcs7.NewSignedData(data)
	if err != nil {
		return nil, fmt.Errorf("security: new signed data: %w", err)
	}
	sd.SetDigestAlgorithm(oid)
	if err := sd.AddSignerChain(cert, key, chain, pkcs7.SignerInfoConfig{}); err != nil {
		return nil, fmt.Errorf("security: add signer chain: %w", err)
	}
	sd.Detach()
	return sd.Finish()
}

// Container is a parsed CMS SignedData.
type Container struct {
	SignerCount     int
	Certificates    []*x509.Certificate
	DigestAlgorithm string
	Detached        bool

	p7 *pkcs7.PKCS7
}

// ParseContainer parses DER encoded CMS SignedData, as found in a
// signature dictionary's Contents. Trailing zero padding is tolerated.
func ParseContainer(der []byte) (*Container, error) {
	p7, err := pkcs7.Parse(trimZeroPadding(der))
	if err != nil {
		return nil, fmt.Errorf("security: parse CMS: %w", err)
	}
	c := &Container{
		SignerCount:  len(p7.Signers),
		Certificates: p7.Certificates,
		Detached:     len(p7.Content) == 0,
		p7:           p7,
	}
	if len(p7.Signers) > 0 {
		oid := p7.Signers[0].DigestAlgorithm.Algorithm
		if name, ok := DigestName(oid); ok {
			c.DigestAlgorithm = name
		} else {
			c.DigestAlgorithm = oid.String()
		}
	}
	return c, nil
}

// SignerCertificate returns the certificate matching the first SignerInfo.
func (c *Container) SignerCertificate() (*x509.Certificate, error) {
	if len(c.p7.Signers) == 0 {
		return nil, ErrNoSigner
	}
	ias := c.p7.Signers[0].IssuerAndSerialNumber
	for _, cert := range c.Certificates {
		if cert.SerialNumber.Cmp(ias.SerialNumber) == 0 && bytes.Equal(cert.RawIssuer, ias.IssuerName.FullBytes) {
			return cert, nil
		}
	}
	return nil, errors.New("security: signer certificate not embedded")
}

// Verify checks the signature over content (for detached containers) or
// over the encapsulated content.
func (c *Container) Verify(content []byte) error {
	if content != nil {
		c.p7.Content = content
	}
	return c.p7.Verify()
}

// CreateTimestampRequest builds an RFC 3161 request for data.
func CreateTimestampRequest(data []byte, h crypto.Hash) ([]byte, error) {
	if h == 0 {
		h = crypto.SHA256
	}
	req, err := timestamp.CreateRequest(bytes.NewReader(data), &timestamp.RequestOptions{
		Hash:         h,
		Certificates: true,
	})
	if err != nil {
		return nil, fmt.Errorf("security: create timestamp request: %w", err)
	}
	return req, nil
}

// ParseTimestampToken parses an RFC 3161 TimeStampToken.
func ParseTimestampToken(der []byte) (*timestamp.Timestamp, error) {
	ts, err := timestamp.Parse(trimZeroPadding(der))
	if err != nil {
		return nil, fmt.Errorf("security: parse timestamp token: %w", err)
	}
	return ts, nil
}

// trimZeroPadding cuts the zero bytes a PDF writer leaves after the DER
// object in a reserved Contents string. Input that does not start with a
// definite-length element is returned as is.
func trimZeroPadding(der []byte) []byte {
	var (
		elem cryptobyte.String
		tag  cryptobyte_asn1.Tag
	)
	in := cryptobyte.String(der)
	if !in.ReadAnyASN1Element(&elem, &tag) {
		return der
	}
	return der[:len(elem)]
}
