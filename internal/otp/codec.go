package otp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	codeMin   = 100000
	codeSpan  = 900000
	saltBytes = 16
)

// Codec generates OTP challenges and checks submitted codes against the stored
// digest. The booking service depends on this interface so tests can pin codes.
type Codec interface {
	GenerateCode() (string, error)
	GenerateSalt() (string, error)
	Hash(code, salt string) string
	Match(code, salt, digest string) bool
}

// HMACCodec hashes codes with HMAC-SHA256 keyed by a per-booking salt. It is
// stateless; both values come from crypto/rand.
type HMACCodec struct{}

func NewHMACCodec() *HMACCodec {
	return &HMACCodec{}
}

// GenerateCode returns a 6-digit numeric code in [100000, 999999].
func (c *HMACCodec) GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("generate otp code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}

// GenerateSalt returns 16 random bytes hex-encoded.
func (c *HMACCodec) GenerateSalt() (string, error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate otp salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (c *HMACCodec) Hash(code, salt string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}

// Match recomputes the digest for code under salt and compares in constant time.
func (c *HMACCodec) Match(code, salt, digest string) bool {
	return hmac.Equal([]byte(c.Hash(code, salt)), []byte(digest))
}

var _ Codec = (*HMACCodec)(nil)
