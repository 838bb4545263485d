// internal/utils/keygen.go
package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	keyAlphabet       = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	keySegments       = 3
	keySegmentLength  = 5
	keySegmentDivider = "-"
)

// GenerateLicenseKey produces a key of three dash-separated 5-character
// segments, e.g. "A1B2C-3D4E5-F6G7H". Uniqueness is enforced by the store's
// unique index; callers regenerate on conflict.
func GenerateLicenseKey() (string, error) {
	segments := make([]string, 0, keySegments)
	for i := 0; i < keySegments; i++ {
		segment, err := randomSegment(keySegmentLength)
		if err != nil {
			return "", err
		}
		segments = append(segments, segment)
	}
	return strings.Join(segments, keySegmentDivider), nil
}

func randomSegment(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(keyAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = keyAlphabet[n.Int64()]
	}
	return string(b), nil
}
