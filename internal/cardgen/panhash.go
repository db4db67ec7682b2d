package cardgen

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint computes a hex HMAC-SHA256 over a normalized sequence using a
// secret key. Use it to index sequences without storing a second plain copy.
func Fingerprint(pan string, key []byte) string {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(NormalizePAN(pan)))
	return hex.EncodeToString(h.Sum(nil))
}
