package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint derives a device fingerprint from the request IP and user
// agent. It is keyed with a salt so raw addresses never reach the database.
// Advisory only: used for later anomaly review, not as a security boundary.
func Fingerprint(ip, userAgent, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	h.Write([]byte{0})
	h.Write([]byte(userAgent))
	sum := h.Sum(nil)
	// First 16 hex chars are plenty for grouping sessions by device.
	return hex.EncodeToString(sum[:8])
}
