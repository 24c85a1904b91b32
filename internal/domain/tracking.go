package domain

import "crypto/rand"

// TrackingIDLength is the fixed length of complaint tracking identifiers.
const TrackingIDLength = 8

const trackingAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateTrackingID returns a fresh 8-character identifier drawn uniformly
// from A-Z0-9. The generator is stateless: uniqueness against the ledger is
// not guaranteed here, callers accept the (vanishingly small) collision risk.
func GenerateTrackingID() string {
	// 252 is the largest multiple of len(trackingAlphabet) below 256;
	// rejecting bytes at or above it keeps the draw uniform.
	const limit = 252
	out := make([]byte, 0, TrackingIDLength)
	buf := make([]byte, 2*TrackingIDLength)
	for len(out) < TrackingIDLength {
		if _, err := rand.Read(buf); err != nil {
			panic("tracking id entropy unavailable: " + err.Error())
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, trackingAlphabet[int(b)%len(trackingAlphabet)])
			if len(out) == TrackingIDLength {
				break
			}
		}
	}
	return string(out)
}

// ValidTrackingID reports whether s has the shape of a tracking identifier:
// exactly 8 uppercase alphanumeric characters.
func ValidTrackingID(s string) bool {
	if len(s) != TrackingIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
