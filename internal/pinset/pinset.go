// Package pinset implements the SPKI pin rotation-window check of §4.4: a
// presented certificate hash is allowed if it appears in the current pin
// set, or in the previous set while a rotation grace window is open.
package pinset

import (
	"time"

	"github.com/sentrypass/sentrypass/internal/model"
)

// IsAllowed reports whether presentedHash satisfies pinset as of now.
//
// Current always wins: any hash in pinset.Current is allowed regardless of
// rotation state. A hash in pinset.Previous is allowed only when both
// RotatedAt and RotationWindowDays are set and now falls on or before
// RotatedAt plus that many days (inclusive boundary).
func IsAllowed(pinset model.SpkiPinset, presentedHash string, now time.Time) bool {
	if contains(pinset.Current, presentedHash) {
		return true
	}

	if pinset.RotatedAt == nil || pinset.RotationWindowDays == nil {
		return false
	}
	if !contains(pinset.Previous, presentedHash) {
		return false
	}

	deadline := pinset.RotatedAt.AddDate(0, 0, *pinset.RotationWindowDays)
	return !now.After(deadline)
}

func contains(hashes []string, target string) bool {
	for _, h := range hashes {
		if h == target {
			return true
		}
	}
	return false
}
