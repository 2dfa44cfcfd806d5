// Package signing provides the default ports.Signer implementation: an
// HMAC-SHA256 signer keyed by a secret derived with HKDF, following the
// teacher's PEM-key-loading idiom for key material (file-backed in
// production, ephemeral in development) while swapping the Ed25519/JWT
// scheme for the opaque-signature-string contract the telemetry pipeline
// needs (§4.3: signer.sign(payload) -> string, no verification exposed).
package signing

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/crypto/hkdf"
)

// HMACSigner signs telemetry payloads with HMAC-SHA256 under a key derived
// via HKDF from a master secret. The signature is hex-encoded so it embeds
// cleanly as an opaque string in wire JSON.
type HMACSigner struct {
	key []byte
}

// NewHMACSigner derives a signing key from secret using HKDF-SHA256 with
// the fixed info string "sentrypass-telemetry-signing". secret must be
// non-empty; callers load it from a secret file or environment variable,
// never hardcode it.
func NewHMACSigner(secret []byte) (*HMACSigner, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("signing: secret must not be empty")
	}

	kdf := hkdf.New(sha256.New, secret, nil, []byte("sentrypass-telemetry-signing"))
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("signing: derive key: %w", err)
	}
	return &HMACSigner{key: key}, nil
}

// NewHMACSignerFromFile reads a secret from path and derives a signer from
// it. If path is empty, generates an ephemeral random secret, mirroring the
// teacher's ephemeral-key fallback for local development.
func NewHMACSignerFromFile(path string) (*HMACSigner, error) {
	if path == "" {
		slog.Warn("signing: no signing secret file configured, generating ephemeral secret (not for production)")
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("signing: generate ephemeral secret: %w", err)
		}
		return NewHMACSigner(secret)
	}

	secret, err := os.ReadFile(path) //nolint:gosec // path comes from validated config, not user input
	if err != nil {
		return nil, fmt.Errorf("signing: read secret file: %w", err)
	}
	return NewHMACSigner(secret)
}

// Sign returns the hex-encoded HMAC-SHA256 of payload under the derived key.
func (s *HMACSigner) Sign(_ context.Context, payload []byte) (string, error) {
	mac := hmac.New(sha256.New, s.key)
	if _, err := mac.Write(payload); err != nil {
		return "", fmt.Errorf("signing: write payload: %w", err)
	}
	return hex.EncodeToString(mac.Sum(nil)), nil
}
