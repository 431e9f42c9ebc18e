package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/jwtx"
)

// verifierLeeway tolerates clock skew between replicas sharing a key.
const verifierLeeway = 30 * time.Second

// InitSessionKeys loads the session signing key and a verifier trusting it.
//
// With no key path configured the key is ephemeral: every session token
// becomes invalid when the process restarts. With a path, the key is read
// from disk and generated on first start.
func InitSessionKeys(cfg Config, logger *slog.Logger) (*jwtx.EdDSASigner, *jwtx.EdDSAVerifier, error) {
	pemKey, created, err := cryptox.LoadOrCreateEd25519Key(cfg.SigningKeyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load signing key: %w", err)
	}

	signer, err := jwtx.NewSignerEdDSA("", pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse signing key: %w", err)
	}

	verifier := jwtx.NewVerifierEdDSA(cfg.Issuer, verifierLeeway)
	verifier.Trust(signer.KID(), signer.PublicKey())

	switch {
	case cfg.SigningKeyPath == "":
		logger.Warn("ephemeral signing key in use - sessions will not survive restarts", "kid", signer.KID())
	case created:
		logger.Info("signing key generated", "path", cfg.SigningKeyPath, "kid", signer.KID())
	default:
		logger.Info("signing key loaded", "path", cfg.SigningKeyPath, "kid", signer.KID())
	}

	return signer, verifier, nil
}
