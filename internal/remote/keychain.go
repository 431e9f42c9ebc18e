package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/clubhouse/internal/auth"
)

// FileKeychain stores the credential as JSON in a single 0600 file.
type FileKeychain struct {
	Path string
}

func (k FileKeychain) Load() (auth.Credential, bool, error) {
	raw, err := os.ReadFile(filepath.Clean(k.Path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return auth.Credential{}, false, nil
		}
		return auth.Credential{}, false, err
	}

	var cred auth.Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return auth.Credential{}, false, fmt.Errorf("keychain %s: %w", k.Path, err)
	}
	if cred.Token == "" {
		return auth.Credential{}, false, nil
	}
	return cred, true, nil
}

// Save writes cred atomically.
func (k FileKeychain) Save(cred auth.Credential) error {
	raw, err := json.Marshal(cred)
	if err != nil {
		return err
	}

	dir := filepath.Dir(k.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".keychain-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), k.Path)
}

func (k FileKeychain) Clear() error {
	if err := os.Remove(k.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
