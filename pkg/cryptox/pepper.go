package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	pepperMu   sync.Mutex
	pepper     string
	pepperFile string
	pepperSet  bool
)

// SetPepperPath configures the file holding the server-wide pepper. The file
// is created with a fresh random pepper on first use. An empty path disables
// peppering.
func SetPepperPath(file string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	pepperFile = file
	pepper = ""
	pepperSet = false
}

// GetPepper returns the loaded pepper, loading it on first use. A pepper
// that cannot be loaded would silently produce unverifiable hashes, so the
// process exits instead.
func GetPepper() string {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	if pepperSet {
		return pepper
	}

	p, err := loadOrGeneratePepper(pepperFile)
	if err != nil {
		slog.Error("failed to load or generate pepper", slog.String("path", pepperFile), slog.Any("error", err))
		os.Exit(1)
	}
	pepper, pepperSet = p, true
	return pepper
}

func loadOrGeneratePepper(file string) (string, error) {
	if file == "" {
		return "", nil
	}

	file = filepath.Clean(file)
	raw, err := os.ReadFile(file)
	if err == nil {
		return strings.TrimSpace(string(raw)), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o750); err != nil {
		return "", err
	}

	buf := make([]byte, keyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	p := base64.RawURLEncoding.EncodeToString(buf)
	if err := os.WriteFile(file, []byte(p), 0o600); err != nil {
		return "", err
	}
	return p, nil
}
