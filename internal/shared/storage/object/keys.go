package object

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const maxFileNameRunes = 200

// NewKey builds a collision-free storage key under a hashed namespace:
// <sha256(namespace)>/<uuid>_<clean file name>.
func NewKey(namespace, fileName string) (string, error) {
	clean, err := CleanFileName(fileName)
	if err != nil {
		return "", err
	}
	return path.Join(namespaceDir(namespace), uuid.NewString()+"_"+clean), nil
}

// CleanFileName makes a client-supplied file name safe to embed in a key.
// Separators become underscores, control characters are dropped and long
// names are truncated. Empty names and the bare names "." and ".." are
// rejected.
func CleanFileName(name string) (string, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == '/' || r == '\\':
			b.WriteRune('_')
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	clean := []rune(b.String())
	switch string(clean) {
	case "":
		return "", fmt.Errorf("%w: empty", ErrInvalidFileName)
	case ".", "..":
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}
	if len(clean) > maxFileNameRunes {
		clean = clean[len(clean)-maxFileNameRunes:]
	}
	return string(clean), nil
}

func namespaceDir(namespace string) string {
	sum := sha256.Sum256([]byte(namespace))
	return hex.EncodeToString(sum[:])
}
