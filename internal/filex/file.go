package filex

import (
	"fmt"
	"os"
	"strings"
)

// EnsureDir creates dir (and parents) if it does not exist yet.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// SanitizeName strips characters that are unsafe in a filesystem path or an
// object-storage key, keeping alphanumerics plus ".", "_" and "-". The result
// is capped at maxLen runes; an empty result falls back to "file".
func SanitizeName(name string, maxLen int) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		}
	}
	s := b.String()
	if maxLen > 0 && len(s) > maxLen {
		s = s[:maxLen]
	}
	if s == "" {
		return "file"
	}
	return s
}
