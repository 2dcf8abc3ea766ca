package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/emsteam/ems-api/internal/constants"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeFilename strips any directory part from a client supplied name and
// replaces whitespace runs with underscores.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	name = whitespaceRun.ReplaceAllString(name, "_")

	switch name {
	case "", ".", "..", "/":
		return "file"
	}

	if len(name) > constants.MaxStoredNameLength {
		name = truncateUTF8(name, constants.MaxStoredNameLength)
	}
	return name
}

// GenerateStoredFilename builds the on-disk name for an upload in the format
// <unix millis>-<8 hex chars>-<sanitized original>.
func GenerateStoredFilename(original string, now time.Time) (string, error) {
	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return fmt.Sprintf("%d-%s-%s",
		now.UnixMilli(),
		hex.EncodeToString(bytes),
		SanitizeFilename(original),
	), nil
}

// truncateUTF8 cuts s to at most max bytes without splitting a rune.
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := 0
	for i := range s {
		if i > max {
			break
		}
		cut = i
	}
	return s[:cut]
}
