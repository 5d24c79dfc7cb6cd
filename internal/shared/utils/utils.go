package utils

import (
	"os"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// GetEnvVariable reads an environment variable with a fallback default.
func GetEnvVariable(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
	multiHyphen  = regexp.MustCompile(`-+`)
)

// GenerateSlug turns free text into a URL-safe slug.
// "Ada Lovelace" → "ada-lovelace"
func GenerateSlug(input string) string {
	s := strings.ToLower(input)
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = multiHyphen.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// GenerateShareSlug builds a card share slug from the display name plus a
// short unique suffix, so two "Ada Lovelace" cards never collide.
func GenerateShareSlug(displayName string, id uuid.UUID) string {
	base := GenerateSlug(displayName)
	suffix := strings.SplitN(id.String(), "-", 2)[0]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
