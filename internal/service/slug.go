package service

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Derived field limits.
const (
	metaTitleLen       = 60
	metaDescriptionLen = 160
	wordsPerMinute     = 200
	maxSlugAttempts    = 1000
)

var (
	ErrSlugExhausted = errors.New("could not find a free slug")

	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[-\s]+`)
	asciiOnly    = transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
)

// Slugify turns s into a lowercase, hyphen-separated ASCII identifier.
// "Ant Control 101" becomes "ant-control-101".
func Slugify(s string) string {
	ascii, _, err := transform.String(asciiOnly, s)
	if err != nil {
		ascii = s
	}
	ascii = slugStrip.ReplaceAllString(strings.ToLower(ascii), "")
	ascii = slugCollapse.ReplaceAllString(ascii, "-")
	return strings.Trim(ascii, "-_")
}

// SlugExistsFunc reports whether slug is already stored, deleted rows included.
type SlugExistsFunc func(ctx context.Context, slug string) (bool, error)

// UniqueSlug returns base, or base-2, base-3, ... whichever is free first.
// The result never exceeds maxLen bytes.
func UniqueSlug(ctx context.Context, base string, maxLen int, exists SlugExistsFunc) (string, error) {
	if base == "" {
		base = "item"
	}
	base = truncateSlug(base, maxLen)

	for i := 1; i <= maxSlugAttempts; i++ {
		candidate := base
		if i > 1 {
			suffix := "-" + strconv.Itoa(i)
			candidate = truncateSlug(base, maxLen-len(suffix)) + suffix
		}
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	suffix := "-" + uuid.New().String()[:8]
	candidate := truncateSlug(base, maxLen-len(suffix)) + suffix
	taken, err := exists(ctx, candidate)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrSlugExhausted
	}
	return candidate, nil
}

func truncateSlug(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return strings.TrimRight(s[:maxLen], "-_")
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// ReadTime estimates minutes to read content at 200 words per minute, at least 1.
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}
