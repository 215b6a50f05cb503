package helper

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

const (
	slugMaxLen   = 32
	slugTokenLen = 8
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
	reToken    = regexp.MustCompile(`^[0-9a-f]{8}$`)
)

// Slugify lowercases s, strips diacritics and keeps [a-z0-9-], cut to maxLen.
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = slugMaxLen
	}
	s = strings.ToLower(strings.TrimSpace(s))

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	s = string(buf)

	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if utf8.RuneCountInString(s) > maxLen {
		s = strings.Trim(string([]rune(s)[:maxLen]), "-")
	}
	if s == "" {
		s = "article"
	}
	return s
}

// NewSlugToken returns a short random lowercase token.
func NewSlugToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:slugTokenLen]
}

// NewSlug builds "<slugified title>-<random token>".
func NewSlug(title string) string {
	return Slugify(title, slugMaxLen) + "-" + NewSlugToken()
}

// RegenerateSlug builds a slug for a new title keeping the token of oldSlug,
// so links that resolve by token keep working after a rename.
func RegenerateSlug(title, oldSlug string) string {
	token := SlugToken(oldSlug)
	if token == "" {
		token = NewSlugToken()
	}
	return Slugify(title, slugMaxLen) + "-" + token
}

// SlugToken returns the trailing random token of a slug, or "" when the
// last segment does not look like one.
func SlugToken(slug string) string {
	i := strings.LastIndex(slug, "-")
	if i < 0 {
		return ""
	}
	token := slug[i+1:]
	if !reToken.MatchString(token) {
		return ""
	}
	return token
}
