package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Slugify lowercases the title and collapses every run of non-alphanumeric
// characters into a single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// uniqueSlug probes -1, -2, ... until it finds the smallest free suffix.
// excludeID lets a post keep its own slug across title updates.
func (s *PostService) uniqueSlug(ctx context.Context, title string, excludeID uuid.UUID) (string, error) {
	base := Slugify(title)
	if base == "" {
		return "", fmt.Errorf("%w: title yields an empty slug", ErrValidation)
	}

	slug := base
	for counter := 1; ; counter++ {
		taken, err := s.Repo.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}
