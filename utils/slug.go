package utils

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// accent fold for the characters that actually show up in company names
var accentReplacer = strings.NewReplacer(
	"à", "a", "â", "a", "ä", "a", "á", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"î", "i", "ï", "i", "í", "i",
	"ô", "o", "ö", "o", "ó", "o",
	"ù", "u", "û", "u", "ü", "u", "ú", "u",
	"ç", "c", "ñ", "n",
	"œ", "oe", "æ", "ae",
)

// Slugify converts a display name into a URL-safe slug: lowercase ASCII,
// hyphen-separated, no leading/trailing hyphens.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = accentReplacer.Replace(s)

	var b strings.Builder
	prevHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// UniqueSlug returns a slug for the given name that no entreprise row uses,
// suffixing a counter on collision (demenageurs-lyon, demenageurs-lyon-2, ...).
// Soft-deleted rows still reserve their slug, hence the Unscoped lookup.
func UniqueSlug(db *gorm.DB, name string) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "entreprise"
	}

	slug := base
	for i := 2; ; i++ {
		var count int64
		if err := db.Table("entreprises").Unscoped().Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check slug availability: %w", err)
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
