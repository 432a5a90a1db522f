package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Demenageurs Lyon", "demenageurs-lyon"},
		{"accents folded", "Déménagements Müller & Cie", "demenagements-muller-cie"},
		{"extra whitespace", "  Trans   Express  ", "trans-express"},
		{"digits kept", "Top Demenagement 2000", "top-demenagement-2000"},
		{"punctuation collapsed", "A.B.C!!", "a-b-c"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func setupSlugTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// only the slug column matters here
	if err := db.Exec("CREATE TABLE entreprises (id INTEGER PRIMARY KEY, slug TEXT, deleted_at DATETIME)").Error; err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	return db
}

func TestUniqueSlugWithoutCollision(t *testing.T) {
	db := setupSlugTestDB(t)

	slug, err := UniqueSlug(db, "Demenageurs Lyon")
	assert.NoError(t, err)
	assert.Equal(t, "demenageurs-lyon", slug)
}

func TestUniqueSlugSuffixesOnCollision(t *testing.T) {
	db := setupSlugTestDB(t)
	db.Exec("INSERT INTO entreprises (slug) VALUES ('demenageurs-lyon')")
	db.Exec("INSERT INTO entreprises (slug) VALUES ('demenageurs-lyon-2')")

	slug, err := UniqueSlug(db, "Déménageurs Lyon")
	assert.NoError(t, err)
	assert.Equal(t, "demenageurs-lyon-3", slug)
}

func TestUniqueSlugCountsSoftDeletedRows(t *testing.T) {
	db := setupSlugTestDB(t)
	db.Exec("INSERT INTO entreprises (slug, deleted_at) VALUES ('demenageurs-lyon', '2026-01-15 10:00:00')")

	slug, err := UniqueSlug(db, "Demenageurs Lyon")
	assert.NoError(t, err)
	assert.Equal(t, "demenageurs-lyon-2", slug, "deactivated tenants keep their slug reserved")
}

func TestUniqueSlugEmptyName(t *testing.T) {
	db := setupSlugTestDB(t)

	slug, err := UniqueSlug(db, "!!!")
	assert.NoError(t, err)
	assert.Equal(t, "entreprise", slug)
}
