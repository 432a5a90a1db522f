package testutil

import (
	"os"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/demenago/demenago-api/models"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
// Use this in TestMain or suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}
}

// OpenTestDB creates an in-memory sqlite database migrated with every
// application model.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Entreprise{},
		&models.CategorieMeuble{},
		&models.Meuble{},
		&models.Devis{},
		&models.DevisMeuble{},
		&models.User{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// SeedEntreprise inserts a tenant with sensible defaults for tests.
func SeedEntreprise(t *testing.T, db *gorm.DB, nom, slug string) models.Entreprise {
	t.Helper()

	entreprise := models.Entreprise{
		Nom:               nom,
		Slug:              slug,
		EmailContact:      "contact@" + slug + ".fr",
		CouleurPrimaire:   "#1d4ed8",
		CouleurSecondaire: "#f59e0b",
	}
	if err := db.Create(&entreprise).Error; err != nil {
		t.Fatalf("Failed to seed entreprise: %v", err)
	}
	return entreprise
}

// SeedCatalogue inserts one category with two furniture items and returns them.
func SeedCatalogue(t *testing.T, db *gorm.DB) (models.CategorieMeuble, []models.Meuble) {
	t.Helper()

	categorie := models.CategorieMeuble{Nom: "salon", Label: "Salon", Ordre: 1}
	if err := db.Create(&categorie).Error; err != nil {
		t.Fatalf("Failed to seed categorie: %v", err)
	}

	poids := 80.0
	meubles := []models.Meuble{
		{CategorieID: categorie.ID, Nom: "Canapé 3 places", VolumeM3: 2.5, PoidsKg: &poids},
		{CategorieID: categorie.ID, Nom: "Table à manger", VolumeM3: 1.8},
	}
	for i := range meubles {
		if err := db.Create(&meubles[i]).Error; err != nil {
			t.Fatalf("Failed to seed meuble: %v", err)
		}
	}

	return categorie, meubles
}
