package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/demenago/demenago-api/models"
	"github.com/demenago/demenago-api/selection"
	"gorm.io/gorm"
)

// DevisLineInput is one submitted line item. Name, category and unit
// volume/weight arrive as client-side snapshots of the catalog and are
// persisted verbatim so the quote stays stable when the catalog changes.
type DevisLineInput struct {
	MeubleID         uint
	MeubleNom        string
	MeubleCategorie  string
	Quantite         int
	VolumeUnitaireM3 float64
	PoidsUnitaireKg  *float64
}

// CreateDevisInput carries a validated quote submission into the pipeline.
type CreateDevisInput struct {
	EntrepriseID         uint
	Nom                  string
	Email                string
	Telephone            string
	AdresseDepart        string
	AvecAscenseurDepart  bool
	AdresseArrivee       string
	AvecAscenseurArrivee bool
	DateDemenagement     *string
	Observations         *string
	VolumeTotalM3        float64
	AdresseIP            *string
	Meubles              []DevisLineInput
}

// ResolveEntreprise finds an active tenant by id or slug. The id wins when
// both are provided. Returns ErrNotFound when neither resolves.
func ResolveEntreprise(db *gorm.DB, id uint, slug string) (*models.Entreprise, error) {
	var entreprise models.Entreprise
	query := db
	switch {
	case id != 0:
		query = query.Where("id = ?", id)
	case slug != "":
		query = query.Where("slug = ?", slug)
	default:
		return nil, ErrNotFound
	}

	if err := query.First(&entreprise).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve entreprise: %w", err)
	}
	return &entreprise, nil
}

// CreateDevis runs the quote submission transaction: numero generation, the
// devis insert and the bulk line-item insert commit or roll back as one
// unit, so no reader ever observes a quote with partial line items.
//
// Weight and item count are recomputed server-side from the submitted lines;
// every line counts, including repeated meuble ids. The submitted volume
// total is persisted as given (the calculator already derives it from the
// same catalog data).
func CreateDevis(db *gorm.DB, input CreateDevisInput) (*models.Devis, error) {
	if len(input.Meubles) == 0 {
		return nil, fmt.Errorf("%w: at least one line item is required", ErrValidation)
	}

	var poidsTotal float64
	nombreMeubles := 0
	for _, line := range input.Meubles {
		nombreMeubles += line.Quantite
		if line.PoidsUnitaireKg != nil {
			poidsTotal += float64(line.Quantite) * *line.PoidsUnitaireKg
		}
	}
	poidsTotal = selection.Round2(poidsTotal)

	var devis models.Devis
	err := db.Transaction(func(tx *gorm.DB) error {
		var entreprise models.Entreprise
		if err := tx.First(&entreprise, input.EntrepriseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		numero, err := generateNumero(tx, time.Now())
		if err != nil {
			return err
		}

		devis = models.Devis{
			Numero:               numero,
			EntrepriseID:         entreprise.ID,
			Nom:                  input.Nom,
			Email:                input.Email,
			Telephone:            input.Telephone,
			AdresseDepart:        input.AdresseDepart,
			AvecAscenseurDepart:  input.AvecAscenseurDepart,
			AdresseArrivee:       input.AdresseArrivee,
			AvecAscenseurArrivee: input.AvecAscenseurArrivee,
			DateDemenagement:     input.DateDemenagement,
			Observations:         input.Observations,
			VolumeTotalM3:        input.VolumeTotalM3,
			PoidsTotalKg:         poidsTotal,
			NombreMeubles:        nombreMeubles,
			Statut:               models.StatutNouveau,
			AdresseIP:            input.AdresseIP,
		}
		if err := tx.Create(&devis).Error; err != nil {
			return fmt.Errorf("failed to create devis: %w", err)
		}

		lignes := make([]models.DevisMeuble, len(input.Meubles))
		for i, line := range input.Meubles {
			lignes[i] = models.DevisMeuble{
				DevisID:          devis.ID,
				MeubleID:         line.MeubleID,
				MeubleNom:        line.MeubleNom,
				MeubleCategorie:  line.MeubleCategorie,
				Quantite:         line.Quantite,
				VolumeUnitaireM3: line.VolumeUnitaireM3,
				PoidsUnitaireKg:  line.PoidsUnitaireKg,
			}
		}
		if len(lignes) > 0 {
			if err := tx.Create(&lignes).Error; err != nil {
				return fmt.Errorf("failed to create devis line items: %w", err)
			}
			devis.Meubles = lignes
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &devis, nil
}

// generateNumero builds the human-readable quote number: DEV-YYYYMMDD-NNNN
// with a per-day sequence. The unique index on numero catches the rare race
// between two submissions landing in the same transaction window.
func generateNumero(tx *gorm.DB, now time.Time) (string, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var count int64
	if err := tx.Model(&models.Devis{}).Where("created_at >= ?", dayStart).Count(&count).Error; err != nil {
		return "", fmt.Errorf("failed to count daily devis: %w", err)
	}

	return fmt.Sprintf("DEV-%s-%04d", now.Format("20060102"), count+1), nil
}
