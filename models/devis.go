package models

import "time"

// Devis statuses. A quote moves nouveau -> vu -> en_traitement ->
// devis_envoye -> accepte/refuse -> termine; archive parks it out of the way.
const (
	StatutNouveau      = "nouveau"
	StatutVu           = "vu"
	StatutEnTraitement = "en_traitement"
	StatutDevisEnvoye  = "devis_envoye"
	StatutAccepte      = "accepte"
	StatutRefuse       = "refuse"
	StatutTermine      = "termine"
	StatutArchive      = "archive"
)

// ValidStatuts lists every accepted devis status value.
var ValidStatuts = []string{
	StatutNouveau,
	StatutVu,
	StatutEnTraitement,
	StatutDevisEnvoye,
	StatutAccepte,
	StatutRefuse,
	StatutTermine,
	StatutArchive,
}

// IsValidStatut reports whether s is one of the fixed status values.
func IsValidStatut(s string) bool {
	for _, v := range ValidStatuts {
		if v == s {
			return true
		}
	}
	return false
}

// Devis represents a quote request submitted through a tenant's calculator.
type Devis struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Numero       string     `gorm:"uniqueIndex;not null" json:"numero"`
	EntrepriseID uint       `gorm:"not null;index" json:"entreprise_id"`
	Entreprise   Entreprise `gorm:"foreignKey:EntrepriseID" json:"-"`

	// Client contact
	Nom       string `gorm:"not null" json:"nom"`
	Email     string `gorm:"not null;index" json:"email"`
	Telephone string `gorm:"not null" json:"telephone"`

	// Move details
	AdresseDepart        string  `gorm:"not null" json:"adresse_depart"`
	AvecAscenseurDepart  bool    `gorm:"default:false" json:"avec_ascenseur_depart"`
	AdresseArrivee       string  `gorm:"not null" json:"adresse_arrivee"`
	AvecAscenseurArrivee bool    `gorm:"default:false" json:"avec_ascenseur_arrivee"`
	DateDemenagement     *string `json:"date_demenagement"`
	Observations         *string `gorm:"type:text" json:"observations"`

	// Aggregates denormalized from the line items at creation time
	VolumeTotalM3 float64 `gorm:"not null" json:"volume_total_m3"`
	PoidsTotalKg  float64 `gorm:"not null;default:0" json:"poids_total_kg"`
	NombreMeubles int     `gorm:"not null;default:0" json:"nombre_meubles"`

	Statut string `gorm:"not null;default:'nouveau';index" json:"statut"`

	// Set from the dashboard once the tenant has priced the move
	MontantDevis      *float64 `json:"montant_devis"`
	Devise            string   `gorm:"default:'EUR'" json:"devise"`
	NombreDemenageurs *int     `json:"nombre_demenageurs"`

	AdresseIP *string `json:"adresse_ip,omitempty"`

	// Notification bookkeeping, updated by the detached email task
	EmailClientEnvoye       bool       `gorm:"default:false" json:"email_client_envoye"`
	EmailClientEnvoyeAt     *time.Time `json:"email_client_envoye_at"`
	EmailEntrepriseEnvoye   bool       `gorm:"default:false" json:"email_entreprise_envoye"`
	EmailEntrepriseEnvoyeAt *time.Time `json:"email_entreprise_envoye_at"`

	Meubles []DevisMeuble `gorm:"foreignKey:DevisID;constraint:OnDelete:CASCADE" json:"meubles,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Devis model
func (Devis) TableName() string {
	return "devis"
}

// DevisMeuble is a quote line item. Furniture name, category and unit
// volume/weight are snapshotted at submission time so historical quotes stay
// stable even when the live catalog changes. Rows are immutable after the
// creating transaction commits.
type DevisMeuble struct {
	ID               uint     `gorm:"primaryKey" json:"id"`
	DevisID          uint     `gorm:"not null;index" json:"devis_id"`
	MeubleID         uint     `gorm:"not null" json:"meuble_id"`
	MeubleNom        string   `gorm:"not null" json:"meuble_nom"`
	MeubleCategorie  string   `gorm:"not null" json:"meuble_categorie"`
	Quantite         int      `gorm:"not null;check:quantite > 0" json:"quantite"`
	VolumeUnitaireM3 float64  `gorm:"not null" json:"volume_unitaire_m3"`
	PoidsUnitaireKg  *float64 `json:"poids_unitaire_kg"`
}

// TableName specifies the table name for the DevisMeuble model
func (DevisMeuble) TableName() string {
	return "devis_meubles"
}
