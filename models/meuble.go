package models

import "time"

// CategorieMeuble is a furniture category used to group catalog items.
// Reference data, currently global rather than per-tenant.
type CategorieMeuble struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nom       string    `gorm:"uniqueIndex;not null" json:"nom"` // internal name
	Label     string    `gorm:"not null" json:"label"`           // display name
	Ordre     int       `gorm:"default:0" json:"ordre"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the CategorieMeuble model
func (CategorieMeuble) TableName() string {
	return "categories_meubles"
}

// Meuble is a catalog furniture item with a fixed unit volume and weight
// used for volume estimation.
type Meuble struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CategorieID uint            `gorm:"not null;index" json:"categorie_id"`
	Categorie   CategorieMeuble `gorm:"foreignKey:CategorieID" json:"categorie"`
	Nom         string          `gorm:"not null" json:"nom"`
	VolumeM3    float64         `gorm:"not null" json:"volume_m3"`
	PoidsKg     *float64        `json:"poids_kg"` // nullable, some items have no reference weight
	ImageS3Key  *string         `json:"image_s3_key"`
	ImageURL    *string         `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Meuble model
func (Meuble) TableName() string {
	return "meubles"
}
