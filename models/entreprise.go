package models

import (
	"time"

	"gorm.io/gorm"
)

// Entreprise represents a moving company (tenant) on the platform.
// Each entreprise gets a branded calculator under its unique slug.
type Entreprise struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Nom          string `gorm:"not null" json:"nom"`
	Slug         string `gorm:"uniqueIndex;not null" json:"slug"` // URL key, immutable after creation
	EmailContact string `gorm:"not null" json:"email_contact"`
	Telephone    string `json:"telephone"`

	// Branding
	CouleurPrimaire   string  `gorm:"default:'#1d4ed8'" json:"couleur_primaire"`
	CouleurSecondaire string  `gorm:"default:'#f59e0b'" json:"couleur_secondaire"`
	LogoS3Key         *string `json:"logo_s3_key"`
	LogoURL           *string `gorm:"-" json:"logo_url,omitempty"` // computed field, presigned URL

	// Custom SMTP override. When enabled with host+user set, quote
	// notifications go out through the tenant's own mail server.
	UseCustomSMTP bool   `gorm:"default:false" json:"use_custom_smtp"`
	SMTPHost      string `json:"smtp_host,omitempty"`
	SMTPPort      int    `gorm:"default:587" json:"smtp_port,omitempty"`
	SMTPUser      string `json:"smtp_user,omitempty"`
	SMTPPassword  string `json:"-"` // never serialized
	SMTPCc        string `json:"smtp_cc,omitempty"` // comma-separated extra recipients

	// Subscription data (checkout/webhooks handled by the payment provider)
	Plan               string  `gorm:"default:'essai'" json:"plan"` // essai, standard, premium
	StripeCustomerID   *string `json:"stripe_customer_id,omitempty"`
	SubscriptionStatus string  `gorm:"default:'trialing'" json:"subscription_status"`

	Devis []Devis `gorm:"foreignKey:EntrepriseID" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // soft delete = deactivation
}

// TableName specifies the table name for the Entreprise model
func (Entreprise) TableName() string {
	return "entreprises"
}

// HasCustomSMTP reports whether the tenant's own SMTP transport should be
// used. Opting in is not enough: host and username must both be configured.
func (e *Entreprise) HasCustomSMTP() bool {
	return e.UseCustomSMTP && e.SMTPHost != "" && e.SMTPUser != ""
}

// NotificationAddress returns the address tenant notifications are sent to.
// With custom SMTP active this is the SMTP mailbox itself, so replies land
// where the tenant actually reads mail; otherwise the registered contact.
func (e *Entreprise) NotificationAddress() string {
	if e.HasCustomSMTP() {
		return e.SMTPUser
	}
	return e.EmailContact
}
