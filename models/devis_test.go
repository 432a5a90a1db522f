package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDevisTableName(t *testing.T) {
	assert.Equal(t, "devis", Devis{}.TableName(), "Table name should be 'devis'")
	assert.Equal(t, "devis_meubles", DevisMeuble{}.TableName(), "Table name should be 'devis_meubles'")
}

func TestEntrepriseTableName(t *testing.T) {
	assert.Equal(t, "entreprises", Entreprise{}.TableName())
}

func TestIsValidStatut(t *testing.T) {
	tests := []struct {
		name   string
		statut string
		valid  bool
	}{
		{"nouveau", StatutNouveau, true},
		{"vu", StatutVu, true},
		{"en_traitement", StatutEnTraitement, true},
		{"devis_envoye", StatutDevisEnvoye, true},
		{"accepte", StatutAccepte, true},
		{"refuse", StatutRefuse, true},
		{"termine", StatutTermine, true},
		{"archive", StatutArchive, true},
		{"empty string", "", false},
		{"unknown value", "pending", false},
		{"case sensitive", "Nouveau", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidStatut(tt.statut))
		})
	}
}

func TestHasCustomSMTP(t *testing.T) {
	tests := []struct {
		name       string
		entreprise Entreprise
		expected   bool
	}{
		{
			name:       "opted in with host and user",
			entreprise: Entreprise{UseCustomSMTP: true, SMTPHost: "smtp.moveco.fr", SMTPUser: "contact@moveco.fr"},
			expected:   true,
		},
		{
			name:       "opted in but missing host",
			entreprise: Entreprise{UseCustomSMTP: true, SMTPUser: "contact@moveco.fr"},
			expected:   false,
		},
		{
			name:       "opted in but missing user",
			entreprise: Entreprise{UseCustomSMTP: true, SMTPHost: "smtp.moveco.fr"},
			expected:   false,
		},
		{
			name:       "configured but not opted in",
			entreprise: Entreprise{UseCustomSMTP: false, SMTPHost: "smtp.moveco.fr", SMTPUser: "contact@moveco.fr"},
			expected:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.entreprise.HasCustomSMTP())
		})
	}
}

func TestNotificationAddress(t *testing.T) {
	withCustom := Entreprise{
		UseCustomSMTP: true,
		SMTPHost:      "smtp.moveco.fr",
		SMTPUser:      "x@y.com",
		EmailContact:  "contact@moveco.fr",
	}
	assert.Equal(t, "x@y.com", withCustom.NotificationAddress(),
		"custom SMTP active: deliver to the mailbox that receives replies")

	withoutCustom := Entreprise{
		UseCustomSMTP: false,
		EmailContact:  "contact@moveco.fr",
	}
	assert.Equal(t, "contact@moveco.fr", withoutCustom.NotificationAddress())
}
