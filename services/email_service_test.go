package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/demenago/demenago-api/config"
	"github.com/demenago/demenago-api/models"
)

func testSMTPConfig() *config.Config {
	return &config.Config{
		SMTPHost:     "smtp.demenago.fr",
		SMTPPort:     587,
		SMTPUser:     "service@demenago.fr",
		SMTPPassword: "secret",
		SMTPFrom:     "no-reply@demenago.fr",
	}
}

func seedQuote(t *testing.T, db *gorm.DB, entreprise *models.Entreprise) models.Devis {
	require.NoError(t, db.Create(entreprise).Error)

	devis := models.Devis{
		Numero:         "DEV-20260831-0001",
		EntrepriseID:   entreprise.ID,
		Nom:            "Marie Dupont",
		Email:          "marie.dupont@example.com",
		Telephone:      "0612345678",
		AdresseDepart:  "12 rue de la République, Lyon",
		AdresseArrivee: "8 avenue Victor Hugo, Grenoble",
		VolumeTotalM3:  4.3,
		NombreMeubles:  2,
		Statut:         models.StatutNouveau,
		Meubles: []models.DevisMeuble{
			{MeubleID: 1, MeubleNom: "Canapé 3 places", MeubleCategorie: "Salon", Quantite: 1, VolumeUnitaireM3: 2.5},
			{MeubleID: 2, MeubleNom: "Table à manger", MeubleCategorie: "Salle à manger", Quantite: 1, VolumeUnitaireM3: 1.8},
		},
	}
	require.NoError(t, db.Create(&devis).Error)
	return devis
}

func TestComposeQuoteEmails(t *testing.T) {
	entreprise := &models.Entreprise{
		Nom:             "Demenageurs Lyon",
		CouleurPrimaire: "#1d4ed8",
	}
	devis := &models.Devis{
		Numero:         "DEV-20260831-0042",
		Nom:            "Marie Dupont",
		Email:          "marie.dupont@example.com",
		Telephone:      "0612345678",
		AdresseDepart:  "12 rue de la République, Lyon",
		AdresseArrivee: "8 avenue Victor Hugo, Grenoble",
		VolumeTotalM3:  4.3,
		NombreMeubles:  2,
		Meubles: []models.DevisMeuble{
			{MeubleNom: "Canapé 3 places", MeubleCategorie: "Salon", Quantite: 1, VolumeUnitaireM3: 2.5},
			{MeubleNom: "Table à manger", MeubleCategorie: "Salle à manger", Quantite: 1, VolumeUnitaireM3: 1.8},
		},
	}

	clientHTML, entrepriseHTML, err := ComposeQuoteEmails(devis, entreprise)
	require.NoError(t, err)

	// Customer confirmation: itemized table and totals, no alert styling
	assert.Contains(t, clientHTML, "DEV-20260831-0042")
	assert.Contains(t, clientHTML, "Marie Dupont")
	assert.Contains(t, clientHTML, "Canapé 3 places")
	assert.Contains(t, clientHTML, "4.30")
	assert.Contains(t, clientHTML, "#1d4ed8")
	assert.NotContains(t, clientHTML, "Nouvelle demande")

	// Tenant alert: same data plus contact details
	assert.Contains(t, entrepriseHTML, "Nouvelle demande")
	assert.Contains(t, entrepriseHTML, "marie.dupont@example.com")
	assert.Contains(t, entrepriseHTML, "0612345678")
	assert.Contains(t, entrepriseHTML, "Table à manger")
}

func TestResolveTransportDefault(t *testing.T) {
	svc := &EmailService{cfg: testSMTPConfig()}
	entreprise := &models.Entreprise{EmailContact: "contact@moveco.fr"}

	transport, from := svc.ResolveTransport(entreprise)
	assert.Equal(t, "smtp.demenago.fr", transport.Host)
	assert.Equal(t, 587, transport.Port)
	assert.Equal(t, "no-reply@demenago.fr", from)
}

func TestResolveTransportCustomSMTP(t *testing.T) {
	svc := &EmailService{cfg: testSMTPConfig()}
	entreprise := &models.Entreprise{
		UseCustomSMTP: true,
		SMTPHost:      "mail.moveco.fr",
		SMTPPort:      465,
		SMTPUser:      "x@y.com",
		SMTPPassword:  "tenant-secret",
		EmailContact:  "contact@moveco.fr",
	}

	transport, from := svc.ResolveTransport(entreprise)
	assert.Equal(t, "mail.moveco.fr", transport.Host)
	assert.Equal(t, 465, transport.Port)
	assert.Equal(t, "x@y.com", transport.Username)
	assert.Equal(t, "x@y.com", from, "from follows the tenant mailbox with custom SMTP")
}

func TestResolveTenantRecipients(t *testing.T) {
	svc := &EmailService{cfg: testSMTPConfig()}

	t.Run("custom SMTP targets the tenant mailbox", func(t *testing.T) {
		entreprise := &models.Entreprise{
			UseCustomSMTP: true,
			SMTPHost:      "mail.moveco.fr",
			SMTPUser:      "x@y.com",
			EmailContact:  "contact@moveco.fr",
		}
		to, cc := svc.ResolveTenantRecipients(entreprise)
		assert.Equal(t, "x@y.com", to)
		assert.Empty(t, cc)
	})

	t.Run("default transport targets the registered contact", func(t *testing.T) {
		entreprise := &models.Entreprise{EmailContact: "contact@moveco.fr"}
		to, cc := svc.ResolveTenantRecipients(entreprise)
		assert.Equal(t, "contact@moveco.fr", to)
		assert.Empty(t, cc)
	})

	t.Run("cc list parsed from comma-separated field", func(t *testing.T) {
		entreprise := &models.Entreprise{
			EmailContact: "contact@moveco.fr",
			SMTPCc:       "gerant@moveco.fr, compta@moveco.fr,,",
		}
		_, cc := svc.ResolveTenantRecipients(entreprise)
		assert.Equal(t, []string{"gerant@moveco.fr", "compta@moveco.fr"}, cc)
	})
}

func TestSendQuoteEmailsBothSucceed(t *testing.T) {
	db := setupDevisTestDB(t)
	config.SetDB(db)

	entreprise := &models.Entreprise{
		Nom:          "Moveco",
		Slug:         "moveco",
		EmailContact: "contact@moveco.fr",
	}
	devis := seedQuote(t, db, entreprise)

	mailer := NewMockMailer()
	svc := InitEmailService(mailer, testSMTPConfig())

	result := svc.SendQuoteEmails(devis.ID)
	assert.True(t, result.ClientEnvoye)
	assert.True(t, result.EntrepriseEnvoye)

	sent := mailer.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, []string{"marie.dupont@example.com"}, sent[0].Message.To)
	assert.Equal(t, []string{"contact@moveco.fr"}, sent[1].Message.To)
	assert.True(t, strings.Contains(sent[1].Message.Subject, devis.Numero))

	var reloaded models.Devis
	require.NoError(t, db.First(&reloaded, devis.ID).Error)
	assert.True(t, reloaded.EmailClientEnvoye)
	assert.NotNil(t, reloaded.EmailClientEnvoyeAt)
	assert.True(t, reloaded.EmailEntrepriseEnvoye)
	assert.NotNil(t, reloaded.EmailEntrepriseEnvoyeAt)
}

func TestSendQuoteEmailsIndependentFailure(t *testing.T) {
	db := setupDevisTestDB(t)
	config.SetDB(db)

	entreprise := &models.Entreprise{
		Nom:          "Moveco",
		Slug:         "moveco",
		EmailContact: "contact@moveco.fr",
	}
	devis := seedQuote(t, db, entreprise)

	mailer := NewMockMailer()
	mailer.FailFor("marie.dupont@example.com")
	svc := InitEmailService(mailer, testSMTPConfig())

	result := svc.SendQuoteEmails(devis.ID)
	assert.False(t, result.ClientEnvoye)
	assert.True(t, result.EntrepriseEnvoye, "one failed send must not block the other")

	var reloaded models.Devis
	require.NoError(t, db.First(&reloaded, devis.ID).Error)
	assert.False(t, reloaded.EmailClientEnvoye)
	assert.Nil(t, reloaded.EmailClientEnvoyeAt)
	assert.True(t, reloaded.EmailEntrepriseEnvoye)
	assert.NotNil(t, reloaded.EmailEntrepriseEnvoyeAt)
}

func TestSendQuoteEmailsBothFailIsTerminal(t *testing.T) {
	db := setupDevisTestDB(t)
	config.SetDB(db)

	entreprise := &models.Entreprise{
		Nom:          "Moveco",
		Slug:         "moveco",
		EmailContact: "contact@moveco.fr",
	}
	devis := seedQuote(t, db, entreprise)

	mailer := NewMockMailer()
	mailer.FailAll()
	svc := InitEmailService(mailer, testSMTPConfig())

	result := svc.SendQuoteEmails(devis.ID)
	assert.False(t, result.ClientEnvoye)
	assert.False(t, result.EntrepriseEnvoye)

	var reloaded models.Devis
	require.NoError(t, db.First(&reloaded, devis.ID).Error)
	assert.False(t, reloaded.EmailClientEnvoye)
	assert.False(t, reloaded.EmailEntrepriseEnvoye)
}

func TestSendQuoteEmailsUsesBoundDatabase(t *testing.T) {
	db := setupDevisTestDB(t)
	config.SetDB(db)

	entreprise := &models.Entreprise{
		Nom:          "Moveco",
		Slug:         "moveco",
		EmailContact: "contact@moveco.fr",
	}
	devis := seedQuote(t, db, entreprise)

	mailer := NewMockMailer()
	svc := InitEmailService(mailer, testSMTPConfig())

	// a later caller swapping the global handle must not redirect
	// dispatches already bound to the original connection
	otherDB := setupDevisTestDB(t)
	config.SetDB(otherDB)

	result := svc.SendQuoteEmails(devis.ID)
	assert.True(t, result.ClientEnvoye)
	assert.True(t, result.EntrepriseEnvoye)

	var reloaded models.Devis
	require.NoError(t, db.First(&reloaded, devis.ID).Error)
	assert.True(t, reloaded.EmailClientEnvoye)
	assert.True(t, reloaded.EmailEntrepriseEnvoye)

	var strayCount int64
	otherDB.Model(&models.Devis{}).Count(&strayCount)
	assert.Equal(t, int64(0), strayCount, "the swapped-in database stays untouched")
}

func TestSendQuoteEmailsMissingDevis(t *testing.T) {
	db := setupDevisTestDB(t)
	config.SetDB(db)

	mailer := NewMockMailer()
	svc := InitEmailService(mailer, testSMTPConfig())

	result := svc.SendQuoteEmails(12345)
	assert.False(t, result.ClientEnvoye)
	assert.False(t, result.EntrepriseEnvoye)
	assert.Empty(t, mailer.Sent())
}
