package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/demenago/demenago-api/config"
	"github.com/demenago/demenago-api/models"
)

// SendResult reports the outcome of one quote's notification dispatch.
// One side succeeding and the other failing is a valid terminal state.
type SendResult struct {
	ClientEnvoye     bool
	EntrepriseEnvoye bool
}

// EmailService composes and dispatches quote notification emails. It is
// invoked on a detached goroutine after the quote transaction commits, owns
// its own error handling and never propagates failures to the caller.
type EmailService struct {
	mailer Mailer
	cfg    *config.Config
	db     *gorm.DB
}

var emailServiceInstance *EmailService

// InitEmailService initializes the email service with the given transport.
// The database handle is captured at construction so detached dispatch
// goroutines keep writing to the connection they were started against.
func InitEmailService(mailer Mailer, cfg *config.Config) *EmailService {
	emailServiceInstance = &EmailService{mailer: mailer, cfg: cfg, db: config.GetDB()}
	return emailServiceInstance
}

// GetEmailService returns the initialized email service instance
func GetEmailService() *EmailService {
	return emailServiceInstance
}

// SetEmailService sets the email service instance (primarily for testing)
func SetEmailService(s *EmailService) {
	emailServiceInstance = s
}

// SendQuoteEmails loads the quote, renders both notification bodies and
// attempts the customer and tenant sends independently. Each email-sent
// flag+timestamp pair on the devis row is updated right after its own
// attempt, so one failed side never masks the other's success.
func (s *EmailService) SendQuoteEmails(devisID uint) SendResult {
	db := s.db
	var result SendResult

	var devis models.Devis
	if err := db.Preload("Meubles").First(&devis, devisID).Error; err != nil {
		log.Printf("email dispatch: devis %d not found: %v", devisID, err)
		return result
	}

	var entreprise models.Entreprise
	if err := db.First(&entreprise, devis.EntrepriseID).Error; err != nil {
		log.Printf("email dispatch: entreprise %d not found: %v", devis.EntrepriseID, err)
		return result
	}

	clientHTML, entrepriseHTML, err := ComposeQuoteEmails(&devis, &entreprise)
	if err != nil {
		log.Printf("email dispatch: failed to compose emails for devis %s: %v", devis.Numero, err)
		return result
	}

	transport, from := s.ResolveTransport(&entreprise)

	// Customer confirmation
	clientMsg := &EmailMessage{
		From:    from,
		To:      []string{devis.Email},
		Subject: fmt.Sprintf("Votre demande de devis %s - %s", devis.Numero, entreprise.Nom),
		HTML:    clientHTML,
	}
	if err := s.mailer.Send(transport, clientMsg); err != nil {
		log.Printf("email dispatch: customer email for devis %s failed: %v", devis.Numero, err)
	} else {
		result.ClientEnvoye = true
		s.markSent(devisID, "email_client_envoye", "email_client_envoye_at")
	}

	// Tenant alert
	to, cc := s.ResolveTenantRecipients(&entreprise)
	entrepriseMsg := &EmailMessage{
		From:    from,
		To:      []string{to},
		Cc:      cc,
		Subject: fmt.Sprintf("Nouvelle demande de devis %s", devis.Numero),
		HTML:    entrepriseHTML,
	}
	if err := s.mailer.Send(transport, entrepriseMsg); err != nil {
		log.Printf("email dispatch: tenant email for devis %s failed: %v", devis.Numero, err)
	} else {
		result.EntrepriseEnvoye = true
		s.markSent(devisID, "email_entreprise_envoye", "email_entreprise_envoye_at")
	}

	return result
}

// ResolveTransport picks the tenant's own SMTP server when the custom SMTP
// opt-in is complete, otherwise the shared platform transport. The from
// address follows the transport: tenant mailbox or shared sender.
func (s *EmailService) ResolveTransport(entreprise *models.Entreprise) (SMTPConfig, string) {
	if entreprise.HasCustomSMTP() {
		port := entreprise.SMTPPort
		if port == 0 {
			port = 587
		}
		return SMTPConfig{
			Host:     entreprise.SMTPHost,
			Port:     port,
			Username: entreprise.SMTPUser,
			Password: entreprise.SMTPPassword,
		}, entreprise.SMTPUser
	}
	return SMTPConfig{
		Host:     s.cfg.SMTPHost,
		Port:     s.cfg.SMTPPort,
		Username: s.cfg.SMTPUser,
		Password: s.cfg.SMTPPassword,
	}, s.cfg.SMTPFrom
}

// ResolveTenantRecipients returns the tenant notification destination plus
// any configured CC addresses.
func (s *EmailService) ResolveTenantRecipients(entreprise *models.Entreprise) (string, []string) {
	var cc []string
	for _, addr := range strings.Split(entreprise.SMTPCc, ",") {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			cc = append(cc, trimmed)
		}
	}
	return entreprise.NotificationAddress(), cc
}

// markSent flips one email-sent flag with its timestamp.
func (s *EmailService) markSent(devisID uint, flagColumn, atColumn string) {
	now := time.Now()
	if err := s.db.Model(&models.Devis{}).Where("id = ?", devisID).
		Updates(map[string]interface{}{flagColumn: true, atColumn: now}).Error; err != nil {
		log.Printf("email dispatch: failed to update %s for devis %d: %v", flagColumn, devisID, err)
	}
}
