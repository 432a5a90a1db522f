package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/demenago/demenago-api/models"
)

// quoteEmailData feeds both notification templates.
type quoteEmailData struct {
	Devis      *models.Devis
	Entreprise *models.Entreprise
}

const clientEmailTemplate = `<!DOCTYPE html>
<html lang="fr">
<body style="margin:0;padding:0;background-color:#f3f4f6;font-family:Arial,Helvetica,sans-serif;">
  <div style="max-width:600px;margin:0 auto;background-color:#ffffff;">
    <div style="background-color:{{.Entreprise.CouleurPrimaire}};padding:24px;text-align:center;">
      <h1 style="color:#ffffff;margin:0;font-size:22px;">{{.Entreprise.Nom}}</h1>
    </div>
    <div style="padding:24px;color:#111827;">
      <p>Bonjour {{.Devis.Nom}},</p>
      <p>Nous avons bien re&ccedil;u votre demande de devis
         <strong>{{.Devis.Numero}}</strong>. Un conseiller vous recontacte
         dans les plus brefs d&eacute;lais pour affiner votre estimation.</p>
      <h2 style="font-size:16px;border-bottom:2px solid {{.Entreprise.CouleurSecondaire}};padding-bottom:6px;">R&eacute;capitulatif de votre inventaire</h2>
      <table style="width:100%;border-collapse:collapse;font-size:14px;">
        <tr style="background-color:#f9fafb;">
          <th style="text-align:left;padding:8px;border-bottom:1px solid #e5e7eb;">Meuble</th>
          <th style="text-align:left;padding:8px;border-bottom:1px solid #e5e7eb;">Cat&eacute;gorie</th>
          <th style="text-align:right;padding:8px;border-bottom:1px solid #e5e7eb;">Qt&eacute;</th>
          <th style="text-align:right;padding:8px;border-bottom:1px solid #e5e7eb;">Volume</th>
        </tr>
        {{range .Devis.Meubles}}
        <tr>
          <td style="padding:8px;border-bottom:1px solid #f3f4f6;">{{.MeubleNom}}</td>
          <td style="padding:8px;border-bottom:1px solid #f3f4f6;">{{.MeubleCategorie}}</td>
          <td style="padding:8px;border-bottom:1px solid #f3f4f6;text-align:right;">{{.Quantite}}</td>
          <td style="padding:8px;border-bottom:1px solid #f3f4f6;text-align:right;">{{printf "%.2f" .VolumeUnitaireM3}} m&sup3;</td>
        </tr>
        {{end}}
      </table>
      <p style="font-size:15px;margin-top:16px;">
        Volume total estim&eacute; : <strong>{{printf "%.2f" .Devis.VolumeTotalM3}} m&sup3;</strong><br>
        Nombre de meubles : <strong>{{.Devis.NombreMeubles}}</strong>
      </p>
      <p>D&eacute;part&nbsp;: {{.Devis.AdresseDepart}}<br>
         Arriv&eacute;e&nbsp;: {{.Devis.AdresseArrivee}}</p>
      <p style="color:#6b7280;font-size:13px;">Cette estimation est fournie &agrave;
         titre indicatif et sera confirm&eacute;e par votre d&eacute;m&eacute;nageur.</p>
    </div>
    <div style="background-color:#f9fafb;padding:16px;text-align:center;color:#9ca3af;font-size:12px;">
      {{.Entreprise.Nom}} &mdash; devis {{.Devis.Numero}}
    </div>
  </div>
</body>
</html>`

const entrepriseEmailTemplate = `<!DOCTYPE html>
<html lang="fr">
<body style="margin:0;padding:0;background-color:#f3f4f6;font-family:Arial,Helvetica,sans-serif;">
  <div style="max-width:600px;margin:0 auto;background-color:#ffffff;">
    <div style="background-color:#dc2626;padding:20px;text-align:center;">
      <h1 style="color:#ffffff;margin:0;font-size:20px;">Nouvelle demande de devis</h1>
    </div>
    <div style="padding:24px;color:#111827;">
      <p><strong>{{.Devis.Numero}}</strong> &mdash; re&ccedil;u via votre calculatrice.</p>
      <h2 style="font-size:16px;">Contact client</h2>
      <table style="font-size:14px;">
        <tr><td style="padding:4px 12px 4px 0;color:#6b7280;">Nom</td><td>{{.Devis.Nom}}</td></tr>
        <tr><td style="padding:4px 12px 4px 0;color:#6b7280;">Email</td><td>{{.Devis.Email}}</td></tr>
        <tr><td style="padding:4px 12px 4px 0;color:#6b7280;">T&eacute;l&eacute;phone</td><td>{{.Devis.Telephone}}</td></tr>
        {{if .Devis.DateDemenagement}}<tr><td style="padding:4px 12px 4px 0;color:#6b7280;">Date souhait&eacute;e</td><td>{{.Devis.DateDemenagement}}</td></tr>{{end}}
      </table>
      <h2 style="font-size:16px;">D&eacute;m&eacute;nagement</h2>
      <p style="font-size:14px;">
        D&eacute;part&nbsp;: {{.Devis.AdresseDepart}} ({{if .Devis.AvecAscenseurDepart}}avec{{else}}sans{{end}} ascenseur)<br>
        Arriv&eacute;e&nbsp;: {{.Devis.AdresseArrivee}} ({{if .Devis.AvecAscenseurArrivee}}avec{{else}}sans{{end}} ascenseur)
      </p>
      <h2 style="font-size:16px;">Inventaire</h2>
      <table style="width:100%;border-collapse:collapse;font-size:14px;">
        <tr style="background-color:#f9fafb;">
          <th style="text-align:left;padding:8px;border-bottom:1px solid #e5e7eb;">Meuble</th>
          <th style="text-align:right;padding:8px;border-bottom:1px solid #e5e7eb;">Qt&eacute;</th>
          <th style="text-align:right;padding:8px;border-bottom:1px solid #e5e7eb;">Volume unitaire</th>
        </tr>
        {{range .Devis.Meubles}}
        <tr>
          <td style="padding:8px;border-bottom:1px solid #f3f4f6;">{{.MeubleNom}}</td>
          <td style="padding:8px;border-bottom:1px solid #f3f4f6;text-align:right;">{{.Quantite}}</td>
          <td style="padding:8px;border-bottom:1px solid #f3f4f6;text-align:right;">{{printf "%.2f" .VolumeUnitaireM3}} m&sup3;</td>
        </tr>
        {{end}}
      </table>
      <p style="font-size:15px;">
        Volume total&nbsp;: <strong>{{printf "%.2f" .Devis.VolumeTotalM3}} m&sup3;</strong> &mdash;
        {{.Devis.NombreMeubles}} meubles
      </p>
      {{if .Devis.Observations}}<p style="font-size:14px;color:#6b7280;">Observations&nbsp;: {{.Devis.Observations}}</p>{{end}}
      <p style="background-color:#fef2f2;border-left:4px solid #dc2626;padding:12px;font-size:14px;">
        Pensez &agrave; traiter cette demande rapidement&nbsp;: le client attend une r&eacute;ponse.
      </p>
    </div>
  </div>
</body>
</html>`

var (
	clientTmpl     = template.Must(template.New("client").Parse(clientEmailTemplate))
	entrepriseTmpl = template.Must(template.New("entreprise").Parse(entrepriseEmailTemplate))
)

// ComposeQuoteEmails renders the two notification bodies for a quote: the
// customer confirmation and the tenant alert.
func ComposeQuoteEmails(devis *models.Devis, entreprise *models.Entreprise) (clientHTML, entrepriseHTML string, err error) {
	data := quoteEmailData{Devis: devis, Entreprise: entreprise}

	var clientBuf bytes.Buffer
	if err := clientTmpl.Execute(&clientBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to render client email: %w", err)
	}

	var entrepriseBuf bytes.Buffer
	if err := entrepriseTmpl.Execute(&entrepriseBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to render entreprise email: %w", err)
	}

	return clientBuf.String(), entrepriseBuf.String(), nil
}
