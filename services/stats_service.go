package services

import (
	"fmt"
	"math"
	"time"

	"github.com/demenago/demenago-api/models"
	"gorm.io/gorm"
)

// DailyCount is one day of the trailing-7-day series.
type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

// TopMeuble is one entry of the most-requested furniture ranking.
type TopMeuble struct {
	Nom      string `json:"nom"`
	Quantite int64  `json:"quantite"`
}

// StatsResult is the full dashboard aggregate payload for one tenant.
// Everything is recomputed from source on each call; there is no cache.
type StatsResult struct {
	TotalDevis     int64   `json:"total_devis"`
	VolumeTotalM3  float64 `json:"volume_total_m3"`
	TotalMeubles   int64   `json:"total_meubles"`
	ClientsUniques int64   `json:"clients_uniques"`

	// Status buckets: nouveaux / en_cours / acceptes / refuses / termines.
	// Archived quotes count in the total but sit outside the buckets.
	ParStatut map[string]int64 `json:"par_statut"`

	DevisMoisCourant      int64   `json:"devis_mois_courant"`
	DevisMoisPrecedent    int64   `json:"devis_mois_precedent"`
	VolumeMoisCourant     float64 `json:"volume_mois_courant"`
	VolumeMoisPrecedent   float64 `json:"volume_mois_precedent"`
	AcceptesMoisCourant   int64   `json:"acceptes_mois_courant"`
	AcceptesMoisPrecedent int64   `json:"acceptes_mois_precedent"`
	TendanceDevis         float64 `json:"tendance_devis"`
	TendanceVolume        float64 `json:"tendance_volume"`
	TendanceAcceptes      float64 `json:"tendance_acceptes"`

	SeptDerniersJours []DailyCount `json:"sept_derniers_jours"`
	TopMeubles        []TopMeuble  `json:"top_meubles"`

	VolumeMoyenM3  float64 `json:"volume_moyen_m3"`
	TauxConversion float64 `json:"taux_conversion"` // percent, 1 decimal

	DevisRecents []models.Devis `json:"devis_recents"`
}

// statutGroups maps each dashboard bucket to the statuses it covers.
var statutGroups = map[string][]string{
	"nouveaux": {models.StatutNouveau},
	"en_cours": {models.StatutVu, models.StatutEnTraitement, models.StatutDevisEnvoye},
	"acceptes": {models.StatutAccepte},
	"refuses":  {models.StatutRefuse},
	"termines": {models.StatutTermine},
}

// ComputeStats runs all dashboard aggregations for one tenant.
func ComputeStats(db *gorm.DB, entrepriseID uint) (*StatsResult, error) {
	result := &StatsResult{ParStatut: make(map[string]int64)}
	scope := func() *gorm.DB {
		return db.Model(&models.Devis{}).Where("entreprise_id = ?", entrepriseID)
	}

	if err := scope().Count(&result.TotalDevis).Error; err != nil {
		return nil, fmt.Errorf("failed to count devis: %w", err)
	}
	if err := scope().Select("COALESCE(SUM(volume_total_m3), 0)").Scan(&result.VolumeTotalM3).Error; err != nil {
		return nil, fmt.Errorf("failed to sum volume: %w", err)
	}
	if err := scope().Select("COALESCE(SUM(nombre_meubles), 0)").Scan(&result.TotalMeubles).Error; err != nil {
		return nil, fmt.Errorf("failed to sum meubles: %w", err)
	}
	if err := scope().Distinct("email").Count(&result.ClientsUniques).Error; err != nil {
		return nil, fmt.Errorf("failed to count unique clients: %w", err)
	}

	for bucket, statuts := range statutGroups {
		var n int64
		if err := scope().Where("statut IN ?", statuts).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("failed to count statut bucket %s: %w", bucket, err)
		}
		result.ParStatut[bucket] = n
	}

	now := time.Now()
	moisCourant := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	moisPrecedent := moisCourant.AddDate(0, -1, 0)

	if err := scope().Where("created_at >= ?", moisCourant).Count(&result.DevisMoisCourant).Error; err != nil {
		return nil, fmt.Errorf("failed to count current month: %w", err)
	}
	if err := scope().Where("created_at >= ? AND created_at < ?", moisPrecedent, moisCourant).
		Count(&result.DevisMoisPrecedent).Error; err != nil {
		return nil, fmt.Errorf("failed to count previous month: %w", err)
	}
	if err := scope().Where("created_at >= ?", moisCourant).
		Select("COALESCE(SUM(volume_total_m3), 0)").Scan(&result.VolumeMoisCourant).Error; err != nil {
		return nil, fmt.Errorf("failed to sum current month volume: %w", err)
	}
	if err := scope().Where("created_at >= ? AND created_at < ?", moisPrecedent, moisCourant).
		Select("COALESCE(SUM(volume_total_m3), 0)").Scan(&result.VolumeMoisPrecedent).Error; err != nil {
		return nil, fmt.Errorf("failed to sum previous month volume: %w", err)
	}
	if err := scope().Where("statut = ? AND created_at >= ?", models.StatutAccepte, moisCourant).
		Count(&result.AcceptesMoisCourant).Error; err != nil {
		return nil, fmt.Errorf("failed to count current month accepted: %w", err)
	}
	if err := scope().Where("statut = ? AND created_at >= ? AND created_at < ?",
		models.StatutAccepte, moisPrecedent, moisCourant).
		Count(&result.AcceptesMoisPrecedent).Error; err != nil {
		return nil, fmt.Errorf("failed to count previous month accepted: %w", err)
	}

	result.TendanceDevis = TrendPercent(float64(result.DevisMoisPrecedent), float64(result.DevisMoisCourant))
	result.TendanceVolume = TrendPercent(result.VolumeMoisPrecedent, result.VolumeMoisCourant)
	result.TendanceAcceptes = TrendPercent(float64(result.AcceptesMoisPrecedent), float64(result.AcceptesMoisCourant))

	septJours, err := trailingSevenDays(scope(), now)
	if err != nil {
		return nil, err
	}
	result.SeptDerniersJours = septJours

	if err := db.Table("devis_meubles").
		Select("devis_meubles.meuble_nom AS nom, SUM(devis_meubles.quantite) AS quantite").
		Joins("JOIN devis ON devis.id = devis_meubles.devis_id").
		Where("devis.entreprise_id = ?", entrepriseID).
		Group("devis_meubles.meuble_nom").
		Order("quantite DESC").
		Limit(5).
		Scan(&result.TopMeubles).Error; err != nil {
		return nil, fmt.Errorf("failed to rank meubles: %w", err)
	}

	if result.TotalDevis > 0 {
		result.VolumeMoyenM3 = round2(result.VolumeTotalM3 / float64(result.TotalDevis))
	}
	var acceptes int64
	if err := scope().Where("statut = ?", models.StatutAccepte).Count(&acceptes).Error; err != nil {
		return nil, fmt.Errorf("failed to count accepted devis: %w", err)
	}
	result.TauxConversion = ConversionRate(acceptes, result.TotalDevis)

	if err := scope().Order("created_at DESC").Limit(5).Find(&result.DevisRecents).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent devis: %w", err)
	}

	return result, nil
}

// trailingSevenDays buckets quote creation times by day in application code,
// which keeps the grouping portable across postgres and sqlite.
func trailingSevenDays(scope *gorm.DB, now time.Time) ([]DailyCount, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -6)

	var createdAts []time.Time
	if err := scope.Where("created_at >= ?", start).Pluck("created_at", &createdAts).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent creation times: %w", err)
	}

	counts := make(map[string]int64)
	for _, ts := range createdAts {
		counts[ts.In(now.Location()).Format("2006-01-02")]++
	}

	days := make([]DailyCount, 7)
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		days[i] = DailyCount{Date: date, Count: counts[date]}
	}
	return days, nil
}

// TrendPercent computes the month-over-month change percentage. A previous
// value of 0 reports 100% when anything arrived this month, 0% otherwise.
func TrendPercent(previous, current float64) float64 {
	if previous > 0 {
		return round1((current - previous) / previous * 100)
	}
	if current > 0 {
		return 100
	}
	return 0
}

// ConversionRate computes accepted/total as a percentage rounded to one
// decimal; 0 when there are no quotes at all.
func ConversionRate(accepted, total int64) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(accepted) / float64(total) * 100)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
