package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/demenago/demenago-api/config"
	"github.com/demenago/demenago-api/models"
	"github.com/demenago/demenago-api/services"
	"github.com/demenago/demenago-api/utils"
)

// DevisMeubleRequest is one line item of a quote submission
type DevisMeubleRequest struct {
	MeubleID         uint     `json:"meuble_id" binding:"required"`
	MeubleNom        string   `json:"meuble_nom" binding:"required"`
	MeubleCategorie  string   `json:"meuble_categorie"`
	Quantite         int      `json:"quantite" binding:"required,gt=0"`
	VolumeUnitaireM3 float64  `json:"volume_unitaire_m3" binding:"required,gt=0"`
	PoidsUnitaireKg  *float64 `json:"poids_unitaire_kg"`
}

// CreateDevisRequest represents the request body for a quote submission.
// Either entreprise_id or entreprise_slug must identify the tenant.
type CreateDevisRequest struct {
	EntrepriseID         uint                 `json:"entreprise_id"`
	EntrepriseSlug       string               `json:"entreprise_slug"`
	Nom                  string               `json:"nom" binding:"required,min=2"`
	Email                string               `json:"email" binding:"required,email"`
	Telephone            string               `json:"telephone" binding:"required,min=10"`
	AdresseDepart        string               `json:"adresse_depart" binding:"required,min=5"`
	AvecAscenseurDepart  bool                 `json:"avec_ascenseur_depart"`
	AdresseArrivee       string               `json:"adresse_arrivee" binding:"required,min=5"`
	AvecAscenseurArrivee bool                 `json:"avec_ascenseur_arrivee"`
	DateDemenagement     *string              `json:"date_demenagement"`
	Observations         *string              `json:"observations"`
	VolumeTotalM3        float64              `json:"volume_total_m3" binding:"required,gt=0"`
	Meubles              []DevisMeubleRequest `json:"meubles" binding:"required,min=1,dive"`
}

// CreateDevis handles POST /api/devis - the public quote submission endpoint.
// The quote and its line items are persisted in one transaction; notification
// emails go out on a detached goroutine after the response is written.
func CreateDevis(c *gin.Context) {
	var req CreateDevisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()

	entreprise, err := services.ResolveEntreprise(db, req.EntrepriseID, req.EntrepriseSlug)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Entreprise introuvable",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERSISTENCE_ERROR",
				"message": "Failed to resolve entreprise",
			},
		})
		return
	}

	input := services.CreateDevisInput{
		EntrepriseID:         entreprise.ID,
		Nom:                  req.Nom,
		Email:                req.Email,
		Telephone:            req.Telephone,
		AdresseDepart:        req.AdresseDepart,
		AvecAscenseurDepart:  req.AvecAscenseurDepart,
		AdresseArrivee:       req.AdresseArrivee,
		AvecAscenseurArrivee: req.AvecAscenseurArrivee,
		DateDemenagement:     req.DateDemenagement,
		Observations:         req.Observations,
		VolumeTotalM3:        req.VolumeTotalM3,
		AdresseIP:            utils.ClientIP(c.Request),
	}
	for _, m := range req.Meubles {
		input.Meubles = append(input.Meubles, services.DevisLineInput{
			MeubleID:         m.MeubleID,
			MeubleNom:        m.MeubleNom,
			MeubleCategorie:  m.MeubleCategorie,
			Quantite:         m.Quantite,
			VolumeUnitaireM3: m.VolumeUnitaireM3,
			PoidsUnitaireKg:  m.PoidsUnitaireKg,
		})
	}

	devis, err := services.CreateDevis(db, input)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": err.Error(),
				},
			})
			return
		}
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Entreprise introuvable",
				},
			})
			return
		}
		// Generic message: transaction details stay in the logs
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERSISTENCE_ERROR",
				"message": "Failed to create devis",
			},
		})
		return
	}

	// Detached task: the HTTP response never waits on SMTP. The task owns
	// its error handling and updates the email-sent flags itself.
	if emailService := services.GetEmailService(); emailService != nil {
		go emailService.SendQuoteEmails(devis.ID)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"devis_id":     devis.ID,
		"devis_numero": devis.Numero,
	})
}

// ListDevis handles GET /api/entreprise/devis?entrepriseId= - lists a
// tenant's quotes, newest first, optionally filtered by status
func ListDevis(c *gin.Context) {
	entrepriseID, ok := parseEntrepriseID(c)
	if !ok {
		return
	}

	db := config.GetDB()
	query := db.Where("entreprise_id = ?", entrepriseID).Order("created_at DESC")

	if statut := c.Query("statut"); statut != "" {
		if !models.IsValidStatut(statut) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": "Unknown statut value",
				},
			})
			return
		}
		query = query.Where("statut = ?", statut)
	}

	var devis []models.Devis
	if err := query.Find(&devis).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load devis",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    devis,
	})
}

// GetDevis handles GET /api/entreprise/devis/:id - returns one quote with
// its line items
func GetDevis(c *gin.Context) {
	db := config.GetDB()

	var devis models.Devis
	if err := db.Preload("Meubles").First(&devis, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DEVIS_NOT_FOUND",
					"message": "Devis introuvable",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load devis",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    devis,
	})
}

// UpdateDevisRequest represents the sparse PATCH body for a quote. Nil
// fields are left untouched.
type UpdateDevisRequest struct {
	Statut            *string  `json:"statut"`
	MontantDevis      *float64 `json:"montant_devis"`
	Devise            *string  `json:"devise"`
	NombreDemenageurs *int     `json:"nombre_demenageurs"`
	Observations      *string  `json:"observations"`
	DateDemenagement  *string  `json:"date_demenagement"`
}

// UpdateDevis handles PATCH /api/entreprise/devis/:id - sparse updates of
// the dashboard-editable fields. Concurrent edits are last-writer-wins.
func UpdateDevis(c *gin.Context) {
	var req UpdateDevisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	updates, ok := buildDevisUpdates(c, &req)
	if !ok {
		return
	}

	applyDevisUpdates(c, updates)
}

// buildDevisUpdates turns non-nil request fields into an explicit update
// map, one conditional per column. Rejects unknown status values.
func buildDevisUpdates(c *gin.Context, req *UpdateDevisRequest) (map[string]interface{}, bool) {
	updates := make(map[string]interface{})

	if req.Statut != nil {
		if !models.IsValidStatut(*req.Statut) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": "Unknown statut value",
				},
			})
			return nil, false
		}
		updates["statut"] = *req.Statut
	}
	if req.MontantDevis != nil {
		updates["montant_devis"] = *req.MontantDevis
	}
	if req.Devise != nil {
		updates["devise"] = *req.Devise
	}
	if req.NombreDemenageurs != nil {
		updates["nombre_demenageurs"] = *req.NombreDemenageurs
	}
	if req.Observations != nil {
		updates["observations"] = *req.Observations
	}
	if req.DateDemenagement != nil {
		updates["date_demenagement"] = *req.DateDemenagement
	}

	return updates, true
}

// applyDevisUpdates loads the quote, applies the update map and returns the
// fresh row with line items.
func applyDevisUpdates(c *gin.Context, updates map[string]interface{}) {
	db := config.GetDB()

	var devis models.Devis
	if err := db.First(&devis, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DEVIS_NOT_FOUND",
					"message": "Devis introuvable",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load devis",
			},
		})
		return
	}

	if len(updates) > 0 {
		if err := db.Model(&devis).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PERSISTENCE_ERROR",
					"message": "Failed to update devis",
				},
			})
			return
		}
	}

	if err := db.Preload("Meubles").First(&devis, devis.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to reload devis",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    devis,
	})
}

// AdminUpdateDevisRequest extends the dashboard PATCH with the client
// contact fields only admins may correct.
type AdminUpdateDevisRequest struct {
	UpdateDevisRequest
	Nom            *string `json:"nom"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Telephone      *string `json:"telephone"`
	AdresseDepart  *string `json:"adresse_depart"`
	AdresseArrivee *string `json:"adresse_arrivee"`
}

// AdminUpdateDevis handles PATCH /api/admin/devis/:id
func AdminUpdateDevis(c *gin.Context) {
	var req AdminUpdateDevisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	updates, ok := buildDevisUpdates(c, &req.UpdateDevisRequest)
	if !ok {
		return
	}
	if req.Nom != nil {
		updates["nom"] = *req.Nom
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Telephone != nil {
		updates["telephone"] = *req.Telephone
	}
	if req.AdresseDepart != nil {
		updates["adresse_depart"] = *req.AdresseDepart
	}
	if req.AdresseArrivee != nil {
		updates["adresse_arrivee"] = *req.AdresseArrivee
	}

	applyDevisUpdates(c, updates)
}

// AdminDeleteDevis handles DELETE /api/admin/devis/:id - hard delete,
// cascading to line items in the same transaction
func AdminDeleteDevis(c *gin.Context) {
	db := config.GetDB()

	var devis models.Devis
	if err := db.First(&devis, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DEVIS_NOT_FOUND",
					"message": "Devis introuvable",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load devis",
			},
		})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("devis_id = ?", devis.ID).Delete(&models.DevisMeuble{}).Error; err != nil {
			return err
		}
		return tx.Delete(&devis).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERSISTENCE_ERROR",
				"message": "Failed to delete devis",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Devis supprimé",
	})
}

// parseEntrepriseID reads the mandatory entrepriseId query parameter
func parseEntrepriseID(c *gin.Context) (uint, bool) {
	raw := c.Query("entrepriseId")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "entrepriseId query parameter is required",
			},
		})
		return 0, false
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "entrepriseId must be an integer",
			},
		})
		return 0, false
	}

	return uint(id), true
}
