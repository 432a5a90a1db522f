package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/demenago/demenago-api/config"
	"github.com/demenago/demenago-api/models"
	"github.com/demenago/demenago-api/services"
)

// CalculatriceEntreprise is the public subset of tenant data exposed to the
// calculator page. SMTP and subscription fields never leave the server.
type CalculatriceEntreprise struct {
	ID                uint    `json:"id"`
	Nom               string  `json:"nom"`
	Slug              string  `json:"slug"`
	CouleurPrimaire   string  `json:"couleur_primaire"`
	CouleurSecondaire string  `json:"couleur_secondaire"`
	LogoURL           *string `json:"logo_url,omitempty"`
}

// GetCalculatrice handles GET /api/calculatrice/:slug - loads a tenant's
// branding plus the full furniture catalog for the public calculator
func GetCalculatrice(c *gin.Context) {
	slug := c.Param("slug")
	db := config.GetDB()

	var entreprise models.Entreprise
	// Soft-deleted tenants are excluded by the default scope, so a
	// deactivated entreprise looks exactly like a missing one.
	if err := db.Where("slug = ?", slug).First(&entreprise).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Aucune entreprise active pour ce lien",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load entreprise",
			},
		})
		return
	}

	var categories []models.CategorieMeuble
	if err := db.Order("ordre ASC, label ASC").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load categories",
			},
		})
		return
	}

	var meubles []models.Meuble
	if err := db.Preload("Categorie").Order("nom ASC").Find(&meubles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load meubles",
			},
		})
		return
	}

	publicEntreprise := CalculatriceEntreprise{
		ID:                entreprise.ID,
		Nom:               entreprise.Nom,
		Slug:              entreprise.Slug,
		CouleurPrimaire:   entreprise.CouleurPrimaire,
		CouleurSecondaire: entreprise.CouleurSecondaire,
	}

	// Presigned URLs are best effort: a storage hiccup leaves the image
	// fields empty instead of failing the whole catalog load.
	if storage := services.GetStorageService(); storage != nil {
		if entreprise.LogoS3Key != nil {
			if url, err := storage.GetPresignedURL(*entreprise.LogoS3Key); err == nil && url != "" {
				publicEntreprise.LogoURL = &url
			} else if err != nil {
				log.Printf("Failed to presign logo for %s: %v", entreprise.Slug, err)
			}
		}
		for i := range meubles {
			if meubles[i].ImageS3Key == nil {
				continue
			}
			if url, err := storage.GetPresignedURL(*meubles[i].ImageS3Key); err == nil && url != "" {
				meubles[i].ImageURL = &url
			} else if err != nil {
				log.Printf("Failed to presign image for meuble %d: %v", meubles[i].ID, err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"entreprise": publicEntreprise,
			"categories": categories,
			"meubles":    meubles,
		},
	})
}
