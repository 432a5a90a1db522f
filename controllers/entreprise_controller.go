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
	"github.com/demenago/demenago-api/utils"
)

// CreateEntrepriseRequest represents the request body for creating a tenant
type CreateEntrepriseRequest struct {
	Nom               string `json:"nom" binding:"required,min=2"`
	EmailContact      string `json:"email_contact" binding:"required,email"`
	Telephone         string `json:"telephone"`
	CouleurPrimaire   string `json:"couleur_primaire"`
	CouleurSecondaire string `json:"couleur_secondaire"`
	Plan              string `json:"plan"`
}

// CreateEntreprise handles POST /api/admin/entreprises - creates a tenant
// with a collision-free slug derived from its name
func CreateEntreprise(c *gin.Context) {
	var req CreateEntrepriseRequest
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

	slug, err := utils.UniqueSlug(db, req.Nom)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERSISTENCE_ERROR",
				"message": "Failed to generate slug",
			},
		})
		return
	}

	entreprise := models.Entreprise{
		Nom:          req.Nom,
		Slug:         slug,
		EmailContact: req.EmailContact,
		Telephone:    req.Telephone,
	}
	if req.CouleurPrimaire != "" {
		entreprise.CouleurPrimaire = req.CouleurPrimaire
	}
	if req.CouleurSecondaire != "" {
		entreprise.CouleurSecondaire = req.CouleurSecondaire
	}
	if req.Plan != "" {
		entreprise.Plan = req.Plan
	}

	if err := db.Create(&entreprise).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERSISTENCE_ERROR",
				"message": "Failed to create entreprise",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    entreprise,
	})
}

// ListEntreprises handles GET /api/admin/entreprises - lists active tenants
func ListEntreprises(c *gin.Context) {
	db := config.GetDB()

	var entreprises []models.Entreprise
	if err := db.Order("nom ASC").Find(&entreprises).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load entreprises",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entreprises,
	})
}

// UpdateEntrepriseRequest represents the sparse PATCH body for a tenant.
// The slug is deliberately absent: it is immutable after creation.
type UpdateEntrepriseRequest struct {
	Nom               *string `json:"nom"`
	Slug              *string `json:"slug"` // rejected if present
	EmailContact      *string `json:"email_contact" binding:"omitempty,email"`
	Telephone         *string `json:"telephone"`
	CouleurPrimaire   *string `json:"couleur_primaire"`
	CouleurSecondaire *string `json:"couleur_secondaire"`
	UseCustomSMTP     *bool   `json:"use_custom_smtp"`
	SMTPHost          *string `json:"smtp_host"`
	SMTPPort          *int    `json:"smtp_port"`
	SMTPUser          *string `json:"smtp_user"`
	SMTPPassword      *string `json:"smtp_password"`
	SMTPCc            *string `json:"smtp_cc"`
	Plan              *string `json:"plan"`
}

// UpdateEntreprise handles PATCH /api/admin/entreprises/:id
func UpdateEntreprise(c *gin.Context) {
	var req UpdateEntrepriseRequest
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

	if req.Slug != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SLUG_IMMUTABLE",
				"message": "The slug cannot be changed after creation",
			},
		})
		return
	}

	db := config.GetDB()

	var entreprise models.Entreprise
	if err := db.First(&entreprise, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
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
				"code":    "DATABASE_ERROR",
				"message": "Failed to load entreprise",
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.Nom != nil {
		updates["nom"] = *req.Nom
	}
	if req.EmailContact != nil {
		updates["email_contact"] = *req.EmailContact
	}
	if req.Telephone != nil {
		updates["telephone"] = *req.Telephone
	}
	if req.CouleurPrimaire != nil {
		updates["couleur_primaire"] = *req.CouleurPrimaire
	}
	if req.CouleurSecondaire != nil {
		updates["couleur_secondaire"] = *req.CouleurSecondaire
	}
	if req.UseCustomSMTP != nil {
		updates["use_custom_smtp"] = *req.UseCustomSMTP
	}
	if req.SMTPHost != nil {
		updates["smtp_host"] = *req.SMTPHost
	}
	if req.SMTPPort != nil {
		updates["smtp_port"] = *req.SMTPPort
	}
	if req.SMTPUser != nil {
		updates["smtp_user"] = *req.SMTPUser
	}
	if req.SMTPPassword != nil {
		updates["smtp_password"] = *req.SMTPPassword
	}
	if req.SMTPCc != nil {
		updates["smtp_cc"] = *req.SMTPCc
	}
	if req.Plan != nil {
		updates["plan"] = *req.Plan
	}

	if len(updates) > 0 {
		if err := db.Model(&entreprise).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PERSISTENCE_ERROR",
					"message": "Failed to update entreprise",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entreprise,
	})
}

// DeleteEntreprise handles DELETE /api/admin/entreprises/:id - deactivation
// via soft delete; the slug stays reserved and the data stays queryable
func DeleteEntreprise(c *gin.Context) {
	db := config.GetDB()

	var entreprise models.Entreprise
	if err := db.First(&entreprise, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
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
				"code":    "DATABASE_ERROR",
				"message": "Failed to load entreprise",
			},
		})
		return
	}

	if err := db.Delete(&entreprise).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERSISTENCE_ERROR",
				"message": "Failed to deactivate entreprise",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Entreprise désactivée",
	})
}

// UploadEntrepriseLogo handles POST /api/admin/entreprises/:id/logo
func UploadEntrepriseLogo(c *gin.Context) {
	db := config.GetDB()

	var entreprise models.Entreprise
	if err := db.First(&entreprise, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
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
				"code":    "DATABASE_ERROR",
				"message": "Failed to load entreprise",
			},
		})
		return
	}

	key, ok := handleImageUpload(c, "logo", "logos")
	if !ok {
		return
	}

	// Drop the previous logo once the new one is stored; a failed delete
	// just leaks an orphan object and is not worth failing the request.
	if entreprise.LogoS3Key != nil {
		if err := services.GetStorageService().DeleteFile(*entreprise.LogoS3Key); err != nil {
			log.Printf("Failed to delete previous logo %s: %v", *entreprise.LogoS3Key, err)
		}
	}

	if err := db.Model(&entreprise).Update("logo_s3_key", key).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERSISTENCE_ERROR",
				"message": "Failed to save logo reference",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"logo_s3_key": key,
		},
	})
}

// handleImageUpload validates and stores one multipart image, returning the
// storage key. Writes the error response itself on failure.
func handleImageUpload(c *gin.Context, field, prefix string) (string, bool) {
	storage := services.GetStorageService()
	if storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "File storage is not configured",
			},
		})
		return "", false
	}

	fileHeader, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "No file provided in field '" + field + "'",
			},
		})
		return "", false
	}

	if err := utils.ValidateImageFile(fileHeader); err != nil {
		var uploadErr *utils.FileUploadError
		code := "INVALID_FILE"
		if errors.As(err, &uploadErr) {
			code = uploadErr.Code
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return "", false
	}

	key, err := storage.UploadFile(fileHeader, prefix)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to store file",
			},
		})
		return "", false
	}

	return key, true
}
