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

// CreateCategorieRequest represents the request body for a furniture category
type CreateCategorieRequest struct {
	Nom   string `json:"nom" binding:"required"`
	Label string `json:"label" binding:"required"`
	Ordre int    `json:"ordre"`
}

// CreateCategorie handles POST /api/admin/categories
func CreateCategorie(c *gin.Context) {
	var req CreateCategorieRequest
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

	categorie := models.CategorieMeuble{
		Nom:   req.Nom,
		Label: req.Label,
		Ordre: req.Ordre,
	}

	if err := config.GetDB().Create(&categorie).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERSISTENCE_ERROR",
				"message": "Failed to create categorie",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    categorie,
	})
}

// CreateMeubleRequest represents the request body for a catalog item
type CreateMeubleRequest struct {
	CategorieID uint     `json:"categorie_id" binding:"required"`
	Nom         string   `json:"nom" binding:"required"`
	VolumeM3    float64  `json:"volume_m3" binding:"required,gt=0"`
	PoidsKg     *float64 `json:"poids_kg" binding:"omitempty,gt=0"`
}

// CreateMeuble handles POST /api/admin/meubles
func CreateMeuble(c *gin.Context) {
	var req CreateMeubleRequest
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

	var categorie models.CategorieMeuble
	if err := db.First(&categorie, req.CategorieID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Categorie introuvable",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load categorie",
			},
		})
		return
	}

	meuble := models.Meuble{
		CategorieID: req.CategorieID,
		Nom:         req.Nom,
		VolumeM3:    req.VolumeM3,
		PoidsKg:     req.PoidsKg,
	}

	if err := db.Create(&meuble).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERSISTENCE_ERROR",
				"message": "Failed to create meuble",
			},
		})
		return
	}

	meuble.Categorie = categorie
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    meuble,
	})
}

// UpdateMeubleRequest represents the sparse PATCH body for a catalog item
type UpdateMeubleRequest struct {
	CategorieID *uint    `json:"categorie_id"`
	Nom         *string  `json:"nom"`
	VolumeM3    *float64 `json:"volume_m3" binding:"omitempty,gt=0"`
	PoidsKg     *float64 `json:"poids_kg" binding:"omitempty,gt=0"`
}

// UpdateMeuble handles PATCH /api/admin/meubles/:id. Existing quote line
// items keep their snapshots; catalog edits only affect future quotes.
func UpdateMeuble(c *gin.Context) {
	var req UpdateMeubleRequest
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

	var meuble models.Meuble
	if err := db.First(&meuble, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Meuble introuvable",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load meuble",
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.CategorieID != nil {
		updates["categorie_id"] = *req.CategorieID
	}
	if req.Nom != nil {
		updates["nom"] = *req.Nom
	}
	if req.VolumeM3 != nil {
		updates["volume_m3"] = *req.VolumeM3
	}
	if req.PoidsKg != nil {
		updates["poids_kg"] = *req.PoidsKg
	}

	if len(updates) > 0 {
		if err := db.Model(&meuble).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PERSISTENCE_ERROR",
					"message": "Failed to update meuble",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    meuble,
	})
}

// DeleteMeuble handles DELETE /api/admin/meubles/:id
func DeleteMeuble(c *gin.Context) {
	db := config.GetDB()

	var meuble models.Meuble
	if err := db.First(&meuble, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Meuble introuvable",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load meuble",
			},
		})
		return
	}

	if meuble.ImageS3Key != nil {
		if storage := services.GetStorageService(); storage != nil {
			if err := storage.DeleteFile(*meuble.ImageS3Key); err != nil {
				log.Printf("Failed to delete image %s: %v", *meuble.ImageS3Key, err)
			}
		}
	}

	if err := db.Delete(&meuble).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERSISTENCE_ERROR",
				"message": "Failed to delete meuble",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Meuble supprimé",
	})
}

// UploadMeubleImage handles POST /api/admin/meubles/:id/image
func UploadMeubleImage(c *gin.Context) {
	db := config.GetDB()

	var meuble models.Meuble
	if err := db.First(&meuble, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Meuble introuvable",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load meuble",
			},
		})
		return
	}

	key, ok := handleImageUpload(c, "image", "meubles")
	if !ok {
		return
	}

	if meuble.ImageS3Key != nil {
		if err := services.GetStorageService().DeleteFile(*meuble.ImageS3Key); err != nil {
			log.Printf("Failed to delete previous image %s: %v", *meuble.ImageS3Key, err)
		}
	}

	if err := db.Model(&meuble).Update("image_s3_key", key).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERSISTENCE_ERROR",
				"message": "Failed to save image reference",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"image_s3_key": key,
		},
	})
}
