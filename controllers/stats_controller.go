package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/demenago/demenago-api/config"
	"github.com/demenago/demenago-api/models"
	"github.com/demenago/demenago-api/services"
)

// GetStats handles GET /api/entreprise/stats?entrepriseId= - the dashboard
// aggregate payload, recomputed from source on every call
func GetStats(c *gin.Context) {
	entrepriseID, ok := parseEntrepriseID(c)
	if !ok {
		return
	}

	db := config.GetDB()

	var entreprise models.Entreprise
	if err := db.First(&entreprise, entrepriseID).Error; err != nil {
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

	stats, err := services.ComputeStats(db, entrepriseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute stats",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
