// controllers/settings.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/DiomarGoncalves/julia-lashes-studio/config"
	"github.com/DiomarGoncalves/julia-lashes-studio/models"
	"github.com/DiomarGoncalves/julia-lashes-studio/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateSettingsInput struct {
	OpeningHours          models.JSONB `json:"openingHours"`
	SocialLinks           models.JSONB `json:"socialLinks"`
	Texts                 models.JSONB `json:"texts"`
	WhatsAppNotifications *bool        `json:"whatsAppNotifications"`
	SMSNotifications      *bool        `json:"smsNotifications"`
}

// loadSettings returns the settings singleton, creating it with defaults
// on first access.
func loadSettings() (models.Settings, error) {
	var settings models.Settings
	err := config.DB.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.Settings{
			OpeningHours: models.DefaultOpeningHours(),
			SocialLinks:  models.JSONB{},
			Texts:        models.JSONB{},
		}
		err = config.DB.Create(&settings).Error
	}
	return settings, err
}

// GetSettings returns the site settings (public: opening hours, social
// links and page texts are rendered on the public pages)
func GetSettings(c *gin.Context) {
	settings, err := loadSettings()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings overwrites the provided sections of the singleton
func UpdateSettings(c *gin.Context) {
	var input UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	settings, err := loadSettings()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	if input.OpeningHours != nil {
		settings.OpeningHours = input.OpeningHours
	}
	if input.SocialLinks != nil {
		settings.SocialLinks = input.SocialLinks
	}
	if input.Texts != nil {
		settings.Texts = input.Texts
	}
	if input.WhatsAppNotifications != nil {
		settings.WhatsAppNotifications = *input.WhatsAppNotifications
	}
	if input.SMSNotifications != nil {
		settings.SMSNotifications = *input.SMSNotifications
	}

	if err := config.DB.Save(&settings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}
