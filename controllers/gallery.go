// controllers/gallery.go
package controllers

import (
	"net/http"

	"github.com/DiomarGoncalves/julia-lashes-studio/config"
	"github.com/DiomarGoncalves/julia-lashes-studio/models"
	"github.com/DiomarGoncalves/julia-lashes-studio/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateGalleryImageInput struct {
	URL string `json:"url" binding:"required,url"`
	Alt string `json:"alt"`
}

type CreateServiceImageInput struct {
	ServiceID string `json:"serviceId" binding:"required"`
	URL       string `json:"url" binding:"required,url"`
	Alt       string `json:"alt"`
}

// GetGallery lists all gallery images
func GetGallery(c *gin.Context) {
	var images []models.GalleryImage
	if err := config.DB.Order("created_at desc").Find(&images).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve gallery")
		return
	}

	c.JSON(http.StatusOK, images)
}

// CreateGalleryImage adds an image to the gallery
func CreateGalleryImage(c *gin.Context) {
	var input CreateGalleryImageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	image := models.GalleryImage{URL: input.URL, Alt: input.Alt}
	if err := config.DB.Create(&image).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create image")
		return
	}

	c.JSON(http.StatusCreated, image)
}

// DeleteGalleryImage removes an image from the gallery
func DeleteGalleryImage(c *gin.Context) {
	imageUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid image ID format")
		return
	}

	result := config.DB.Where("id = ?", imageUUID).Delete(&models.GalleryImage{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete image")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Image not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}

// GetServiceImages lists the images linked to a service
func GetServiceImages(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("serviceId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var images []models.ServiceImage
	if err := config.DB.Where("service_id = ?", serviceUUID).
		Order("created_at asc").Find(&images).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve images")
		return
	}

	c.JSON(http.StatusOK, images)
}

// CreateServiceImage links an image to a service
func CreateServiceImage(c *gin.Context) {
	var input CreateServiceImageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	serviceUUID, err := uuid.Parse(input.ServiceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var service models.Service
	if err := config.DB.Where("id = ?", serviceUUID).First(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	image := models.ServiceImage{ServiceID: serviceUUID, URL: input.URL, Alt: input.Alt}
	if err := config.DB.Create(&image).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create image")
		return
	}

	c.JSON(http.StatusCreated, image)
}

// DeleteServiceImage unlinks an image from a service
func DeleteServiceImage(c *gin.Context) {
	imageUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid image ID format")
		return
	}

	result := config.DB.Where("id = ?", imageUUID).Delete(&models.ServiceImage{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete image")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Image not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}
