// controllers/testimonial.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/DiomarGoncalves/julia-lashes-studio/config"
	"github.com/DiomarGoncalves/julia-lashes-studio/models"
	"github.com/DiomarGoncalves/julia-lashes-studio/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmitTestimonialInput struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Text   string `json:"text" binding:"required"`
}

// GenerateTestimonialLink creates the review link for a done appointment.
// Idempotent: calling it again for the same appointment returns the link
// that already exists, never a second one.
func GenerateTestimonialLink(c *gin.Context) {
	appointmentUUID, err := uuid.Parse(c.Param("appointmentId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var appointment models.Appointment
	if err := config.DB.Preload("Client").Where("id = ?", appointmentUUID).
		First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if appointment.Status != models.StatusDone {
		utils.RespondWithError(c, http.StatusUnprocessableEntity,
			"Testimonial links can only be generated for done appointments")
		return
	}

	var testimonial models.Testimonial
	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("appointment_id = ?", appointmentUUID).First(&testimonial).Error
		if err == nil {
			return nil // already generated, reuse it
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		testimonial = models.Testimonial{
			AppointmentID: appointmentUUID,
			ClientName:    appointment.Client.Name,
			ClientPhone:   appointment.Client.Phone,
			Status:        models.TestimonialPending,
			UniqueLink:    utils.GenerateLinkToken(),
		}
		return tx.Create(&testimonial).Error
	})

	if txErr != nil {
		// A concurrent generate can win the appointment_id unique index
		// between our First and Create; its link is the link.
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			if err := config.DB.Where("appointment_id = ?", appointmentUUID).
				First(&testimonial).Error; err == nil {
				c.JSON(http.StatusCreated, linkInfoBody(testimonial))
				return
			}
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate link")
		return
	}

	c.JSON(http.StatusCreated, linkInfoBody(testimonial))
}

// GetTestimonialLinkInfo returns the link data for an appointment, or 404
// when no link has been generated yet.
func GetTestimonialLinkInfo(c *gin.Context) {
	appointmentUUID, err := uuid.Parse(c.Param("appointmentId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var testimonial models.Testimonial
	if err := config.DB.Where("appointment_id = ?", appointmentUUID).
		First(&testimonial).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Link not generated yet")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, linkInfoBody(testimonial))
}

// GetPublicTestimonial returns the form context for the public review page
func GetPublicTestimonial(c *gin.Context) {
	var testimonial models.Testimonial
	if err := config.DB.Preload("Appointment.Service").
		Where("unique_link = ?", c.Param("uniqueLink")).
		First(&testimonial).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invalid link")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clientName":  testimonial.ClientName,
		"serviceName": testimonial.Appointment.Service.Name,
		"submitted":   testimonial.Submitted,
	})
}

// SubmitTestimonial records the client's review. Each link accepts a
// single submission.
func SubmitTestimonial(c *gin.Context) {
	var input SubmitTestimonialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var testimonial models.Testimonial
	if err := config.DB.Where("unique_link = ?", c.Param("uniqueLink")).
		First(&testimonial).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invalid link")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if testimonial.Submitted {
		utils.RespondWithError(c, http.StatusConflict, "This testimonial was already submitted")
		return
	}

	testimonial.Rating = input.Rating
	testimonial.Text = input.Text
	testimonial.Submitted = true

	if err := config.DB.Save(&testimonial).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to submit testimonial")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thank you for your review!"})
}

// GetTestimonials lists all testimonials for the admin screen
func GetTestimonials(c *gin.Context) {
	var testimonials []models.Testimonial
	if err := config.DB.Order("created_at desc").Find(&testimonials).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve testimonials")
		return
	}

	c.JSON(http.StatusOK, testimonials)
}

// GetPublishedTestimonials lists published reviews for the public site
func GetPublishedTestimonials(c *gin.Context) {
	var testimonials []models.Testimonial
	if err := config.DB.
		Where("status = ? AND submitted = ?", models.TestimonialPublished, true).
		Order("created_at desc").
		Find(&testimonials).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve testimonials")
		return
	}

	c.JSON(http.StatusOK, testimonials)
}

// PublishTestimonial moves a submitted testimonial from pending to
// published. Publishing is one-way.
func PublishTestimonial(c *gin.Context) {
	testimonialUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid testimonial ID format")
		return
	}

	var testimonial models.Testimonial
	if err := config.DB.Where("id = ?", testimonialUUID).First(&testimonial).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Testimonial not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !testimonial.Submitted {
		utils.RespondWithError(c, http.StatusUnprocessableEntity,
			"Cannot publish a testimonial before the client submits it")
		return
	}

	testimonial.Status = models.TestimonialPublished
	if err := config.DB.Save(&testimonial).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to publish testimonial")
		return
	}

	c.JSON(http.StatusOK, testimonial)
}

// DeleteTestimonial removes a testimonial (and frees its appointment for
// a new link)
func DeleteTestimonial(c *gin.Context) {
	testimonialUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid testimonial ID format")
		return
	}

	// Hard delete so the unique appointment index frees up for a new link
	result := config.DB.Unscoped().Where("id = ?", testimonialUUID).Delete(&models.Testimonial{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete testimonial")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Testimonial not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Testimonial deleted successfully"})
}

// linkInfoBody builds the link-info payload, including the WhatsApp share
// message the admin screen copies for the client.
func linkInfoBody(t models.Testimonial) gin.H {
	baseURL := os.Getenv("FRONTEND_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5173"
	}
	reviewURL := fmt.Sprintf("%s/depoimento/%s", baseURL, t.UniqueLink)
	message := fmt.Sprintf(
		"Oi %s! Que bom ter você no estúdio. Pode deixar sua avaliação aqui? %s",
		t.ClientName, reviewURL)

	return gin.H{
		"uniqueLink":      t.UniqueLink,
		"clientName":      t.ClientName,
		"clientPhone":     t.ClientPhone,
		"url":             reviewURL,
		"whatsappMessage": url.QueryEscape(message),
		"submitted":       t.Submitted,
		"status":          t.Status,
	}
}
