// controllers/appointment.go
package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/DiomarGoncalves/julia-lashes-studio/config"
	"github.com/DiomarGoncalves/julia-lashes-studio/models"
	"github.com/DiomarGoncalves/julia-lashes-studio/services"
	"github.com/DiomarGoncalves/julia-lashes-studio/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateAppointmentInput is the booking payload sent by the public wizard
type CreateAppointmentInput struct {
	ServiceID string `json:"serviceId" binding:"required"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Time      string `json:"time" binding:"required"` // HH:MM
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Notes     string `json:"notes"`
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// GetAvailability returns the open time slots for a service on a date.
// An empty list is a valid answer (closed day, fully booked, past date).
func GetAvailability(c *gin.Context) {
	serviceID := c.Query("serviceId")
	date := c.Query("date")
	if serviceID == "" || date == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "serviceId and date are required")
		return
	}

	serviceUUID, err := uuid.Parse(serviceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	day, err := utils.ParseDate(date)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	var service models.Service
	if err := config.DB.Where("id = ? AND is_active = ?", serviceUUID, true).
		First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	settings, err := loadSettings()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	booked, err := bookedTimes(serviceUUID, date)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load appointments")
		return
	}

	hours := services.OpeningHoursForDate(settings.OpeningHours, day)
	available := services.AvailableTimes(hours, service.Duration, booked, day, time.Now())

	c.JSON(http.StatusOK, gin.H{"availableTimes": available})
}

// CreateAppointment books a slot for a client. The client row is found or
// created by phone; the slot is re-checked inside the transaction and the
// partial unique index on (service, date, time) catches the insert race
// the re-check cannot see, so two concurrent bookings cannot both commit.
func CreateAppointment(c *gin.Context) {
	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	serviceUUID, err := uuid.Parse(input.ServiceID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	day, err := utils.ParseDate(input.Date)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}
	if utils.BeginningOfDay(day).Before(utils.BeginningOfDay(time.Now())) {
		utils.RespondWithError(c, http.StatusBadRequest, "Cannot book a past date")
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	// Replayed create with the same idempotency key returns the original
	// appointment instead of booking twice.
	idempotencyKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	if idempotencyKey != "" {
		var existing models.Appointment
		err := config.DB.Preload("Service").Preload("Client").
			Where("idempotency_key = ?", idempotencyKey).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusOK, existing)
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
	}

	var service models.Service
	if err := config.DB.Where("id = ? AND is_active = ?", serviceUUID, true).
		First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	settings, err := loadSettings()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	booked, err := bookedTimes(serviceUUID, input.Date)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load appointments")
		return
	}

	hours := services.OpeningHoursForDate(settings.OpeningHours, day)
	available := services.AvailableTimes(hours, service.Duration, booked, day, time.Now())
	if !contains(available, input.Time) {
		utils.RespondWithError(c, http.StatusConflict, "This time is no longer available")
		return
	}

	var appointment models.Appointment
	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		// Find or create the client by phone
		var client models.Client
		err := tx.Where("phone = ?", input.Phone).First(&client).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			client = models.Client{Name: input.Name, Phone: input.Phone}
			if err := tx.Create(&client).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		// Re-check the slot under the transaction
		var taken int64
		if err := tx.Model(&models.Appointment{}).
			Where("service_id = ? AND date = ? AND time = ? AND status IN ?",
				serviceUUID, input.Date, input.Time,
				[]string{models.StatusScheduled, models.StatusDone}).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return errSlotTaken
		}

		appointment = models.Appointment{
			ServiceID: serviceUUID,
			ClientID:  client.ID,
			Date:      input.Date,
			Time:      input.Time,
			Status:    models.StatusScheduled,
			Notes:     input.Notes,
		}
		if idempotencyKey != "" {
			appointment.IdempotencyKey = &idempotencyKey
		}
		return tx.Create(&appointment).Error
	})

	if txErr != nil {
		if errors.Is(txErr, errSlotTaken) || errors.Is(txErr, gorm.ErrDuplicatedKey) {
			// Lost the insert race. When it was our own replayed create
			// (same idempotency key), hand back the row that won.
			if idempotencyKey != "" {
				var existing models.Appointment
				if err := config.DB.Preload("Service").Preload("Client").
					Where("idempotency_key = ?", idempotencyKey).First(&existing).Error; err == nil {
					c.JSON(http.StatusOK, existing)
					return
				}
			}
			utils.RespondWithError(c, http.StatusConflict, "This time is no longer available")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create appointment")
		}
		return
	}

	config.DB.Preload("Service").Preload("Client").First(&appointment, "id = ?", appointment.ID)
	c.JSON(http.StatusCreated, appointment)
}

// GetAppointments lists appointments for the agenda screen, optionally
// filtered by date and status
func GetAppointments(c *gin.Context) {
	query := config.DB.Preload("Service").Preload("Client").
		Order("date asc, time asc")

	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}
	if status := c.Query("status"); status != "" {
		if !models.IsValidStatus(status) {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown status")
			return
		}
		query = query.Where("status = ?", status)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// UpdateAppointmentStatus applies a single status transition. Only
// scheduled appointments move, and only to done, canceled or no_show.
func UpdateAppointmentStatus(c *gin.Context) {
	appointmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !models.IsValidStatus(input.Status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown status")
		return
	}

	var appointment models.Appointment
	if err := config.DB.Where("id = ?", appointmentUUID).First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !appointment.CanTransitionTo(input.Status) {
		utils.RespondWithError(c, http.StatusUnprocessableEntity,
			"Cannot change status from "+appointment.Status+" to "+input.Status)
		return
	}

	appointment.Status = input.Status
	if err := config.DB.Save(&appointment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update status")
		return
	}

	config.DB.Preload("Service").Preload("Client").First(&appointment, "id = ?", appointment.ID)
	c.JSON(http.StatusOK, appointment)
}

var errSlotTaken = errors.New("slot already taken")

// bookedTimes returns the times already occupied for a service on a date
// by appointments that still hold their slot (scheduled or done).
func bookedTimes(serviceID uuid.UUID, date string) ([]string, error) {
	var times []string
	err := config.DB.Model(&models.Appointment{}).
		Where("service_id = ? AND date = ? AND status IN ?",
			serviceID, date, []string{models.StatusScheduled, models.StatusDone}).
		Pluck("time", &times).Error
	return times, err
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
