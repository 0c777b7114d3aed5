// services/reminder_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/DiomarGoncalves/julia-lashes-studio/models"
	"github.com/DiomarGoncalves/julia-lashes-studio/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM: remind tomorrow's clients
	c.AddFunc("0 9 * * *", func() {
		s.SendDailyReminders()
	})

	c.Start()
	log.Println("Reminder scheduler started")
}

// SendDailyReminders messages every client with a scheduled appointment
// tomorrow, once per appointment.
func (s *ReminderService) SendDailyReminders() {
	log.Println("Starting daily reminder processing...")

	var settings models.Settings
	if err := s.db.First(&settings).Error; err != nil {
		log.Printf("Reminders skipped, settings not available: %v", err)
		return
	}
	if !settings.WhatsAppNotifications && !settings.SMSNotifications {
		log.Println("Reminders disabled in settings")
		return
	}

	channel := "sms"
	if settings.WhatsAppNotifications {
		channel = "whatsapp"
	}

	tomorrow := utils.FormatDate(time.Now().AddDate(0, 0, 1))

	var appointments []models.Appointment
	if err := s.db.Preload("Client").Preload("Service").
		Where("date = ? AND status = ?", tomorrow, models.StatusScheduled).
		Find(&appointments).Error; err != nil {
		log.Printf("Failed to fetch tomorrow's appointments: %v", err)
		return
	}

	for _, apt := range appointments {
		if s.alreadyReminded(apt.ID.String()) {
			continue
		}
		s.sendReminder(apt, channel)
	}

	log.Println("Daily reminder processing completed")
}

func (s *ReminderService) alreadyReminded(appointmentID string) bool {
	var count int64
	s.db.Model(&models.ReminderLog{}).
		Where("appointment_id = ? AND status = ?", appointmentID, "sent").
		Count(&count)
	return count > 0
}

func (s *ReminderService) sendReminder(apt models.Appointment, channel string) {
	message := fmt.Sprintf(
		"Oi %s! Lembrete do seu horário amanhã (%s) às %s para %s. Até lá!",
		apt.Client.Name, apt.Date, apt.Time, apt.Service.Name)

	entry := models.ReminderLog{
		AppointmentID: apt.ID,
		Message:       message,
		Channel:       channel,
		SentAt:        time.Now(),
	}

	if err := s.deliver(apt.Client.Phone, message, channel); err != nil {
		log.Printf("Appointment %s: failed to send reminder: %v", apt.ID, err)
		entry.Status = "failed"
		entry.ErrorMessage = err.Error()
	} else {
		entry.Status = "sent"
	}

	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("Appointment %s: failed to log reminder: %v", apt.ID, err)
	}
}

func (s *ReminderService) deliver(phone, message, channel string) error {
	from := os.Getenv("TWILIO_FROM_NUMBER")
	if from == "" {
		return errors.New("TWILIO_FROM_NUMBER not set")
	}

	to := phone
	if channel == "whatsapp" {
		to = "whatsapp:" + phone
		from = "whatsapp:" + from
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(message)

	_, err := s.client.Api.CreateMessage(params)
	return err
}
