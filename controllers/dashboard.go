package controllers

import (
	"net/http"
	"time"

	"github.com/DiomarGoncalves/julia-lashes-studio/config"
	"github.com/DiomarGoncalves/julia-lashes-studio/models"
	"github.com/DiomarGoncalves/julia-lashes-studio/utils"

	"github.com/gin-gonic/gin"
)

type DashboardOverview struct {
	TodayAppointments   int64             `json:"todayAppointments"`
	MonthlyAppointments int64             `json:"monthlyAppointments"`
	TotalClients        int64             `json:"totalClients"`
	PendingTestimonials int64             `json:"pendingTestimonials"`
	NextAppointments    []NextAppointment `json:"nextAppointments"`
}

type NextAppointment struct {
	ID         string `json:"id"`
	ClientName string `json:"clientName"`
	Service    string `json:"service"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Status     string `json:"status"`
}

func GetDashboardOverview(c *gin.Context) {
	now := time.Now()
	today := now.Format("2006-01-02")
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")

	overview := DashboardOverview{NextAppointments: []NextAppointment{}}

	// Today's appointments (still holding their slot)
	config.DB.Model(&models.Appointment{}).
		Where("date = ? AND status IN ? AND deleted_at IS NULL",
			today, []string{models.StatusScheduled, models.StatusDone}).
		Count(&overview.TodayAppointments)

	// Appointments booked for this month
	config.DB.Model(&models.Appointment{}).
		Where("date >= ? AND deleted_at IS NULL", firstOfMonth).
		Count(&overview.MonthlyAppointments)

	// Total clients
	config.DB.Model(&models.Client{}).
		Where("deleted_at IS NULL").
		Count(&overview.TotalClients)

	// Testimonials waiting for review/publication
	config.DB.Model(&models.Testimonial{}).
		Where("status = ? AND submitted = ? AND deleted_at IS NULL",
			models.TestimonialPending, true).
		Count(&overview.PendingTestimonials)

	// Next scheduled appointments, soonest first
	rows, err := config.DB.Raw(`
        SELECT a.id, c.name, s.name, a.date, a.time, a.status
        FROM appointments a
        JOIN clients c ON c.id = a.client_id
        JOIN services s ON s.id = a.service_id
        WHERE a.status = ? AND a.date >= ? AND a.deleted_at IS NULL
        ORDER BY a.date ASC, a.time ASC
        LIMIT 7
    `, models.StatusScheduled, today).Rows()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	defer rows.Close()

	for rows.Next() {
		var next NextAppointment
		if err := rows.Scan(&next.ID, &next.ClientName, &next.Service,
			&next.Date, &next.Time, &next.Status); err != nil {
			continue
		}
		// Friendly date label for the agenda card
		if next.Date == today {
			next.Date = "Today"
		} else if next.Date == now.AddDate(0, 0, 1).Format("2006-01-02") {
			next.Date = "Tomorrow"
		}
		overview.NextAppointments = append(overview.NextAppointments, next)
	}

	c.JSON(http.StatusOK, overview)
}
