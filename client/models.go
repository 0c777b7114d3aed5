// Package client is the typed Go client for the studio API: the public
// booking wizard, the testimonial link flow and the admin surface used by
// the back-office. IDs travel as opaque strings exactly as the wire
// carries them.
package client

// Service is a bookable service from the public catalog.
type Service struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
	Active          bool    `json:"active"`
}

// Appointment mirrors the server appointment resource.
type Appointment struct {
	ID        string  `json:"id"`
	ServiceID string  `json:"serviceId"`
	ClientID  string  `json:"clientId"`
	Date      string  `json:"date"` // YYYY-MM-DD
	Time      string  `json:"time"` // HH:MM
	Status    string  `json:"status"`
	Notes     string  `json:"notes"`
	Service   Service `json:"service"`
	Client    Client  `json:"client"`
}

type Client struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

// BookingRequest is the payload of the booking wizard's final submit.
type BookingRequest struct {
	ServiceID string `json:"serviceId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes,omitempty"`

	// Sent as the Idempotency-Key header so a manual retry of the same
	// submission cannot double-book.
	IdempotencyKey string `json:"-"`
}

// TestimonialLink is the link-info payload for one appointment.
type TestimonialLink struct {
	UniqueLink      string `json:"uniqueLink"`
	ClientName      string `json:"clientName"`
	ClientPhone     string `json:"clientPhone"`
	URL             string `json:"url"`
	WhatsappMessage string `json:"whatsappMessage"`
	Submitted       bool   `json:"submitted"`
	Status          string `json:"status"`
}

type Testimonial struct {
	ID            string `json:"id"`
	AppointmentID string `json:"appointmentId"`
	ClientName    string `json:"clientName"`
	Rating        int    `json:"rating"`
	Text          string `json:"text"`
	Status        string `json:"status"`
	Submitted     bool   `json:"submitted"`
}

type GalleryImage struct {
	ID  string `json:"id"`
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type ServiceImage struct {
	ID        string `json:"id"`
	ServiceID string `json:"serviceId"`
	URL       string `json:"url"`
	Alt       string `json:"alt"`
}

// Settings is the site-wide singleton read by the public pages.
type Settings struct {
	OpeningHours map[string]DayHours    `json:"openingHours"`
	SocialLinks  map[string]interface{} `json:"socialLinks"`
	Texts        map[string]interface{} `json:"texts"`
}

type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// User is the authenticated admin account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
