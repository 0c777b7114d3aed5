package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// defaultTimeout bounds every request; a timeout surfaces as a generic
// network failure, never as a silent retry.
const defaultTimeout = 10 * time.Second

// APIError is a server-rejected request. Message carries the server's
// own error text verbatim when the body had one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: unexpected status %d", e.Status)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// API issues typed requests against the studio backend.
type API struct {
	baseURL    string
	httpClient *http.Client
	auth       *AuthState
}

func New(baseURL string, auth *AuthState) *API {
	return NewWithClient(baseURL, auth, &http.Client{Timeout: defaultTimeout})
}

func NewWithClient(baseURL string, auth *AuthState, httpClient *http.Client) *API {
	if auth == nil {
		auth = NewAuthState("")
	}
	return &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		auth:       auth,
	}
}

// Auth exposes the session state so a front-end can subscribe to logout.
func (a *API) Auth() *AuthState {
	return a.auth
}

// do sends one JSON request. A 401 evicts the token through AuthState
// before returning; 4xx/5xx bodies of the form {"error": "..."} become
// APIError with the message preserved.
func (a *API) do(ctx context.Context, method, path string, query url.Values, headers map[string]string, body, out interface{}) error {
	endpoint := a.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := a.auth.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		a.auth.evict()
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errBody struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ---- Auth ----

// Login authenticates the admin and stores the bearer token in the
// AuthState on success.
func (a *API) Login(ctx context.Context, email, password string) (User, error) {
	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	err := a.do(ctx, http.MethodPost, "/auth/login", nil, nil,
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return User{}, err
	}
	a.auth.SetToken(resp.Token)
	return resp.User, nil
}

func (a *API) Me(ctx context.Context) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	err := a.do(ctx, http.MethodGet, "/auth/me", nil, nil, nil, &resp)
	return resp.User, err
}

// ---- Services ----

// Services lists the active public catalog.
func (a *API) Services(ctx context.Context) ([]Service, error) {
	var services []Service
	err := a.do(ctx, http.MethodGet, "/services", nil, nil, nil, &services)
	return services, err
}

// AllServices lists the catalog including deactivated services (admin).
func (a *API) AllServices(ctx context.Context) ([]Service, error) {
	var services []Service
	err := a.do(ctx, http.MethodGet, "/services/all", nil, nil, nil, &services)
	return services, err
}

func (a *API) ServiceByID(ctx context.Context, id string) (Service, error) {
	var service Service
	err := a.do(ctx, http.MethodGet, "/services/"+id, nil, nil, nil, &service)
	return service, err
}

func (a *API) CreateService(ctx context.Context, s Service) (Service, error) {
	var created Service
	err := a.do(ctx, http.MethodPost, "/services", nil, nil, s, &created)
	return created, err
}

func (a *API) UpdateService(ctx context.Context, id string, s Service) (Service, error) {
	var updated Service
	err := a.do(ctx, http.MethodPut, "/services/"+id, nil, nil, s, &updated)
	return updated, err
}

func (a *API) DeleteService(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/services/"+id, nil, nil, nil, nil)
}

// ---- Appointments ----

// Availability returns the open slot starts for a service on a date. An
// empty slice means "no slots this day" and is not an error.
func (a *API) Availability(ctx context.Context, serviceID, date string) ([]string, error) {
	var resp struct {
		AvailableTimes []string `json:"availableTimes"`
	}
	q := url.Values{"serviceId": {serviceID}, "date": {date}}
	err := a.do(ctx, http.MethodGet, "/appointments/availability", q, nil, nil, &resp)
	if err != nil {
		return nil, err
	}
	if resp.AvailableTimes == nil {
		return []string{}, nil
	}
	return resp.AvailableTimes, nil
}

// CreateAppointment books a slot. Never retried automatically: a failed
// create is returned to the caller for a manual retry with the same
// idempotency key.
func (a *API) CreateAppointment(ctx context.Context, req BookingRequest) (Appointment, error) {
	var headers map[string]string
	if req.IdempotencyKey != "" {
		headers = map[string]string{"Idempotency-Key": req.IdempotencyKey}
	}
	var created Appointment
	err := a.do(ctx, http.MethodPost, "/appointments", nil, headers, req, &created)
	return created, err
}

// Appointments lists appointments for the agenda, optionally filtered by
// date (YYYY-MM-DD) and status.
func (a *API) Appointments(ctx context.Context, date, status string) ([]Appointment, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	if status != "" {
		q.Set("status", status)
	}
	var appointments []Appointment
	err := a.do(ctx, http.MethodGet, "/appointments", q, nil, nil, &appointments)
	return appointments, err
}

// UpdateAppointmentStatus applies one status transition. The agenda
// reloads its list afterwards instead of trusting this response.
func (a *API) UpdateAppointmentStatus(ctx context.Context, id, status string) (Appointment, error) {
	var updated Appointment
	err := a.do(ctx, http.MethodPatch, "/appointments/"+id+"/status", nil, nil,
		map[string]string{"status": status}, &updated)
	return updated, err
}

// ---- Clients ----

func (a *API) Clients(ctx context.Context) ([]Client, error) {
	var clients []Client
	err := a.do(ctx, http.MethodGet, "/clients", nil, nil, nil, &clients)
	return clients, err
}

func (a *API) ClientByID(ctx context.Context, id string) (Client, error) {
	var c Client
	err := a.do(ctx, http.MethodGet, "/clients/"+id, nil, nil, nil, &c)
	return c, err
}

func (a *API) ClientHistory(ctx context.Context, id string) ([]Appointment, error) {
	var appointments []Appointment
	err := a.do(ctx, http.MethodGet, "/clients/"+id+"/history", nil, nil, nil, &appointments)
	return appointments, err
}

func (a *API) CreateClient(ctx context.Context, c Client) (Client, error) {
	var created Client
	err := a.do(ctx, http.MethodPost, "/clients", nil, nil, c, &created)
	return created, err
}

func (a *API) UpdateClient(ctx context.Context, id string, c Client) (Client, error) {
	var updated Client
	err := a.do(ctx, http.MethodPut, "/clients/"+id, nil, nil, c, &updated)
	return updated, err
}

// ---- Settings ----

func (a *API) Settings(ctx context.Context) (Settings, error) {
	var settings Settings
	err := a.do(ctx, http.MethodGet, "/settings", nil, nil, nil, &settings)
	return settings, err
}

func (a *API) UpdateSettings(ctx context.Context, settings Settings) (Settings, error) {
	var updated Settings
	err := a.do(ctx, http.MethodPut, "/settings", nil, nil, settings, &updated)
	return updated, err
}

// ---- Gallery ----

func (a *API) Gallery(ctx context.Context) ([]GalleryImage, error) {
	var images []GalleryImage
	err := a.do(ctx, http.MethodGet, "/gallery", nil, nil, nil, &images)
	return images, err
}

func (a *API) CreateGalleryImage(ctx context.Context, img GalleryImage) (GalleryImage, error) {
	var created GalleryImage
	err := a.do(ctx, http.MethodPost, "/gallery", nil, nil, img, &created)
	return created, err
}

func (a *API) DeleteGalleryImage(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/gallery/"+id, nil, nil, nil, nil)
}

func (a *API) ServiceImages(ctx context.Context, serviceID string) ([]ServiceImage, error) {
	var images []ServiceImage
	err := a.do(ctx, http.MethodGet, "/service-images/service/"+serviceID, nil, nil, nil, &images)
	return images, err
}

func (a *API) CreateServiceImage(ctx context.Context, img ServiceImage) (ServiceImage, error) {
	var created ServiceImage
	err := a.do(ctx, http.MethodPost, "/service-images", nil, nil, img, &created)
	return created, err
}

func (a *API) DeleteServiceImage(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/service-images/"+id, nil, nil, nil, nil)
}

// ---- Testimonials ----

func (a *API) Testimonials(ctx context.Context) ([]Testimonial, error) {
	var testimonials []Testimonial
	err := a.do(ctx, http.MethodGet, "/testimonials", nil, nil, nil, &testimonials)
	return testimonials, err
}

func (a *API) PublishedTestimonials(ctx context.Context) ([]Testimonial, error) {
	var testimonials []Testimonial
	err := a.do(ctx, http.MethodGet, "/testimonials/published", nil, nil, nil, &testimonials)
	return testimonials, err
}

func (a *API) GenerateTestimonialLink(ctx context.Context, appointmentID string) (TestimonialLink, error) {
	var link TestimonialLink
	err := a.do(ctx, http.MethodPost, "/testimonials/generate-link/"+appointmentID, nil, nil, nil, &link)
	return link, err
}

func (a *API) TestimonialLinkInfo(ctx context.Context, appointmentID string) (TestimonialLink, error) {
	var link TestimonialLink
	err := a.do(ctx, http.MethodGet, "/testimonials/link-info/"+appointmentID, nil, nil, nil, &link)
	return link, err
}

// PublicTestimonial loads the public review form context for a link.
func (a *API) PublicTestimonial(ctx context.Context, uniqueLink string) (Testimonial, error) {
	var t Testimonial
	err := a.do(ctx, http.MethodGet, "/testimonials/public/"+uniqueLink, nil, nil, nil, &t)
	return t, err
}

func (a *API) SubmitTestimonial(ctx context.Context, uniqueLink string, rating int, text string) error {
	body := map[string]interface{}{"rating": rating, "text": text}
	return a.do(ctx, http.MethodPost, "/testimonials/submit/"+uniqueLink, nil, nil, body, nil)
}

func (a *API) PublishTestimonial(ctx context.Context, id string) (Testimonial, error) {
	var t Testimonial
	err := a.do(ctx, http.MethodPut, "/testimonials/"+id+"/publish", nil, nil, nil, &t)
	return t, err
}

func (a *API) DeleteTestimonial(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/testimonials/"+id, nil, nil, nil, nil)
}
