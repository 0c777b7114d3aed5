package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Booking wizard steps.
const (
	StepService      = 1
	StepDate         = 2
	StepTime         = 3
	StepContact      = 4
	StepConfirmation = 5
)

var (
	// ErrMissingContact blocks Submit before any network call is made.
	ErrMissingContact = errors.New("name and phone are required")

	// ErrStepIncomplete is returned by Next when the current step's
	// required field is not set yet.
	ErrStepIncomplete = errors.New("current step is not complete")
)

// Wizard drives the public booking flow: choose service, choose date,
// choose time, enter contact details, confirm. Upstream changes cascade
// forward: a new service invalidates the chosen date and time (durations
// differ per service), a new date invalidates the chosen time. Steps only
// move one at a time; going back never clears state on its own.
type Wizard struct {
	api *API

	mu           sync.Mutex
	step         int
	services     []Service
	serviceID    string
	date         string
	timeSlot     string
	availability []string
	availKey     string // (serviceID, date) the cached availability belongs to
	submitKey    string // idempotency key, stable across manual retries
	confirmation *Appointment
}

func NewWizard(api *API) *Wizard {
	return &Wizard{api: api, step: StepService}
}

func (w *Wizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) Services() []Service {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.services
}

// Selection returns the current (serviceID, date, time) tuple.
func (w *Wizard) Selection() (serviceID, date, timeSlot string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.serviceID, w.date, w.timeSlot
}

// Confirmation returns the created appointment after a successful Submit.
func (w *Wizard) Confirmation() *Appointment {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.confirmation
}

// LoadServices fetches the active catalog. A failure is surfaced to the
// caller; there is deliberately no fallback to canned data.
func (w *Wizard) LoadServices(ctx context.Context) error {
	services, err := w.api.Services(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.services = services
	w.mu.Unlock()
	return nil
}

// SelectService picks a service from the loaded catalog. Changing the
// service resets the chosen date and time and drops cached availability;
// re-selecting the same service keeps them.
func (w *Wizard) SelectService(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	found := false
	for _, s := range w.services {
		if s.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("unknown service %q", id)
	}

	if w.serviceID != id {
		w.date = ""
		w.timeSlot = ""
		w.availability = nil
		w.availKey = ""
	}
	w.serviceID = id
	return nil
}

// SelectDate picks the appointment date (YYYY-MM-DD, today or later).
// Changing the date resets the chosen time and drops cached availability.
func (w *Wizard) SelectDate(date string) error {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	today := time.Now()
	todayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)
	if day.Before(todayStart) {
		return fmt.Errorf("date %s is in the past", date)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.date != date {
		w.timeSlot = ""
		w.availability = nil
		w.availKey = ""
	}
	w.date = date
	return nil
}

// LoadAvailability fetches the open slots for the current service and
// date. Re-confirming an unchanged selection hits the cache instead of
// the network. The response is keyed to the (service, date) pair active
// when it arrives: if the selection changed while the request was in
// flight, the stale result is discarded.
func (w *Wizard) LoadAvailability(ctx context.Context) error {
	w.mu.Lock()
	if w.step != StepTime {
		w.mu.Unlock()
		return fmt.Errorf("availability loads on step %d, currently on %d", StepTime, w.step)
	}
	if w.serviceID == "" || w.date == "" {
		w.mu.Unlock()
		return errors.New("service and date must be selected first")
	}
	key := w.serviceID + "|" + w.date
	if w.availKey == key {
		w.mu.Unlock()
		return nil // cached
	}
	serviceID, date := w.serviceID, w.date
	w.mu.Unlock()

	times, err := w.api.Availability(ctx, serviceID, date)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.serviceID+"|"+w.date != key {
		// Selection moved on while the request was in flight.
		return nil
	}
	w.availability = times
	w.availKey = key
	return nil
}

// AvailableTimes returns the last availability response for the current
// selection. Empty means "no slots this day".
func (w *Wizard) AvailableTimes() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.availKey != w.serviceID+"|"+w.date {
		return nil
	}
	return w.availability
}

// SelectTime picks a slot. Only values present in the last availability
// response for the current selection are accepted.
func (w *Wizard) SelectTime(timeSlot string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.availKey != w.serviceID+"|"+w.date {
		return errors.New("availability not loaded for the current selection")
	}
	for _, t := range w.availability {
		if t == timeSlot {
			w.timeSlot = timeSlot
			return nil
		}
	}
	return fmt.Errorf("time %q is not an available slot", timeSlot)
}

// Next advances one step, only when the current step's required field is
// set. The confirmation step is reached through Submit, never Next.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.step {
	case StepService:
		if w.serviceID == "" {
			return ErrStepIncomplete
		}
	case StepDate:
		if w.date == "" {
			return ErrStepIncomplete
		}
	case StepTime:
		if w.timeSlot == "" {
			return ErrStepIncomplete
		}
	case StepContact, StepConfirmation:
		return errors.New("no next step from here")
	}
	w.step++
	return nil
}

// Back moves one step backward without clearing anything.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step <= StepService || w.step == StepConfirmation {
		return errors.New("cannot go back from this step")
	}
	w.step--
	return nil
}

// Submit validates the contact details and books the appointment. Empty
// name or phone fails before any network call. On success the wizard
// moves to the confirmation step; on failure it stays on the contact step
// for a manual retry — the create is never retried automatically, and the
// retry reuses the same idempotency key so it cannot double-book.
func (w *Wizard) Submit(ctx context.Context, name, phone string) error {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return ErrMissingContact
	}

	w.mu.Lock()
	if w.step != StepContact {
		w.mu.Unlock()
		return fmt.Errorf("submit happens on step %d, currently on %d", StepContact, w.step)
	}
	if w.submitKey == "" {
		w.submitKey = uuid.NewString()
	}
	req := BookingRequest{
		ServiceID:      w.serviceID,
		Date:           w.date,
		Time:           w.timeSlot,
		Name:           name,
		Phone:          phone,
		IdempotencyKey: w.submitKey,
	}
	w.mu.Unlock()

	created, err := w.api.CreateAppointment(ctx, req)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.confirmation = &created
	w.step = StepConfirmation
	w.mu.Unlock()
	return nil
}
