package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a minimal in-memory stand-in for the booking endpoints.
type fakeBackend struct {
	mu sync.Mutex

	services     []Service
	availability map[string][]string // "serviceID|date" -> slots

	availabilityCalls int
	createCalls       int
	createStatus      int // 0 means success
	createError       string
	lastCreateBody    map[string]interface{}
	idempotencyKeys   []string

	// When set, the availability handler blocks until the channel closes.
	holdAvailability chan struct{}
	inAvailability   chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		services: []Service{
			{ID: "1", Name: "Fio a Fio", Price: 150, DurationMinutes: 120, Active: true},
			{ID: "2", Name: "Volume Russo", Price: 200, DurationMinutes: 150, Active: true},
		},
		availability: map[string][]string{},
	}
}

func (f *fakeBackend) server() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/services", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(f.services)
	})

	mux.HandleFunc("/appointments/availability", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		hold := f.holdAvailability
		entered := f.inAvailability
		f.availabilityCalls++
		key := r.URL.Query().Get("serviceId") + "|" + r.URL.Query().Get("date")
		times := f.availability[key]
		f.mu.Unlock()

		if entered != nil {
			entered <- struct{}{}
		}
		if hold != nil {
			<-hold
		}
		if times == nil {
			times = []string{}
		}
		json.NewEncoder(w).Encode(map[string][]string{"availableTimes": times})
	})

	mux.HandleFunc("/appointments", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.createCalls++
		f.idempotencyKeys = append(f.idempotencyKeys, r.Header.Get("Idempotency-Key"))

		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		f.lastCreateBody = body

		if f.createStatus != 0 {
			w.WriteHeader(f.createStatus)
			json.NewEncoder(w).Encode(map[string]string{"error": f.createError})
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Appointment{
			ID:        "apt-1",
			ServiceID: body["serviceId"].(string),
			Date:      body["date"].(string),
			Time:      body["time"].(string),
			Status:    "scheduled",
		})
	})

	return httptest.NewServer(mux)
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

// walkToTimeStep loads services and advances a fresh wizard to step 3
// with the given service and date selected.
func walkToTimeStep(t *testing.T, w *Wizard, serviceID, date string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, w.LoadServices(ctx))
	require.NoError(t, w.SelectService(serviceID))
	require.NoError(t, w.Next())
	require.NoError(t, w.SelectDate(date))
	require.NoError(t, w.Next())
	require.Equal(t, StepTime, w.Step())
}

func TestWizardHappyPathBooksExactlyOnce(t *testing.T) {
	backend := newFakeBackend()
	date := futureDate(7)
	backend.availability["1|"+date] = []string{"09:00", "14:30", "16:00"}

	srv := backend.server()
	defer srv.Close()

	w := NewWizard(New(srv.URL, nil))
	ctx := context.Background()

	walkToTimeStep(t, w, "1", date)
	require.NoError(t, w.LoadAvailability(ctx))
	require.NoError(t, w.SelectTime("14:30"))
	require.NoError(t, w.Next())
	require.Equal(t, StepContact, w.Step())

	require.NoError(t, w.Submit(ctx, "Maria", "62999990000"))

	assert.Equal(t, StepConfirmation, w.Step())
	assert.Equal(t, 1, backend.createCalls)
	assert.Equal(t, map[string]interface{}{
		"serviceId": "1",
		"date":      date,
		"time":      "14:30",
		"name":      "Maria",
		"phone":     "62999990000",
	}, backend.lastCreateBody)
	require.NotNil(t, w.Confirmation())
	assert.Equal(t, "scheduled", w.Confirmation().Status)
}

func TestSubmitWithEmptyContactMakesNoRequest(t *testing.T) {
	backend := newFakeBackend()
	date := futureDate(3)
	backend.availability["1|"+date] = []string{"09:00"}

	srv := backend.server()
	defer srv.Close()

	w := NewWizard(New(srv.URL, nil))
	ctx := context.Background()

	walkToTimeStep(t, w, "1", date)
	require.NoError(t, w.LoadAvailability(ctx))
	require.NoError(t, w.SelectTime("09:00"))
	require.NoError(t, w.Next())

	assert.ErrorIs(t, w.Submit(ctx, "", "62999990000"), ErrMissingContact)
	assert.ErrorIs(t, w.Submit(ctx, "Maria", ""), ErrMissingContact)
	assert.ErrorIs(t, w.Submit(ctx, "   ", "  "), ErrMissingContact)

	assert.Equal(t, 0, backend.createCalls)
	assert.Equal(t, StepContact, w.Step())
}

func TestSelectTimeOutsideAvailabilityRejected(t *testing.T) {
	backend := newFakeBackend()
	date := futureDate(3)
	backend.availability["1|"+date] = []string{"09:00", "10:30"}

	srv := backend.server()
	defer srv.Close()

	w := NewWizard(New(srv.URL, nil))
	walkToTimeStep(t, w, "1", date)
	require.NoError(t, w.LoadAvailability(context.Background()))

	assert.Error(t, w.SelectTime("11:00"))
	_, _, selected := w.Selection()
	assert.Empty(t, selected)

	assert.NoError(t, w.SelectTime("10:30"))
}

func TestServiceChangeClearsDownstreamSelection(t *testing.T) {
	backend := newFakeBackend()
	date := futureDate(5)
	backend.availability["1|"+date] = []string{"09:00", "14:30"}
	backend.availability["2|"+date] = []string{"10:00"}

	srv := backend.server()
	defer srv.Close()

	w := NewWizard(New(srv.URL, nil))
	ctx := context.Background()

	walkToTimeStep(t, w, "1", date)
	require.NoError(t, w.LoadAvailability(ctx))
	require.NoError(t, w.SelectTime("14:30"))

	// Back to step 1 and pick a different service: date, time and cached
	// availability must all go.
	require.NoError(t, w.Back())
	require.NoError(t, w.Back())
	require.Equal(t, StepService, w.Step())
	require.NoError(t, w.SelectService("2"))

	serviceID, selectedDate, selectedTime := w.Selection()
	assert.Equal(t, "2", serviceID)
	assert.Empty(t, selectedDate)
	assert.Empty(t, selectedTime)
	assert.Nil(t, w.AvailableTimes())

	// The new selection fetches fresh availability.
	require.NoError(t, w.Next())
	require.NoError(t, w.SelectDate(date))
	require.NoError(t, w.Next())
	require.NoError(t, w.LoadAvailability(ctx))
	assert.Equal(t, []string{"10:00"}, w.AvailableTimes())
	assert.Equal(t, 2, backend.availabilityCalls)
}

func TestUnchangedSelectionDoesNotRefetch(t *testing.T) {
	backend := newFakeBackend()
	date := futureDate(4)
	backend.availability["1|"+date] = []string{"09:00"}

	srv := backend.server()
	defer srv.Close()

	w := NewWizard(New(srv.URL, nil))
	ctx := context.Background()

	walkToTimeStep(t, w, "1", date)
	require.NoError(t, w.LoadAvailability(ctx))
	require.NoError(t, w.LoadAvailability(ctx))

	// Step back, re-confirm the same service and date, come forward.
	require.NoError(t, w.Back())
	require.NoError(t, w.SelectDate(date))
	require.NoError(t, w.Next())
	require.NoError(t, w.LoadAvailability(ctx))

	assert.Equal(t, 1, backend.availabilityCalls)
}

func TestFailedSubmitStaysOnContactStepAndReusesIdempotencyKey(t *testing.T) {
	backend := newFakeBackend()
	date := futureDate(2)
	backend.availability["1|"+date] = []string{"09:00"}
	backend.createStatus = http.StatusConflict
	backend.createError = "This time is no longer available"

	srv := backend.server()
	defer srv.Close()

	w := NewWizard(New(srv.URL, nil))
	ctx := context.Background()

	walkToTimeStep(t, w, "1", date)
	require.NoError(t, w.LoadAvailability(ctx))
	require.NoError(t, w.SelectTime("09:00"))
	require.NoError(t, w.Next())

	err := w.Submit(ctx, "Maria", "62999990000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "This time is no longer available")
	assert.Equal(t, StepContact, w.Step())
	assert.Nil(t, w.Confirmation())

	// Manual retry succeeds and carries the same idempotency key.
	backend.mu.Lock()
	backend.createStatus = 0
	backend.mu.Unlock()

	require.NoError(t, w.Submit(ctx, "Maria", "62999990000"))
	assert.Equal(t, StepConfirmation, w.Step())

	require.Len(t, backend.idempotencyKeys, 2)
	assert.NotEmpty(t, backend.idempotencyKeys[0])
	assert.Equal(t, backend.idempotencyKeys[0], backend.idempotencyKeys[1])
}

func TestStaleAvailabilityResponseDiscarded(t *testing.T) {
	backend := newFakeBackend()
	date := futureDate(6)
	backend.availability["1|"+date] = []string{"09:00", "14:30"}
	backend.holdAvailability = make(chan struct{})
	backend.inAvailability = make(chan struct{}, 1)

	srv := backend.server()
	defer srv.Close()

	w := NewWizard(New(srv.URL, nil))
	ctx := context.Background()

	walkToTimeStep(t, w, "1", date)

	done := make(chan error, 1)
	go func() {
		done <- w.LoadAvailability(ctx)
	}()

	// Wait until the request is in flight, then change the selection out
	// from under it.
	<-backend.inAvailability
	require.NoError(t, w.Back())
	require.NoError(t, w.Back())
	require.NoError(t, w.SelectService("2"))
	close(backend.holdAvailability)

	require.NoError(t, <-done)

	// The stale response must not have been applied to the new selection.
	assert.Nil(t, w.AvailableTimes())
	assert.Error(t, w.SelectTime("14:30"))
}

func TestNextAndBackGuards(t *testing.T) {
	backend := newFakeBackend()
	srv := backend.server()
	defer srv.Close()

	w := NewWizard(New(srv.URL, nil))
	ctx := context.Background()

	// Cannot skip ahead without a selection, cannot go back from step 1.
	assert.ErrorIs(t, w.Next(), ErrStepIncomplete)
	assert.Error(t, w.Back())

	require.NoError(t, w.LoadServices(ctx))
	assert.Error(t, w.SelectService("999"))
	require.NoError(t, w.SelectService("1"))
	require.NoError(t, w.Next())

	assert.ErrorIs(t, w.Next(), ErrStepIncomplete)
	assert.Error(t, w.SelectDate("not-a-date"))
	assert.Error(t, w.SelectDate("2020-01-01")) // past

	// Availability only loads on the time step.
	assert.Error(t, w.LoadAvailability(ctx))
}

func TestLoadServicesFailureIsSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "database unavailable"})
	}))
	defer srv.Close()

	w := NewWizard(New(srv.URL, nil))
	err := w.LoadServices(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database unavailable")
	assert.Empty(t, w.Services())
}
