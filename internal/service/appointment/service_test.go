package appointment

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/internal/registry"
	"github.com/jwalitptl/clinic-registry/internal/repository/memory"
	"github.com/jwalitptl/clinic-registry/internal/service/event"
	apperrors "github.com/jwalitptl/clinic-registry/pkg/errors"
	"github.com/jwalitptl/clinic-registry/pkg/logger"
	"github.com/jwalitptl/clinic-registry/pkg/metrics"
)

var fixedNow = time.Date(2025, 1, 10, 7, 30, 0, 0, time.UTC)

type fixture struct {
	svc    *Service
	reg    *registry.Registry
	outbox *memory.OutboxRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	reg, err := registry.New()
	require.NoError(t, err)

	outbox := memory.NewOutboxRepository()
	events := event.NewEventService(outbox, logger.Nop())
	svc := NewService(reg, reg, events, DefaultCacheConfig(), logger.Nop(), metrics.NewNop())
	svc.now = func() time.Time { return fixedNow }

	return fixture{svc: svc, reg: reg, outbox: outbox}
}

func (f fixture) eventTypes() []string {
	var out []string
	for _, e := range f.outbox.Events() {
		out = append(out, e.EventType)
	}
	return out
}

func times(slots []model.Slot) []string {
	var out []string
	for _, s := range slots {
		out = append(out, s.Time())
	}
	return out
}

func TestScheduleAndCancelRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SeedDefaults(ctx)
	require.NoError(t, err)

	before, err := f.svc.GetAvailableSlots(ctx, "2025-01-10", "John Smith")
	require.NoError(t, err)
	assert.NotContains(t, times(before), "09:00", "seeded slot must not be offered")
	require.Contains(t, times(before), "09:30")

	apt, err := f.svc.ScheduleAppointment(ctx, &model.CreateAppointmentRequest{
		DateTime:    "2025-01-10 09:30",
		DoctorName:  "John Smith",
		PatientName: "Alice Smith",
	})
	require.NoError(t, err)

	// cache must not serve the stale list
	after, err := f.svc.GetAvailableSlots(ctx, "2025-01-10", "John Smith")
	require.NoError(t, err)
	assert.NotContains(t, times(after), "09:30")

	removed, err := f.svc.CancelAppointment(ctx, &model.CancelAppointmentRequest{
		DateTime:    apt.DateTime,
		DoctorName:  apt.DoctorName,
		PatientName: apt.PatientName,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	restored, err := f.svc.GetAvailableSlots(ctx, "2025-01-10", "John Smith")
	require.NoError(t, err)
	assert.Equal(t, times(before), times(restored))

	assert.Equal(t, []string{
		model.EventScheduleSeeded,
		model.EventAppointmentScheduled,
		model.EventAppointmentCancelled,
	}, f.eventTypes())

	var payload model.AppointmentEvent
	require.NoError(t, json.Unmarshal(f.outbox.Events()[2].Payload, &payload))
	assert.Equal(t, model.AppointmentEvent{
		DateTime:    "2025-01-10 09:30",
		DoctorName:  "John Smith",
		PatientName: "Alice Smith",
		Removed:     1,
	}, payload)
}

func TestScheduleAppointmentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.CreateAppointmentRequest
		code apperrors.ErrorCode
	}{
		{"missing doctor", model.CreateAppointmentRequest{DateTime: "2025-01-10 09:00", PatientName: "Alice Smith"}, apperrors.ErrBadRequest},
		{"malformed", model.CreateAppointmentRequest{DateTime: "10.01.2025 09:00", DoctorName: "John Smith", PatientName: "Alice Smith"}, apperrors.ErrBadRequest},
		{"past date", model.CreateAppointmentRequest{DateTime: "2025-01-09 09:00", DoctorName: "John Smith", PatientName: "Alice Smith"}, apperrors.ErrInvalidDate},
		{"off grid", model.CreateAppointmentRequest{DateTime: "2025-01-10 09:15", DoctorName: "John Smith", PatientName: "Alice Smith"}, apperrors.ErrBadRequest},
		{"after hours", model.CreateAppointmentRequest{DateTime: "2025-01-10 18:00", DoctorName: "John Smith", PatientName: "Alice Smith"}, apperrors.ErrBadRequest},
		{"unknown doctor", model.CreateAppointmentRequest{DateTime: "2025-01-10 09:00", DoctorName: "Gregory House", PatientName: "Alice Smith"}, apperrors.ErrNotFound},
		{"unknown patient", model.CreateAppointmentRequest{DateTime: "2025-01-10 09:00", DoctorName: "John Smith", PatientName: "Nobody"}, apperrors.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.ScheduleAppointment(ctx, &tt.req)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}
	assert.Empty(t, f.reg.Appointments())
	assert.Empty(t, f.outbox.Events())
}

func TestScheduleAppointmentConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := &model.CreateAppointmentRequest{DateTime: "2025-01-10 11:00", DoctorName: "Sarah Lee", PatientName: "Alice Smith"}

	_, err := f.svc.ScheduleAppointment(ctx, req)
	require.NoError(t, err)

	req.PatientName = "Bob Johnson"
	_, err = f.svc.ScheduleAppointment(ctx, req)
	assert.ErrorIs(t, err, registry.ErrDoctorUnavailable)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrConflict))
	assert.Len(t, f.reg.Appointments(), 1)
}

func TestCancelMissIsSilent(t *testing.T) {
	f := newFixture(t)

	removed, err := f.svc.CancelAppointment(context.Background(), &model.CancelAppointmentRequest{
		DateTime:    "2025-01-10 09:00",
		DoctorName:  "John Smith",
		PatientName: "Alice Smith",
	})
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Empty(t, f.outbox.Events())

	_, err = f.svc.CancelAppointment(context.Background(), &model.CancelAppointmentRequest{})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrBadRequest))
}

func TestCancelAppointmentByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	apt, err := f.svc.ScheduleAppointment(ctx, &model.CreateAppointmentRequest{
		DateTime: "2025-01-11 08:00", DoctorName: "Emily Johnson", PatientName: "Grace Lee",
	})
	require.NoError(t, err)

	cancelled, err := f.svc.CancelAppointmentByID(ctx, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, apt.ID, cancelled.ID)
	assert.Empty(t, f.reg.Appointments())

	_, err = f.svc.CancelAppointmentByID(ctx, apt.ID)
	assert.True(t, apperrors.IsNotFound(err))
	_, err = f.svc.GetAppointment(ctx, uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListAppointmentsFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SeedDefaults(ctx)
	require.NoError(t, err)

	all, err := f.svc.ListAppointments(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 32)

	byDoctor, err := f.svc.ListAppointments(ctx, &model.AppointmentFilters{DoctorName: "John Smith"})
	require.NoError(t, err)
	assert.Len(t, byDoctor, 4)

	tomorrow, err := f.svc.ListAppointments(ctx, &model.AppointmentFilters{Date: "2025-01-11", PatientName: "Eva Martinez"})
	require.NoError(t, err)
	assert.Len(t, tomorrow, 4)
}

func TestSeedDefaultsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, 32, n)

	_, err = f.svc.SeedDefaults(ctx)
	assert.ErrorIs(t, err, registry.ErrAlreadySeeded)

	apt := f.reg.Appointments()[0]
	assert.Equal(t, "2025-01-10 17:00", apt.DateTime)
}

func TestAvailabilityQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetAvailableSlots(ctx, "2025-01-09", "")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidDate))

	_, err = f.svc.GetAvailableSlots(ctx, "2025-01-10", "Gregory House")
	assert.True(t, apperrors.IsNotFound(err))

	all, err := f.svc.GetAvailableSlots(ctx, "2025-01-10", "")
	require.NoError(t, err)
	assert.Len(t, all, 160)

	// mutating the result must not poison the cache
	all[0].DoctorName = "Changed"
	again, err := f.svc.GetAvailableSlots(ctx, "2025-01-10", "")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", again[0].DoctorName)

	doctors, err := f.svc.GetAvailableDoctors(ctx, "2025-01-10")
	require.NoError(t, err)
	assert.Len(t, doctors, 8)

	_, err = f.svc.GetAvailableDoctors(ctx, "not-a-date")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidDate))
}

// pausingRegistry holds the first doctor availability read after it has been
// computed, before the service gets to cache it.
type pausingRegistry struct {
	*registry.Registry
	armed    atomic.Bool
	computed chan struct{}
	release  chan struct{}
}

func (p *pausingRegistry) AvailableTimesForDoctor(date, doctorName string) []model.Slot {
	slots := p.Registry.AvailableTimesForDoctor(date, doctorName)
	if p.armed.CompareAndSwap(true, false) {
		close(p.computed)
		<-p.release
	}
	return slots
}

func TestAvailabilityCacheDropsReadsRacingABooking(t *testing.T) {
	reg, err := registry.New()
	require.NoError(t, err)
	paused := &pausingRegistry{Registry: reg, computed: make(chan struct{}), release: make(chan struct{})}
	paused.armed.Store(true)

	svc := NewService(paused, reg, event.Nop{}, DefaultCacheConfig(), logger.Nop(), metrics.NewNop())
	svc.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	stale := make(chan []model.Slot, 1)
	go func() {
		slots, _ := svc.GetAvailableSlots(ctx, "2025-01-10", "John Smith")
		stale <- slots
	}()
	<-paused.computed

	_, err = svc.ScheduleAppointment(ctx, &model.CreateAppointmentRequest{
		DateTime: "2025-01-10 09:00", DoctorName: "John Smith", PatientName: "Alice Smith",
	})
	require.NoError(t, err)

	close(paused.release)
	assert.Contains(t, times(<-stale), "09:00")

	fresh, err := svc.GetAvailableSlots(ctx, "2025-01-10", "John Smith")
	require.NoError(t, err)
	assert.NotContains(t, times(fresh), "09:00")
}

func TestAvailabilityWhenFullyBookedIsEmpty(t *testing.T) {
	reg, err := registry.New(registry.WithDoctors("Gregory House"))
	require.NoError(t, err)
	svc := NewService(reg, reg, event.Nop{}, DefaultCacheConfig(), logger.Nop(), metrics.NewNop())
	svc.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	for _, hhmm := range reg.WorkingHours().Times() {
		_, err := svc.ScheduleAppointment(ctx, &model.CreateAppointmentRequest{
			DateTime: "2025-01-10 " + hhmm, DoctorName: "Gregory House", PatientName: "Alice Smith",
		})
		require.NoError(t, err)
	}

	// twice: once computed, once from the cache
	for i := 0; i < 2; i++ {
		slots, err := svc.GetAvailableSlots(ctx, "2025-01-10", "")
		require.NoError(t, err)
		assert.NotNil(t, slots)
		assert.Empty(t, slots)

		doctors, err := svc.GetAvailableDoctors(ctx, "2025-01-10")
		require.NoError(t, err)
		assert.NotNil(t, doctors)
		assert.Empty(t, doctors)
	}
}
