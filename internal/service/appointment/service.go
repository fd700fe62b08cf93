package appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/internal/registry"
	"github.com/jwalitptl/clinic-registry/internal/repository"
	"github.com/jwalitptl/clinic-registry/internal/service/event"
	apperrors "github.com/jwalitptl/clinic-registry/pkg/errors"
	"github.com/jwalitptl/clinic-registry/pkg/logger"
	"github.com/jwalitptl/clinic-registry/pkg/metrics"
	"github.com/jwalitptl/clinic-registry/pkg/validator"
)

type CacheConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{TTL: time.Minute, CleanupInterval: 5 * time.Minute}
}

type Service struct {
	repo      repository.AppointmentRepository
	doctors   repository.DoctorRepository
	events    event.Emitter
	validator validator.Validator
	cache     *cache.Cache
	// cacheMu orders cache stores against invalidations; gen counts invalidations.
	cacheMu   sync.Mutex
	gen       uint64
	logger    *logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewService(
	repo repository.AppointmentRepository,
	doctors repository.DoctorRepository,
	events event.Emitter,
	cacheCfg CacheConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		repo:      repo,
		doctors:   doctors,
		events:    events,
		validator: validator.New(),
		cache:     cache.New(cacheCfg.TTL, cacheCfg.CleanupInterval),
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Today is the current calendar date in the registry's date format.
func (s *Service) Today() string {
	return registry.FormatDate(s.now())
}

// GetAvailableSlots lists free slots on date. An empty doctorName covers every doctor.
func (s *Service) GetAvailableSlots(ctx context.Context, date, doctorName string) ([]model.Slot, error) {
	if err := registry.ValidateDate(date, s.now()); err != nil {
		return nil, err
	}
	if doctorName != "" {
		if _, err := s.doctors.FindDoctorByName(doctorName); err != nil {
			return nil, err
		}
	}

	key := "slots:" + date + ":" + doctorName
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.CacheHits.Inc()
		return copySlots(cached.([]model.Slot)), nil
	}
	s.metrics.CacheMisses.Inc()

	gen := s.generation()
	var slots []model.Slot
	if doctorName == "" {
		slots = s.repo.AvailableTimes(date)
	} else {
		slots = s.repo.AvailableTimesForDoctor(date, doctorName)
	}
	s.store(gen, key, slots)

	return copySlots(slots), nil
}

// GetAvailableDoctors lists doctors with at least one free slot on date.
func (s *Service) GetAvailableDoctors(ctx context.Context, date string) ([]string, error) {
	if err := registry.ValidateDate(date, s.now()); err != nil {
		return nil, err
	}

	key := "doctors:" + date
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.CacheHits.Inc()
		return copyNames(cached.([]string)), nil
	}
	s.metrics.CacheMisses.Inc()

	gen := s.generation()
	names := s.repo.AvailableDoctors(date)
	s.store(gen, key, names)

	return copyNames(names), nil
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]model.Appointment, error) {
	all := s.repo.Appointments()
	out := make([]model.Appointment, 0, len(all))
	for i := range all {
		if filters.Match(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (model.Appointment, error) {
	apt, err := s.repo.AppointmentByID(id)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("failed to get appointment: %w", err)
	}
	return apt, nil
}

// ScheduleAppointment books an on-grid slot on today or a later date.
func (s *Service) ScheduleAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (model.Appointment, error) {
	if err := s.validator.Validate(req); err != nil {
		return model.Appointment{}, err
	}
	if err := registry.ValidateDateTime(req.DateTime, s.now()); err != nil {
		return model.Appointment{}, err
	}
	if hours := s.repo.WorkingHours(); !hours.Contains(req.DateTime) {
		return model.Appointment{}, apperrors.NewBadRequest(
			fmt.Sprintf("%s is not a slot within working hours %02d:00-%02d:00 every %d minutes",
				req.DateTime, hours.StartHour, hours.EndHour, hours.SlotMinutes), nil)
	}

	apt, err := s.repo.ScheduleAppointment(req.DateTime, req.DoctorName, req.PatientName)
	if err != nil {
		if errors.Is(err, registry.ErrDoctorUnavailable) {
			s.metrics.BookingConflicts.Inc()
			s.logger.Warn("Doctor not available",
				"doctor", req.DoctorName,
				"date_time", req.DateTime)
		}
		return model.Appointment{}, fmt.Errorf("failed to schedule appointment: %w", err)
	}

	s.invalidate()
	s.metrics.AppointmentsScheduled.Inc()
	s.logger.Info("Appointment scheduled",
		"appointment_id", apt.ID.String(),
		"doctor", apt.DoctorName,
		"patient", apt.PatientName,
		"date_time", apt.DateTime)

	s.emit(ctx, model.EventAppointmentScheduled, model.AppointmentEvent{
		DateTime:    apt.DateTime,
		DoctorName:  apt.DoctorName,
		PatientName: apt.PatientName,
	})

	return apt, nil
}

// CancelAppointment removes every appointment matching the triple and returns how
// many were removed. Nothing matching is not an error.
func (s *Service) CancelAppointment(ctx context.Context, req *model.CancelAppointmentRequest) (int, error) {
	if err := s.validator.Validate(req); err != nil {
		return 0, err
	}

	removed := s.repo.CancelAppointment(req.DateTime, req.PatientName, req.DoctorName)
	if removed == 0 {
		s.logger.Debug("No appointment to cancel",
			"doctor", req.DoctorName,
			"patient", req.PatientName,
			"date_time", req.DateTime)
		return 0, nil
	}

	s.invalidate()
	s.metrics.AppointmentsCancelled.Add(float64(removed))
	s.logger.Info("Appointment cancelled",
		"doctor", req.DoctorName,
		"patient", req.PatientName,
		"date_time", req.DateTime,
		"removed", removed)

	s.emit(ctx, model.EventAppointmentCancelled, model.AppointmentEvent{
		DateTime:    req.DateTime,
		DoctorName:  req.DoctorName,
		PatientName: req.PatientName,
		Removed:     removed,
	})

	return removed, nil
}

// CancelAppointmentByID cancels the appointment with id and returns it.
func (s *Service) CancelAppointmentByID(ctx context.Context, id uuid.UUID) (model.Appointment, error) {
	apt, err := s.GetAppointment(ctx, id)
	if err != nil {
		return model.Appointment{}, err
	}

	if _, err := s.CancelAppointment(ctx, &model.CancelAppointmentRequest{
		DateTime:    apt.DateTime,
		DoctorName:  apt.DoctorName,
		PatientName: apt.PatientName,
	}); err != nil {
		return model.Appointment{}, err
	}
	return apt, nil
}

// SeedDefaults generates the demo schedule for today and tomorrow. It succeeds
// once per registry.
func (s *Service) SeedDefaults(ctx context.Context) (int, error) {
	today := s.Today()

	n, err := s.repo.SeedDefaultAppointments(today)
	if err != nil {
		return 0, fmt.Errorf("failed to seed default appointments: %w", err)
	}

	s.invalidate()
	s.metrics.AppointmentsScheduled.Add(float64(n))
	s.logger.Info("Default appointments generated", "today", today, "appointments", n)

	s.emit(ctx, model.EventScheduleSeeded, model.SeedEvent{Today: today, Appointments: n})
	return n, nil
}

func (s *Service) generation() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.gen
}

// store caches a result computed at generation gen unless a mutation has
// invalidated the cache since.
func (s *Service) store(gen uint64, key string, value interface{}) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.gen == gen {
		s.cache.SetDefault(key, value)
	}
}

func (s *Service) invalidate() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.gen++
	s.cache.Flush()
}

func copySlots(slots []model.Slot) []model.Slot {
	out := make([]model.Slot, len(slots))
	copy(out, slots)
	return out
}

func copyNames(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// emit never fails the caller; the registry change has already happened.
func (s *Service) emit(ctx context.Context, eventType string, payload interface{}) {
	if err := s.events.Emit(ctx, eventType, payload); err != nil {
		s.logger.Error(err, "Failed to emit event", "event_type", eventType)
	}
}
