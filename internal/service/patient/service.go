package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/internal/repository"
	"github.com/jwalitptl/clinic-registry/internal/service/event"
	"github.com/jwalitptl/clinic-registry/pkg/logger"
	"github.com/jwalitptl/clinic-registry/pkg/metrics"
	"github.com/jwalitptl/clinic-registry/pkg/validator"
)

type PatientService interface {
	RegisterPatient(ctx context.Context, req *model.CreatePatientRequest) (model.Patient, bool, error)
	GetPatient(ctx context.Context, name string) (model.Patient, error)
	ListPatients(ctx context.Context) ([]model.Patient, error)
	PatientExists(ctx context.Context, name string) bool
}

type Service struct {
	repo      repository.PatientRepository
	events    event.Emitter
	validator validator.Validator
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewService(repo repository.PatientRepository, events event.Emitter, logger *logger.Logger, metrics *metrics.Metrics) *Service {
	return &Service{
		repo:      repo,
		events:    events,
		validator: validator.New(),
		logger:    logger,
		metrics:   metrics,
	}
}

// RegisterPatient adds a patient unless the name is already registered. An existing
// record is returned unchanged and the bool is false.
func (s *Service) RegisterPatient(ctx context.Context, req *model.CreatePatientRequest) (model.Patient, bool, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.DateOfBirth = strings.TrimSpace(req.DateOfBirth)
	if err := s.validator.Validate(req); err != nil {
		return model.Patient{}, false, err
	}

	patient, created := s.repo.AddPatient(req.Name, req.DateOfBirth)
	if !created {
		return patient, false, nil
	}

	s.metrics.PatientsRegistered.Inc()
	s.logger.Info("Patient registered", "patient", patient.Name)

	if err := s.events.Emit(ctx, model.EventPatientRegistered, model.PatientEvent{
		Name:        patient.Name,
		DateOfBirth: patient.DateOfBirth,
	}); err != nil {
		s.logger.Error(err, "Failed to emit event", "event_type", model.EventPatientRegistered)
	}

	return patient, true, nil
}

func (s *Service) GetPatient(ctx context.Context, name string) (model.Patient, error) {
	p, err := s.repo.FindPatientByName(name)
	if err != nil {
		return model.Patient{}, fmt.Errorf("failed to get patient: %w", err)
	}
	return p, nil
}

func (s *Service) ListPatients(ctx context.Context) ([]model.Patient, error) {
	return s.repo.Patients(), nil
}

func (s *Service) PatientExists(ctx context.Context, name string) bool {
	return s.repo.PatientExists(name)
}

var _ PatientService = (*Service)(nil)
