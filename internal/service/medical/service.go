package medical

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

// Service issues visit cards. A card needs a registered patient but not a
// matching appointment.
type Service struct {
	repo      repository.VisitCardRepository
	patients  repository.PatientRepository
	events    event.Emitter
	validator validator.Validator
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewService(repo repository.VisitCardRepository, patients repository.PatientRepository, events event.Emitter, logger *logger.Logger, metrics *metrics.Metrics) *Service {
	return &Service{
		repo:      repo,
		patients:  patients,
		events:    events,
		validator: validator.New(),
		logger:    logger,
		metrics:   metrics,
	}
}

func (s *Service) AddVisitCard(ctx context.Context, req *model.CreateVisitCardRequest) (model.VisitCard, error) {
	req.Diagnosis = strings.TrimSpace(req.Diagnosis)
	if err := s.validator.Validate(req); err != nil {
		return model.VisitCard{}, err
	}
	if _, err := s.patients.FindPatientByName(req.PatientName); err != nil {
		return model.VisitCard{}, fmt.Errorf("failed to add visit card: %w", err)
	}

	card := s.repo.AddVisitCard(req.DoctorName, req.PatientName, req.DateTime, req.Diagnosis)

	s.metrics.VisitCardsIssued.Inc()
	s.logger.Info("Visit card added",
		"visit_card_id", card.ID.String(),
		"doctor", card.DoctorName,
		"patient", card.PatientName)

	if err := s.events.Emit(ctx, model.EventVisitCardCreated, model.VisitCardEvent{
		DoctorName:  card.DoctorName,
		PatientName: card.PatientName,
		DateTime:    card.DateTime,
		Diagnosis:   card.Diagnosis,
	}); err != nil {
		s.logger.Error(err, "Failed to emit event", "event_type", model.EventVisitCardCreated)
	}

	return card, nil
}

// VisitCardsForPatient returns the patient's cards in issue order.
func (s *Service) VisitCardsForPatient(ctx context.Context, patientName string) ([]model.VisitCard, error) {
	if _, err := s.patients.FindPatientByName(patientName); err != nil {
		return nil, fmt.Errorf("failed to list visit cards: %w", err)
	}
	cards := s.repo.VisitCardsForPatient(patientName)
	if cards == nil {
		cards = []model.VisitCard{}
	}
	return cards, nil
}
