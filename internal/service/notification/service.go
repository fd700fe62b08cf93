package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jwalitptl/clinic-registry/internal/email"
	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/pkg/messaging"
)

// Service turns published domain events into front-desk emails. It is a
// messaging.Publisher so the outbox processor can fan events out to it.
type Service struct {
	emailSvc  email.Service
	recipient string
}

func NewService(emailSvc email.Service, recipient string) *Service {
	return &Service{emailSvc: emailSvc, recipient: recipient}
}

// Publish mails appointment and visit card events; other event types are ignored.
func (s *Service) Publish(ctx context.Context, eventType string, message interface{}) error {
	subject, body, ok, err := render(eventType, message)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return s.emailSvc.SendCustom(ctx, s.recipient, subject, body)
}

func render(eventType string, message interface{}) (subject, body string, ok bool, err error) {
	switch eventType {
	case model.EventAppointmentScheduled, model.EventAppointmentCancelled:
		var e model.AppointmentEvent
		if err := decode(message, &e); err != nil {
			return "", "", false, err
		}
		verb := "scheduled"
		if eventType == model.EventAppointmentCancelled {
			verb = "cancelled"
		}
		subject = fmt.Sprintf("Appointment %s: %s", verb, e.DateTime)
		body = lines(
			fmt.Sprintf("An appointment has been %s.", verb),
			"",
			"Date:    "+e.DateTime,
			"Doctor:  "+e.DoctorName,
			"Patient: "+e.PatientName,
		)
		return subject, body, true, nil

	case model.EventVisitCardCreated:
		var e model.VisitCardEvent
		if err := decode(message, &e); err != nil {
			return "", "", false, err
		}
		subject = fmt.Sprintf("Visit card: %s", e.PatientName)
		body = lines(
			"A visit card has been issued.",
			"",
			"Date:      "+e.DateTime,
			"Doctor:    "+e.DoctorName,
			"Patient:   "+e.PatientName,
			"Diagnosis: "+e.Diagnosis,
		)
		return subject, body, true, nil
	}
	return "", "", false, nil
}

func decode(message interface{}, v interface{}) error {
	raw, err := messaging.Encode(message)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode event payload: %w", err)
	}
	return nil
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

var _ messaging.Publisher = (*Service)(nil)
