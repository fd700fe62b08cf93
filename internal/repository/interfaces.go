package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-registry/internal/model"
)

// All repository interfaces in one file. The schedule interfaces are satisfied
// by *registry.Registry.
type (
	DoctorRepository interface {
		Doctors() []model.Doctor
		FindDoctorByName(name string) (model.Doctor, error)
		DoctorAt(index int) (model.Doctor, error)
	}

	PatientRepository interface {
		Patients() []model.Patient
		FindPatientByName(name string) (model.Patient, error)
		PatientExists(name string) bool
		PatientAt(index int) (model.Patient, error)
		AddPatient(name, dateOfBirth string) (model.Patient, bool)
	}

	AppointmentRepository interface {
		WorkingHours() model.WorkingHours
		Appointments() []model.Appointment
		AppointmentByID(id uuid.UUID) (model.Appointment, error)
		AppointmentAt(index int) (model.Appointment, error)
		ScheduleAppointment(dateTime, doctorName, patientName string) (model.Appointment, error)
		CancelAppointment(dateTime, patientName, doctorName string) int
		AvailableTimes(date string) []model.Slot
		AvailableTimesForDoctor(date, doctorName string) []model.Slot
		AvailableDoctors(date string) []string
		SeedDefaultAppointments(today string) (int, error)
	}

	VisitCardRepository interface {
		VisitCards() []model.VisitCard
		AddVisitCard(doctorName, patientName, dateTime, diagnosis string) model.VisitCard
		VisitCardsForPatient(patientName string) []model.VisitCard
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
		DeleteFinishedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
