// Package console is the interactive front desk: patients register and manage
// their own appointments, registrators manage any appointment and visit cards.
package console

import (
	"context"
	"errors"
	"io"

	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/internal/registry"
	"github.com/jwalitptl/clinic-registry/internal/service/doctor"
	"github.com/jwalitptl/clinic-registry/internal/service/patient"
	apperrors "github.com/jwalitptl/clinic-registry/pkg/errors"
	"github.com/jwalitptl/clinic-registry/pkg/logger"
)

type AppointmentService interface {
	GetAvailableSlots(ctx context.Context, date, doctorName string) ([]model.Slot, error)
	ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]model.Appointment, error)
	ScheduleAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (model.Appointment, error)
	CancelAppointment(ctx context.Context, req *model.CancelAppointmentRequest) (int, error)
	SeedDefaults(ctx context.Context) (int, error)
}

type VisitCardService interface {
	AddVisitCard(ctx context.Context, req *model.CreateVisitCardRequest) (model.VisitCard, error)
	VisitCardsForPatient(ctx context.Context, patientName string) ([]model.VisitCard, error)
}

type Dependencies struct {
	Appointments AppointmentService
	Patients     patient.PatientService
	Doctors      doctor.Service
	VisitCards   VisitCardService
	Logger       *logger.Logger
}

type Console struct {
	term *terminal
	deps Dependencies
}

func New(in io.Reader, out io.Writer, deps Dependencies) *Console {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	return &Console{term: newTerminal(in, out), deps: deps}
}

// Run seeds the default schedule and serves the main menu until the user
// exits, input ends or ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	n, err := c.deps.Appointments.SeedDefaults(ctx)
	switch {
	case errors.Is(err, registry.ErrAlreadySeeded):
		c.deps.Logger.Debug("Default appointments already present")
	case err != nil:
		return err
	default:
		c.deps.Logger.Debug("Default appointments generated", "appointments", n)
	}

	if err := c.mainMenu(ctx); err != nil && !isInputEnd(err) {
		return err
	}
	return nil
}

func (c *Console) mainMenu(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.term.header("===== Appointment Scheduling System =====")
		c.term.println(rule)
		c.term.println("Please, select your role")
		c.term.println("(1) Role: Patient")
		c.term.println("(2) Role: Registrator")
		c.term.println("(3) Exit")
		c.term.println(rule)
		c.term.println("")

		choice, err := c.term.readChoice()
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.patientRoute(ctx)
		case 2:
			err = c.registratorRoute(ctx)
		case 3:
			return nil
		default:
			c.term.println("")
			c.term.println(invalidChoice)
		}
		if err != nil {
			return err
		}
	}
}

// selectDoctor repeats the doctor list until a valid number is entered.
func (c *Console) selectDoctor(ctx context.Context) (model.Doctor, error) {
	doctors, err := c.deps.Doctors.ListDoctors(ctx)
	if err != nil {
		return model.Doctor{}, err
	}
	names := make([]string, len(doctors))
	for i := range doctors {
		names[i] = doctors[i].Name
	}

	for {
		c.term.header("List of Doctors")
		c.term.showNames(names)

		idx, err := c.term.readIndex(len(doctors))
		if err != nil {
			return model.Doctor{}, err
		}
		if idx >= 0 {
			return doctors[idx], nil
		}
	}
}

// readDate repeats the prompt until the date is well formed and not in the past,
// then returns the free slots of doctorName on it.
func (c *Console) readDate(ctx context.Context, doctorName string) (string, []model.Slot, error) {
	for {
		date, err := c.term.readLine("Enter date (YYYY-MM-DD): ")
		if err != nil {
			return "", nil, err
		}
		slots, err := c.deps.Appointments.GetAvailableSlots(ctx, date, doctorName)
		if apperrors.HasCode(err, apperrors.ErrInvalidDate) {
			continue
		}
		if err != nil {
			return "", nil, err
		}
		return date, slots, nil
	}
}

func (c *Console) scheduleFor(ctx context.Context, patientName string) error {
	d, err := c.selectDoctor(ctx)
	if err != nil {
		return err
	}

	date, slots, err := c.readDate(ctx, d.Name)
	if err != nil {
		return err
	}

	c.term.header("Available Times for Dr. " + d.Name + " on " + date + ": ")
	c.term.showSlots(slots)

	idx, err := c.term.readIndex(len(slots))
	if err != nil || idx < 0 {
		return err
	}

	apt, err := c.deps.Appointments.ScheduleAppointment(ctx, &model.CreateAppointmentRequest{
		DateTime:    slots[idx].DateTime,
		DoctorName:  d.Name,
		PatientName: patientName,
	})
	if err != nil {
		c.term.reportError(err)
		return nil
	}
	c.term.printf("\nAppointment scheduled for %s with Dr. %s at %s\n", apt.PatientName, apt.DoctorName, apt.DateTime)
	return nil
}

func (c *Console) cancel(ctx context.Context, dateTime, doctorName, patientName string) {
	removed, err := c.deps.Appointments.CancelAppointment(ctx, &model.CancelAppointmentRequest{
		DateTime:    dateTime,
		DoctorName:  doctorName,
		PatientName: patientName,
	})
	if err != nil {
		c.term.reportError(err)
		return
	}
	if removed > 0 {
		c.term.printf("\nAppointment on %s with Dr. %s cancelled\n", dateTime, doctorName)
	}
}
