package console

import (
	"context"

	"github.com/jwalitptl/clinic-registry/internal/model"
)

func (c *Console) registratorRoute(ctx context.Context) error {
	for {
		c.term.printf("\n%s\n", rule)
		c.term.println("(1) Schedule appointment")
		c.term.println("(2) Cancel appointment")
		c.term.println("(3) Add visit card for appointment")
		c.term.println("(4) Get visit cards for a patient")
		c.term.println("(5) Check doctor's schedule")
		c.term.println("(6) Exit")
		c.term.printf("%s\n\n", rule)

		choice, err := c.term.readChoice()
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.scheduleForChosenPatient(ctx)
		case 2:
			err = c.cancelAny(ctx)
		case 3:
			err = c.addVisitCard(ctx)
		case 4:
			err = c.visitCards(ctx)
		case 5:
			err = c.doctorSchedule(ctx)
		case 6:
			c.term.println("Returning to main menu...")
			return nil
		default:
			c.term.println(invalidChoice)
		}
		if err != nil {
			return err
		}
	}
}

// choosePatient returns ok=false after an invalid choice.
func (c *Console) choosePatient(ctx context.Context) (model.Patient, bool, error) {
	patients, err := c.deps.Patients.ListPatients(ctx)
	if err != nil {
		return model.Patient{}, false, err
	}
	names := make([]string, len(patients))
	for i := range patients {
		names[i] = patients[i].Name
	}

	c.term.header("List of registered patients")
	c.term.showNames(names)

	idx, err := c.term.readIndex(len(patients))
	if err != nil || idx < 0 {
		return model.Patient{}, false, err
	}
	return patients[idx], true, nil
}

// chooseAppointment lists every appointment in booking order.
func (c *Console) chooseAppointment(ctx context.Context) (model.Appointment, bool, error) {
	appointments, err := c.deps.Appointments.ListAppointments(ctx, nil)
	if err != nil {
		return model.Appointment{}, false, err
	}

	c.term.header("Appointments")
	for i, a := range appointments {
		c.term.showAppointment(i+1, a)
	}

	idx, err := c.term.readIndex(len(appointments))
	if err != nil || idx < 0 {
		return model.Appointment{}, false, err
	}
	return appointments[idx], true, nil
}

func (c *Console) scheduleForChosenPatient(ctx context.Context) error {
	p, ok, err := c.choosePatient(ctx)
	if err != nil || !ok {
		return err
	}
	return c.scheduleFor(ctx, p.Name)
}

func (c *Console) cancelAny(ctx context.Context) error {
	a, ok, err := c.chooseAppointment(ctx)
	if err != nil || !ok {
		return err
	}
	c.cancel(ctx, a.DateTime, a.DoctorName, a.PatientName)
	return nil
}

func (c *Console) addVisitCard(ctx context.Context) error {
	a, ok, err := c.chooseAppointment(ctx)
	if err != nil || !ok {
		return err
	}

	diagnosis, err := c.term.readLine("Enter diagnosis: ")
	if err != nil {
		return err
	}
	c.term.println("")

	card, err := c.deps.VisitCards.AddVisitCard(ctx, &model.CreateVisitCardRequest{
		DoctorName:  a.DoctorName,
		PatientName: a.PatientName,
		DateTime:    a.DateTime,
		Diagnosis:   diagnosis,
	})
	if err != nil {
		c.term.reportError(err)
		return nil
	}
	c.term.println("Hospital visit card is added for patient " + card.PatientName)
	return nil
}

func (c *Console) visitCards(ctx context.Context) error {
	p, ok, err := c.choosePatient(ctx)
	if err != nil || !ok {
		return err
	}

	cards, err := c.deps.VisitCards.VisitCardsForPatient(ctx, p.Name)
	if err != nil {
		c.term.reportError(err)
		return nil
	}

	c.term.header("Hospital Visit Cards for " + p.Name + ":")
	if len(cards) == 0 {
		c.term.println("No visit cards found for this patient.")
		return nil
	}
	for _, card := range cards {
		c.term.showVisitCard(card)
	}
	return nil
}

func (c *Console) doctorSchedule(ctx context.Context) error {
	d, err := c.selectDoctor(ctx)
	if err != nil {
		return err
	}
	c.term.showSchedule(d.GetAppointments())
	return nil
}
