package console

import (
	"context"
	"strings"

	"github.com/jwalitptl/clinic-registry/internal/model"
)

func (c *Console) register(ctx context.Context) (model.Patient, error) {
	c.term.header("Registration form")

	name, err := c.term.readLine("Enter your name: ")
	if err != nil {
		return model.Patient{}, err
	}
	surname, err := c.term.readLine("Enter your surname: ")
	if err != nil {
		return model.Patient{}, err
	}
	dob, err := c.term.readLine("Enter your date of birth (DD.MM.YYYY): ")
	if err != nil {
		return model.Patient{}, err
	}

	p, _, err := c.deps.Patients.RegisterPatient(ctx, &model.CreatePatientRequest{
		Name:        strings.TrimSpace(name + " " + surname),
		DateOfBirth: dob,
	})
	return p, err
}

func (c *Console) patientRoute(ctx context.Context) error {
	p, err := c.register(ctx)
	if err != nil {
		if isInputEnd(err) {
			return err
		}
		c.term.reportError(err)
		return nil
	}

	for {
		c.term.printf("\n%s\n", rule)
		c.term.println("(1) Schedule appointment")
		c.term.println("(2) Cancel appointment")
		c.term.println("(3) Check existing appointments")
		c.term.println("(4) Exit")
		c.term.printf("%s\n\n", rule)

		choice, err := c.term.readChoice()
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.scheduleFor(ctx, p.Name)
		case 2:
			err = c.cancelOwn(ctx, p.Name)
		case 3:
			err = c.showOwn(ctx, p.Name)
		case 4:
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

func (c *Console) ownAppointments(ctx context.Context, patientName string) ([]model.AppointmentRef, error) {
	p, err := c.deps.Patients.GetPatient(ctx, patientName)
	if err != nil {
		return nil, err
	}
	refs := p.GetAppointments()
	c.term.showPatientAppointments(refs)
	return refs, nil
}

func (c *Console) showOwn(ctx context.Context, patientName string) error {
	_, err := c.ownAppointments(ctx, patientName)
	return err
}

func (c *Console) cancelOwn(ctx context.Context, patientName string) error {
	refs, err := c.ownAppointments(ctx, patientName)
	if err != nil || len(refs) == 0 {
		return err
	}

	c.term.println("")
	idx, err := c.term.readIndex(len(refs))
	if err != nil || idx < 0 {
		return err
	}

	ref := refs[idx]
	c.cancel(ctx, ref.DateTime, ref.DoctorName, patientName)
	return nil
}
