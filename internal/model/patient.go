package model

import "github.com/google/uuid"

type Patient struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DateOfBirth string    `json:"date_of_birth"`
	appointmentList
}

func NewPatient(name, dateOfBirth string) *Patient {
	return &Patient{ID: uuid.New(), Name: name, DateOfBirth: dateOfBirth}
}

func (p *Patient) GetName() string { return p.Name }

func (p *Patient) Clone() Patient {
	return Patient{ID: p.ID, Name: p.Name, DateOfBirth: p.DateOfBirth, appointmentList: p.appointmentList.clone()}
}

var _ Person = (*Patient)(nil)

type CreatePatientRequest struct {
	Name        string `json:"name" binding:"required,max=200" validate:"required,max=200"`
	DateOfBirth string `json:"date_of_birth" binding:"max=20" validate:"max=20"`
}
