package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func newBase() Base {
	return Base{ID: uuid.New(), CreatedAt: time.Now()}
}

// Person is the capability shared by doctors and patients.
type Person interface {
	GetName() string
	GetAppointments() []AppointmentRef
}

// AppointmentRef is one entry of a person's appointment list.
type AppointmentRef struct {
	DateTime    string `json:"date_time"`
	PatientName string `json:"patient_name"`
	DoctorName  string `json:"doctor_name"`
}

// appointmentList is embedded by Doctor and Patient.
type appointmentList struct {
	Appointments []AppointmentRef `json:"appointments"`
}

func (l *appointmentList) GetAppointments() []AppointmentRef {
	return l.Appointments
}

func (l *appointmentList) AddAppointment(ref AppointmentRef) {
	l.Appointments = append(l.Appointments, ref)
}

// DeleteAppointment removes every entry equal to ref and returns how many were removed.
func (l *appointmentList) DeleteAppointment(ref AppointmentRef) int {
	kept := l.Appointments[:0]
	removed := 0
	for _, a := range l.Appointments {
		if a == ref {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	l.Appointments = kept
	return removed
}

func (l appointmentList) clone() appointmentList {
	if l.Appointments == nil {
		return appointmentList{}
	}
	out := make([]AppointmentRef, len(l.Appointments))
	copy(out, l.Appointments)
	return appointmentList{Appointments: out}
}
