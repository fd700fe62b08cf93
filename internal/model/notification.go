package model

// Domain event types published through the outbox.
const (
	EventAppointmentScheduled = "appointment.scheduled"
	EventAppointmentCancelled = "appointment.cancelled"
	EventPatientRegistered    = "patient.registered"
	EventVisitCardCreated     = "visit_card.created"
	EventScheduleSeeded       = "schedule.seeded"
)

// EventTypes lists every event type in publishing order.
var EventTypes = []string{
	EventAppointmentScheduled,
	EventAppointmentCancelled,
	EventPatientRegistered,
	EventVisitCardCreated,
	EventScheduleSeeded,
}

// AppointmentEvent is the payload of appointment.* events.
type AppointmentEvent struct {
	DateTime    string `json:"date_time"`
	DoctorName  string `json:"doctor_name"`
	PatientName string `json:"patient_name"`
	Removed     int    `json:"removed,omitempty"`
}

type PatientEvent struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
}

type VisitCardEvent struct {
	DoctorName  string `json:"doctor_name"`
	PatientName string `json:"patient_name"`
	DateTime    string `json:"date_time"`
	Diagnosis   string `json:"diagnosis"`
}

type SeedEvent struct {
	Today        string `json:"today"`
	Appointments int    `json:"appointments"`
}
