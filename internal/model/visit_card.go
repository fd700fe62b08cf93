package model

// VisitCard is the diagnosis recorded for a visit. It is never modified after creation.
type VisitCard struct {
	Base
	DoctorName  string `json:"doctor_name"`
	PatientName string `json:"patient_name"`
	DateTime    string `json:"date_time"`
	Diagnosis   string `json:"diagnosis"`
}

func NewVisitCard(doctorName, patientName, dateTime, diagnosis string) *VisitCard {
	return &VisitCard{
		Base:        newBase(),
		DoctorName:  doctorName,
		PatientName: patientName,
		DateTime:    dateTime,
		Diagnosis:   diagnosis,
	}
}

type CreateVisitCardRequest struct {
	DoctorName  string `json:"doctor_name" binding:"required" validate:"required"`
	PatientName string `json:"patient_name" binding:"required" validate:"required"`
	DateTime    string `json:"date_time" binding:"required" validate:"required"`
	// Diagnosis is free text and may be empty.
	Diagnosis   string `json:"diagnosis"`
}
