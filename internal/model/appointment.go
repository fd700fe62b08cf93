package model

import (
	"fmt"
	"strings"
)

// Appointment references its doctor and patient by name. Names are the registry's
// lookup keys, so the live records are always resolved through the registry.
type Appointment struct {
	Base
	DateTime    string `json:"date_time"`
	DoctorName  string `json:"doctor_name"`
	PatientName string `json:"patient_name"`
}

func NewAppointment(dateTime, doctorName, patientName string) *Appointment {
	return &Appointment{
		Base:        newBase(),
		DateTime:    dateTime,
		DoctorName:  doctorName,
		PatientName: patientName,
	}
}

func (a *Appointment) Ref() AppointmentRef {
	return AppointmentRef{DateTime: a.DateTime, PatientName: a.PatientName, DoctorName: a.DoctorName}
}

// Matches reports an exact (dateTime, patient, doctor) match.
func (a *Appointment) Matches(dateTime, patientName, doctorName string) bool {
	return a.DateTime == dateTime && a.PatientName == patientName && a.DoctorName == doctorName
}

// Date returns the YYYY-MM-DD part of the appointment key.
func (a *Appointment) Date() string {
	date, _, _ := strings.Cut(a.DateTime, " ")
	return date
}

// Slot is an available (dateTime, doctor) pair.
type Slot struct {
	DateTime   string `json:"date_time"`
	DoctorName string `json:"doctor_name"`
}

// Time returns the HH:MM part of the slot.
func (s Slot) Time() string {
	_, t, _ := strings.Cut(s.DateTime, " ")
	return t
}

// WorkingHours describes the slot grid: [StartHour, EndHour) in SlotMinutes steps.
type WorkingHours struct {
	StartHour   int `json:"start_hour" mapstructure:"work_start_hour"`
	EndHour     int `json:"end_hour" mapstructure:"work_end_hour"`
	SlotMinutes int `json:"slot_minutes" mapstructure:"slot_minutes"`
}

func DefaultWorkingHours() WorkingHours {
	return WorkingHours{StartHour: 8, EndHour: 18, SlotMinutes: 30}
}

func (w WorkingHours) Validate() error {
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return fmt.Errorf("invalid working hours %d-%d", w.StartHour, w.EndHour)
	}
	if w.SlotMinutes <= 0 || w.SlotMinutes > 60 || 60%w.SlotMinutes != 0 {
		return fmt.Errorf("slot length must divide an hour, got %d minutes", w.SlotMinutes)
	}
	return nil
}

// Times lists every slot start as HH:MM in ascending order.
func (w WorkingHours) Times() []string {
	var times []string
	for hour := w.StartHour; hour < w.EndHour; hour++ {
		for minute := 0; minute < 60; minute += w.SlotMinutes {
			times = append(times, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return times
}

// Contains reports whether dateTime's time part is a slot start on the grid.
func (w WorkingHours) Contains(dateTime string) bool {
	_, t, ok := strings.Cut(dateTime, " ")
	if !ok {
		return false
	}
	for _, slot := range w.Times() {
		if slot == t {
			return true
		}
	}
	return false
}

type CreateAppointmentRequest struct {
	DateTime    string `json:"date_time" binding:"required" validate:"required,datetime=2006-01-02 15:04"`
	DoctorName  string `json:"doctor_name" binding:"required" validate:"required"`
	PatientName string `json:"patient_name" binding:"required" validate:"required"`
}

type CancelAppointmentRequest struct {
	DateTime    string `json:"date_time" binding:"required" validate:"required"`
	DoctorName  string `json:"doctor_name" binding:"required" validate:"required"`
	PatientName string `json:"patient_name" binding:"required" validate:"required"`
}

type AppointmentFilters struct {
	DoctorName  string `form:"doctor"`
	PatientName string `form:"patient"`
	Date        string `form:"date"`
}

func (f *AppointmentFilters) Match(a *Appointment) bool {
	if f == nil {
		return true
	}
	if f.DoctorName != "" && a.DoctorName != f.DoctorName {
		return false
	}
	if f.PatientName != "" && a.PatientName != f.PatientName {
		return false
	}
	if f.Date != "" && a.Date() != f.Date {
		return false
	}
	return true
}
