// Package registry is the in-memory store of doctors, patients, appointments and
// visit cards, together with the slot availability and booking rules.
//
// A Registry is safe for concurrent use. Every mutating operation holds the write
// lock for its whole read-check-write sequence, so a booking cannot interleave
// with another booking for the same doctor.
package registry

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/internal/repository"
	apperrors "github.com/jwalitptl/clinic-registry/pkg/errors"
)

var (
	_ repository.DoctorRepository      = (*Registry)(nil)
	_ repository.PatientRepository     = (*Registry)(nil)
	_ repository.AppointmentRepository = (*Registry)(nil)
	_ repository.VisitCardRepository   = (*Registry)(nil)
)

var (
	ErrDoctorUnavailable = apperrors.NewConflict("doctor not available", nil)
	ErrAlreadySeeded     = apperrors.NewConflict("default appointments already generated", nil)
)

// DefaultDoctors is the fixed clinic staff.
var DefaultDoctors = []string{
	"John Smith",
	"Emily Johnson",
	"David Brown",
	"Sarah Lee",
	"Michael Wilson",
	"Alexandra Garcia",
	"Matthew Taylor",
	"Olivia Martinez",
}

// PatientSeed is a name and date of birth used to pre-register a patient.
type PatientSeed struct {
	Name        string
	DateOfBirth string
}

var DefaultPatients = []PatientSeed{
	{"Alice Smith", "23.08.1997"},
	{"Bob Johnson", "22.06.2000"},
	{"Charlie Brown", "12.01.1998"},
	{"Diana Davis", "03.03.2003"},
	{"Eva Martinez", "02.08.2008"},
	{"Frank Lopez", "14.02.2012"},
	{"Grace Lee", "14.08.2012"},
	{"Henry Jackson", "22.08.2006"},
}

type Registry struct {
	mu           sync.RWMutex
	doctors      []*model.Doctor
	patients     []*model.Patient
	appointments []*model.Appointment
	visitCards   []*model.VisitCard
	hours        model.WorkingHours
	seeded       bool
}

type options struct {
	doctors  []string
	patients []PatientSeed
	hours    model.WorkingHours
}

type Option func(*options)

func WithDoctors(names ...string) Option {
	return func(o *options) { o.doctors = names }
}

func WithPatients(patients ...PatientSeed) Option {
	return func(o *options) { o.patients = patients }
}

func WithWorkingHours(hours model.WorkingHours) Option {
	return func(o *options) { o.hours = hours }
}

// New builds a registry populated with the default doctors and patients unless
// overridden. Doctor and patient names must be unique.
func New(opts ...Option) (*Registry, error) {
	o := options{
		doctors:  DefaultDoctors,
		patients: DefaultPatients,
		hours:    model.DefaultWorkingHours(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := o.hours.Validate(); err != nil {
		return nil, apperrors.NewBadRequest("invalid working hours", err)
	}

	r := &Registry{hours: o.hours}

	seen := make(map[string]struct{}, len(o.doctors))
	for _, name := range o.doctors {
		if _, dup := seen[name]; dup {
			return nil, apperrors.NewBadRequest(fmt.Sprintf("duplicate doctor name %q", name), nil)
		}
		seen[name] = struct{}{}
		r.doctors = append(r.doctors, model.NewDoctor(name))
	}

	seen = make(map[string]struct{}, len(o.patients))
	for _, p := range o.patients {
		if _, dup := seen[p.Name]; dup {
			return nil, apperrors.NewBadRequest(fmt.Sprintf("duplicate patient name %q", p.Name), nil)
		}
		seen[p.Name] = struct{}{}
		r.patients = append(r.patients, model.NewPatient(p.Name, p.DateOfBirth))
	}

	return r, nil
}

func (r *Registry) WorkingHours() model.WorkingHours {
	return r.hours
}

func (r *Registry) Doctors() []model.Doctor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Doctor, 0, len(r.doctors))
	for _, d := range r.doctors {
		out = append(out, d.Clone())
	}
	return out
}

func (r *Registry) Patients() []model.Patient {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Patient, 0, len(r.patients))
	for _, p := range r.patients {
		out = append(out, p.Clone())
	}
	return out
}

func (r *Registry) Appointments() []model.Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		out = append(out, *a)
	}
	return out
}

func (r *Registry) VisitCards() []model.VisitCard {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.VisitCard, 0, len(r.visitCards))
	for _, v := range r.visitCards {
		out = append(out, *v)
	}
	return out
}

func (r *Registry) FindDoctorByName(name string) (model.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d := r.doctor(name)
	if d == nil {
		return model.Doctor{}, apperrors.NewNotFound("doctor", fmt.Errorf("name %q", name))
	}
	return d.Clone(), nil
}

func (r *Registry) FindPatientByName(name string) (model.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p := r.patient(name)
	if p == nil {
		return model.Patient{}, apperrors.NewNotFound("patient", fmt.Errorf("name %q", name))
	}
	return p.Clone(), nil
}

func (r *Registry) PatientExists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.patient(name) != nil
}

// AddPatient registers a patient unless one with the same name exists, in which
// case the existing record is returned unchanged. The bool reports creation.
func (r *Registry) AddPatient(name, dateOfBirth string) (model.Patient, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p := r.patient(name); p != nil {
		return p.Clone(), false
	}

	p := model.NewPatient(name, dateOfBirth)
	r.patients = append(r.patients, p)
	return p.Clone(), true
}

// ScheduleAppointment books dateTime with the named doctor for the named patient.
// Both are resolved against the registry's own records.
func (r *Registry) ScheduleAppointment(dateTime, doctorName, patientName string) (model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doctor := r.doctor(doctorName)
	if doctor == nil {
		return model.Appointment{}, apperrors.NewNotFound("doctor", fmt.Errorf("name %q", doctorName))
	}
	if !doctor.IsAvailable(dateTime) {
		return model.Appointment{}, ErrDoctorUnavailable
	}
	patient := r.patient(patientName)
	if patient == nil {
		return model.Appointment{}, apperrors.NewNotFound("patient", fmt.Errorf("name %q", patientName))
	}

	return *r.book(dateTime, doctor, patient), nil
}

func (r *Registry) book(dateTime string, doctor *model.Doctor, patient *model.Patient) *model.Appointment {
	apt := model.NewAppointment(dateTime, doctor.Name, patient.Name)
	doctor.AddAppointment(apt.Ref())
	patient.AddAppointment(apt.Ref())
	r.appointments = append(r.appointments, apt)
	return apt
}

// CancelAppointment removes every appointment matching the exact triple from the
// global list and from the doctor's and patient's lists. It returns the number of
// appointments removed; a miss is not an error.
func (r *Registry) CancelAppointment(dateTime, patientName, doctorName string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.appointments[:0]
	removed := 0
	for _, a := range r.appointments {
		if a.Matches(dateTime, patientName, doctorName) {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	for i := len(kept); i < len(r.appointments); i++ {
		r.appointments[i] = nil
	}
	r.appointments = kept

	ref := model.AppointmentRef{DateTime: dateTime, PatientName: patientName, DoctorName: doctorName}
	if d := r.doctor(doctorName); d != nil {
		d.DeleteAppointment(ref)
	}
	if p := r.patient(patientName); p != nil {
		p.DeleteAppointment(ref)
	}
	return removed
}

func (r *Registry) AppointmentByID(id uuid.UUID) (model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.appointments {
		if a.ID == id {
			return *a, nil
		}
	}
	return model.Appointment{}, apperrors.NewNotFound("appointment", fmt.Errorf("id %s", id))
}

// AppointmentAt returns the appointment at a 0-based position in booking order.
func (r *Registry) AppointmentAt(index int) (model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.appointments) {
		return model.Appointment{}, apperrors.NewOutOfRange(index, len(r.appointments))
	}
	return *r.appointments[index], nil
}

func (r *Registry) DoctorAt(index int) (model.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.doctors) {
		return model.Doctor{}, apperrors.NewOutOfRange(index, len(r.doctors))
	}
	return r.doctors[index].Clone(), nil
}

func (r *Registry) PatientAt(index int) (model.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.patients) {
		return model.Patient{}, apperrors.NewOutOfRange(index, len(r.patients))
	}
	return r.patients[index].Clone(), nil
}

// AddVisitCard records a diagnosis. The appointment it describes is not required
// to exist.
func (r *Registry) AddVisitCard(doctorName, patientName, dateTime, diagnosis string) model.VisitCard {
	r.mu.Lock()
	defer r.mu.Unlock()

	card := model.NewVisitCard(doctorName, patientName, dateTime, diagnosis)
	r.visitCards = append(r.visitCards, card)
	return *card
}

func (r *Registry) VisitCardsForPatient(patientName string) []model.VisitCard {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.VisitCard
	for _, v := range r.visitCards {
		if v.PatientName == patientName {
			out = append(out, *v)
		}
	}
	return out
}

// doctor and patient expect the caller to hold r.mu.
func (r *Registry) doctor(name string) *model.Doctor {
	for _, d := range r.doctors {
		if d.Name == name {
			return d
		}
	}
	return nil
}

func (r *Registry) patient(name string) *model.Patient {
	for _, p := range r.patients {
		if p.Name == name {
			return p
		}
	}
	return nil
}
