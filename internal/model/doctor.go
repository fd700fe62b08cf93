package model

import "github.com/google/uuid"

// Doctor is a clinician whose name is unique within the registry.
type Doctor struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	appointmentList
}

func NewDoctor(name string) *Doctor {
	return &Doctor{ID: uuid.New(), Name: name}
}

func (d *Doctor) GetName() string { return d.Name }

// IsAvailable reports whether the doctor holds no appointment at exactly dateTime.
func (d *Doctor) IsAvailable(dateTime string) bool {
	for _, a := range d.Appointments {
		if a.DateTime == dateTime {
			return false
		}
	}
	return true
}

func (d *Doctor) Clone() Doctor {
	return Doctor{ID: d.ID, Name: d.Name, appointmentList: d.appointmentList.clone()}
}

var _ Person = (*Doctor)(nil)
