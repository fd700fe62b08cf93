package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkingHoursTimes(t *testing.T) {
	times := DefaultWorkingHours().Times()

	require.Len(t, times, 20)
	assert.Equal(t, "08:00", times[0])
	assert.Equal(t, "08:30", times[1])
	assert.Equal(t, "17:30", times[len(times)-1])
}

func TestWorkingHoursContains(t *testing.T) {
	wh := DefaultWorkingHours()

	assert.True(t, wh.Contains("2025-01-10 09:00"))
	assert.True(t, wh.Contains("2025-01-10 17:30"))
	assert.False(t, wh.Contains("2025-01-10 18:00"))
	assert.False(t, wh.Contains("2025-01-10 09:15"))
	assert.False(t, wh.Contains("2025-01-10"))
}

func TestWorkingHoursValidate(t *testing.T) {
	assert.NoError(t, DefaultWorkingHours().Validate())
	assert.Error(t, WorkingHours{StartHour: 18, EndHour: 8, SlotMinutes: 30}.Validate())
	assert.Error(t, WorkingHours{StartHour: 8, EndHour: 18, SlotMinutes: 25}.Validate())
}

func TestDeleteAppointmentRemovesAllMatches(t *testing.T) {
	p := NewPatient("Alice Smith", "23.08.1997")
	ref := AppointmentRef{DateTime: "2025-01-10 09:00", PatientName: "Alice Smith", DoctorName: "John Smith"}
	other := AppointmentRef{DateTime: "2025-01-10 09:30", PatientName: "Alice Smith", DoctorName: "John Smith"}
	p.AddAppointment(ref)
	p.AddAppointment(other)
	p.AddAppointment(ref)

	assert.Equal(t, 2, p.DeleteAppointment(ref))
	assert.Equal(t, []AppointmentRef{other}, p.GetAppointments())
	assert.Equal(t, 0, p.DeleteAppointment(ref))
}

func TestDoctorCloneIsIndependent(t *testing.T) {
	d := NewDoctor("John Smith")
	d.AddAppointment(AppointmentRef{DateTime: "2025-01-10 09:00", PatientName: "Alice Smith", DoctorName: "John Smith"})

	c := d.Clone()
	c.AddAppointment(AppointmentRef{DateTime: "2025-01-10 10:00", PatientName: "Bob Johnson", DoctorName: "John Smith"})

	assert.Len(t, d.Appointments, 1)
	assert.Len(t, c.Appointments, 2)
	assert.False(t, d.IsAvailable("2025-01-10 09:00"))
	assert.True(t, d.IsAvailable("2025-01-10 10:00"))
}

func TestPatientJSONIncludesAppointments(t *testing.T) {
	p := NewPatient("Alice Smith", "23.08.1997")
	p.AddAppointment(AppointmentRef{DateTime: "2025-01-10 09:00", PatientName: "Alice Smith", DoctorName: "John Smith"})

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "Alice Smith", decoded["name"])
	assert.Len(t, decoded["appointments"], 1)
}

func TestAppointmentFilters(t *testing.T) {
	a := NewAppointment("2025-01-10 09:00", "John Smith", "Alice Smith")

	assert.True(t, (*AppointmentFilters)(nil).Match(a))
	assert.True(t, (&AppointmentFilters{Date: "2025-01-10"}).Match(a))
	assert.False(t, (&AppointmentFilters{Date: "2025-01-11"}).Match(a))
	assert.False(t, (&AppointmentFilters{DoctorName: "Sarah Lee"}).Match(a))
	assert.True(t, (&AppointmentFilters{DoctorName: "John Smith", PatientName: "Alice Smith"}).Match(a))
}
