package registry

// defaultTimes is walked backwards, one step per generated appointment.
var defaultTimes = []string{"17:00", "12:30", "08:30", "14:00", "13:30", "09:00", "15:00", "10:00"}

const (
	todayStartTimeIndex    = 0
	tomorrowStartTimeIndex = 7
	tomorrowStartIndex     = 4
)

// SeedDefaultAppointments fills the schedule with demo data for today and the
// following day. Today pairs the first half of the doctors with the first half of
// the patients; tomorrow pairs doctors and patients from index 4 onwards.
// The availability check is skipped. It may run only once per registry and
// returns the number of appointments created.
func (r *Registry) SeedDefaultAppointments(today string) (int, error) {
	tomorrow, err := Tomorrow(today)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seeded {
		return 0, ErrAlreadySeeded
	}
	r.seeded = true

	n := r.seedDate(today, todayStartTimeIndex, len(r.doctors)/2, len(r.patients)/2, 0)
	n += r.seedDate(tomorrow, tomorrowStartTimeIndex, len(r.doctors), len(r.patients), tomorrowStartIndex)
	return n, nil
}

// seedDate expects the caller to hold r.mu.
func (r *Registry) seedDate(date string, timeIndex, doctorCount, patientCount, start int) int {
	created := 0
	for i := start; i < doctorCount; i++ {
		for j := start; j < patientCount; j++ {
			r.book(DateTime(date, defaultTimes[timeIndex]), r.doctors[i], r.patients[j])
			created++
			timeIndex = (timeIndex - 1 + len(defaultTimes)) % len(defaultTimes)
		}
	}
	return created
}
