package registry

import (
	"github.com/jwalitptl/clinic-registry/internal/model"
)

// AvailableTimes lists every free slot on date, doctor by doctor in registry
// order and ascending time within a doctor. Callers display the result with
// 1-based numbering, so the order must stay stable.
func (r *Registry) AvailableTimes(date string) []model.Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.availableTimes(date, "")
}

func (r *Registry) AvailableTimesForDoctor(date, doctorName string) []model.Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.availableTimes(date, doctorName)
}

// AvailableDoctors returns the names of doctors with at least one free slot on
// date, in registry order.
func (r *Registry) AvailableDoctors(date string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	free := make(map[string]struct{})
	for _, s := range r.availableTimes(date, "") {
		free[s.DoctorName] = struct{}{}
	}

	var names []string
	for _, d := range r.doctors {
		if _, ok := free[d.Name]; ok {
			names = append(names, d.Name)
		}
	}
	return names
}

// availableTimes expects the caller to hold r.mu. An empty doctorName means all doctors.
func (r *Registry) availableTimes(date, doctorName string) []model.Slot {
	times := r.hours.Times()

	var slots []model.Slot
	for _, d := range r.doctors {
		if doctorName != "" && d.Name != doctorName {
			continue
		}
		for _, t := range times {
			dt := DateTime(date, t)
			if d.IsAvailable(dt) {
				slots = append(slots, model.Slot{DateTime: dt, DoctorName: d.Name})
			}
		}
	}
	return slots
}
