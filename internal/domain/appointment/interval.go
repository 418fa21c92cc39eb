package appointment

import "time"

// Resource is one side of an appointment. Doctor and patient calendars are
// checked for conflicts independently.
type Resource string

const (
	ResourceDoctor  Resource = "doctor"
	ResourcePatient Resource = "patient"
)

// EndTime derives the end instant from a start and a duration in minutes.
func EndTime(start time.Time, durationMin int) time.Time {
	return start.Add(time.Duration(durationMin) * time.Minute)
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Touching endpoints (back-to-back appointments) do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
