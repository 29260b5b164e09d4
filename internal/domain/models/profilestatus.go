// internal/domain/models/profilestatus.go
package models

// Canonical profile status labels.
//
// These values are stored verbatim in Profile.Status and are shown to users
// as-is, so they are human-readable rather than slug-style keys.
const (
	StatusSoftwareDeveloper = "Software Developer"
	StatusBackendDeveloper  = "Backend Developer"
	StatusFrontendDeveloper = "Frontend Developer"
	StatusStudent           = "Student"
	StatusInstructor        = "Instructor"
)

// ProfileStatuses is the closed set of allowed status labels.
//
// Request validation and the collection's $jsonSchema enum are both built
// from this slice; a new status must be added here to be accepted.
var ProfileStatuses = []string{
	StatusSoftwareDeveloper,
	StatusBackendDeveloper,
	StatusFrontendDeveloper,
	StatusStudent,
	StatusInstructor,
}

// IsProfileStatus reports whether s is one of ProfileStatuses (exact match).
func IsProfileStatus(s string) bool {
	for _, v := range ProfileStatuses {
		if v == s {
			return true
		}
	}
	return false
}
