package talent

// Record is the part of a stored entity the matching and aggregation code relies on.
type Record interface {
	RecordID() string
	Owner() string
	// Vector returns the stored embedding, nil when absent.
	Vector() []float32
}

// Role identifies on which side of the market a user acts.
type Role string

const (
	RoleSeeker Role = "seeker"
	RolePoster Role = "poster"
)

// ParseRole accepts the canonical role names and the legacy aliases.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "seeker", "job_seeker":
		return RoleSeeker, true
	case "poster", "employer":
		return RolePoster, true
	default:
		return "", false
	}
}
