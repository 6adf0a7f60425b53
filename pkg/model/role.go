package model

// Role is derived per request from group membership; it is never stored on
// the user document.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleManager:
		return 2
	case RoleUser:
		return 1
	}
	return 0
}

// AtLeast reports whether r meets or exceeds the lowest rank named in
// allowed. An empty allowed set grants nothing.
func (r Role) AtLeast(allowed ...Role) bool {
	for _, a := range allowed {
		if r.Rank() >= a.Rank() {
			return true
		}
	}
	return false
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleUser
}
