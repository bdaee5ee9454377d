package enum

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

func (p Permission) IsValid() bool {
	switch p {
	case PermissionDefault, PermissionGranted, PermissionDenied:
		return true
	}
	return false
}

// IsTerminal reports whether the user has already answered the prompt.
func (p Permission) IsTerminal() bool {
	return p == PermissionGranted || p == PermissionDenied
}
