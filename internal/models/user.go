package models

// Permission levels across the whole flockr. The first user to register
// becomes the flockr owner; everyone after that is a regular member.
const (
	PermissionOwner  = 1
	PermissionMember = 2
)

// ValidPermission reports whether p is one of the defined permission levels.
func ValidPermission(p int) bool {
	return p == PermissionOwner || p == PermissionMember
}

// User represents a registered account
type User struct {
	Email        string
	PasswordHash string // bcrypt hash, never the plain password
	NameFirst    string
	NameLast     string
	Handle       string
	ResetCode    string // empty unless a password reset is pending
	ID           int64
	Permission   int
}

// IsFlockrOwner reports whether the user holds the elevated flockr-wide
// permission.
func (u *User) IsFlockrOwner() bool {
	return u.Permission == PermissionOwner
}
