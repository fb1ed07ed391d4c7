package identity

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/personal/core"
)

type Role string

// Roles
const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// DefaultName is shown for identities that have no profile row yet.
const DefaultName = "Aluno"

func (r Role) Valid() bool {
	return r == RoleTeacher || r == RoleStudent
}

// Identity is who is acting. It is fixed for the lifetime of a Session.
type Identity struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name"`
}

func (id Identity) IsTeacher() bool {
	return id.Role == RoleTeacher
}

func (id Identity) IsStudent() bool {
	return id.Role == RoleStudent
}

// Profile is the role/name record kept for an identity.
type Profile struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
	Name   string `json:"nome"`
}

// DefaultProfile is used when an identity has no profile row: an under-provisioned student.
func DefaultProfile(userID string) Profile {
	return Profile{UserID: userID, Role: RoleStudent, Name: DefaultName}
}

// AccessToken is the identity provider's bearer token.
// It never prints and never marshals, so it cannot leak into logs or responses.
type AccessToken string

const redacted = "[REDACTED]"

func (AccessToken) String() string   { return redacted }
func (AccessToken) GoString() string { return redacted }

func (AccessToken) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

// Grant is what the identity provider hands back for a valid credentials pair.
type Grant struct {
	AccessToken AccessToken
	UserID      string
}

// Session is the authenticated context created at login and invalidated at logout.
type Session struct {
	ID          string
	Identity    Identity
	AccessToken AccessToken
	CreatedAt   time.Time
}

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return validate.Struct(c)
}
