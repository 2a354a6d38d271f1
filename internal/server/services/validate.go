package services

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/quotevote/authkeeper/internal/common"
	"github.com/quotevote/authkeeper/internal/server/password"
)

const (
	minPasswordLength = 8
	maxNameLength     = 100
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,30}$`)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Username string
	Password string
}

// LoginInput carries a credential. Identifier is a username or an email.
type LoginInput struct {
	Identifier string
	Password   string
}

// validate collects every offending field so the caller can report them
// together.
func (in RegisterInput) validate() error {
	var fields []string

	name := strings.TrimSpace(in.Name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		fields = append(fields, "name")
	}
	if !validEmail(in.Email) {
		fields = append(fields, "email")
	}
	if !usernamePattern.MatchString(in.Username) {
		fields = append(fields, "username")
	}
	if len(in.Password) < minPasswordLength || len(in.Password) > password.MaxLength {
		fields = append(fields, "password")
	}

	return common.NewValidationError(fields...)
}

func (in LoginInput) validate() error {
	var fields []string
	if strings.TrimSpace(in.Identifier) == "" {
		fields = append(fields, "identifier")
	}
	if in.Password == "" {
		fields = append(fields, "password")
	}
	return common.NewValidationError(fields...)
}

// validEmail accepts a bare address only: "Name <a@b>" forms are rejected.
func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Name == "" && addr.Address == s
}
