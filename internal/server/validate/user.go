package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/flatfinder/internal/common"
	"github.com/dmitrijs2005/flatfinder/internal/server/models"
)

const (
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldBirthDate = "birthDate"
	FieldAdmin     = "admin"
)

// MinPasswordLength is counted in characters, not bytes.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var requiredUserFields = []string{FieldEmail, FieldPassword, FieldFirstName, FieldLastName, FieldBirthDate}

// NewUser validates a registration payload. The email is lower-cased.
func NewUser(raw Raw) (models.UserInput, error) {
	var in models.UserInput

	if err := missingFields(raw, requiredUserFields...); err != nil {
		return in, err
	}

	var err error
	if in.Email, err = email(raw); err != nil {
		return in, err
	}
	if in.Password, err = password(raw); err != nil {
		return in, err
	}
	if in.FirstName, err = raw.requiredText(FieldFirstName); err != nil {
		return in, err
	}
	if in.LastName, err = raw.requiredText(FieldLastName); err != nil {
		return in, err
	}
	if in.BirthDate, err = raw.date(FieldBirthDate); err != nil {
		return in, err
	}

	return in, nil
}

// UserUpdate projects raw onto the mutable user fields. The admin flag is
// recognized only when allowAdmin is set; otherwise it is dropped like any
// other unknown field.
func UserUpdate(raw Raw, allowAdmin bool) (models.UserPatch, error) {
	var p models.UserPatch

	if raw.present(FieldEmail) {
		e, err := email(raw)
		if err != nil {
			return p, err
		}
		p.Email = &e
	}
	if raw.present(FieldPassword) {
		pw, err := password(raw)
		if err != nil {
			return p, err
		}
		p.Password = &pw
	}
	if raw.present(FieldFirstName) {
		s, err := raw.requiredText(FieldFirstName)
		if err != nil {
			return p, err
		}
		p.FirstName = &s
	}
	if raw.present(FieldLastName) {
		s, err := raw.requiredText(FieldLastName)
		if err != nil {
			return p, err
		}
		p.LastName = &s
	}
	if raw.present(FieldBirthDate) {
		d, err := raw.date(FieldBirthDate)
		if err != nil {
			return p, err
		}
		p.BirthDate = &d
	}
	if allowAdmin && raw.present(FieldAdmin) {
		b, err := raw.boolean(FieldAdmin)
		if err != nil {
			return p, err
		}
		p.Admin = &b
	}

	return p, nil
}

// Login extracts the credentials of a login request.
func Login(raw Raw) (string, string, error) {
	e, _ := raw[FieldEmail].(string)
	pw, _ := raw[FieldPassword].(string)
	e = NormalizeEmail(e)
	if e == "" || pw == "" {
		return "", "", common.NewValidationError("email and password are required", FieldEmail, FieldPassword)
	}
	return e, pw, nil
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Email checks the basic local@domain.tld shape.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

func email(raw Raw) (string, error) {
	s, ok := raw[FieldEmail].(string)
	s = NormalizeEmail(s)
	if !ok || s == "" {
		return "", common.NewValidationError("email must not be empty", FieldEmail)
	}
	if !Email(s) {
		return "", common.NewValidationError("please enter a valid email address", FieldEmail)
	}
	return s, nil
}

func password(raw Raw) (string, error) {
	s, ok := raw[FieldPassword].(string)
	if !ok {
		return "", common.NewValidationError("password must be a string", FieldPassword)
	}
	if utf8.RuneCountInString(s) < MinPasswordLength {
		return "", common.NewValidationError("password must be at least 6 characters long", FieldPassword)
	}
	return s, nil
}
