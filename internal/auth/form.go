package auth

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/validation"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// Usernames that would shadow a top-level route.
var reservedUsernames = map[string]bool{
	"auth": true, "new": true, "follow": true, "group": true,
	"media": true, "metrics": true, "healthz": true, "static": true,
}

type LoginInput struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

type SignupInput struct {
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Username  string `form:"username" validate:"required,max=150"`
	Email     string `form:"email" validate:"required,email,max=254"`
	Password  string `form:"password" validate:"required,min=8,max=128"`
}

// ValidateSignup trims the text fields and checks everything that does not
// need the database. Uniqueness is checked by the handler.
func ValidateSignup(in SignupInput) (SignupInput, validation.FieldErrors) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	fe := validation.FieldErrors{}
	if err := validation.ValidateStruct(in); err != nil {
		if !errors.As(err, &fe) {
			fe = validation.FieldErrors{}
			fe.Add("form", err.Error())
		}
	}

	if in.Username != "" && !fe.Has("username") {
		switch {
		case !usernamePattern.MatchString(in.Username):
			fe.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
		case reservedUsernames[strings.ToLower(in.Username)]:
			fe.Add("username", "This username is not available.")
		}
	}

	if fe.Any() {
		return in, fe
	}
	return in, nil
}

func ValidateLogin(in LoginInput) (LoginInput, validation.FieldErrors) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validation.ValidateStruct(in); err != nil {
		var fe validation.FieldErrors
		if errors.As(err, &fe) {
			return in, fe
		}
		fe = validation.FieldErrors{}
		fe.Add("form", err.Error())
		return in, fe
	}
	return in, nil
}
