package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

type Login struct {
	Username string `validate:"required" json:"username"`
	Password string `validate:"required" json:"password"`
}

func (l Login) MarshalZerologObject(e *zerolog.Event) {
	e.Str("username", l.Username).Str("password", "***")
}

func (l Login) MarshalJSON() ([]byte, error) {
	l.Password = "***"
	type L Login
	return json.Marshal(L(l))
}

type Register struct {
	FirstName string `validate:"required"       json:"firstName"`
	LastName  string `validate:"required"       json:"lastName"`
	Email     string `validate:"required,email" json:"email"`
	Password  string `validate:"required,min=8" json:"password"`
}

func (r Register) MarshalZerologObject(e *zerolog.Event) {
	e.Str("firstName", r.FirstName).
		Str("lastName", r.LastName).
		Str("email", r.Email).
		Str("password", "***")
}

func (r Register) MarshalJSON() ([]byte, error) {
	r.Password = "***"
	type R Register
	return json.Marshal(R(r))
}

type VerifyEmail struct {
	Username string `validate:"required"              json:"username"`
	Code     string `validate:"required,len=6,number" json:"code"`
}

type ResendVerification struct {
	Email string `validate:"required,email" json:"email"`
}
