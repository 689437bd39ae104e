package response

type Auth struct {
	Token                string `json:"token,omitempty"`
	VerificationRequired bool   `json:"verificationRequired,omitempty"`
	Message              string `json:"message,omitempty"`
}

type Profile struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}
