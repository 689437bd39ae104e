package request

type UpdateProfile struct {
	FirstName   string `validate:"required" json:"firstName"`
	LastName    string `validate:"required" json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}
