package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginRequest(t *testing.T) {
	expectedMap := map[string]string{"username": "jane", "password": "***"}
	expected, _ := json.Marshal(expectedMap)
	loginReq := Login{Username: "jane", Password: "secret123"}

	actual, _ := json.Marshal(loginReq)

	assert.JSONEq(t, string(expected), string(actual))
	assert.EqualValues(t, "secret123", loginReq.Password)
}

func TestRegisterRequest(t *testing.T) {
	expectedMap := map[string]string{
		"firstName": "Jane",
		"lastName":  "Doe",
		"email":     "jane@example.com",
		"password":  "***",
	}
	expected, _ := json.Marshal(expectedMap)
	registerReq := Register{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Password:  "secret123",
	}

	actual, _ := json.Marshal(registerReq)

	assert.JSONEq(t, string(expected), string(actual))
	assert.EqualValues(t, "secret123", registerReq.Password)
}
