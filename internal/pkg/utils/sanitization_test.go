package utils

import (
	"testing"
	"zemedic-service/internal/pkg/dto/requests"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeRegisterUserRequest(t *testing.T) {
	t.Run("Email Sanitization", func(t *testing.T) {
		request := &requests.RegisterUser{
			Name:     "Ada",
			Email:    "  ADA@EXAMPLE.COM  ",
			Password: "secret-pass",
		}

		SanitizeRegisterUserRequest(request)

		assert.Equal(t, "ada@example.com", request.Email, "email should be lowercase and trimmed")
	})

	t.Run("Name Trimmed", func(t *testing.T) {
		request := &requests.RegisterUser{Name: "  Ada Lovelace ", Email: "ada@example.com"}

		SanitizeRegisterUserRequest(request)

		assert.Equal(t, "Ada Lovelace", request.Name, "name should be trimmed")
	})

	t.Run("Password Untouched", func(t *testing.T) {
		request := &requests.RegisterUser{Name: "Ada", Email: "ada@example.com", Password: " spaced pass "}

		SanitizeRegisterUserRequest(request)

		assert.Equal(t, " spaced pass ", request.Password, "password should be kept verbatim")
	})
}

func TestSanitizeLoginUserRequest(t *testing.T) {
	request := &requests.LoginUser{Email: "\tUser@Domain.ORG ", Password: "pw"}

	SanitizeLoginUserRequest(request)

	assert.Equal(t, "user@domain.org", request.Email, "email should be lowercase and trimmed")
	assert.Equal(t, "pw", request.Password)
}

func TestSanitizeUpdateProfileRequest(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"Already clean", "Grace Hopper", "Grace Hopper"},
		{"Surrounding whitespace", "  Grace Hopper  ", "Grace Hopper"},
		{"Inner whitespace collapsed", "Grace \t  Hopper", "Grace Hopper"},
		{"Blank", "   ", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			request := &requests.UpdateProfile{Name: tc.input}
			SanitizeUpdateProfileRequest(request)
			assert.Equal(t, tc.expected, request.Name)
		})
	}
}
