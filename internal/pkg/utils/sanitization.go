package utils

import (
	"strings"
	"zemedic-service/internal/pkg/dto/requests"
)

func SanitizeRegisterUserRequest(input *requests.RegisterUser) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
}

func SanitizeLoginUserRequest(input *requests.LoginUser) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
}

func SanitizeUpdateProfileRequest(input *requests.UpdateProfile) {
	input.Name = strings.Join(strings.Fields(input.Name), " ")
}
