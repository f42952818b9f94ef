package client

import (
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/dto/responses"
)

// Session is the logged-in identity. It is created by Login or Register and
// ends at Logout.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
}

func newSession(login *responses.LoginUser) *Session {
	return &Session{
		AccessToken: login.AccessToken,
		TokenType:   login.TokenType,
		UserID:      login.UserID,
		Email:       login.Email,
		Name:        login.Name,
	}
}

func (s *Session) valid() bool {
	return s != nil && s.AccessToken != "" && s.UserID != ""
}

func (s *Session) authorization() string {
	return constvars.AuthorizationBearerPrefix + s.AccessToken
}
