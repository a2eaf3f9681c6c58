package services

import "github.com/devverse/devverse/internal/domain/entities"

// AuthResult is the structured outcome of every authentication
// operation. Operations never panic across this boundary; unexpected
// failures are collapsed into a failed result with a diagnostic message.
type AuthResult struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Token   string               `json:"token,omitempty"`
	User    *entities.PublicUser `json:"user,omitempty"`
}

func failure(message string) *AuthResult {
	return &AuthResult{Success: false, Message: message}
}

func success(message, token string, user *entities.PublicUser) *AuthResult {
	return &AuthResult{Success: true, Message: message, Token: token, User: user}
}
