package transfer

import (
	"time"

	"github.com/hauskeep/hauskeep/pkg/household"
)

type AuthenticatePayload struct {
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required"`
	IsRegistration bool    `json:"is_registration"`
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
}

type AuthenticateResponse struct {
	Success        bool    `json:"success"`
	CloudUserEmail *string `json:"cloud_user_email,omitempty"`
	ErrorMessage   *string `json:"error_message,omitempty"`
}

type StartPayload struct {
	IncludeHistory bool `json:"include_history"`
	Resume         bool `json:"resume"`
}

type StartResponse struct {
	SessionID string `json:"session_id"`
}

type AvailableResponse struct {
	Available bool `json:"available"`
}

type SummaryResponse struct {
	Categories []household.CategoryCount `json:"categories"`
}

type SessionInfoResponse struct {
	HasIncompleteSession bool       `json:"has_incomplete_session"`
	SessionID            *string    `json:"session_id,omitempty"`
	CurrentCategory      *string    `json:"current_category,omitempty"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
}

type ResultsResponse struct {
	Categories []CategoryResult `json:"categories"`
}
