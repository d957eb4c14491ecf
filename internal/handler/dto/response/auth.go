package response

import (
	"github.com/google/uuid"

	"splashboard/internal/usecase/queries"
)

type RegisterResponse struct {
	ID uuid.UUID `json:"id"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

type MeResponse struct {
	User *queries.AuthorizedUserView `json:"user"`
}
