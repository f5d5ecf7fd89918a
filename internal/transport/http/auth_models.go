package http

import (
	"time"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error" example:"invalid email or password"`
}

type AuthRole struct {
	ID          string  `json:"id" example:"f4bb0e02-5f91-4ce0-a6c0-7f63f3a8d5e2"`
	RoleName    string  `json:"role_name" example:"admin"`
	Description *string `json:"description,omitempty"`
}

// AuthUser is the user as exposed by auth endpoints, without credentials.
type AuthUser struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FullName     *string    `json:"full_name,omitempty"`
	UserImageURL *string    `json:"user_image_url,omitempty"`
	Roles        []AuthRole `json:"roles,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AuthSessionResponse matches domain.AuthSession on the wire so the admin
// client can decode it directly.
type AuthSessionResponse struct {
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	User      AuthUser  `json:"user"`
}

type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

type CountResponse struct {
	Count int `json:"count" example:"12"`
}

func buildAuthUser(user *domain.User) AuthUser {
	if user == nil {
		return AuthUser{}
	}
	roles := make([]AuthRole, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, AuthRole{ID: role.ID.String(), RoleName: role.Name, Description: role.Description})
	}
	return AuthUser{
		ID:           user.ID.String(),
		Email:        user.Email,
		FullName:     user.FullName,
		UserImageURL: user.ImageURL,
		Roles:        roles,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func buildSessionResponse(session *domain.AuthSession, includeToken bool) AuthSessionResponse {
	resp := AuthSessionResponse{ExpiresAt: session.ExpiresAt, User: buildAuthUser(session.User)}
	if includeToken {
		resp.Token = session.Token
	}
	return resp
}
