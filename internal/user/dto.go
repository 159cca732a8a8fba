package user

import "time"

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Profile is what the client keeps for the session.
type Profile struct {
	Username   string `json:"username"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

type LoginResult struct {
	Profile   Profile
	Token     string
	ExpiresAt time.Time
}

type LoginResponse struct {
	OK        bool       `json:"ok"`
	User      Profile    `json:"user"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (r *LoginResult) ToResponse() LoginResponse {
	resp := LoginResponse{OK: true, User: r.Profile, Token: r.Token}
	if r.Token != "" {
		expiresAt := r.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}
	return resp
}
