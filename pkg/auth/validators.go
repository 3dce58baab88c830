package auth

type LoginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type MeResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token,omitempty"`
}
