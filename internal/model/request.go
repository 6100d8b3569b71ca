package model

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type SecretResponse struct {
	Message string   `json:"message"`
	User    Identity `json:"user"`
}
