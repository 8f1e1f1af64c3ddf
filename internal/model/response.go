package model

type APIResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    any       `json:"data,omitempty"`
	Token   string    `json:"token,omitempty"`
	User    any       `json:"user,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details string   `json:"details,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

type SigninResult struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}
