package login

type LoginRequest struct {
	Token string `json:"token"`
}
