package domain

// User is the identity a session runs under. It is either mapped from the
// identity provider's profile or synthesized once for a guest session.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
