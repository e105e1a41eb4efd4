package domain

// User is the public profile of an account. Passwords never appear here.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// LoginResult is the payload of a successful login.
type LoginResult struct {
	UserID       int64  `json:"userId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
