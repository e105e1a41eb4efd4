package domain

// Session is the client-held pair representing a logical login.
// An empty field means the entry is absent.
type Session struct {
	Token  string `json:"token,omitempty"`
	UserID string `json:"userId,omitempty"`
}

// Authenticated reports whether a user id is present. The token is never
// inspected.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// HasToken reports whether a bearer token is present.
func (s Session) HasToken() bool {
	return s.Token != ""
}
