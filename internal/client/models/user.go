package models

// User is the authenticated profile held by the session.
type User struct {
	ID    ID     `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// DisplayName prefers the name and falls back to the email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest is the credential payload; the service expects the email
// under "username".
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by login and register. Older service versions
// return only user_id/email next to the token; newer ones embed the profile.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user,omitempty"`
	UserID      ID     `json:"user_id,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Profile returns the embedded user or one assembled from the flat fields.
func (r AuthResponse) Profile() User {
	if r.User != nil {
		return *r.User
	}
	return User{ID: r.UserID, Email: r.Email}
}
