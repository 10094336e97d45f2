package domain

// User represents a registered principal
type User struct {
	ID           int64   `json:"id,omitempty"` // Surrogate key; zero when the backend has no row id
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	FullName     *string `json:"full_name"`
	PasswordHash string  `json:"-"` // Never serialize
	Disabled     bool    `json:"disabled"`
}

// UserSummary provides a safe view of user data (no password hash)
type UserSummary struct {
	ID       int64   `json:"id,omitempty"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	Disabled bool    `json:"disabled"`
}

// ToSummary converts a User to UserSummary
func (u *User) ToSummary() *UserSummary {
	return &UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Disabled: u.Disabled,
	}
}
