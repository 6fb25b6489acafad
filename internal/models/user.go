package models

import "time"

// Role is the coaching-site role attached to a user's profile. It is
// assigned once at registration and never changes afterwards.
type Role string

const (
	RoleAthlete Role = "athlete"
	RoleCoach   Role = "coach"
)

func (r Role) Valid() bool {
	return r == RoleAthlete || r == RoleCoach
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Profile struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Role      Role      `json:"role"`
	FullName  string    `json:"full_name"`
	Bio       string    `json:"bio"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserSummary is the directory projection used by the dashboard: athletes
// browse coaches, coaches browse their athletes.
type UserSummary struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Role      Role    `json:"role"`
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}
