package entity

import "time"

type User struct {
	ID        string    `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	Password  string    `db:"password"`
	CreatedAt time.Time `db:"created_at"`
}

// UserLoginData is what the session layer knows about the signed in user.
type UserLoginData struct {
	ID       string
	Username string
	Email    string
}

func (u User) LoginData() UserLoginData {
	return UserLoginData{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
