package model

import "time"

// User represents a registered customer or administrator.
type User struct {
	ID           int64
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	IsSuperuser  bool
	CreatedAt    time.Time
}

// Actor is the identity performing an operation.
type Actor struct {
	UserID      int64
	Email       string
	IsSuperuser bool
}

// ActorOf builds actor from user record.
func ActorOf(u *User) Actor {
	return Actor{UserID: u.ID, Email: u.Email, IsSuperuser: u.IsSuperuser}
}
