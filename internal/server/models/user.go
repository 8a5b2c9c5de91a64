// Package models holds the records persisted by the stores.
package models

// User is the stored identity record, keyed by UserName. PasswordHash is the
// only field that changes after registration.
type User struct {
	UserName     string `dynamodbav:"username"`
	Email        string `dynamodbav:"email"`
	FirstName    string `dynamodbav:"firstName"`
	LastName     string `dynamodbav:"lastName"`
	PasswordHash string `dynamodbav:"password"`
}

// EmailIndex reserves an email address for exactly one username. It is only
// ever written together with its User, in the same atomic commit.
type EmailIndex struct {
	Email    string `dynamodbav:"email"`
	UserName string `dynamodbav:"username"`
}

// Identity is the public part of a User: what goes into session claims and
// API responses.
type Identity struct {
	UserName  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Identity strips the password hash.
func (u *User) Identity() Identity {
	return Identity{
		UserName:  u.UserName,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
