package model

import "time"

// User represents a registered donor account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Address      string
	PhoneNumber  string
	CreatedAt    time.Time
}

// FullName joins first and last name.
func (u User) FullName() string {
	return joinName(u.FirstName, u.LastName)
}

// Registration carries the data needed to create an account.
type Registration struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Address     string
	PhoneNumber string
}
