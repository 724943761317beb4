// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account row. PasswordHash is the argon2id key derived from the
// password under Salt.
type User struct {
	Username     string
	Name         string
	PasswordHash []byte
	Salt         []byte
	CreatedAt    time.Time
}

// UserProfile is a user together with the stories they favorited and the
// stories they submitted, as returned by the user endpoint.
type UserProfile struct {
	User
	Favorites []Story
	Stories   []Story
}
