package models

import "time"

type Story struct {
	ID        string
	Username  string
	Author    string
	Title     string
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time
}
