package api

import (
	"time"

	"github.com/dmitrijs2005/snoozer/internal/client/models"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type credentialsRequest struct {
	User credentials `json:"user"`
}

type userDTO struct {
	Username  string         `json:"username"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"createdAt"`
	Favorites []models.Story `json:"favorites"`
	Stories   []models.Story `json:"stories"`
}

func (u userDTO) toModel(token string) *models.User {
	return &models.User{
		Username:   u.Username,
		Name:       u.Name,
		CreatedAt:  u.CreatedAt,
		LoginToken: token,
		Favorites:  nonNil(u.Favorites),
		OwnStories: nonNil(u.Stories),
	}
}

type authResponse struct {
	User  userDTO `json:"user"`
	Token string  `json:"token"`
}

type userResponse struct {
	User userDTO `json:"user"`
}

type storiesResponse struct {
	Stories []models.Story `json:"stories"`
}

type storyRequest[T any] struct {
	Story T `json:"story"`
}

type storyResponse struct {
	Story models.Story `json:"story"`
}

func nonNil(s []models.Story) []models.Story {
	if s == nil {
		return []models.Story{}
	}
	return s
}
