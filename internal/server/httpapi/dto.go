package httpapi

import (
	"time"

	"github.com/dmitrijs2005/snoozer/internal/server/models"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type credentialsRequest struct {
	User credentials `json:"user"`
}

type storyInput struct {
	Author string `json:"author"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

type storyRequest struct {
	Story storyInput `json:"story"`
}

type storyDTO struct {
	StoryID   string    `json:"storyId"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Author    string    `json:"author"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type userDTO struct {
	Username  string     `json:"username"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	Favorites []storyDTO `json:"favorites"`
	Stories   []storyDTO `json:"stories"`
}

type authResponse struct {
	User  userDTO `json:"user"`
	Token string  `json:"token"`
}

type userResponse struct {
	User userDTO `json:"user"`
}

type storiesResponse struct {
	Stories []storyDTO `json:"stories"`
}

type storyResponse struct {
	Story storyDTO `json:"story"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toStoryDTO(s models.Story) storyDTO {
	return storyDTO{
		StoryID:   s.ID,
		Title:     s.Title,
		URL:       s.URL,
		Author:    s.Author,
		Username:  s.Username,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toStoryDTOs(stories []models.Story) []storyDTO {
	out := make([]storyDTO, 0, len(stories))
	for _, s := range stories {
		out = append(out, toStoryDTO(s))
	}
	return out
}

func toUserDTO(p *models.UserProfile) userDTO {
	return userDTO{
		Username:  p.Username,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		Favorites: toStoryDTOs(p.Favorites),
		Stories:   toStoryDTOs(p.Stories),
	}
}
