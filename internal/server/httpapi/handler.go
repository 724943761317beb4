// Package httpapi serves the story REST API over gorilla/mux: signup and
// login, user profiles, the paginated story listing, story submission and
// edits, and favorites.
package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/snoozer/internal/common"
	"github.com/dmitrijs2005/snoozer/internal/logging"
	"github.com/dmitrijs2005/snoozer/internal/server/metrics"
	"github.com/dmitrijs2005/snoozer/internal/server/models"
	"github.com/gorilla/mux"
)

// UserService is what the handlers need from the account layer.
type UserService interface {
	Signup(ctx context.Context, username, password, name string) (*models.UserProfile, string, error)
	Login(ctx context.Context, username, password string) (*models.UserProfile, string, error)
	Authenticate(token string) (string, error)
	Profile(ctx context.Context, username string) (*models.UserProfile, error)
	AddFavorite(ctx context.Context, username, storyID string) error
	RemoveFavorite(ctx context.Context, username, storyID string) error
}

// StoryService is what the handlers need from the story layer.
type StoryService interface {
	List(ctx context.Context, skip, limit int) ([]models.Story, error)
	Create(ctx context.Context, username, author, title, url string) (*models.Story, error)
	Update(ctx context.Context, username, id, author, title string) (*models.Story, error)
}

type Handler struct {
	users   UserService
	stories StoryService
	metrics *metrics.Metrics
	logger  logging.Logger
}

func NewHandler(us UserService, ss StoryService, m *metrics.Metrics, l logging.Logger) *Handler {
	if l == nil {
		l = logging.Nop{}
	}
	if m == nil {
		m = metrics.New()
	}
	return &Handler{users: us, stories: ss, metrics: m, logger: l.With("module", "http_api")}
}

// fail logs unexpected errors and writes the mapped error response.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), op+" failed", "error", err)
	} else {
		h.logger.Debug(r.Context(), op+" rejected", "status", status, "error", err)
	}
	writeError(w, status, msg)
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body.")
		return
	}

	profile, token, err := h.users.Signup(r.Context(), req.User.Username, req.User.Password, req.User.Name)
	if err != nil {
		h.fail(w, r, "signup", err)
		return
	}
	h.metrics.Event("signup")
	h.logger.Info(r.Context(), "user signed up", "username", profile.Username)
	writeJSON(w, http.StatusCreated, authResponse{User: toUserDTO(profile), Token: token})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body.")
		return
	}

	profile, token, err := h.users.Login(r.Context(), req.User.Username, req.User.Password)
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}
	h.metrics.Event("login")
	writeJSON(w, http.StatusOK, authResponse{User: toUserDTO(profile), Token: token})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.Profile(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		h.fail(w, r, "get user", err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: toUserDTO(profile)})
}

// ListStories serves GET /stories?skip=N&limit=M. Missing or malformed
// numbers fall back to the first full page.
func (h *Handler) ListStories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	stories, err := h.stories.List(r.Context(), skip, limit)
	if err != nil {
		h.fail(w, r, "list stories", err)
		return
	}
	writeJSON(w, http.StatusOK, storiesResponse{Stories: toStoryDTOs(stories)})
}

func (h *Handler) CreateStory(w http.ResponseWriter, r *http.Request) {
	var req storyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body.")
		return
	}

	username := usernameFrom(r.Context())
	story, err := h.stories.Create(r.Context(), username, req.Story.Author, req.Story.Title, req.Story.URL)
	if err != nil {
		h.fail(w, r, "create story", err)
		return
	}
	h.metrics.Event("submit")
	h.logger.Info(r.Context(), "story created", "story_id", story.ID, "username", username)
	writeJSON(w, http.StatusCreated, storyResponse{Story: toStoryDTO(*story)})
}

// UpdateStory serves PATCH /stories/{id}. A url in the body is ignored.
func (h *Handler) UpdateStory(w http.ResponseWriter, r *http.Request) {
	var req storyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body.")
		return
	}

	id := mux.Vars(r)["id"]
	story, err := h.stories.Update(r.Context(), usernameFrom(r.Context()), id, req.Story.Author, req.Story.Title)
	if err != nil {
		h.fail(w, r, "update story", err)
		return
	}
	h.metrics.Event("edit")
	writeJSON(w, http.StatusOK, storyResponse{Story: toStoryDTO(*story)})
}

func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.users.AddFavorite(r.Context(), vars["username"], vars["id"]); err != nil {
		h.fail(w, r, "add favorite", err)
		return
	}
	h.metrics.Event("favorite")
	writeJSON(w, http.StatusOK, messageResponse{Message: "Favorite added!"})
}

func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.users.RemoveFavorite(r.Context(), vars["username"], vars["id"]); err != nil {
		h.fail(w, r, "remove favorite", err)
		return
	}
	h.metrics.Event("unfavorite")
	writeJSON(w, http.StatusOK, messageResponse{Message: "Favorite removed!"})
}

type ctxKey string

const usernameKey ctxKey = "username"

func usernameFrom(ctx context.Context) string {
	u, _ := ctx.Value(usernameKey).(string)
	return u
}

// RequireAuth verifies the bearer token and stores its username in the
// request context. When the route has a {username} variable it must match
// the token's user.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Missing token.")
			return
		}

		username, err := h.users.Authenticate(token)
		if err != nil {
			h.logger.Debug(r.Context(), "token rejected", "error", err)
			writeError(w, http.StatusUnauthorized, "Invalid or expired token.")
			return
		}

		if pathUser, ok := mux.Vars(r)["username"]; ok && pathUser != username {
			writeError(w, http.StatusForbidden, "Token does not belong to this user.")
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
