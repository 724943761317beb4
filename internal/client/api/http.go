package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/snoozer/internal/client/models"
	"github.com/dmitrijs2005/snoozer/internal/common"
)

// HTTPClient talks to the story API over REST/JSON.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.User, error) {
	var resp authResponse
	req := credentialsRequest{User: credentials{Username: username, Password: password}}
	if err := c.do(ctx, http.MethodPost, "/login", "", req, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return resp.User.toModel(resp.Token), nil
}

func (c *HTTPClient) Signup(ctx context.Context, username, password, name string) (*models.User, error) {
	var resp authResponse
	req := credentialsRequest{User: credentials{Username: username, Password: password, Name: name}}
	if err := c.do(ctx, http.MethodPost, "/signup", "", req, &resp); err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	return resp.User.toModel(resp.Token), nil
}

func (c *HTTPClient) FetchUser(ctx context.Context, token, username string) (*models.User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(username), token, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	return resp.User.toModel(token), nil
}

func (c *HTTPClient) FetchStories(ctx context.Context, skip int) ([]models.Story, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(common.StoriesPageSize))

	var resp storiesResponse
	if err := c.do(ctx, http.MethodGet, "/stories?"+q.Encode(), "", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch stories: %w", err)
	}
	return nonNil(resp.Stories), nil
}

func (c *HTTPClient) CreateStory(ctx context.Context, token string, story models.NewStory) (models.Story, error) {
	var resp storyResponse
	if err := c.do(ctx, http.MethodPost, "/stories", token, storyRequest[models.NewStory]{Story: story}, &resp); err != nil {
		return models.Story{}, fmt.Errorf("create story: %w", err)
	}
	return resp.Story, nil
}

func (c *HTTPClient) UpdateStory(ctx context.Context, token, storyID string, update models.StoryUpdate) (models.Story, error) {
	var resp storyResponse
	path := "/stories/" + url.PathEscape(storyID)
	if err := c.do(ctx, http.MethodPatch, path, token, storyRequest[models.StoryUpdate]{Story: update}, &resp); err != nil {
		return models.Story{}, fmt.Errorf("update story: %w", err)
	}
	return resp.Story, nil
}

func (c *HTTPClient) AddFavorite(ctx context.Context, token, username, storyID string) error {
	if err := c.do(ctx, http.MethodPost, favoritePath(username, storyID), token, nil, nil); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (c *HTTPClient) RemoveFavorite(ctx context.Context, token, username, storyID string) error {
	if err := c.do(ctx, http.MethodDelete, favoritePath(username, storyID), token, nil, nil); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

func favoritePath(username, storyID string) string {
	return "/users/" + url.PathEscape(username) + "/favorites/" + url.PathEscape(storyID)
}

// do sends one request. in is JSON-encoded when non-nil; out is decoded from
// a 2xx body when non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapStatus(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// IsNetworkError reports whether err came from the transport rather than
// from the server rejecting the request.
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
