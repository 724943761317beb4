package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/dmitrijs2005/snoozer/internal/common"
	"github.com/dmitrijs2005/snoozer/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T, m *memStore) (*UserService, *StoryService, func()) {
	t.Helper()
	db, mock := newSQLMockDB(t)
	cfg := &config.Config{SecretKey: "k", TokenValidityDuration: time.Hour}
	rm := &fakeRepoManager{m: m}
	expectTx := func() {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
	return NewUserService(db, rm, cfg), NewStoryService(db, rm), expectTx
}

func TestSignup_CreatesUserAndToken(t *testing.T) {
	m := newMemStore()
	s, _, _ := newUserService(t, m)

	profile, token, err := s.Signup(context.Background(), "alice", "pw", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "Alice", profile.Name)
	assert.NotNil(t, profile.Favorites)
	assert.NotNil(t, profile.Stories)

	username, err := s.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	stored := m.users["alice"]
	assert.NotEqual(t, []byte("pw"), stored.PasswordHash)
	assert.NotEmpty(t, stored.Salt)
}

func TestSignup_Duplicate(t *testing.T) {
	m := newMemStore()
	s, _, _ := newUserService(t, m)

	_, _, err := s.Signup(context.Background(), "alice", "pw", "Alice")
	require.NoError(t, err)
	_, _, err = s.Signup(context.Background(), "alice", "other", "Other")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestSignup_Validation(t *testing.T) {
	s, _, _ := newUserService(t, newMemStore())

	_, _, err := s.Signup(context.Background(), "  ", "pw", "x")
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, _, err = s.Signup(context.Background(), "bob", "", "x")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestSignup_NameDefaultsToUsername(t *testing.T) {
	s, _, _ := newUserService(t, newMemStore())

	profile, _, err := s.Signup(context.Background(), "bob", "pw", "")
	require.NoError(t, err)
	assert.Equal(t, "bob", profile.Name)
}

func TestSignup_RepoError(t *testing.T) {
	m := newMemStore()
	m.usersErr = errBoom{}
	s, _, _ := newUserService(t, m)

	_, _, err := s.Signup(context.Background(), "bob", "pw", "Bob")
	if err == nil || !regexp.MustCompile(`error creating user: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestLogin_Flows(t *testing.T) {
	m := newMemStore()
	s, _, expectTx := newUserService(t, m)
	_, _, err := s.Signup(context.Background(), "alice", "pw", "Alice")
	require.NoError(t, err)

	_, _, err = s.Login(context.Background(), "ghost", "pw")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, _, err = s.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	expectTx()
	profile, token, err := s.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.NotEmpty(t, token)
}

func TestLogin_InternalError(t *testing.T) {
	m := newMemStore()
	m.usersErr = errBoom{}
	s, _, _ := newUserService(t, m)

	_, _, err := s.Login(context.Background(), "alice", "pw")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestAuthenticate_RejectsForeignToken(t *testing.T) {
	s, _, _ := newUserService(t, newMemStore())

	_, err := s.Authenticate("not-a-token")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestProfile_CollectsFavoritesAndOwnStories(t *testing.T) {
	m := newMemStore()
	users, stories, expectTx := newUserService(t, m)
	ctx := context.Background()

	_, _, err := users.Signup(ctx, "alice", "pw", "Alice")
	require.NoError(t, err)
	_, _, err = users.Signup(ctx, "bob", "pw", "Bob")
	require.NoError(t, err)

	mine, err := stories.Create(ctx, "alice", "A", "mine", "https://a.org")
	require.NoError(t, err)
	theirs, err := stories.Create(ctx, "bob", "B", "theirs", "https://b.org")
	require.NoError(t, err)

	require.NoError(t, users.AddFavorite(ctx, "alice", theirs.ID))
	require.NoError(t, users.AddFavorite(ctx, "alice", theirs.ID), "repeated add is a no-op")

	expectTx()
	profile, err := users.Profile(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, profile.Favorites, 1)
	assert.Equal(t, theirs.ID, profile.Favorites[0].ID)
	require.Len(t, profile.Stories, 1)
	assert.Equal(t, mine.ID, profile.Stories[0].ID)

	require.NoError(t, users.RemoveFavorite(ctx, "alice", theirs.ID))
	require.NoError(t, users.RemoveFavorite(ctx, "alice", theirs.ID), "removing a missing favorite is a no-op")

	expectTx()
	profile, err = users.Profile(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, profile.Favorites)
}

func TestProfile_UnknownUser(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()
	s := NewUserService(db, &fakeRepoManager{m: newMemStore()}, &config.Config{SecretKey: "k"})

	_, err := s.Profile(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddFavorite_Errors(t *testing.T) {
	m := newMemStore()
	s, _, _ := newUserService(t, m)

	err := s.AddFavorite(context.Background(), "alice", "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	m.favoritesErr = errBoom{}
	err = s.AddFavorite(context.Background(), "alice", "x")
	assert.True(t, errors.Is(err, errBoom{}))
	err = s.RemoveFavorite(context.Background(), "alice", "x")
	assert.Contains(t, err.Error(), "error removing favorite")
}
