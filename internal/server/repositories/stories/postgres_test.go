package stories

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/snoozer/internal/common"
	"github.com/dmitrijs2005/snoozer/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	columns = []string{"id", "username", "author", "title", "url", "created_at", "updated_at"}
	t0      = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+stories\s*\(id,\s*username,\s*author,\s*title,\s*url\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+created_at,\s*updated_at\s*$`
	mock.ExpectQuery(q).
		WithArgs("id-1", "alice", "A. Author", "Title", "https://example.com").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(t0, t0))

	got, err := repo.Create(context.Background(), &models.Story{
		ID: "id-1", Username: "alice", Author: "A. Author", Title: "Title", URL: "https://example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, t0, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UnknownOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+stories`).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.Create(context.Background(), &models.Story{ID: "id-1", Username: "ghost"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*username,\s*author,\s*title,\s*url,\s*created_at,\s*updated_at\s+FROM\s+stories\s+WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("id-1", "alice", "au", "ti", "https://x.org", t0, t0))
	mock.ExpectQuery(q).WithArgs("gone").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(q).WithArgs("not-a-uuid").WillReturnError(&pgconn.PgError{Code: "22P02"})

	got, err := repo.Get(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = repo.Get(context.Background(), "gone")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestList_NewestFirstPage(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.+\s+FROM\s+stories\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s+DESC\s+LIMIT\s+\$1\s+OFFSET\s+\$2\s*$`
	mock.ExpectQuery(q).WithArgs(25, 50).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("b", "bob", "au", "second", "https://b.org", t0.Add(time.Minute), t0).
			AddRow("a", "alice", "au", "first", "https://a.org", t0, t0))

	got, err := repo.List(context.Background(), 50, 25)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+stories`).WithArgs(25, 0).WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.List(context.Background(), 0, 25)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+stories`).WillReturnError(errors.New("db err"))

	_, err := repo.List(context.Background(), 0, 25)
	if err == nil || !regexp.MustCompile(`failed to select stories: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestListByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.+\s+FROM\s+stories\s+WHERE\s+username\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+ASC,\s*id\s+ASC\s*$`
	mock.ExpectQuery(q).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("a", "alice", "au", "mine", "https://a.org", t0, t0))

	got, err := repo.ListByUser(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "mine", got[0].Title)
}

func TestUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+stories\s+SET\s+author\s*=\s*\$2,\s*title\s*=\s*\$3,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+.+$`
	mock.ExpectQuery(q).WithArgs("id-1", "new author", "new title").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("id-1", "alice", "new author", "new title", "https://a.org", t0, t0.Add(time.Hour)))
	mock.ExpectQuery(q).WithArgs("gone", "x", "y").WillReturnError(sql.ErrNoRows)

	got, err := repo.Update(context.Background(), "id-1", "new author", "new title")
	require.NoError(t, err)
	assert.Equal(t, "https://a.org", got.URL)
	assert.Equal(t, "new title", got.Title)

	_, err = repo.Update(context.Background(), "gone", "x", "y")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
