package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chazonBack/internal/models"
)

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`(?s)INSERT INTO users.+RETURNING id, created_at`).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	repo := &UserRepository{DB: db}
	_, err = repo.CreateUser(context.Background(), models.User{Email: "taken@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT id, name, email.+WHERE LOWER\(email\)`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	repo := &UserRepository{DB: db}
	_, err = repo.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpgradeToSteward_SingleTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET role`).
		WithArgs(models.RoleSteward, 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`(?s)INSERT INTO steward_profiles.+RETURNING id, created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(3, time.Now()))
	mock.ExpectCommit()

	repo := &UserRepository{DB: db}
	profile, err := repo.UpgradeToSteward(context.Background(), 42, models.StewardApplicationRequest{
		Skills:     "cleaning, plumbing",
		Bio:        "ten years of experience",
		HourlyRate: 25,
	})
	require.NoError(t, err)

	assert.Equal(t, 42, profile.UserID)
	assert.Equal(t, "pending", profile.KYCStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpgradeToSteward_UnknownUserRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET role`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := &UserRepository{DB: db}
	_, err = repo.UpgradeToSteward(context.Background(), 404, models.StewardApplicationRequest{})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSessionByToken_MissingSessionIsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT user_id, role, refresh_token.+FROM sessions`).
		WithArgs("unknown").
		WillReturnError(sql.ErrNoRows)

	repo := &UserRepository{DB: db}
	session, err := repo.GetSessionByToken(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Equal(t, models.Session{}, session)
	assert.NoError(t, mock.ExpectationsWereMet())
}
