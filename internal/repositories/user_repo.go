package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"chazonBack/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type UserRepository struct {
	DB *sql.DB
}

func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
        INSERT INTO users (name, email, password, phone, location, role, is_verified, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        RETURNING id, created_at
    `
	err := r.DB.QueryRowContext(ctx, query,
		user.Name, user.Email, user.Password, user.Phone, user.Location, user.Role, user.IsVerified,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (models.User, error) {
	var user models.User
	query := `
        SELECT id, name, email, password, phone, location, role, is_verified, created_at, updated_at
        FROM users
        WHERE id = $1
    `
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.Phone, &user.Location,
		&user.Role, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	query := `
        SELECT id, name, email, password, phone, location, role, is_verified, created_at, updated_at
        FROM users
        WHERE LOWER(email) = LOWER($1)
    `
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.Phone, &user.Location,
		&user.Role, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int, req models.UpdateProfileRequest) (models.User, error) {
	query := `
        UPDATE users
        SET name = $1, phone = $2, location = $3, updated_at = NOW()
        WHERE id = $4
    `
	result, err := r.DB.ExecContext(ctx, query, req.Name, req.Phone, req.Location, id)
	if err != nil {
		return models.User{}, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return models.User{}, err
	}
	if rows == 0 {
		return models.User{}, ErrUserNotFound
	}
	return r.GetUserByID(ctx, id)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int, hashed string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`, hashed, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpgradeToSteward flips the user role and creates the steward profile in one
// transaction so a profile never exists without the role.
func (r *UserRepository) UpgradeToSteward(ctx context.Context, userID int, req models.StewardApplicationRequest) (models.StewardProfile, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.StewardProfile{}, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, models.RoleSteward, userID)
	if err != nil {
		return models.StewardProfile{}, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return models.StewardProfile{}, err
	}
	if rows == 0 {
		return models.StewardProfile{}, ErrUserNotFound
	}

	profile := models.StewardProfile{
		UserID:     userID,
		Skills:     req.Skills,
		Bio:        req.Bio,
		HourlyRate: req.HourlyRate,
		KYCStatus:  "pending",
	}
	err = tx.QueryRowContext(ctx, `
        INSERT INTO steward_profiles (user_id, skills, bio, hourly_rate, rating, completed_tasks, kyc_status, created_at)
        VALUES ($1, $2, $3, $4, 0, 0, $5, NOW())
        RETURNING id, created_at
    `, profile.UserID, profile.Skills, profile.Bio, profile.HourlyRate, profile.KYCStatus,
	).Scan(&profile.ID, &profile.CreatedAt)
	if err != nil {
		return models.StewardProfile{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.StewardProfile{}, err
	}
	return profile, nil
}

func (r *UserRepository) GetStewardProfile(ctx context.Context, userID int) (models.StewardProfile, error) {
	var p models.StewardProfile
	query := `
        SELECT id, user_id, skills, bio, hourly_rate, rating, completed_tasks, kyc_status, created_at, updated_at
        FROM steward_profiles
        WHERE user_id = $1
    `
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Skills, &p.Bio, &p.HourlyRate, &p.Rating,
		&p.CompletedTasks, &p.KYCStatus, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.StewardProfile{}, ErrUserNotFound
	}
	if err != nil {
		return models.StewardProfile{}, err
	}
	return p, nil
}

func (r *UserRepository) CreateSession(ctx context.Context, s models.Session) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO sessions (user_id, role, refresh_token, expires_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id) DO UPDATE SET role = $2, refresh_token = $3, expires_at = $4
    `, s.UserID, s.Role, s.RefreshToken, s.ExpiresAt)
	return err
}

func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (models.Session, error) {
	var s models.Session
	err := r.DB.QueryRowContext(ctx, `
        SELECT user_id, role, refresh_token, expires_at
        FROM sessions
        WHERE refresh_token = $1
    `, refreshToken).Scan(&s.UserID, &s.Role, &s.RefreshToken, &s.ExpiresAt)
	if err == sql.ErrNoRows {
		return models.Session{}, nil
	}
	if err != nil {
		return models.Session{}, err
	}
	return s, nil
}

func (r *UserRepository) DeleteExpiredSessions(ctx context.Context, before time.Time) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, before)
	return err
}
