package services

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"chazonBack/internal/models"
	"chazonBack/internal/repositories"
	"chazonBack/utils"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

type UserService struct {
	UserRepo *repositories.UserRepository
	Tokens   *utils.Manager
}

// SignUp registers a new customer. Stewards start as customers and upgrade
// through ApplySteward.
func (s *UserService) SignUp(ctx context.Context, req models.SignUpRequest) (models.User, models.Tokens, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return models.User{}, models.Tokens{}, ErrMissingFields
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, models.Tokens{}, err
	}

	user := models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashed),
		Phone:    req.Phone,
		Role:     models.RoleCustomer,
	}
	created, err := s.UserRepo.CreateUser(ctx, user)
	if err != nil {
		return models.User{}, models.Tokens{}, err
	}

	tokens, err := s.issueTokens(ctx, created)
	if err != nil {
		return models.User{}, models.Tokens{}, err
	}
	created.Password = ""
	return created, tokens, nil
}

// SignIn checks credentials and rotates the session. A wrong password and an
// unknown email both come back as ErrUserNotFound so the response does not
// reveal which one it was.
func (s *UserService) SignIn(ctx context.Context, req models.SignInRequest) (models.User, models.Tokens, error) {
	user, err := s.UserRepo.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return models.User{}, models.Tokens{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.User{}, models.Tokens{}, repositories.ErrUserNotFound
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return models.User{}, models.Tokens{}, err
	}
	user.Password = ""
	return user, tokens, nil
}

func (s *UserService) issueTokens(ctx context.Context, user models.User) (models.Tokens, error) {
	access, err := s.Tokens.NewAccessToken(user.ID, user.Role, accessTokenTTL)
	if err != nil {
		return models.Tokens{}, err
	}
	refresh, err := s.Tokens.NewRefreshToken()
	if err != nil {
		return models.Tokens{}, err
	}

	err = s.UserRepo.CreateSession(ctx, models.Session{
		UserID:       user.ID,
		Role:         user.Role,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(refreshTokenTTL),
	})
	if err != nil {
		return models.Tokens{}, err
	}
	return models.Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID int) (models.User, error) {
	user, err := s.UserRepo.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	user.Password = ""
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) (models.User, error) {
	if strings.TrimSpace(req.Name) == "" {
		return models.User{}, ErrMissingFields
	}
	user, err := s.UserRepo.UpdateProfile(ctx, userID, req)
	if err != nil {
		return models.User{}, err
	}
	user.Password = ""
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID int, req models.UpdatePasswordRequest) error {
	if req.NewPassword == "" {
		return ErrMissingFields
	}

	user, err := s.UserRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.UserRepo.UpdatePassword(ctx, userID, string(hashed))
}

// ApplySteward upgrades a customer to a steward with a pending KYC profile.
func (s *UserService) ApplySteward(ctx context.Context, userID int, req models.StewardApplicationRequest) (models.StewardProfile, error) {
	user, err := s.UserRepo.GetUserByID(ctx, userID)
	if err != nil {
		return models.StewardProfile{}, err
	}
	if user.Role == models.RoleSteward {
		return models.StewardProfile{}, ErrAlreadySteward
	}
	return s.UserRepo.UpgradeToSteward(ctx, userID, req)
}

func (s *UserService) GetStewardProfile(ctx context.Context, userID int) (models.StewardProfile, error) {
	return s.UserRepo.GetStewardProfile(ctx, userID)
}
