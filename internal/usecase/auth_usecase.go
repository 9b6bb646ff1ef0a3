package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"skillsync-backend/internal/domain"
	"skillsync-backend/pkg/apperror"
	"skillsync-backend/pkg/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgEmailRegistered    = "Email already registered."
	msgInvalidCredentials = "Invalid email or password."
	msgUnauthenticated    = "Invalid or expired token."

	// bcrypt refuses longer input.
	maxPasswordBytes = 72
)

// dummyHash keeps login timing similar whether or not the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("skillsync-timing-equaliser"), bcrypt.DefaultCost)

type authUsecase struct {
	userRepo   domain.UserRepository
	tokens     *auth.TokenIssuer
	bcryptCost int
}

func NewAuthUsecase(userRepo domain.UserRepository, tokens *auth.TokenIssuer) domain.AuthUsecase {
	return &authUsecase{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// NormalizeEmail is the stored and compared form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *authUsecase) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.New(http.StatusBadRequest, "Email and password are required.", domain.ErrValidation)
	}
	if len(password) > maxPasswordBytes {
		return nil, apperror.New(http.StatusBadRequest, "Password must be at most 72 characters.", domain.ErrValidation)
	}

	existing, err := u.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperror.New(http.StatusBadRequest, msgEmailRegistered, domain.ErrDuplicateEmail)
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.bcryptCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration can win between the lookup and the insert.
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, apperror.New(http.StatusBadRequest, msgEmailRegistered, domain.ErrDuplicateEmail)
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	user, err := u.userRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Internal(err)
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, apperror.New(http.StatusUnauthorized, msgInvalidCredentials, domain.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.New(http.StatusUnauthorized, msgInvalidCredentials, domain.ErrInvalidCredentials)
	}

	token, expiresAt, err := u.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.AuthSession{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (u *authUsecase) Authenticate(_ context.Context, token string) (*domain.Identity, error) {
	claims, err := u.tokens.Parse(token)
	if err != nil {
		return nil, apperror.New(http.StatusUnauthorized, msgUnauthenticated, domain.ErrUnauthenticated)
	}
	return &domain.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
