package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"google.golang.org/api/idtoken"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/util"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidGoogleToken  = errors.New("invalid google token")
	ErrGoogleLoginDisabled = errors.New("google login is not configured")
	ErrInvalidSession      = errors.New("invalid or expired session")
	ErrAdminSeedInvalid    = errors.New("admin seed account is invalid")
)

type googleValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

type AuthService struct {
	users          ports.UserRepository
	roles          ports.RoleRepository
	sessions       ports.SessionRepository
	jwt            *util.JWTManager
	googleAudience string
	validateGoogle googleValidator
	now            func() time.Time
}

func NewAuthService(users ports.UserRepository, roles ports.RoleRepository, sessions ports.SessionRepository, jwt *util.JWTManager, googleAudience string) *AuthService {
	return &AuthService{
		users:          users,
		roles:          roles,
		sessions:       sessions,
		jwt:            jwt,
		googleAudience: strings.TrimSpace(googleAudience),
		validateGoogle: idtoken.Validate,
		now:            time.Now,
	}
}

func (s *AuthService) LoginWithEmail(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !util.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issueSession(ctx, user)
}

// LoginWithGoogle signs in with a verified Google ID token, creating the
// account on first use. New accounts have no role and cannot reach the
// admin API until one is granted.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*domain.AuthSession, error) {
	if s.googleAudience == "" {
		return nil, ErrGoogleLoginDisabled
	}
	payload, err := s.validateGoogle(ctx, strings.TrimSpace(idToken), s.googleAudience)
	if err != nil {
		return nil, ErrInvalidGoogleToken
	}
	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	if normalizeEmail(email) == "" || !verified {
		return nil, ErrInvalidGoogleToken
	}
	var fullName, picture *string
	if name, _ := payload.Claims["name"].(string); strings.TrimSpace(name) != "" {
		fullName = &name
	}
	if pic, _ := payload.Claims["picture"].(string); strings.TrimSpace(pic) != "" {
		picture = &pic
	}

	user, err := s.users.UpsertGoogleUser(ctx, normalizeEmail(email), fullName, picture)
	if err != nil {
		return nil, err
	}
	return s.issueSession(ctx, user)
}

// Authenticate resolves a bearer token to its user. The token must verify
// and still have an active server-side session.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	user, _, err := s.authenticate(ctx, token)
	return user, err
}

// Session describes the session behind token, for clients confirming a
// stored token.
func (s *AuthService) Session(ctx context.Context, token string) (*domain.AuthSession, error) {
	user, session, err := s.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return &domain.AuthSession{Token: token, ExpiresAt: session.ExpiresAt, User: user}, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return s.sessions.DeactivateSession(ctx, token)
}

func (s *AuthService) IsAdmin(user *domain.User) bool {
	return user != nil && user.HasRole(domain.RoleAdmin)
}

// EnsureAdmin makes sure an account with the admin role exists for email.
// An existing account keeps its password unless it has none.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email required", ErrAdminSeedInvalid)
	}

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		user, err = s.createAdminAccount(ctx, email, password, fullName)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case len(user.PasswordHash) == 0 && password != "":
		if err := util.ValidatePassword(password); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAdminSeedInvalid, err)
		}
		hash, salt, err := util.DerivePassword(password)
		if err != nil {
			return nil, err
		}
		if err := s.users.UpdatePassword(ctx, user.ID, hash, salt); err != nil {
			return nil, err
		}
	}

	roles, err := s.roles.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if role.Name == domain.RoleAdmin {
			return user, nil
		}
	}
	role, err := s.roles.GetOrCreateRole(ctx, domain.RoleAdmin, "Back-office administrator")
	if err != nil {
		return nil, err
	}
	if err := s.roles.AssignUserRole(ctx, user.ID, role.ID); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, user.ID)
}

func (s *AuthService) createAdminAccount(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	if err := util.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAdminSeedInvalid, err)
	}
	hash, salt, err := util.DerivePassword(password)
	if err != nil {
		return nil, err
	}
	var name *string
	if trimmed := strings.TrimSpace(fullName); trimmed != "" {
		name = &trimmed
	}
	user, err := s.users.CreateEmailUser(ctx, email, name, hash, salt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return s.users.FindByEmail(ctx, email)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) authenticate(ctx context.Context, token string) (*domain.User, *domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil, ErrInvalidSession
	}
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, nil, ErrInvalidSession
	}
	session, err := s.sessions.FindActiveSession(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrInvalidSession
		}
		return nil, nil, err
	}
	if session.UserID != claims.UserID || !session.ExpiresAt.After(s.now()) {
		return nil, nil, ErrInvalidSession
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrInvalidSession
		}
		return nil, nil, err
	}
	return user, session, nil
}

func (s *AuthService) issueSession(ctx context.Context, user *domain.User) (*domain.AuthSession, error) {
	roles := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, role.Name)
	}
	token, expiresAt, err := s.jwt.Generate(user.ID, user.Email, roles)
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.CreateSession(ctx, user.ID, token, expiresAt); err != nil {
		return nil, err
	}
	return &domain.AuthSession{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
