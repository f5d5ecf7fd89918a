package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"google.golang.org/api/idtoken"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/util"
)

type fakeUserRepo struct {
	createEmailEmail  string
	createEmailName   *string
	createEmailHash   []byte
	createEmailSalt   []byte
	createEmailResult *domain.User
	createEmailErr    error

	upsertGoogleEmail  string
	upsertGoogleName   *string
	upsertGoogleImg    *string
	upsertGoogleResult *domain.User
	upsertGoogleErr    error

	findByEmailInput  string
	findByEmailResult *domain.User
	findByEmailErr    error
	findByEmailCalls  int

	findByIDInput  uuid.UUID
	findByIDResult *domain.User
	findByIDErr    error

	updatePasswordInput struct {
		id   uuid.UUID
		hash []byte
		salt []byte
	}
	updatePasswordErr error
}

func (f *fakeUserRepo) CreateEmailUser(ctx context.Context, email string, fullName *string, passwordHash, passwordSalt []byte) (*domain.User, error) {
	f.createEmailEmail = email
	f.createEmailName = fullName
	f.createEmailHash = append([]byte(nil), passwordHash...)
	f.createEmailSalt = append([]byte(nil), passwordSalt...)
	return f.createEmailResult, f.createEmailErr
}

func (f *fakeUserRepo) UpsertGoogleUser(ctx context.Context, email string, fullName *string, imageURL *string) (*domain.User, error) {
	f.upsertGoogleEmail = email
	f.upsertGoogleName = fullName
	f.upsertGoogleImg = imageURL
	return f.upsertGoogleResult, f.upsertGoogleErr
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.findByEmailInput = email
	f.findByEmailCalls++
	return f.findByEmailResult, f.findByEmailErr
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	f.findByIDInput = id
	return f.findByIDResult, f.findByIDErr
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte) error {
	f.updatePasswordInput.id = id
	f.updatePasswordInput.hash = append([]byte(nil), passwordHash...)
	f.updatePasswordInput.salt = append([]byte(nil), passwordSalt...)
	return f.updatePasswordErr
}

type fakeRoleRepo struct {
	roleResult *domain.Role
	roleErr    error
	roleNames  []string

	assignedPairs []struct {
		userID uuid.UUID
		roleID uuid.UUID
	}
	assignErr error

	userRoles []domain.Role
	listErr   error
}

func (f *fakeRoleRepo) GetOrCreateRole(ctx context.Context, name, description string) (*domain.Role, error) {
	f.roleNames = append(f.roleNames, name)
	if f.roleErr != nil {
		return nil, f.roleErr
	}
	return f.roleResult, nil
}

func (f *fakeRoleRepo) AssignUserRole(ctx context.Context, userID, roleID uuid.UUID) error {
	f.assignedPairs = append(f.assignedPairs, struct {
		userID uuid.UUID
		roleID uuid.UUID
	}{userID: userID, roleID: roleID})
	return f.assignErr
}

func (f *fakeRoleRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Role, error) {
	return f.userRoles, f.listErr
}

type fakeSessionRepo struct {
	createdSessions []struct {
		userID    uuid.UUID
		token     string
		expiresAt time.Time
	}
	createErr error

	findActiveToken  string
	findActiveResult *domain.Session
	findActiveErr    error

	deactivatedToken string
	deactivateErr    error
}

func (f *fakeSessionRepo) CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.Session, error) {
	f.createdSessions = append(f.createdSessions, struct {
		userID    uuid.UUID
		token     string
		expiresAt time.Time
	}{userID: userID, token: token, expiresAt: expiresAt})
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.Session{ID: 1, UserID: userID, Token: token, ExpiresAt: expiresAt, IsActive: true}, nil
}

func (f *fakeSessionRepo) DeactivateSession(ctx context.Context, token string) error {
	f.deactivatedToken = token
	return f.deactivateErr
}

func (f *fakeSessionRepo) FindActiveSession(ctx context.Context, token string) (*domain.Session, error) {
	f.findActiveToken = token
	if f.findActiveErr != nil {
		return nil, f.findActiveErr
	}
	return f.findActiveResult, nil
}

type fakeStorage struct {
	uploaded []struct {
		bucket      string
		objectName  string
		contentType string
		size        int64
	}
	removed []string
	err     error
}

func (f *fakeStorage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	f.uploaded = append(f.uploaded, struct {
		bucket      string
		objectName  string
		contentType string
		size        int64
	}{bucket: bucket, objectName: objectName, contentType: contentType, size: size})
	if f.err != nil {
		return "", f.err
	}
	return "https://storage/" + bucket + "/" + objectName, nil
}

func (f *fakeStorage) Remove(ctx context.Context, bucket, objectName string) error {
	f.removed = append(f.removed, bucket+"/"+objectName)
	return nil
}

func newAuthServiceForTests(user *fakeUserRepo, role *fakeRoleRepo, session *fakeSessionRepo) *AuthService {
	if role == nil {
		role = &fakeRoleRepo{}
	}
	if session == nil {
		session = &fakeSessionRepo{}
	}
	return NewAuthService(user, role, session, util.NewJWTManager("test-secret", time.Hour), "google-audience")
}

func adminUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, salt, err := util.DerivePassword(password)
	if err != nil {
		t.Fatalf("derive password: %v", err)
	}
	return &domain.User{
		ID:           uuid.New(),
		Email:        "admin@desa.id",
		PasswordHash: hash,
		PasswordSalt: salt,
		Roles:        []domain.Role{{ID: uuid.New(), Name: domain.RoleAdmin}},
	}
}

func TestLoginWithEmailInvalidCredentials(t *testing.T) {
	t.Run("user not found", func(t *testing.T) {
		userRepo := &fakeUserRepo{findByEmailErr: sql.ErrNoRows}
		svc := newAuthServiceForTests(userRepo, nil, nil)

		_, err := svc.LoginWithEmail(context.Background(), "none@desa.id", "password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("password mismatch", func(t *testing.T) {
		userRepo := &fakeUserRepo{findByEmailResult: adminUser(t, "different1")}
		sessions := &fakeSessionRepo{}
		svc := newAuthServiceForTests(userRepo, nil, sessions)

		_, err := svc.LoginWithEmail(context.Background(), "admin@desa.id", "password1")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
		if len(sessions.createdSessions) != 0 {
			t.Fatal("no session should be created for a bad password")
		}
	})

	t.Run("empty password", func(t *testing.T) {
		userRepo := &fakeUserRepo{}
		svc := newAuthServiceForTests(userRepo, nil, nil)

		_, err := svc.LoginWithEmail(context.Background(), "admin@desa.id", "")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
		if userRepo.findByEmailCalls != 0 {
			t.Fatal("repository should not be queried without a password")
		}
	})

	t.Run("repository failure is passed through", func(t *testing.T) {
		boom := errors.New("db down")
		svc := newAuthServiceForTests(&fakeUserRepo{findByEmailErr: boom}, nil, nil)

		_, err := svc.LoginWithEmail(context.Background(), "admin@desa.id", "password1")
		if !errors.Is(err, boom) {
			t.Fatalf("expected db error, got %v", err)
		}
	})
}

func TestLoginWithEmailSuccess(t *testing.T) {
	user := adminUser(t, "right-password1")
	userRepo := &fakeUserRepo{findByEmailResult: user}
	sessionRepo := &fakeSessionRepo{}
	svc := newAuthServiceForTests(userRepo, nil, sessionRepo)

	result, err := svc.LoginWithEmail(context.Background(), "  Admin@Desa.ID ", "right-password1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if userRepo.findByEmailInput != "admin@desa.id" {
		t.Fatalf("email should be normalized, got %q", userRepo.findByEmailInput)
	}
	if len(sessionRepo.createdSessions) != 1 {
		t.Fatalf("expected session to be created, got %d", len(sessionRepo.createdSessions))
	}
	if result.Token == "" || result.Token != sessionRepo.createdSessions[0].token {
		t.Fatal("expected the issued token to be stored as a session")
	}
	if !result.ExpiresAt.Equal(sessionRepo.createdSessions[0].expiresAt) {
		t.Fatal("session and token expiry should match")
	}
	if result.User == nil || result.User.ID != user.ID {
		t.Fatalf("unexpected user in response")
	}

	claims, err := util.NewJWTManager("test-secret", time.Hour).Parse(result.Token)
	if err != nil {
		t.Fatalf("token should parse: %v", err)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != domain.RoleAdmin {
		t.Fatalf("expected admin role claim, got %v", claims.Roles)
	}
}

func TestLoginWithGoogle(t *testing.T) {
	payload := func(claims map[string]interface{}) googleValidator {
		return func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
			if audience != "google-audience" {
				t.Fatalf("unexpected audience %q", audience)
			}
			return &idtoken.Payload{Claims: claims}, nil
		}
	}

	t.Run("verified email creates session", func(t *testing.T) {
		user := &domain.User{ID: uuid.New(), Email: "kades@desa.id"}
		userRepo := &fakeUserRepo{upsertGoogleResult: user}
		sessions := &fakeSessionRepo{}
		svc := newAuthServiceForTests(userRepo, nil, sessions)
		svc.validateGoogle = payload(map[string]interface{}{
			"email": "Kades@Desa.id", "email_verified": true, "name": "Pak Kades", "picture": "https://lh3.googleusercontent.com/a",
		})

		result, err := svc.LoginWithGoogle(context.Background(), "id-token")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if userRepo.upsertGoogleEmail != "kades@desa.id" {
			t.Fatalf("unexpected upsert email %q", userRepo.upsertGoogleEmail)
		}
		if userRepo.upsertGoogleName == nil || *userRepo.upsertGoogleName != "Pak Kades" {
			t.Fatal("expected name to be stored")
		}
		if userRepo.upsertGoogleImg == nil {
			t.Fatal("expected picture to be stored")
		}
		if result.User.ID != user.ID || len(sessions.createdSessions) != 1 {
			t.Fatal("expected session for upserted user")
		}
	})

	t.Run("unverified email rejected", func(t *testing.T) {
		svc := newAuthServiceForTests(&fakeUserRepo{}, nil, nil)
		svc.validateGoogle = payload(map[string]interface{}{"email": "x@desa.id", "email_verified": false})

		if _, err := svc.LoginWithGoogle(context.Background(), "id-token"); !errors.Is(err, ErrInvalidGoogleToken) {
			t.Fatalf("expected ErrInvalidGoogleToken, got %v", err)
		}
	})

	t.Run("validation failure", func(t *testing.T) {
		svc := newAuthServiceForTests(&fakeUserRepo{}, nil, nil)
		svc.validateGoogle = func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
			return nil, errors.New("bad signature")
		}
		if _, err := svc.LoginWithGoogle(context.Background(), "id-token"); !errors.Is(err, ErrInvalidGoogleToken) {
			t.Fatalf("expected ErrInvalidGoogleToken, got %v", err)
		}
	})

	t.Run("disabled without audience", func(t *testing.T) {
		svc := NewAuthService(&fakeUserRepo{}, &fakeRoleRepo{}, &fakeSessionRepo{}, util.NewJWTManager("s", time.Hour), " ")
		if _, err := svc.LoginWithGoogle(context.Background(), "id-token"); !errors.Is(err, ErrGoogleLoginDisabled) {
			t.Fatalf("expected ErrGoogleLoginDisabled, got %v", err)
		}
	})
}

func TestAuthenticate(t *testing.T) {
	user := adminUser(t, "right-password1")
	jwt := util.NewJWTManager("test-secret", time.Hour)
	token, expiresAt, err := jwt.Generate(user.ID, user.Email, []string{domain.RoleAdmin})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	t.Run("active session", func(t *testing.T) {
		userRepo := &fakeUserRepo{findByIDResult: user}
		sessions := &fakeSessionRepo{findActiveResult: &domain.Session{UserID: user.ID, Token: token, ExpiresAt: expiresAt, IsActive: true}}
		svc := newAuthServiceForTests(userRepo, nil, sessions)

		got, err := svc.Authenticate(context.Background(), token)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != user.ID || userRepo.findByIDInput != user.ID {
			t.Fatal("expected user to be loaded from token subject")
		}
		if sessions.findActiveToken != token {
			t.Fatal("expected session lookup by token")
		}
		if !svc.IsAdmin(got) {
			t.Fatal("expected admin user")
		}

		session, err := svc.Session(context.Background(), token)
		if err != nil {
			t.Fatalf("session: %v", err)
		}
		if session.Token != token || !session.ExpiresAt.Equal(expiresAt) {
			t.Fatalf("unexpected session %+v", session)
		}
	})

	t.Run("revoked session", func(t *testing.T) {
		sessions := &fakeSessionRepo{findActiveErr: sql.ErrNoRows}
		svc := newAuthServiceForTests(&fakeUserRepo{findByIDResult: user}, nil, sessions)

		if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrInvalidSession) {
			t.Fatalf("expected ErrInvalidSession, got %v", err)
		}
	})

	t.Run("session of another user", func(t *testing.T) {
		sessions := &fakeSessionRepo{findActiveResult: &domain.Session{UserID: uuid.New(), Token: token, ExpiresAt: expiresAt, IsActive: true}}
		svc := newAuthServiceForTests(&fakeUserRepo{findByIDResult: user}, nil, sessions)

		if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrInvalidSession) {
			t.Fatalf("expected ErrInvalidSession, got %v", err)
		}
	})

	t.Run("malformed token", func(t *testing.T) {
		sessions := &fakeSessionRepo{}
		svc := newAuthServiceForTests(&fakeUserRepo{}, nil, sessions)

		if _, err := svc.Authenticate(context.Background(), "not-a-jwt"); !errors.Is(err, ErrInvalidSession) {
			t.Fatalf("expected ErrInvalidSession, got %v", err)
		}
		if sessions.findActiveToken != "" {
			t.Fatal("session store should not be queried for a malformed token")
		}
	})
}

func TestLogoutDeactivatesSession(t *testing.T) {
	sessionRepo := &fakeSessionRepo{}
	svc := newAuthServiceForTests(&fakeUserRepo{}, nil, sessionRepo)

	if err := svc.Logout(context.Background(), "token-123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessionRepo.deactivatedToken != "token-123" {
		t.Fatalf("expected session to be deactivated")
	}
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	roleID := uuid.New()

	t.Run("creates missing account", func(t *testing.T) {
		created := &domain.User{ID: uuid.New(), Email: "admin@desa.id"}
		reloaded := &domain.User{ID: created.ID, Email: created.Email, Roles: []domain.Role{{ID: roleID, Name: domain.RoleAdmin}}}
		userRepo := &fakeUserRepo{findByEmailErr: sql.ErrNoRows, createEmailResult: created, findByIDResult: reloaded}
		roleRepo := &fakeRoleRepo{roleResult: &domain.Role{ID: roleID, Name: domain.RoleAdmin}}
		svc := newAuthServiceForTests(userRepo, roleRepo, nil)

		user, err := svc.EnsureAdmin(ctx, " Admin@desa.id", "Rahasia12345", "Admin Desa")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if userRepo.createEmailEmail != "admin@desa.id" {
			t.Fatalf("unexpected email %q", userRepo.createEmailEmail)
		}
		if len(userRepo.createEmailHash) == 0 || len(userRepo.createEmailSalt) == 0 {
			t.Fatal("expected password hash and salt")
		}
		if userRepo.createEmailName == nil || *userRepo.createEmailName != "Admin Desa" {
			t.Fatal("expected full name to be stored")
		}
		if len(roleRepo.assignedPairs) != 1 || roleRepo.assignedPairs[0].roleID != roleID {
			t.Fatal("expected admin role assignment")
		}
		if !user.HasRole(domain.RoleAdmin) {
			t.Fatal("expected reloaded user with admin role")
		}
	})

	t.Run("weak seed password", func(t *testing.T) {
		userRepo := &fakeUserRepo{findByEmailErr: sql.ErrNoRows}
		svc := newAuthServiceForTests(userRepo, &fakeRoleRepo{}, nil)

		_, err := svc.EnsureAdmin(ctx, "admin@desa.id", "short", "")
		if !errors.Is(err, ErrAdminSeedInvalid) {
			t.Fatalf("expected ErrAdminSeedInvalid, got %v", err)
		}
		if len(userRepo.createEmailHash) != 0 {
			t.Fatal("no account should be created")
		}
	})

	t.Run("existing admin untouched", func(t *testing.T) {
		existing := adminUser(t, "Rahasia12345")
		userRepo := &fakeUserRepo{findByEmailResult: existing}
		roleRepo := &fakeRoleRepo{userRoles: existing.Roles}
		svc := newAuthServiceForTests(userRepo, roleRepo, nil)

		user, err := svc.EnsureAdmin(ctx, "admin@desa.id", "Another12345", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != existing.ID {
			t.Fatal("expected existing user")
		}
		if len(roleRepo.assignedPairs) != 0 || len(roleRepo.roleNames) != 0 {
			t.Fatal("existing admin should not be reassigned")
		}
		if userRepo.updatePasswordInput.id != uuid.Nil {
			t.Fatal("existing password must be kept")
		}
	})

	t.Run("google account gets password and role", func(t *testing.T) {
		existing := &domain.User{ID: uuid.New(), Email: "admin@desa.id"}
		userRepo := &fakeUserRepo{findByEmailResult: existing, findByIDResult: existing}
		roleRepo := &fakeRoleRepo{roleResult: &domain.Role{ID: roleID}}
		svc := newAuthServiceForTests(userRepo, roleRepo, nil)

		if _, err := svc.EnsureAdmin(ctx, "admin@desa.id", "Rahasia12345", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if userRepo.updatePasswordInput.id != existing.ID {
			t.Fatal("expected password to be set")
		}
		if len(roleRepo.assignedPairs) != 1 {
			t.Fatal("expected admin role assignment")
		}
	})

	t.Run("concurrent create falls back to lookup", func(t *testing.T) {
		userRepo := &fakeUserRepo{findByEmailErr: sql.ErrNoRows, createEmailErr: &pgconn.PgError{Code: "23505"}}
		svc := newAuthServiceForTests(userRepo, &fakeRoleRepo{}, nil)

		_, err := svc.EnsureAdmin(ctx, "admin@desa.id", "Rahasia12345", "")
		if !errors.Is(err, sql.ErrNoRows) {
			t.Fatalf("expected lookup error after duplicate insert, got %v", err)
		}
		if userRepo.findByEmailCalls != 2 {
			t.Fatalf("expected a second lookup, got %d", userRepo.findByEmailCalls)
		}
	})
}
