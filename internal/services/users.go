package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/consorciovial/ssoma-server/internal/models"
)

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords so responses cannot be used to probe for accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

const tokenTTL = 12 * time.Hour

// UserService is the session-scoped account repository. It replaces the
// dashboard's old client-side mock user store: credentials live in the
// database and sessions are short-lived JWTs, so the UI is no longer
// the source of truth for who exists.
type UserService struct {
	db        *pgxpool.Pool
	jwtSecret []byte
	logger    *zap.SugaredLogger
}

// NewUserService creates a new user service
func NewUserService(db *pgxpool.Pool, jwtSecret string, logger *zap.SugaredLogger) *UserService {
	return &UserService{db: db, jwtSecret: []byte(jwtSecret), logger: logger}
}

func (s *UserService) EnsureTable(ctx context.Context) ([]MigrationOutcome, error) {
	create := `
		CREATE TABLE IF NOT EXISTS ssoma_users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'operador',
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	migrations := []string{
		`ALTER TABLE ssoma_users ADD COLUMN role TEXT NOT NULL DEFAULT 'operador'`,
	}
	return ensureTable(ctx, s.db, s.logger, create, migrations)
}

// Register creates an account with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, email, name, role, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if u.Role == "" {
		u.Role = "operador"
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO ssoma_users (id, email, name, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Email, u.Name, u.Role, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	s.logger.Infow("User registered", "email", email, "role", u.Role)
	return u, nil
}

// Login verifies credentials and issues a signed session token.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var u models.User
	err := s.db.QueryRow(ctx, `
		SELECT id, email, name, role, password_hash, created_at
		FROM ssoma_users WHERE email=$1
	`, email).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(&u)
	if err != nil {
		return nil, "", err
	}
	return &u, token, nil
}

func (s *UserService) issueToken(u *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"role":  u.Role,
		"exp":   time.Now().Add(tokenTTL).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Delete removes an account by id.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM ssoma_users WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
