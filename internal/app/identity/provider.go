// Package identity authenticates principals (email + password) independently of profiles.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/starmentor/internal/db"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
	"github.com/yigit/starmentor/internal/pkg/auth"
	"github.com/yigit/starmentor/internal/pkg/dberrors"
)

// Provider is the identity contract used by session binding
type Provider interface {
	SignUp(ctx context.Context, email, password string) (uuid.UUID, error)
	SignIn(ctx context.Context, email, password string) (uuid.UUID, error)
	Delete(ctx context.Context, principalID uuid.UUID) error
	DeleteInCommittee(ctx context.Context, principalID, committeeID uuid.UUID) error
}

// PostgresProvider stores principals in auth_principals with bcrypt hashes
type PostgresProvider struct {
	db     db.Querier
	hasher auth.PasswordHasher
}

// NewPostgresProvider creates a new PostgresProvider
func NewPostgresProvider(q db.Querier, hasher auth.PasswordHasher) *PostgresProvider {
	return &PostgresProvider{db: q, hasher: hasher}
}

// NormalizeEmail lowercases and trims an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const principalEmailKey = "auth_principals_email_key"

// SignUp registers a principal and returns its id
func (p *PostgresProvider) SignUp(ctx context.Context, email, password string) (uuid.UUID, error) {
	hash, err := p.hasher.Hash(password)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var id uuid.UUID
	err = p.db.QueryRow(ctx,
		"INSERT INTO auth_principals (email, password_hash) VALUES ($1, $2) RETURNING id",
		NormalizeEmail(email), hash).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, principalEmailKey) {
			return uuid.Nil, apperrors.ErrEmailAlreadyExists
		}
		return uuid.Nil, fmt.Errorf("failed to create principal: %w", err)
	}
	return id, nil
}

// SignIn verifies credentials and returns the principal id
func (p *PostgresProvider) SignIn(ctx context.Context, email, password string) (uuid.UUID, error) {
	var (
		id   uuid.UUID
		hash string
	)
	err := p.db.QueryRow(ctx,
		"SELECT id, password_hash FROM auth_principals WHERE email = $1",
		NormalizeEmail(email)).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, apperrors.ErrInvalidCredentials
		}
		return uuid.Nil, fmt.Errorf("failed to look up principal: %w", err)
	}

	ok, err := p.hasher.Verify(hash, password)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return uuid.Nil, apperrors.ErrInvalidCredentials
	}
	return id, nil
}

// Delete removes a principal. Its profile goes with it.
func (p *PostgresProvider) Delete(ctx context.Context, principalID uuid.UUID) error {
	tag, err := p.db.Exec(ctx, "DELETE FROM auth_principals WHERE id = $1", principalID)
	if err != nil {
		return fmt.Errorf("failed to delete principal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("principal not found")
	}
	return nil
}

const deleteInCommitteeSQL = `DELETE FROM auth_principals WHERE id = $1
	AND EXISTS (SELECT 1 FROM profiles WHERE id = $1 AND committee_id = $2)`

// DeleteInCommittee removes a principal only while its profile still belongs to the committee.
// The membership test and the delete are one statement, so a concurrent reassignment cannot
// slip between them.
func (p *PostgresProvider) DeleteInCommittee(ctx context.Context, principalID, committeeID uuid.UUID) error {
	tag, err := p.db.Exec(ctx, deleteInCommitteeSQL, principalID, committeeID)
	if err != nil {
		return fmt.Errorf("failed to delete principal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("profile not found")
	}
	return nil
}
