package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: "auth_principals_email_key"})
	fk := &pgconn.PgError{Code: CodeForeignKeyViolation, ConstraintName: "projects_assignee_fkey"}
	check := &pgconn.PgError{Code: CodeCheckViolation}
	rls := &pgconn.PgError{Code: CodeInsufficientPrivilege}

	assert.True(t, IsDuplicateConstraintError(unique, "auth_principals_email_key"))
	assert.True(t, IsDuplicateConstraintError(unique, ""))
	assert.False(t, IsDuplicateConstraintError(unique, "other"))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.Equal(t, "projects_assignee_fkey", Constraint(fk))
	assert.True(t, IsCheckViolation(check))
	assert.True(t, IsPermissionDenied(rls))

	plain := errors.New("plain")
	assert.False(t, IsForeignKeyViolation(plain))
	assert.False(t, IsPermissionDenied(plain))
	assert.Equal(t, "", Constraint(plain))
}
