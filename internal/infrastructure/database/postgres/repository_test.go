package postgres

import (
	"context"
	"database/sql"
	"errors"
	"people-graphql-api/internal/domain/otp"
	"people-graphql-api/internal/domain/user"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormLogger.Discard,
	})
	require.NoError(t, err)

	return &DB{DB: gdb}, mock
}

var userColumns = []string{
	"id", "name", "email", "password_hashed", "avatar", "role", "dial_code", "phone", "created_at", "updated_at",
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(id.String(), "A", "a@x.com", "hash", "", "User", "+880", nil, now, now))

	u, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, id.String(), u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, user.RoleUser, u.Role)
	assert.Equal(t, "+880", u.DialCode)
	assert.Nil(t, u.Phone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.GetByEmail(context.Background(), "missing@x.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_InvalidID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, user.ErrInvalidUserID)

	_, err = repo.Delete(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, user.ErrInvalidUserID)

	err = repo.Replace(context.Background(), &user.User{ID: "nope"})
	assert.ErrorIs(t, err, user.ErrInvalidUserID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`INSERT INTO "users"`).WillReturnResult(sqlmock.NewResult(0, 1))

	u := &user.User{Name: "A", Email: "a@x.com", PasswordHashed: "hash", Role: user.RoleUser}
	require.NoError(t, repo.Create(context.Background(), u))

	_, err := uuid.Parse(u.ID)
	assert.NoError(t, err)
	assert.False(t, u.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`INSERT INTO "users"`).WillReturnError(&pgconn.PgError{
		Code:           "23505",
		Detail:         "Key (email)=(a@x.com) already exists.",
		TableName:      "users",
		ConstraintName: "users_email_key",
	})

	err := repo.Create(context.Background(), &user.User{Name: "A", Email: "a@x.com", Role: user.RoleUser})

	var dup *user.DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
}

func TestUserRepository_Create_Failure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`INSERT INTO "users"`).WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &user.User{Name: "A", Email: "a@x.com", Role: user.RoleUser})
	assert.ErrorContains(t, err, "failed to create user: connection reset")
}

func TestUserRepository_Replace_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Replace(context.Background(), &user.User{ID: uuid.NewString(), Name: "A", Role: user.RoleUser})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_Replace(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	phone := "1712345678"
	u := &user.User{ID: uuid.NewString(), Name: "B", Email: "b@x.com", PasswordHashed: "hash", Role: user.RoleEditor, Phone: &phone}

	mock.ExpectExec(`UPDATE "users" SET .* WHERE id = \$`).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Replace(context.Background(), u))
	assert.False(t, u.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Replace_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`UPDATE "users" SET`).WillReturnError(&pgconn.PgError{
		Code:   "23505",
		Detail: "Key (email)=(b@x.com) already exists.",
	})

	err := repo.Replace(context.Background(), &user.User{ID: uuid.NewString(), Email: "b@x.com", Role: user.RoleUser})

	var dup *user.DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
}

func TestUserRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`DELETE FROM "users" WHERE id = \$1 RETURNING \*`).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(id.String(), "A", "a@x.com", "hash", "", "Moderator", "+880", "1712345678", now, now))

	u, err := repo.Delete(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, id.String(), u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, user.RoleModerator, u.Role)
	require.NotNil(t, u.Phone)
	assert.Equal(t, "1712345678", *u.Phone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`DELETE FROM "users" WHERE id = \$1 RETURNING \*`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.Delete(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDuplicateField_FromConstraintName(t *testing.T) {
	field, ok := duplicateField(&pgconn.PgError{Code: "23505", TableName: "users", ConstraintName: "idx_users_email"})
	assert.True(t, ok)
	assert.Equal(t, "email", field)

	_, ok = duplicateField(&pgconn.PgError{Code: "23503"})
	assert.False(t, ok)

	_, ok = duplicateField(errors.New("plain"))
	assert.False(t, ok)
}

func TestOTPRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOTPRepository(db)

	now := time.Now()
	o := &otp.OTP{Email: "a@x.com", Code: "123456", Medium: otp.MediumEmail, CreatedAt: now, ExpiresAt: now.Add(5 * time.Minute)}

	mock.ExpectExec(`INSERT INTO "otps".*ON CONFLICT`).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Create(context.Background(), o))

	mock.ExpectExec(`INSERT INTO "otps".*ON CONFLICT`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Create(context.Background(), o), otp.ErrOTPActive)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPRepository_GetActive_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOTPRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "otps" WHERE \(?email = \$1 AND expires_at > \$2\)?`).
		WillReturnRows(sqlmock.NewRows([]string{"email", "code", "medium", "created_at", "expires_at"}))

	_, err := repo.GetActive(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, otp.ErrOTPNotFound)
}

func TestOTPRepository_DeleteExpired(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOTPRepository(db)

	mock.ExpectExec(`DELETE FROM "otps" WHERE expires_at <= \$1`).WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestRunMigrations(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, runMigrations(context.Background(), sqlDB))
	assert.Equal(t, ".", gotDir)

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	assert.ErrorContains(t, runMigrations(context.Background(), sqlDB), "failed to run migrations: boom")
}
