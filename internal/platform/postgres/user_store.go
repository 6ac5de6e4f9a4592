package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/aicms/aicms-api/internal/domain"
	"github.com/aicms/aicms-api/internal/platform/logger"
	"github.com/aicms/aicms-api/internal/store"
)

const userColumns = `id, public_id, name, email, profile_url, google_id, sign_up_type,
	role, last_login, is_active, is_deleted, created_at, updated_at`

// PostgresUserStore implements store.UserStore.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a user store on db. A nil logger falls back to
// slog.Default().
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*PostgresUserStore)(nil)

// Create implements store.UserStore.Create.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	err := insertWithPublicID(log, domain.UserIDPrefix, &user.PublicID, func() error {
		_, err := s.db.ExecContext(ctx, query,
			user.ID, user.PublicID, user.Name, user.Email, user.ProfileURL, user.GoogleID,
			user.SignUpType, string(user.Role), user.LastLogin, user.IsActive, user.IsDeleted,
			user.CreatedAt, user.UpdatedAt,
		)
		return err
	})
	if err != nil {
		if IsUniqueViolation(err) && strings.Contains(uniqueConstraint(err), "email") {
			log.Debug("email already registered", slog.String("user_id", user.PublicID))
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.PublicID))
		return wrapStoreError("user", "create", "insert failed", err)
	}

	log.Info("user created", slog.String("user_id", user.PublicID))
	return nil
}

// UpsertGoogleUser implements store.UserStore.UpsertGoogleUser.
func (s *PostgresUserStore) UpsertGoogleUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (email) DO UPDATE SET
			google_id = CASE WHEN users.sign_up_type = 'google'
				THEN EXCLUDED.google_id ELSE users.google_id END,
			name = CASE WHEN users.name = '' THEN EXCLUDED.name ELSE users.name END,
			profile_url = CASE WHEN users.profile_url = ''
				THEN EXCLUDED.profile_url ELSE users.profile_url END,
			last_login = EXCLUDED.last_login,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + userColumns

	var stored *domain.User
	err := insertWithPublicID(log, domain.UserIDPrefix, &user.PublicID, func() error {
		var err error
		stored, err = scanUser(s.db.QueryRowContext(ctx, query,
			user.ID, user.PublicID, user.Name, user.Email, user.ProfileURL, user.GoogleID,
			user.SignUpType, string(user.Role), user.LastLogin, user.IsActive, user.IsDeleted,
			user.CreatedAt, user.UpdatedAt,
		))
		return err
	})
	if err != nil {
		log.Error("failed to upsert user", slog.String("error", err.Error()))
		return nil, wrapStoreError("user", "upsert", "upsert failed", err)
	}

	log.Debug("user upserted", slog.String("user_id", stored.PublicID))
	return stored, nil
}

// GetByPublicID implements store.UserStore.GetByPublicID.
func (s *PostgresUserStore) GetByPublicID(ctx context.Context, publicID string) (*domain.User, error) {
	return s.getOne(ctx, "public_id", publicID)
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, "email", domain.NormalizeEmail(email))
}

// getOne looks a user up by a unique column. column is always a constant.
func (s *PostgresUserStore) getOne(ctx context.Context, column, value string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1 AND NOT is_deleted`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("lookup", column))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user",
			slog.String("error", err.Error()),
			slog.String("lookup", column))
		return nil, wrapStoreError("user", "get", "query failed", err)
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u         domain.User
		role      string
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.PublicID, &u.Name, &u.Email, &u.ProfileURL, &u.GoogleID, &u.SignUpType,
		&role, &lastLogin, &u.IsActive, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}
