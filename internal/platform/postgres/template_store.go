package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/aicms/aicms-api/internal/domain"
	"github.com/aicms/aicms-api/internal/platform/logger"
	"github.com/aicms/aicms-api/internal/store"
)

const templateColumns = `id, public_id, name, format, description, is_active, used_count,
	created_at, updated_at`

// PostgresTemplateStore implements store.TemplateStore.
type PostgresTemplateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTemplateStore creates a template store on db.
func NewPostgresTemplateStore(db store.DBTX, logger *slog.Logger) *PostgresTemplateStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTemplateStore{
		db:     db,
		logger: logger.With(slog.String("component", "template_store")),
	}
}

var _ store.TemplateStore = (*PostgresTemplateStore)(nil)

// ListActive implements store.TemplateStore.ListActive.
func (s *PostgresTemplateStore) ListActive(ctx context.Context) ([]*domain.Template, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + templateColumns + ` FROM templates WHERE is_active ORDER BY name, public_id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list templates", slog.String("error", err.Error()))
		return nil, wrapStoreError("template", "list", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	templates := []*domain.Template{}
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, wrapStoreError("template", "list", "scan failed", err)
		}
		templates = append(templates, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError("template", "list", "iteration failed", err)
	}

	log.Debug("listed templates", slog.Int("count", len(templates)))
	return templates, nil
}

// GetByPublicID implements store.TemplateStore.GetByPublicID.
func (s *PostgresTemplateStore) GetByPublicID(ctx context.Context, publicID string) (*domain.Template, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + templateColumns + ` FROM templates WHERE public_id = $1 AND is_active`
	tmpl, err := scanTemplate(s.db.QueryRowContext(ctx, query, publicID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("template not found", slog.String("template_id", publicID))
			return nil, store.ErrTemplateNotFound
		}
		log.Error("failed to get template",
			slog.String("error", err.Error()),
			slog.String("template_id", publicID))
		return nil, wrapStoreError("template", "get", "query failed", err)
	}
	return tmpl, nil
}

// IncrementUsage implements store.TemplateStore.IncrementUsage.
func (s *PostgresTemplateStore) IncrementUsage(ctx context.Context, publicID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE templates SET used_count = used_count + 1, updated_at = NOW() WHERE public_id = $1`,
		publicID)
	if err != nil {
		log.Error("failed to increment template usage",
			slog.String("error", err.Error()),
			slog.String("template_id", publicID))
		return wrapStoreError("template", "increment_usage", "update failed", err)
	}
	return checkRowsAffected(result, store.ErrTemplateNotFound)
}

func scanTemplate(row rowScanner) (*domain.Template, error) {
	var t domain.Template
	err := row.Scan(&t.ID, &t.PublicID, &t.Name, &t.Format, &t.Description, &t.IsActive,
		&t.UsedCount, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
