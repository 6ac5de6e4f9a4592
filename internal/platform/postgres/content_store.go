package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aicms/aicms-api/internal/domain"
	"github.com/aicms/aicms-api/internal/platform/logger"
	"github.com/aicms/aicms-api/internal/store"
)

const contentSelect = `
	SELECT c.id, c.public_id, c.user_id, c.template_id, COALESCE(t.name, ''), c.prompt,
		c.whole_content, c.title, c.category, c.keywords, c.tags, c.main_content,
		c.ai_provider, c.is_edited, c.is_regenerated, c.is_deleted, c.created_at, c.updated_at
	FROM contents c
	LEFT JOIN templates t ON t.public_id = c.template_id`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PostgresContentStore implements store.ContentStore.
type PostgresContentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresContentStore creates a content store on db.
func NewPostgresContentStore(db store.DBTX, logger *slog.Logger) *PostgresContentStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresContentStore{
		db:     db,
		logger: logger.With(slog.String("component", "content_store")),
	}
}

var _ store.ContentStore = (*PostgresContentStore)(nil)

// WithTx implements store.ContentStore.WithTx.
func (s *PostgresContentStore) WithTx(tx *sql.Tx) store.ContentStore {
	return &PostgresContentStore{db: tx, logger: s.logger}
}

// Create implements store.ContentStore.Create.
func (s *PostgresContentStore) Create(ctx context.Context, c *domain.Content) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := c.Validate(); err != nil {
		return err
	}
	keywords, tags, err := encodeLists(c.Parsed)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO contents (id, public_id, user_id, template_id, prompt, whole_content,
			title, category, keywords, tags, main_content, ai_provider,
			is_edited, is_regenerated, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10::jsonb, $11, $12,
			$13, $14, $15, $16, $17)
	`
	err = insertWithPublicID(log, domain.ContentIDPrefix, &c.PublicID, func() error {
		_, err := s.db.ExecContext(ctx, query,
			c.ID, c.PublicID, c.UserID, c.TemplateID, c.Prompt, c.WholeContent,
			c.Parsed.Title, c.Parsed.Category, keywords, tags, c.Parsed.MainContent, c.AIProvider,
			c.IsEdited, c.IsRegenerated, c.IsDeleted, c.CreatedAt, c.UpdatedAt,
		)
		return err
	})
	if err != nil {
		log.Error("failed to create content",
			slog.String("error", err.Error()),
			slog.String("content_id", c.PublicID))
		return wrapStoreError("content", "create", "insert failed", err)
	}

	log.Info("content created",
		slog.String("content_id", c.PublicID),
		slog.String("template_id", c.TemplateID))
	return nil
}

// GetByPublicID implements store.ContentStore.GetByPublicID.
func (s *PostgresContentStore) GetByPublicID(ctx context.Context, publicID string, userID uuid.UUID) (*domain.Content, error) {
	return s.getOne(ctx, publicID, userID, "")
}

// GetForUpdate implements store.ContentStore.GetForUpdate.
func (s *PostgresContentStore) GetForUpdate(ctx context.Context, publicID string, userID uuid.UUID) (*domain.Content, error) {
	return s.getOne(ctx, publicID, userID, " FOR UPDATE OF c")
}

func (s *PostgresContentStore) getOne(ctx context.Context, publicID string, userID uuid.UUID, suffix string) (*domain.Content, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := contentSelect + `
	WHERE c.public_id = $1 AND c.user_id = $2 AND NOT c.is_deleted` + suffix

	c, err := scanContent(s.db.QueryRowContext(ctx, query, publicID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("content not found", slog.String("content_id", publicID))
			return nil, store.ErrContentNotFound
		}
		log.Error("failed to get content",
			slog.String("error", err.Error()),
			slog.String("content_id", publicID))
		return nil, wrapStoreError("content", "get", "query failed", err)
	}
	return c, nil
}

// Update implements store.ContentStore.Update.
func (s *PostgresContentStore) Update(ctx context.Context, c *domain.Content) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	keywords, tags, err := encodeLists(c.Parsed)
	if err != nil {
		return err
	}

	query := `
		UPDATE contents SET
			prompt = $2, whole_content = $3, title = $4, category = $5,
			keywords = $6::jsonb, tags = $7::jsonb, main_content = $8, ai_provider = $9,
			is_edited = $10, is_regenerated = $11, updated_at = $12
		WHERE id = $1 AND NOT is_deleted
	`
	result, err := s.db.ExecContext(ctx, query,
		c.ID, c.Prompt, c.WholeContent, c.Parsed.Title, c.Parsed.Category,
		keywords, tags, c.Parsed.MainContent, c.AIProvider,
		c.IsEdited, c.IsRegenerated, c.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update content",
			slog.String("error", err.Error()),
			slog.String("content_id", c.PublicID))
		return wrapStoreError("content", "update", "update failed", err)
	}
	if err := checkRowsAffected(result, store.ErrContentNotFound); err != nil {
		return err
	}

	log.Debug("content updated", slog.String("content_id", c.PublicID))
	return nil
}

// SoftDelete implements store.ContentStore.SoftDelete.
func (s *PostgresContentStore) SoftDelete(ctx context.Context, id uuid.UUID, updatedAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE contents SET is_deleted = TRUE, updated_at = $2 WHERE id = $1 AND NOT is_deleted`,
		id, updatedAt)
	if err != nil {
		log.Error("failed to delete content",
			slog.String("error", err.Error()),
			slog.String("id", id.String()))
		return wrapStoreError("content", "delete", "update failed", err)
	}
	return checkRowsAffected(result, store.ErrContentNotFound)
}

// List implements store.ContentStore.List.
func (s *PostgresContentStore) List(ctx context.Context, filter store.ContentFilter) ([]*domain.Content, int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := buildContentFilter(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM contents c WHERE ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count content", slog.String("error", err.Error()))
		return nil, 0, wrapStoreError("content", "list", "count failed", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`%s
	WHERE %s
	ORDER BY c.created_at DESC, c.id
	LIMIT $%d OFFSET $%d`, contentSelect, where, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list content", slog.String("error", err.Error()))
		return nil, 0, wrapStoreError("content", "list", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	items := []*domain.Content{}
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, 0, wrapStoreError("content", "list", "scan failed", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapStoreError("content", "list", "iteration failed", err)
	}

	log.Debug("listed content",
		slog.Int("count", len(items)),
		slog.Int64("total", total))
	return items, total, nil
}

// buildContentFilter returns the WHERE clause for filter and its arguments.
func buildContentFilter(filter store.ContentFilter) (string, []any) {
	clauses := []string{"c.user_id = $1", "NOT c.is_deleted"}
	args := []any{filter.UserID}

	if filter.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.Search)+"%")
		n := len(args)
		clauses = append(clauses,
			fmt.Sprintf(`(c.title ILIKE $%d ESCAPE '\' OR c.main_content ILIKE $%d ESCAPE '\')`, n, n))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		clauses = append(clauses, fmt.Sprintf("c.category = $%d", len(args)))
	}
	if filter.TemplateID != "" {
		args = append(args, filter.TemplateID)
		clauses = append(clauses, fmt.Sprintf("c.template_id = $%d", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}

// Stats implements store.ContentStore.Stats.
func (s *PostgresContentStore) Stats(ctx context.Context, userID uuid.UUID) (*domain.UsageStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	stats := &domain.UsageStats{
		ByCategory: map[string]int64{},
		ByTemplate: map[string]int64{},
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE is_edited),
			COUNT(*) FILTER (WHERE is_regenerated)
		FROM contents
		WHERE user_id = $1 AND NOT is_deleted
	`, userID).Scan(&stats.TotalContent, &stats.EditedContent, &stats.RegeneratedContent)
	if err != nil {
		log.Error("failed to load usage totals", slog.String("error", err.Error()))
		return nil, wrapStoreError("content", "stats", "totals query failed", err)
	}

	groups := []struct {
		column string
		into   map[string]int64
	}{
		{"category", stats.ByCategory},
		{"template_id", stats.ByTemplate},
	}
	for _, g := range groups {
		if err := s.countBy(ctx, userID, g.column, g.into); err != nil {
			log.Error("failed to load usage breakdown",
				slog.String("error", err.Error()),
				slog.String("column", g.column))
			return nil, err
		}
	}

	return stats, nil
}

// countBy fills into with per-value counts of column. column is a constant.
func (s *PostgresContentStore) countBy(ctx context.Context, userID uuid.UUID, column string, into map[string]int64) error {
	query := `SELECT ` + column + `, COUNT(*) FROM contents
		WHERE user_id = $1 AND NOT is_deleted GROUP BY ` + column
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return wrapStoreError("content", "stats", "query by "+column+" failed", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			key   string
			count int64
		)
		if err := rows.Scan(&key, &count); err != nil {
			return wrapStoreError("content", "stats", "scan by "+column+" failed", err)
		}
		into[key] = count
	}
	if err := rows.Err(); err != nil {
		return wrapStoreError("content", "stats", "iteration by "+column+" failed", err)
	}
	return nil
}

func scanContent(row rowScanner) (*domain.Content, error) {
	var (
		c        domain.Content
		keywords []byte
		tags     []byte
	)
	err := row.Scan(
		&c.ID, &c.PublicID, &c.UserID, &c.TemplateID, &c.TemplateName, &c.Prompt,
		&c.WholeContent, &c.Parsed.Title, &c.Parsed.Category, &keywords, &tags, &c.Parsed.MainContent,
		&c.AIProvider, &c.IsEdited, &c.IsRegenerated, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(keywords, &c.Parsed.Keywords); err != nil {
		return nil, errors.Wrap(err, "decode keywords")
	}
	if err := json.Unmarshal(tags, &c.Parsed.Tags); err != nil {
		return nil, errors.Wrap(err, "decode tags")
	}
	return &c, nil
}

// encodeLists renders keywords and tags as JSON arrays; nil becomes [].
func encodeLists(p domain.ParsedContent) (string, string, error) {
	keywords, err := json.Marshal(nonNil(p.Keywords))
	if err != nil {
		return "", "", errors.Wrap(err, "encode keywords")
	}
	tags, err := json.Marshal(nonNil(p.Tags))
	if err != nil {
		return "", "", errors.Wrap(err, "encode tags")
	}
	return string(keywords), string(tags), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
