//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aicms/aicms-api/internal/domain"
	"github.com/aicms/aicms-api/internal/platform/postgres"
	"github.com/aicms/aicms-api/internal/store"
	"github.com/aicms/aicms-api/internal/testdb"
)

func TestContentLifecycleIntegration(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		users := postgres.NewPostgresUserStore(tx, nil)
		templates := postgres.NewPostgresTemplateStore(tx, nil)
		contents := postgres.NewPostgresContentStore(tx, nil)

		user, err := domain.NewUser("integration@example.com", "Integration", domain.RoleContentCreator)
		require.NoError(t, err)
		user.SignUpType = domain.SignUpTypeGoogle
		stored, err := users.UpsertGoogleUser(ctx, user)
		require.NoError(t, err)

		active, err := templates.ListActive(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, active, "seeded templates")
		tmpl := active[0]

		parsed := domain.ParsedContent{
			Title:       "Integration",
			Category:    "Testing",
			Keywords:    []string{"go"},
			Tags:        []string{"db"},
			MainContent: "body",
		}
		c, err := domain.NewContent(stored.ID, tmpl.PublicID, "prompt", "raw", parsed, "groq")
		require.NoError(t, err)
		require.NoError(t, contents.Create(ctx, c))
		require.NoError(t, templates.IncrementUsage(ctx, tmpl.PublicID))

		got, err := contents.GetByPublicID(ctx, c.PublicID, stored.ID)
		require.NoError(t, err)
		assert.Equal(t, tmpl.Name, got.TemplateName)
		assert.Equal(t, []string{"go"}, got.Parsed.Keywords)

		items, total, err := contents.List(ctx, store.ContentFilter{UserID: stored.ID, Search: "integ", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)

		stats, err := contents.Stats(ctx, stored.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.TotalContent)
		assert.Equal(t, int64(1), stats.ByCategory["Testing"])

		require.NoError(t, contents.SoftDelete(ctx, got.ID, time.Now().UTC()))
		_, err = contents.GetByPublicID(ctx, c.PublicID, stored.ID)
		assert.ErrorIs(t, err, store.ErrContentNotFound)
	})
}

func TestUpsertGoogleUserKeepsExistingIntegration(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		users := postgres.NewPostgresUserStore(tx, nil)

		first, err := domain.NewUser("repeat@example.com", "First", domain.RoleViewer)
		require.NoError(t, err)
		first.SignUpType = domain.SignUpTypeGoogle
		created, err := users.UpsertGoogleUser(ctx, first)
		require.NoError(t, err)

		second, err := domain.NewUser("repeat@example.com", "Second", domain.RoleContentCreator)
		require.NoError(t, err)
		second.GoogleID = "g-2"
		second.SignUpType = domain.SignUpTypeGoogle
		again, err := users.UpsertGoogleUser(ctx, second)
		require.NoError(t, err)

		assert.Equal(t, created.ID, again.ID)
		assert.Equal(t, created.PublicID, again.PublicID)
		assert.Equal(t, "First", again.Name)
		assert.Equal(t, domain.RoleViewer, again.Role)
		assert.Equal(t, "g-2", again.GoogleID)
	})
}
