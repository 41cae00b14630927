package repository

import (
	"context"
	"regexp"
	"testing"

	"lostfound/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepository_CreateAssignsUUID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAuditRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "moderation_audits"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	entry := &models.ModerationAudit{ActorID: 1, TargetType: models.AuditTargetItem, TargetID: 2, Action: "force_delete"}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepository_List(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAuditRepository(db)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "moderation_audits" WHERE target_type = $1 AND target_id = $2 ORDER BY created_at desc LIMIT $3`)).
		WithArgs("item", 2, 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "actor_id", "target_type", "target_id", "action"}).
			AddRow(id.String(), 1, "item", 2, "flag_spam"))

	entries, err := repo.List(context.Background(), AuditFilter{TargetType: models.AuditTargetItem, TargetID: 2})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
	assert.Equal(t, "flag_spam", entries[0].Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}
