package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAuditListQueryNoFilters(t *testing.T) {
	query, args := buildAuditListQuery(map[string]interface{}{})

	assert.Equal(t, "SELECT * FROM audit_logs WHERE 1=1 ORDER BY created_at DESC", query)
	assert.Empty(t, args)
}

func TestBuildAuditListQueryEntityID(t *testing.T) {
	entityID := uuid.New()
	query, args := buildAuditListQuery(map[string]interface{}{
		"entity_id": entityID,
	})

	assert.Contains(t, query, "AND entity_id = $1")
	require.Len(t, args, 1)
	assert.Equal(t, entityID, args[0])
}

func TestBuildAuditListQueryAllFilters(t *testing.T) {
	entityID := uuid.New()
	userID := uuid.New()
	query, args := buildAuditListQuery(map[string]interface{}{
		"user_id":     userID,
		"entity_type": "appointment",
		"entity_id":   entityID,
		"action":      "update",
	})

	assert.Contains(t, query, "AND user_id = $1")
	assert.Contains(t, query, "AND entity_type = $2")
	assert.Contains(t, query, "AND entity_id = $3")
	assert.Contains(t, query, "AND action = $4")
	assert.Equal(t, []interface{}{userID, "appointment", entityID, "update"}, args)
}
