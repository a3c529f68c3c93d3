package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adaudit/adaudit-backend/models"
)

func TestDecisionFiltersDtoParse(t *testing.T) {
	filters, err := DecisionFiltersDto{
		ModuleId:    "wasted-spend",
		EntityTypes: []string{"keyword", "campaign"},
		ActionTypes: []string{"pause"},
		Statuses:    []string{"draft", "approved"},
		ChangeSetId: "aab1c2d3-0000-4000-9000-000000000001",
	}.Parse()

	require.NoError(t, err)
	assert.Equal(t, []models.EntityType{models.EntityTypeKeyword, models.EntityTypeCampaign},
		filters.EntityTypes)
	assert.Equal(t, []models.ActionType{models.ActionTypePause}, filters.ActionTypes)
	assert.Equal(t, []models.DecisionStatus{models.DecisionStatusDraft, models.DecisionStatusApproved},
		filters.Statuses)
	require.NotNil(t, filters.ModuleId)
	assert.Equal(t, "wasted-spend", *filters.ModuleId)
	assert.Nil(t, filters.AuditId)
}

func TestDecisionFiltersDtoParse_rejects_unknown_values(t *testing.T) {
	_, err := DecisionFiltersDto{EntityTypes: []string{"banner"}}.Parse()
	assert.ErrorIs(t, err, models.BadParameterError)

	_, err = DecisionFiltersDto{ActionTypes: []string{"boost"}}.Parse()
	assert.ErrorIs(t, err, models.BadParameterError)

	_, err = DecisionFiltersDto{Statuses: []string{"pending"}}.Parse()
	assert.ErrorIs(t, err, models.BadParameterError)

	_, err = DecisionFiltersDto{ChangeSetId: "not-a-uuid"}.Parse()
	assert.ErrorIs(t, err, models.BadParameterError)
}

func TestChangeSetFiltersDtoParse(t *testing.T) {
	filters, err := ChangeSetFiltersDto{
		AuditId:  "audit-1",
		Statuses: []string{"draft", "exported"},
	}.Parse()

	require.NoError(t, err)
	assert.Equal(t, []models.ChangeSetStatus{models.ChangeSetStatusDraft, models.ChangeSetStatusExported},
		filters.Statuses)
	require.NotNil(t, filters.AuditId)
	assert.Equal(t, "audit-1", *filters.AuditId)

	_, err = ChangeSetFiltersDto{Statuses: []string{"archived"}}.Parse()
	assert.ErrorIs(t, err, models.BadParameterError)
}
