package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangeSetStatusCanTransition(t *testing.T) {
	cases := []struct {
		from    ChangeSetStatus
		to      ChangeSetStatus
		allowed bool
	}{
		{ChangeSetStatusDraft, ChangeSetStatusApproved, true},
		{ChangeSetStatusDraft, ChangeSetStatusExported, false},
		{ChangeSetStatusDraft, ChangeSetStatusApplied, false},
		{ChangeSetStatusApproved, ChangeSetStatusExported, true},
		{ChangeSetStatusApproved, ChangeSetStatusApproved, false},
		{ChangeSetStatusExported, ChangeSetStatusApplied, true},
		{ChangeSetStatusExported, ChangeSetStatusDraft, false},
		{ChangeSetStatusApplied, ChangeSetStatusDraft, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransition(c.to),
			"%s -> %s", c.from, c.to)
	}
}

func TestChangeSetStatusIsDeletable(t *testing.T) {
	assert.True(t, ChangeSetStatusDraft.IsDeletable())
	assert.True(t, ChangeSetStatusApproved.IsDeletable())
	assert.True(t, ChangeSetStatusExported.IsDeletable())
	assert.False(t, ChangeSetStatusApplied.IsDeletable())
}

func TestChangeSetStatusFrom(t *testing.T) {
	assert.Equal(t, ChangeSetStatusExported, ChangeSetStatusFrom("exported"))
	assert.Equal(t, ChangeSetStatusUnknown, ChangeSetStatusFrom("archived"))
}

func TestCreateChangeSetInputValidate(t *testing.T) {
	assert.NoError(t, CreateChangeSetInput{AccountId: "123", Name: "cleanup"}.Validate())
	assert.ErrorIs(t, CreateChangeSetInput{AccountId: "123"}.Validate(), ErrChangeSetNameRequired)
}
