package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ocpulse/pkg/contracts/domain"
)

func TestBuildIDSet(t *testing.T) {
	set := BuildIDSet([]string{"100", "200.0", "  300 ", "", "nan", "abc"})

	assert.Len(t, set, 4)
	assert.True(t, set.Contains("100"))
	assert.True(t, set.Contains("200"))
	assert.True(t, set.Contains("300"))
	assert.True(t, set.Contains("abc"))
	assert.False(t, set.Contains(""), "empty id is never a member")
	assert.False(t, set.Contains("200.0"), "set holds normalized forms only")
}

func TestFilterCancelled(t *testing.T) {
	cancelled := BuildIDSet([]string{"100", "200"})
	reqs := []domain.Requisition{
		{ID: NormalizeID("100")},
		{ID: NormalizeID("101")},
		{ID: NormalizeID("200.0")},
	}

	kept, removed := FilterCancelled(reqs, cancelled)

	assert.Equal(t, 2, removed)
	if assert.Len(t, kept, 1) {
		assert.Equal(t, "101", kept[0].ID)
	}
}

func TestFilterCancelledKeepsBlankIDs(t *testing.T) {
	// A requisition without a usable id cannot match the cancellation set.
	cancelled := BuildIDSet([]string{""})
	kept, removed := FilterCancelled([]domain.Requisition{{ID: ""}}, cancelled)
	assert.Zero(t, removed)
	assert.Len(t, kept, 1)
}
