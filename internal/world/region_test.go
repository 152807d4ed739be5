package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/auracore/internal/model"
)

func TestNewRegion(t *testing.T) {
	region := NewRegion(10, 20)
	assert.Equal(t, int32(10), region.RX())
	assert.Equal(t, int32(20), region.RY())
	assert.Empty(t, region.Snapshot())
}

func TestRegion_AddRemoveUnit(t *testing.T) {
	region := NewRegion(0, 0)
	u := model.NewUnit(100, "unit", model.KindCreature, model.Location{}, 1, 10)

	region.AddUnit(u)
	snap := region.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, uint32(100), snap[0].ObjectID())

	// clean snapshot is reused
	again := region.Snapshot()
	assert.Same(t, &snap[0], &again[0])

	region.RemoveUnit(100)
	assert.Empty(t, region.Snapshot())
}
