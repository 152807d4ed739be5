package gameserver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/auracore/internal/config"
	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/game/aura"
	"github.com/udisondev/auracore/internal/model"
	"github.com/udisondev/auracore/internal/world"
)

const (
	testUnitID  = 1
	testSpellID = 100
)

// newTestManager returns a manager with one unit in the world and one
// 5 second positive buff definition.
func newTestManager(t *testing.T, opts ...aura.Option) *aura.Manager {
	t.Helper()

	w := world.New()
	u := model.NewUnit(testUnitID, "hero", model.KindPlayer, model.Location{}, 10, 100)
	require.NoError(t, w.AddUnit(u))

	repo := data.NewRepository()
	repo.AddSpell(&data.SpellInfo{
		ID:         testSpellID,
		Duration:   5000,
		Attributes: data.AttrPositive,
		Effects: [data.MaxEffects]*data.SpellEffectInfo{
			{Effect: data.EffectApplyAura, AuraType: data.AuraModStat, BasePoints: 7},
		},
	})

	return aura.NewManager(config.DefaultAura(), repo, w, opts...)
}
