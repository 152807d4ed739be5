package aura

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/auracore/internal/config"
	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
	"github.com/udisondev/auracore/internal/world"
)

type recordingSink struct {
	sent map[uint32][][]State
}

func newRecordingSink() *recordingSink {
	return &recordingSink{sent: make(map[uint32][][]State)}
}

func (s *recordingSink) Send(unitID uint32, states []State) {
	s.sent[unitID] = append(s.sent[unitID], slices.Clone(states))
}

func (s *recordingSink) last(unitID uint32) []State {
	batches := s.sent[unitID]
	if len(batches) == 0 {
		return nil
	}
	return batches[len(batches)-1]
}

type fixedRoller bool

func (r fixedRoller) Chance(float64) bool { return bool(r) }

type seededRoller struct{ r *rand.Rand }

func (s seededRoller) Chance(pct float64) bool { return s.r.Float64()*100 < pct }

type fixture struct {
	t     *testing.T
	repo  *data.Repository
	world *world.World
	sink  *recordingSink
	mgr   *Manager
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	return newFixtureWithConfig(t, config.DefaultAura(), opts...)
}

func newFixtureWithConfig(t *testing.T, cfg config.Aura, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		t:     t,
		repo:  data.NewRepository(),
		world: world.New(),
		sink:  newRecordingSink(),
	}
	opts = append([]Option{WithSink(f.sink), WithRoller(fixedRoller(true))}, opts...)
	f.mgr = NewManager(cfg, f.repo, f.world, opts...)
	return f
}

func (f *fixture) unit(id uint32, x, y float64) *model.Unit {
	f.t.Helper()
	u := model.NewUnit(id, "unit", model.KindPlayer, model.Location{X: x, Y: y}, 80, 1000)
	require.NoError(f.t, f.world.AddUnit(u))
	return u
}

func (f *fixture) spell(s *data.SpellInfo) *data.SpellInfo {
	f.repo.AddSpell(s)
	return s
}

func (f *fixture) cast(spellID, casterID, ownerID uint32) *Aura {
	f.t.Helper()
	a, _, err := f.mgr.TryRefreshStackOrCreate(CreateInfo{SpellID: spellID, CasterID: casterID, OwnerID: ownerID})
	require.NoError(f.t, err)
	return a
}

// buff returns a 10 second single-effect aura spell.
func buff(id uint32, t data.AuraType, base int32) *data.SpellInfo {
	return &data.SpellInfo{
		ID:         id,
		Name:       "buff",
		Duration:   10000,
		Attributes: data.AttrPositive,
		Effects: [data.MaxEffects]*data.SpellEffectInfo{
			{Effect: data.EffectApplyAura, AuraType: t, BasePoints: base},
		},
	}
}

func strength(u *model.Unit) float64 {
	add, _ := u.StatBonus(model.StatStrength)
	return add
}
