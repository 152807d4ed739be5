package aura

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/udisondev/auracore/internal/condition"
	"github.com/udisondev/auracore/internal/config"
	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

var (
	ErrUnknownSpell = errors.New("unknown spell")
	ErrUnknownOwner = errors.New("unknown owner")
	ErrNoEffects    = errors.New("spell has no aura effects for this owner")
	ErrDeadOwner    = errors.New("owner is dead")
)

// SpellStore is the static spell data the core reads. *data.Repository implements it.
type SpellStore interface {
	Spell(id uint32) *data.SpellInfo
	ProcEntry(spellID uint32) *data.ProcEntry
	StackRule(a, b *data.SpellInfo) data.StackRule
	ConditionList(id uint32) []data.Condition
	ProcConditions(spellID uint32) []data.Condition
}

// SpellCaster casts spells triggered by auras (procs, periodic triggers).
type SpellCaster interface {
	CastTriggered(caster, target *model.Unit, spellID uint32, triggeredBy *Aura)
}

// Roller decides random outcomes. Chance takes a percentage.
type Roller interface {
	Chance(pct float64) bool
}

type randRoller struct{}

func (randRoller) Chance(pct float64) bool {
	if pct <= 0 {
		return false
	}
	if pct >= 100 {
		return true
	}
	return rand.Float64()*100 < pct
}

// Option configures a Manager.
type Option func(*Manager)

// WithSink sets the receiver of client state deltas.
func WithSink(s Sink) Option { return func(m *Manager) { m.sink = s } }

// WithRoller replaces the random source of proc rolls.
func WithRoller(r Roller) Option { return func(m *Manager) { m.roller = r } }

// WithSpellCaster routes triggered spells to an external caster.
// Without it, triggered spells that carry aura effects are applied directly.
func WithSpellCaster(c SpellCaster) Option { return func(m *Manager) { m.caster = c } }

// WithScripts attaches a script registry.
func WithScripts(r *ScriptRegistry) Option { return func(m *Manager) { m.scripts = r } }

// WithMeterProvider records lifecycle counters into mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(m *Manager) { m.meterProvider = mp }
}

type removal struct {
	aura     *Aura
	targetID uint32 // 0 removes the whole aura
	mode     RemoveMode
	keepAura bool // unbind only, even from the owner
}

// Manager owns every aura of a simulation. It is not safe for concurrent use:
// all calls must come from the simulation goroutine.
type Manager struct {
	cfg     config.Aura
	spells  SpellStore
	world   World
	sink    Sink
	roller  Roller
	caster  SpellCaster
	scripts *ScriptRegistry
	conds   *condition.Evaluator

	now       int64 // simulation time, ms
	carry     time.Duration
	nextID    ID
	nextDynID uint32

	auras   map[ID]*Aura
	units   map[uint32]*unitAuras
	dynObjs map[uint32]*Aura

	sched scheduler

	removals []removal
	draining bool
	depth    int
	dirty    map[uint32]struct{}
	freed    []*Aura

	// Single-target auras by caster.
	singleTarget map[uint32][]*Aura

	metrics       *metrics
	meterProvider metric.MeterProvider
}

// NewManager creates a Manager.
func NewManager(cfg config.Aura, spells SpellStore, world World, opts ...Option) *Manager {
	if cfg.VisibleSlots <= 0 || cfg.VisibleSlots > config.MaxVisibleSlots {
		cfg.VisibleSlots = config.MaxVisibleSlots
	}
	m := &Manager{
		cfg:          cfg,
		spells:       spells,
		world:        world,
		sink:         NullSink{},
		roller:       randRoller{},
		auras:        make(map[ID]*Aura),
		units:        make(map[uint32]*unitAuras),
		dynObjs:      make(map[uint32]*Aura),
		dirty:        make(map[uint32]struct{}),
		singleTarget: make(map[uint32][]*Aura),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.conds = condition.NewEvaluator(m)
	m.metrics = newMetrics(m.meterProvider)
	return m
}

// Now returns the simulation clock in ms.
func (m *Manager) Now() int64 { return m.now }

// Config returns the aura settings.
func (m *Manager) Config() config.Aura { return m.cfg }

// AuraByID returns a live aura.
func (m *Manager) AuraByID(id ID) (*Aura, bool) {
	a, ok := m.auras[id]
	if !ok || a.removed {
		return nil, false
	}
	return a, true
}

// OwnedAura returns the aura with the given identity owned by unitID.
func (m *Manager) OwnedAura(unitID uint32, k Key) *Aura {
	ua, ok := m.units[unitID]
	if !ok {
		return nil
	}
	return ua.owned[k]
}

// OwnedAuras returns auras owned by the unit ordered by id.
func (m *Manager) OwnedAuras(unitID uint32) []*Aura {
	ua, ok := m.units[unitID]
	if !ok {
		return nil
	}
	return ua.ownedSorted()
}

// AppliedAuras returns live bindings on the unit ordered by aura id.
func (m *Manager) AppliedAuras(unitID uint32) []*Application {
	ua, ok := m.units[unitID]
	if !ok {
		return nil
	}
	return ua.appliedSorted()
}

// VisibleAura returns the binding occupying a visible slot.
func (m *Manager) VisibleAura(unitID uint32, slot uint8) *Application {
	ua, ok := m.units[unitID]
	if !ok {
		return nil
	}
	return ua.visible[slot]
}

// HasAura reports a live binding of spellID on the unit.
func (m *Manager) HasAura(unitID, spellID uint32) bool {
	ua, ok := m.units[unitID]
	if !ok {
		return false
	}
	for _, app := range ua.applied {
		if app.aura.spell.ID == spellID && app.removeMode == RemoveNone {
			return true
		}
	}
	return false
}

// AuraCount returns the number of live auras.
func (m *Manager) AuraCount() int {
	n := 0
	for _, a := range m.auras {
		if !a.removed {
			n++
		}
	}
	return n
}

func (m *Manager) unitState(id uint32) *unitAuras {
	ua, ok := m.units[id]
	if !ok {
		ua = newUnitAuras(id)
		m.units[id] = ua
	}
	return ua
}

func (m *Manager) unit(id uint32) *model.Unit {
	if id == 0 {
		return nil
	}
	u, ok := m.world.Unit(id)
	if !ok {
		return nil
	}
	return u
}

// casterOf returns the caster unit or nil when it left the world.
func (m *Manager) casterOf(a *Aura) *model.Unit {
	return m.unit(a.key.CasterID)
}

// ownerOf returns the owning unit of a unit aura or nil.
func (m *Manager) ownerOf(a *Aura) *model.Unit {
	return m.unit(a.ownerUnitID())
}

func (m *Manager) markUpdate(app *Application) {
	app.needUpdate = true
	m.dirty[app.targetID] = struct{}{}
}

func (m *Manager) markAuraUpdate(a *Aura) {
	for _, app := range a.applications {
		m.markUpdate(app)
	}
}

// enter and leave bracket every public entry point; leaving the outermost
// enter and leave bracket public calls. The outermost leave drains removals
// and flushes client deltas.
func (m *Manager) enter() { m.depth++ }

func (m *Manager) leave() {
	m.depth--
	if m.depth > 0 {
		return
	}
	m.drainRemovals()
	m.flush()
}

// flush releases freed auras and sends pending deltas per unit.
func (m *Manager) flush() {
	for _, a := range m.freed {
		delete(m.auras, a.id)
		a.removedApps = nil
	}
	m.freed = m.freed[:0]

	if len(m.dirty) == 0 {
		return
	}
	ids := make([]uint32, 0, len(m.dirty))
	for id := range m.dirty {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	clear(m.dirty)

	for _, id := range ids {
		ua, ok := m.units[id]
		if !ok {
			continue
		}
		states := ua.pending
		ua.pending = nil

		slots := make([]uint8, 0, len(ua.visible))
		for slot, app := range ua.visible {
			if app.needUpdate {
				slots = append(slots, slot)
			}
		}
		slices.Sort(slots)
		for _, slot := range slots {
			app := ua.visible[slot]
			app.needUpdate = false
			app.clientFlags()
			states = append(states, buildState(app))
		}
		for _, app := range ua.applied {
			app.needUpdate = false
		}

		if len(states) > 0 {
			m.sink.Send(id, states)
		}
		if ua.empty() && m.unit(id) == nil {
			delete(m.units, id)
		}
	}
}

func (m *Manager) logger(a *Aura) *slog.Logger {
	return slog.With("spell", a.spell.ID, "aura", a.id, "caster", a.key.CasterID, "owner", a.ownerID)
}
