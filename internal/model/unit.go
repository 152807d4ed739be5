package model

import (
	"sync"
)

// UnitKind distinguishes controllable players from creatures and pets.
type UnitKind uint8

const (
	KindCreature UnitKind = iota
	KindPlayer
	KindPet
)

// PowerType identifies a power pool.
type PowerType uint8

const (
	PowerMana PowerType = iota
	PowerRage
	PowerFocus
	PowerEnergy
	PowerRunic
	MaxPowers
)

// PowerHealth is a pseudo power type used by spell costs paid in health.
const PowerHealth PowerType = 0xFE

// AttackType identifies the weapon hand of an attack.
type AttackType uint8

const (
	BaseAttack AttackType = iota
	OffAttack
	RangedAttack
	MaxAttackTypes
)

// ShapeshiftForm is a unit's current shapeshift form.
type ShapeshiftForm uint8

const (
	FormNone ShapeshiftForm = iota
	FormCat
	FormBear
	FormDireBear
	FormTravel
	FormMoonkin
)

// IsFeral reports whether the form fights without weapons.
func (f ShapeshiftForm) IsFeral() bool {
	return f == FormCat || f == FormBear || f == FormDireBear
}

// UnitState is a state that several auras may set at once.
// It is stored as a counter and stays active while the counter is above zero.
type UnitState uint8

const (
	StateStunned UnitState = iota
	StateRooted
	StateStealthed
	StateTrackingResources
	maxUnitStates
)

// Unit is a living creature in the world: a player, creature or pet.
// It extends WorldObject with health, power pools, level, relations and immunities.
type Unit struct {
	*WorldObject

	kind    UnitKind
	level   int32
	faction uint32

	health    int32
	maxHealth int32
	powers    [MaxPowers]int32
	maxPowers [MaxPowers]int32

	// Party/raid membership, maintained by party.Manager.
	groupID  int32
	subGroup uint8

	ownerID   uint32
	charmerID uint32

	flying     bool
	inWorld    bool
	form       ShapeshiftForm
	attackTime [MaxAttackTypes]int32

	equipment map[EquipSlot]*Item

	vehicleSeats int
	seatsTaken   int

	states [maxUnitStates]int32

	schoolImmunity   map[uint32]int32
	mechanicImmunity map[uint32]int32
	auraImmunity     map[uint32]int32

	modifiers map[uint64][]StatModifier

	mu sync.RWMutex
}

// NewUnit creates a unit at full health.
func NewUnit(objectID uint32, name string, kind UnitKind, loc Location, level, maxHealth int32) *Unit {
	if maxHealth < 1 {
		maxHealth = 1
	}
	u := &Unit{
		WorldObject:      NewWorldObject(objectID, name, loc),
		kind:             kind,
		level:            level,
		health:           maxHealth,
		maxHealth:        maxHealth,
		equipment:        make(map[EquipSlot]*Item),
		schoolImmunity:   make(map[uint32]int32),
		mechanicImmunity: make(map[uint32]int32),
		auraImmunity:     make(map[uint32]int32),
		modifiers:        make(map[uint64][]StatModifier),
	}
	for i := range u.attackTime {
		u.attackTime[i] = 2000
	}
	return u
}

// Kind returns the unit kind.
func (u *Unit) Kind() UnitKind { return u.kind }

// IsPlayer reports whether the unit is player controlled.
func (u *Unit) IsPlayer() bool { return u.kind == KindPlayer }

// Level returns the unit's level.
func (u *Unit) Level() int32 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.level
}

// SetLevel sets the level.
func (u *Unit) SetLevel(level int32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.level = level
}

// Health returns current health.
func (u *Unit) Health() int32 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.health
}

// MaxHealth returns maximum health.
func (u *Unit) MaxHealth() int32 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.maxHealth
}

// ModifyHealth changes health by delta, clamped to 0..maxHealth.
// Returns the actual change.
func (u *Unit) ModifyHealth(delta int32) int32 {
	u.mu.Lock()
	defer u.mu.Unlock()

	next := u.health + delta
	if next < 0 {
		next = 0
	}
	if next > u.maxHealth {
		next = u.maxHealth
	}
	applied := next - u.health
	u.health = next
	return applied
}

// IsAlive reports whether the unit is alive (health > 0).
func (u *Unit) IsAlive() bool {
	return u.Health() > 0
}

// SetMaxPower sets the cap of a power pool and fills it.
func (u *Unit) SetMaxPower(p PowerType, value int32) {
	if p >= MaxPowers {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.maxPowers[p] = value
	u.powers[p] = value
}

// Power returns the current pool value.
func (u *Unit) Power(p PowerType) int32 {
	if p == PowerHealth {
		return u.Health()
	}
	if p >= MaxPowers {
		return 0
	}
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.powers[p]
}

// MaxPower returns the pool maximum.
func (u *Unit) MaxPower(p PowerType) int32 {
	if p == PowerHealth {
		return u.MaxHealth()
	}
	if p >= MaxPowers {
		return 0
	}
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.maxPowers[p]
}

// ModifyPower changes the pool by delta, clamped to 0..max, and returns the actual change.
func (u *Unit) ModifyPower(p PowerType, delta int32) int32 {
	if p == PowerHealth {
		return u.ModifyHealth(delta)
	}
	if p >= MaxPowers {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	next := u.powers[p] + delta
	if next < 0 {
		next = 0
	}
	if next > u.maxPowers[p] {
		next = u.maxPowers[p]
	}
	applied := next - u.powers[p]
	u.powers[p] = next
	return applied
}

// Faction returns the faction template id.
func (u *Unit) Faction() uint32 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.faction
}

// SetFaction sets the faction template id.
func (u *Unit) SetFaction(f uint32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.faction = f
}

// IsFriendlyTo reports whether both units share a faction.
func (u *Unit) IsFriendlyTo(other *Unit) bool {
	if u == other {
		return true
	}
	return u.Faction() == other.Faction()
}

// IsHostileTo reports whether the units belong to different factions.
func (u *Unit) IsHostileTo(other *Unit) bool {
	return !u.IsFriendlyTo(other)
}

// Group returns party/raid membership: group id (0 = none) and sub-group.
func (u *Unit) Group() (int32, uint8) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.groupID, u.subGroup
}

// SetGroup is called by party.Manager on membership changes.
func (u *Unit) SetGroup(groupID int32, subGroup uint8) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.groupID = groupID
	u.subGroup = subGroup
}

// IsInRaidWith reports membership in the same group (any sub-group).
func (u *Unit) IsInRaidWith(other *Unit) bool {
	if u == other {
		return true
	}
	g1, _ := u.Group()
	g2, _ := other.Group()
	return g1 != 0 && g1 == g2
}

// IsInPartyWith reports membership in the same sub-group of the same group.
func (u *Unit) IsInPartyWith(other *Unit) bool {
	if u == other {
		return true
	}
	g1, s1 := u.Group()
	g2, s2 := other.Group()
	return g1 != 0 && g1 == g2 && s1 == s2
}

// OwnerID returns the summoner of a pet or 0.
func (u *Unit) OwnerID() uint32 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.ownerID
}

// SetOwnerID binds a pet to its summoner.
func (u *Unit) SetOwnerID(id uint32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.ownerID = id
}

// SetCharmerID marks the unit as mind-controlled by id (0 clears).
func (u *Unit) SetCharmerID(id uint32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.charmerID = id
}

// CharmerOrOwnerID returns the charmer if any, else the owner.
func (u *Unit) CharmerOrOwnerID() uint32 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.charmerID != 0 {
		return u.charmerID
	}
	return u.ownerID
}

// IsFlying reports whether the unit is airborne.
func (u *Unit) IsFlying() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.flying
}

// SetFlying sets the airborne flag.
func (u *Unit) SetFlying(v bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.flying = v
}

// IsInWorld reports whether the unit is registered in the world index.
func (u *Unit) IsInWorld() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.inWorld
}

// SetInWorld is maintained by world.World.
func (u *Unit) SetInWorld(v bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.inWorld = v
}

// Form returns the current shapeshift form.
func (u *Unit) Form() ShapeshiftForm {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.form
}

// SetForm sets the shapeshift form.
func (u *Unit) SetForm(f ShapeshiftForm) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.form = f
}

// AttackTime returns the weapon swing time in milliseconds.
func (u *Unit) AttackTime(att AttackType) int32 {
	if att >= MaxAttackTypes {
		return 0
	}
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.attackTime[att]
}

// SetAttackTime sets the weapon swing time in milliseconds.
func (u *Unit) SetAttackTime(att AttackType, ms int32) {
	if att >= MaxAttackTypes {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.attackTime[att] = ms
}

// SetVehicleSeats turns the unit into a vehicle with n seats (0 = not a vehicle).
func (u *Unit) SetVehicleSeats(n int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.vehicleSeats = n
	if u.seatsTaken > n {
		u.seatsTaken = n
	}
}

// IsVehicle reports whether the unit has seats.
func (u *Unit) IsVehicle() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.vehicleSeats > 0
}

// HasEmptySeat reports whether a vehicle has a free seat.
func (u *Unit) HasEmptySeat() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.seatsTaken < u.vehicleSeats
}

// ModifySeats occupies (delta > 0) or frees (delta < 0) vehicle seats.
func (u *Unit) ModifySeats(delta int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.seatsTaken += delta
	if u.seatsTaken < 0 {
		u.seatsTaken = 0
	}
	if u.seatsTaken > u.vehicleSeats {
		u.seatsTaken = u.vehicleSeats
	}
}

// ModifyState increments or decrements a state counter.
func (u *Unit) ModifyState(s UnitState, apply bool) {
	if s >= maxUnitStates {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if apply {
		u.states[s]++
		return
	}
	if u.states[s] > 0 {
		u.states[s]--
	}
}

// HasState reports whether at least one source keeps the state active.
func (u *Unit) HasState(s UnitState) bool {
	if s >= maxUnitStates {
		return false
	}
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.states[s] > 0
}
