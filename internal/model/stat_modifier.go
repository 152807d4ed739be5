package model

// Stat identifies a modifiable unit stat.
type Stat uint8

const (
	StatStrength Stat = iota
	StatAgility
	StatStamina
	StatIntellect
	StatSpirit
	StatSpeed
	StatArmor
)

// StatModType defines how a stat modifier is applied.
type StatModType int8

const (
	StatModAdd StatModType = iota // Additive bonus (e.g. +10 strength)
	StatModPct                    // Percent bonus (e.g. +30 speed%)
)

// StatModifier represents a single stat modification from an aura effect.
// Multiple modifiers can stack on the same stat.
type StatModifier struct {
	Stat  Stat
	Type  StatModType
	Value float64
}

// SetStatModifiers replaces all modifiers of one source.
// Source keys are opaque to the unit (aura id + effect index).
func (u *Unit) SetStatModifiers(source uint64, mods ...StatModifier) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(mods) == 0 {
		delete(u.modifiers, source)
		return
	}
	u.modifiers[source] = append([]StatModifier(nil), mods...)
}

// RemoveStatModifiers drops every modifier of one source.
func (u *Unit) RemoveStatModifiers(source uint64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.modifiers, source)
}

// StatBonus returns the aggregated bonus for a stat: the sum of additive
// modifiers and the product of percent modifiers as a multiplier.
func (u *Unit) StatBonus(stat Stat) (add float64, mul float64) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	mul = 1.0
	for _, mods := range u.modifiers {
		for _, mod := range mods {
			if mod.Stat != stat {
				continue
			}
			switch mod.Type {
			case StatModAdd:
				add += mod.Value
			case StatModPct:
				mul *= 1 + mod.Value/100
			}
		}
	}
	return add, mul
}

// SpeedRate returns the movement speed multiplier after modifiers.
func (u *Unit) SpeedRate() float64 {
	add, mul := u.StatBonus(StatSpeed)
	rate := (1 + add/100) * mul
	if rate < 0 {
		return 0
	}
	return rate
}
