package model

// Immunities are reference counted: the same immunity
// may be granted by several sources.

// ApplySchoolImmunity adds or drops immunity to every school in mask.
func (u *Unit) ApplySchoolImmunity(mask uint32, apply bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for bit := uint32(1); bit != 0 && bit <= mask; bit <<= 1 {
		if mask&bit != 0 {
			modCounter(u.schoolImmunity, bit, apply)
		}
	}
}

// ApplyMechanicImmunity adds or drops immunity to a mechanic.
func (u *Unit) ApplyMechanicImmunity(mechanic uint32, apply bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	modCounter(u.mechanicImmunity, mechanic, apply)
}

// ApplyAuraTypeImmunity adds or drops immunity to an aura type.
func (u *Unit) ApplyAuraTypeImmunity(auraType uint32, apply bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	modCounter(u.auraImmunity, auraType, apply)
}

// IsImmuneToSchool reports immunity to every school of mask.
// A zero mask is never immune.
func (u *Unit) IsImmuneToSchool(mask uint32) bool {
	if mask == 0 {
		return false
	}
	u.mu.RLock()
	defer u.mu.RUnlock()
	for bit := uint32(1); bit != 0 && bit <= mask; bit <<= 1 {
		if mask&bit != 0 && u.schoolImmunity[bit] == 0 {
			return false
		}
	}
	return true
}

// IsImmuneToMechanic reports immunity to a mechanic (0 = none, never immune).
func (u *Unit) IsImmuneToMechanic(mechanic uint32) bool {
	if mechanic == 0 {
		return false
	}
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.mechanicImmunity[mechanic] > 0
}

// IsImmuneToAuraType reports immunity to an aura type.
func (u *Unit) IsImmuneToAuraType(auraType uint32) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.auraImmunity[auraType] > 0
}

func modCounter(m map[uint32]int32, key uint32, apply bool) {
	if apply {
		m[key]++
		return
	}
	if m[key] <= 1 {
		delete(m, key)
		return
	}
	m[key]--
}
