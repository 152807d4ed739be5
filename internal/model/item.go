package model

// ItemClass is the class of an item.
type ItemClass int32

const (
	ItemClassNone   ItemClass = -1
	ItemClassWeapon ItemClass = 2
	ItemClassArmor  ItemClass = 4
)

// Armor sub-classes used by equipment checks.
const (
	ArmorSubClassShield uint32 = 6
)

// EquipSlot is an equipment slot relevant to procs.
type EquipSlot uint8

const (
	SlotMainHand EquipSlot = iota
	SlotOffHand
	SlotRanged
)

// Item is an equipped item as seen by aura equipment gates.
type Item struct {
	ID       uint32
	Class    ItemClass
	SubClass uint32
	Broken   bool
}

// FitsMask reports whether the item belongs to class and its sub-class bit is set in mask.
func (i *Item) FitsMask(class ItemClass, subClassMask uint32) bool {
	if i == nil || i.Class != class {
		return false
	}
	return subClassMask&(1<<i.SubClass) != 0
}

// Equip puts an item into a slot (nil clears it).
func (u *Unit) Equip(slot EquipSlot, item *Item) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if item == nil {
		delete(u.equipment, slot)
		return
	}
	u.equipment[slot] = item
}

// EquippedItem returns the item in slot or nil.
func (u *Unit) EquippedItem(slot EquipSlot) *Item {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.equipment[slot]
}

// WeaponForAttack returns the weapon used by an attack type.
func (u *Unit) WeaponForAttack(att AttackType) *Item {
	switch att {
	case BaseAttack:
		return u.EquippedItem(SlotMainHand)
	case OffAttack:
		return u.EquippedItem(SlotOffHand)
	case RangedAttack:
		return u.EquippedItem(SlotRanged)
	}
	return nil
}

// UsableShield returns the off-hand shield if one is equipped and intact.
func (u *Unit) UsableShield() *Item {
	item := u.EquippedItem(SlotOffHand)
	if item == nil || item.Broken || item.Class != ItemClassArmor || item.SubClass != ArmorSubClassShield {
		return nil
	}
	return item
}
