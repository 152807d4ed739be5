package data

// ConditionType is the kind of a condition table row.
type ConditionType uint8

const (
	ConditionNone ConditionType = iota
	ConditionAura               // target has aura Value1
	ConditionLevel              // Value1 <= level <= Value2 (0 = unbounded)
	ConditionHealthPct          // health percent <= Value1
	ConditionUnitKind           // model.UnitKind == Value1
	ConditionAlive
	ConditionInGroupWith // target is in party (Value1 = 0) or raid (Value1 = 1) with invoker
	ConditionFlying
)

// Condition is a single condition. A condition list holds when all of its entries hold.
type Condition struct {
	Type   ConditionType
	Value1 int32
	Value2 int32
	Negate bool
}
