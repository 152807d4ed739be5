package data

// StackRule is the stacking rule inside a spell group.
type StackRule uint8

const (
	StackRuleDefault StackRule = iota
	StackRuleExclusive
	StackRuleExclusiveFromSameCaster
	StackRuleExclusiveSameEffect
	StackRuleExclusiveHighest
)

// SpellGroup is a named set of spells (by first rank) sharing a stack rule.
type SpellGroup struct {
	ID     uint32
	Rule   StackRule
	Spells []uint32
}
