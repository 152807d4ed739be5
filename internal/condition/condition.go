// Package condition evaluates data-driven condition lists against units.
package condition

import (
	"log/slog"

	"github.com/udisondev/auracore/internal/data"
	"github.com/udisondev/auracore/internal/model"
)

// AuraLookup answers aura presence queries for ConditionAura.
type AuraLookup interface {
	HasAura(unitID, spellID uint32) bool
}

// Source is the evaluation context: the unit being tested and the unit the
// list is evaluated for (caster or aura owner). Invoker may be nil.
type Source struct {
	Target  *model.Unit
	Invoker *model.Unit
}

// Evaluator checks condition lists.
type Evaluator struct {
	auras AuraLookup
}

// NewEvaluator creates an Evaluator. auras may be nil; aura conditions then fail.
func NewEvaluator(auras AuraLookup) *Evaluator {
	return &Evaluator{auras: auras}
}

// Meets reports whether every condition holds. An empty list always holds.
func (e *Evaluator) Meets(conds []data.Condition, src Source) bool {
	if src.Target == nil {
		return len(conds) == 0
	}
	for _, c := range conds {
		if e.meets(c, src) == c.Negate {
			return false
		}
	}
	return true
}

func (e *Evaluator) meets(c data.Condition, src Source) bool {
	t := src.Target
	switch c.Type {
	case data.ConditionNone:
		return true
	case data.ConditionAura:
		return e.auras != nil && e.auras.HasAura(t.ObjectID(), uint32(c.Value1))
	case data.ConditionLevel:
		lvl := t.Level()
		if c.Value1 > 0 && lvl < c.Value1 {
			return false
		}
		return c.Value2 == 0 || lvl <= c.Value2
	case data.ConditionHealthPct:
		return int64(t.Health())*100 <= int64(c.Value1)*int64(t.MaxHealth())
	case data.ConditionUnitKind:
		return int32(t.Kind()) == c.Value1
	case data.ConditionAlive:
		return t.IsAlive()
	case data.ConditionInGroupWith:
		if src.Invoker == nil {
			return false
		}
		if c.Value1 == 0 {
			return t.IsInPartyWith(src.Invoker)
		}
		return t.IsInRaidWith(src.Invoker)
	case data.ConditionFlying:
		return t.IsFlying()
	default:
		slog.Warn("unknown condition type", "type", c.Type)
		return false
	}
}
