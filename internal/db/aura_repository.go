package db

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/auracore/internal/game/aura"
)

// AuraRepository stores the saved auras of units.
type AuraRepository struct {
	db *pgxpool.Pool
}

// NewAuraRepository creates a new AuraRepository.
func NewAuraRepository(db *pgxpool.Pool) *AuraRepository {
	return &AuraRepository{db: db}
}

const auraColumns = `spell_id, caster_id, cast_item_id, effect_mask, recalculate_mask, stack_amount, charges,
	duration, max_duration, amount0, amount1, amount2, base_amount0, base_amount1, base_amount2`

// Load returns a unit's auras in the order they were saved.
func (r *AuraRepository) Load(ctx context.Context, unitID uint32) ([]aura.SavedAura, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+auraColumns+` FROM unit_auras WHERE unit_id = $1 ORDER BY saved_order`, int64(unitID))
	if err != nil {
		return nil, fmt.Errorf("querying auras for unit %d: %w", unitID, err)
	}
	defer rows.Close()

	var out []aura.SavedAura
	for rows.Next() {
		var (
			spellID, casterID, castItemID        int64
			effectMask, recalcMask, stack, charg int16
			s                                    aura.SavedAura
		)
		if err := rows.Scan(
			&spellID, &casterID, &castItemID, &effectMask, &recalcMask, &stack, &charg,
			&s.Duration, &s.MaxDuration,
			&s.Amounts[0], &s.Amounts[1], &s.Amounts[2],
			&s.BaseAmounts[0], &s.BaseAmounts[1], &s.BaseAmounts[2],
		); err != nil {
			return nil, fmt.Errorf("scanning aura row: %w", err)
		}
		s.SpellID = uint32(spellID)
		s.CasterID = uint32(casterID)
		s.CastItemID = uint32(castItemID)
		s.EffectMask = uint8(effectMask)
		s.RecalculateMask = uint8(recalcMask)
		s.StackAmount = uint8(stack)
		s.Charges = uint8(charg)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating aura rows: %w", err)
	}
	return out, nil
}

// Save replaces a unit's auras in a single transaction.
func (r *AuraRepository) Save(ctx context.Context, unitID uint32, auras []aura.SavedAura) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		return saveUnit(ctx, tx, unitID, auras)
	})
}

func saveUnit(ctx context.Context, tx pgx.Tx, unitID uint32, auras []aura.SavedAura) error {
	if _, err := tx.Exec(ctx, `DELETE FROM unit_auras WHERE unit_id = $1`, int64(unitID)); err != nil {
		return fmt.Errorf("deleting auras of unit %d: %w", unitID, err)
	}

	batch := &pgx.Batch{}
	for i, s := range auras {
		batch.Queue(
			`INSERT INTO unit_auras (unit_id, saved_order, `+auraColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			int64(unitID), i,
			int64(s.SpellID), int64(s.CasterID), int64(s.CastItemID),
			int16(s.EffectMask), int16(s.RecalculateMask), int16(s.StackAmount), int16(s.Charges),
			s.Duration, s.MaxDuration,
			s.Amounts[0], s.Amounts[1], s.Amounts[2],
			s.BaseAmounts[0], s.BaseAmounts[1], s.BaseAmounts[2],
		)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting auras of unit %d: %w", unitID, err)
	}
	return nil
}

// Delete removes every aura of a unit.
func (r *AuraRepository) Delete(ctx context.Context, unitID uint32) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM unit_auras WHERE unit_id = $1`, int64(unitID)); err != nil {
		return fmt.Errorf("deleting auras of unit %d: %w", unitID, err)
	}
	return nil
}

// SaveAll saves the auras of several units in one transaction, in ascending id order.
func (r *AuraRepository) SaveAll(ctx context.Context, byUnit map[uint32][]aura.SavedAura) error {
	ids := slices.Sorted(maps.Keys(byUnit))
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, id := range ids {
			if err := saveUnit(ctx, tx, id, byUnit[id]); err != nil {
				return err
			}
		}
		return nil
	})
}
