package data

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/auracore/internal/model"
)

func TestLoadUnits(t *testing.T) {
	t.Parallel()

	doc := `
units:
  - id: 1
    name: hero
    kind: player
    x: 10
    y: -20
    level: 60
    health: 500
    faction: 1
    powers:
      mana: 300
  - id: 2
    name: wolf
    health: 80
    owner: 1
    flying: true
groups:
  - members: [1, 2]
    raid: true
`
	loaded, err := LoadUnits(strings.NewReader(doc))
	require.NoError(t, err)
	units := loaded.Units
	require.Len(t, units, 2)
	assert.Equal(t, []GroupDef{{Members: []uint32{1, 2}, Raid: true}}, loaded.Groups)

	hero := units[0]
	assert.Equal(t, uint32(1), hero.ObjectID())
	assert.True(t, hero.IsPlayer())
	assert.Equal(t, int32(60), hero.Level())
	assert.Equal(t, int32(500), hero.Health())
	assert.Equal(t, int32(300), hero.Power(model.PowerMana))
	assert.Equal(t, 10.0, hero.Location().X)
	assert.Equal(t, uint32(1), hero.Faction())

	wolf := units[1]
	assert.Equal(t, model.KindCreature, wolf.Kind())
	assert.Equal(t, int32(1), wolf.Level())
	assert.Equal(t, uint32(1), wolf.OwnerID())
	assert.True(t, wolf.IsFlying())
}

func TestLoadUnits_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"missing id", "units:\n  - name: x\n"},
		{"duplicate id", "units:\n  - id: 1\n  - id: 1\n"},
		{"unknown kind", "units:\n  - id: 1\n    kind: dragon\n"},
		{"health is not a pool", "units:\n  - id: 1\n    powers:\n      health: 5\n"},
		{"empty group", "units:\n  - id: 1\ngroups:\n  - members: []\n"},
		{"unknown member", "units:\n  - id: 1\ngroups:\n  - members: [1, 9]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadUnits(strings.NewReader(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestLoadUnits_Empty(t *testing.T) {
	t.Parallel()

	loaded, err := LoadUnits(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, loaded.Units)
	assert.Empty(t, loaded.Groups)
}
