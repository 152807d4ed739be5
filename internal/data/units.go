package data

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/auracore/internal/model"
)

var unitKindNames = map[string]model.UnitKind{
	"": model.KindCreature, "creature": model.KindCreature, "player": model.KindPlayer, "pet": model.KindPet,
}

type unitsFileDef struct {
	Units  []unitDef  `yaml:"units"`
	Groups []GroupDef `yaml:"groups"`
}

// GroupDef describes a party formed at startup. The first member leads.
type GroupDef struct {
	Members []uint32 `yaml:"members"`
	Raid    bool     `yaml:"raid"`
}

// Units is the initial population of the world.
type Units struct {
	Units  []*model.Unit
	Groups []GroupDef
}

type unitDef struct {
	ID       uint32           `yaml:"id"`
	Name     string           `yaml:"name"`
	Kind     string           `yaml:"kind"`
	X        float64          `yaml:"x"`
	Y        float64          `yaml:"y"`
	Z        float64          `yaml:"z"`
	Level    int32            `yaml:"level"`
	Health   int32            `yaml:"health"`
	Faction  uint32           `yaml:"faction"`
	Owner    uint32           `yaml:"owner"`
	Flying   bool             `yaml:"flying"`
	Powers   map[string]int32 `yaml:"powers"`
}

// LoadUnitsFile reads the initial unit set from a YAML file.
func LoadUnitsFile(path string) (*Units, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening units %s: %w", path, err)
	}
	defer f.Close()

	units, err := LoadUnits(f)
	if err != nil {
		return nil, fmt.Errorf("loading units %s: %w", path, err)
	}
	return units, nil
}

// LoadUnits decodes a units document. Unit ids must be unique and non-zero,
// group members must reference listed units.
func LoadUnits(r io.Reader) (*Units, error) {
	var def unitsFileDef
	if err := yaml.NewDecoder(r).Decode(&def); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}

	seen := make(map[uint32]struct{}, len(def.Units))
	units := make([]*model.Unit, 0, len(def.Units))
	for i := range def.Units {
		d := &def.Units[i]
		if d.ID == 0 {
			return nil, fmt.Errorf("unit %q: id is required", d.Name)
		}
		if _, dup := seen[d.ID]; dup {
			return nil, fmt.Errorf("unit %d: duplicate id", d.ID)
		}
		seen[d.ID] = struct{}{}

		u, err := buildUnit(d)
		if err != nil {
			return nil, fmt.Errorf("unit %d: %w", d.ID, err)
		}
		units = append(units, u)
	}

	for i, g := range def.Groups {
		if len(g.Members) == 0 {
			return nil, fmt.Errorf("group %d: no members", i)
		}
		for _, id := range g.Members {
			if _, ok := seen[id]; !ok {
				return nil, fmt.Errorf("group %d: unknown unit %d", i, id)
			}
		}
	}
	return &Units{Units: units, Groups: def.Groups}, nil
}

func buildUnit(d *unitDef) (*model.Unit, error) {
	kind, err := lookupName(unitKindNames, "unit kind", d.Kind)
	if err != nil {
		return nil, err
	}
	level := d.Level
	if level <= 0 {
		level = 1
	}
	u := model.NewUnit(d.ID, d.Name, kind, model.NewLocation(d.X, d.Y, d.Z, 0), level, d.Health)
	u.SetFaction(d.Faction)
	u.SetOwnerID(d.Owner)
	u.SetFlying(d.Flying)
	for name, value := range d.Powers {
		p, err := lookupName(powerNames, "power", name)
		if err != nil {
			return nil, err
		}
		if p == model.PowerHealth {
			return nil, fmt.Errorf("power %q is not a pool", name)
		}
		u.SetMaxPower(p, value)
	}
	return u, nil
}
