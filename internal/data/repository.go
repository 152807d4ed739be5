package data

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/auracore/internal/model"
)

// ErrSpellNotFound is returned when a spell id is not in the store.
var ErrSpellNotFound = errors.New("spell not found")

// Repository is a read-only store of spell templates, proc entries, spell groups and conditions.
// It is never modified after loading and is safe for concurrent reads.
type Repository struct {
	spells         map[uint32]*SpellInfo
	procs          map[uint32]*ProcEntry
	groups         map[uint32]*SpellGroup
	groupsBySpell  map[uint32][]uint32 // first rank -> group ids
	conditions     map[uint32][]Condition
	procConditions map[uint32][]Condition
}

// NewRepository returns an empty repository. Use the Add* methods to fill it.
func NewRepository() *Repository {
	return &Repository{
		spells:         make(map[uint32]*SpellInfo),
		procs:          make(map[uint32]*ProcEntry),
		groups:         make(map[uint32]*SpellGroup),
		groupsBySpell:  make(map[uint32][]uint32),
		conditions:     make(map[uint32][]Condition),
		procConditions: make(map[uint32][]Condition),
	}
}

// AddSpell registers a spell template, normalising rank and effect indexes.
func (r *Repository) AddSpell(s *SpellInfo) {
	if s.FirstRankID == 0 {
		s.FirstRankID = s.ID
	}
	for i, eff := range s.Effects {
		if eff != nil {
			eff.Index = uint8(i)
		}
	}
	r.spells[s.ID] = s
}

// AddProcEntry registers a proc table entry.
func (r *Repository) AddProcEntry(p *ProcEntry) {
	r.procs[p.SpellID] = p
}

// AddSpellGroup registers a spell group. Members are first-rank ids.
func (r *Repository) AddSpellGroup(g *SpellGroup) {
	r.groups[g.ID] = g
	for _, id := range g.Spells {
		r.groupsBySpell[id] = append(r.groupsBySpell[id], g.ID)
	}
}

// AddConditions registers a condition list.
func (r *Repository) AddConditions(listID uint32, conds []Condition) {
	r.conditions[listID] = conds
}

// SetProcConditions registers conditions checked before a spell procs.
func (r *Repository) SetProcConditions(spellID uint32, conds []Condition) {
	r.procConditions[spellID] = conds
}

// Spell returns a spell template or nil.
func (r *Repository) Spell(id uint32) *SpellInfo {
	return r.spells[id]
}

// MustSpell returns a spell template or ErrSpellNotFound.
func (r *Repository) MustSpell(id uint32) (*SpellInfo, error) {
	s, ok := r.spells[id]
	if !ok {
		return nil, fmt.Errorf("spell %d: %w", id, ErrSpellNotFound)
	}
	return s, nil
}

// ProcEntry returns the proc entry of a spell or nil.
func (r *Repository) ProcEntry(spellID uint32) *ProcEntry {
	return r.procs[spellID]
}

// StackRule returns the rule of the first common group with a non-default rule.
func (r *Repository) StackRule(a, b *SpellInfo) StackRule {
	for _, gid := range r.groupsBySpell[a.FirstRankID] {
		g := r.groups[gid]
		if g.Rule == StackRuleDefault {
			continue
		}
		for _, member := range g.Spells {
			if member == b.FirstRankID {
				return g.Rule
			}
		}
	}
	return StackRuleDefault
}

// ConditionList returns a registered condition list or nil.
func (r *Repository) ConditionList(id uint32) []Condition {
	return r.conditions[id]
}

// ProcConditions returns conditions attached to proc of a spell.
func (r *Repository) ProcConditions(spellID uint32) []Condition {
	return r.procConditions[spellID]
}

// SpellCount returns the number of loaded spells.
func (r *Repository) SpellCount() int {
	return len(r.spells)
}

type fileDef struct {
	Spells         []spellDef         `yaml:"spells"`
	ProcEntries    []procDef          `yaml:"proc_entries"`
	SpellGroups    []groupDef         `yaml:"spell_groups"`
	Conditions     []conditionListDef `yaml:"conditions"`
	ProcConditions []procCondDef      `yaml:"proc_conditions"`
}

type spellDef struct {
	ID                       uint32             `yaml:"id"`
	Name                     string             `yaml:"name"`
	Family                   string             `yaml:"family"`
	FamilyFlags              FlagMask           `yaml:"family_flags"`
	FirstRank                uint32             `yaml:"first_rank"`
	Rank                     uint8              `yaml:"rank"`
	Attributes               []string           `yaml:"attributes"`
	Specific                 string             `yaml:"specific"`
	Duration                 *int32             `yaml:"duration"`
	StackAmount              uint8              `yaml:"stack_amount"`
	ProcCharges              uint8              `yaml:"proc_charges"`
	ProcChance               uint32             `yaml:"proc_chance"`
	ProcFlags                []string           `yaml:"proc_flags"`
	EquippedItemClass        *int32             `yaml:"equipped_item_class"`
	EquippedItemSubClassMask uint32             `yaml:"equipped_item_subclass_mask"`
	SchoolMask               uint32             `yaml:"school_mask"`
	Mechanic                 uint32             `yaml:"mechanic"`
	PowerType                string             `yaml:"power_type"`
	ManaPerSecond            int32              `yaml:"mana_per_second"`
	Effects                  []*SpellEffectInfo `yaml:"effects"`
}

type procDef struct {
	SpellID           uint32        `yaml:"spell_id"`
	SchoolMask        uint32        `yaml:"school_mask"`
	SpellFamily       string        `yaml:"spell_family"`
	SpellFamilyMask   FlagMask      `yaml:"spell_family_mask"`
	ProcFlags         []string      `yaml:"proc_flags"`
	SpellType         []string      `yaml:"spell_type"`
	SpellPhase        []string      `yaml:"spell_phase"`
	Hit               []string      `yaml:"hit"`
	Attributes        []string      `yaml:"attributes"`
	DisableEffectMask uint8         `yaml:"disable_effect_mask"`
	ProcsPerMinute    float64       `yaml:"ppm"`
	Chance            float64       `yaml:"chance"`
	Cooldown          time.Duration `yaml:"cooldown"`
	Charges           uint8         `yaml:"charges"`
}

type groupDef struct {
	ID     uint32   `yaml:"id"`
	Rule   string   `yaml:"rule"`
	Spells []uint32 `yaml:"spells"`
}

type conditionDef struct {
	Type   string `yaml:"type"`
	Value1 int32  `yaml:"value1"`
	Value2 int32  `yaml:"value2"`
	Negate bool   `yaml:"negate"`
}

type conditionListDef struct {
	ID         uint32         `yaml:"id"`
	Conditions []conditionDef `yaml:"conditions"`
}

type procCondDef struct {
	SpellID    uint32         `yaml:"spell_id"`
	Conditions []conditionDef `yaml:"conditions"`
}

// LoadFile loads a repository from a YAML file.
func LoadFile(path string) (*Repository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening spell data %s: %w", path, err)
	}
	defer f.Close()

	repo, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading spell data %s: %w", path, err)
	}
	return repo, nil
}

// Load builds a Repository from a YAML document.
func Load(r io.Reader) (*Repository, error) {
	var def fileDef
	if err := yaml.NewDecoder(r).Decode(&def); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}

	repo := NewRepository()
	for i := range def.Spells {
		s, err := buildSpell(&def.Spells[i])
		if err != nil {
			return nil, fmt.Errorf("spell %d: %w", def.Spells[i].ID, err)
		}
		if _, dup := repo.spells[s.ID]; dup {
			return nil, fmt.Errorf("spell %d: duplicate id", s.ID)
		}
		repo.AddSpell(s)
	}

	for i := range def.ProcEntries {
		p, err := buildProcEntry(&def.ProcEntries[i])
		if err != nil {
			return nil, fmt.Errorf("proc entry %d: %w", def.ProcEntries[i].SpellID, err)
		}
		s := repo.spells[p.SpellID]
		if s == nil {
			return nil, fmt.Errorf("proc entry %d: %w", p.SpellID, ErrSpellNotFound)
		}
		// Zero chance and charges fall back to the spell's own values.
		if p.Chance == 0 && p.ProcsPerMinute == 0 {
			p.Chance = float64(s.ProcChance)
		}
		if p.Charges == 0 {
			p.Charges = s.ProcCharges
		}
		repo.AddProcEntry(p)
	}

	// Spells with proc flags but no explicit entry get one from the spell itself.
	var generated int
	for id, s := range repo.spells {
		if s.ProcFlags == 0 || repo.procs[id] != nil {
			continue
		}
		repo.AddProcEntry(defaultProcEntry(s))
		generated++
	}

	for _, g := range def.SpellGroups {
		rule, err := lookupName(stackRuleNames, "stack rule", g.Rule)
		if err != nil {
			return nil, fmt.Errorf("spell group %d: %w", g.ID, err)
		}
		repo.AddSpellGroup(&SpellGroup{ID: g.ID, Rule: rule, Spells: g.Spells})
	}

	for _, cl := range def.Conditions {
		conds, err := buildConditions(cl.Conditions)
		if err != nil {
			return nil, fmt.Errorf("condition list %d: %w", cl.ID, err)
		}
		repo.AddConditions(cl.ID, conds)
	}
	for _, pc := range def.ProcConditions {
		conds, err := buildConditions(pc.Conditions)
		if err != nil {
			return nil, fmt.Errorf("proc conditions %d: %w", pc.SpellID, err)
		}
		repo.SetProcConditions(pc.SpellID, conds)
	}

	slog.Info("loaded spell data",
		"spells", len(repo.spells),
		"proc_entries", len(repo.procs),
		"generated_procs", generated,
		"spell_groups", len(repo.groups),
		"condition_lists", len(repo.conditions))
	return repo, nil
}

// buildSpell creates a SpellInfo from its YAML definition.
func buildSpell(def *spellDef) (*SpellInfo, error) {
	if def.ID == 0 {
		return nil, errors.New("id is required")
	}
	if len(def.Effects) > MaxEffects {
		return nil, fmt.Errorf("%d effects, max %d", len(def.Effects), MaxEffects)
	}

	family, err := lookupName(familyNames, "family", orDefault(def.Family, "generic"))
	if err != nil {
		return nil, err
	}
	attrs, err := parseMask(attrNames, "attribute", def.Attributes)
	if err != nil {
		return nil, err
	}
	specific, err := lookupName(specificNames, "specific", def.Specific)
	if err != nil {
		return nil, err
	}
	procFlags, err := parseMask(procFlagNames, "proc flag", def.ProcFlags)
	if err != nil {
		return nil, err
	}
	power, err := lookupName(powerNames, "power type", def.PowerType)
	if err != nil {
		return nil, err
	}

	s := &SpellInfo{
		ID:                       def.ID,
		Name:                     def.Name,
		Family:                   family,
		FamilyFlags:              def.FamilyFlags,
		FirstRankID:              def.FirstRank,
		Rank:                     max(def.Rank, 1),
		Attributes:               attrs,
		Specific:                 specific,
		Duration:                 -1,
		StackAmount:              def.StackAmount,
		ProcCharges:              def.ProcCharges,
		ProcChance:               def.ProcChance,
		ProcFlags:                procFlags,
		EquippedItemClass:        model.ItemClassNone,
		EquippedItemSubClassMask: def.EquippedItemSubClassMask,
		SchoolMask:               def.SchoolMask,
		Mechanic:                 def.Mechanic,
		PowerType:                power,
		ManaPerSecond:            def.ManaPerSecond,
	}
	if def.Duration != nil {
		s.Duration = *def.Duration
	}
	if def.EquippedItemClass != nil {
		s.EquippedItemClass = model.ItemClass(*def.EquippedItemClass)
	}
	for i, eff := range def.Effects {
		if eff == nil || eff.Effect == EffectNone {
			continue
		}
		s.Effects[i] = eff
	}
	return s, nil
}

func buildProcEntry(def *procDef) (*ProcEntry, error) {
	family, err := lookupName(familyNames, "family", orDefault(def.SpellFamily, "generic"))
	if err != nil {
		return nil, err
	}
	flags, err := parseMask(procFlagNames, "proc flag", def.ProcFlags)
	if err != nil {
		return nil, err
	}
	types, err := parseMask(spellTypeNames, "spell type", def.SpellType)
	if err != nil {
		return nil, err
	}
	phases, err := parseMask(phaseNames, "spell phase", def.SpellPhase)
	if err != nil {
		return nil, err
	}
	hits, err := parseMask(hitNames, "hit", def.Hit)
	if err != nil {
		return nil, err
	}
	attrs, err := parseMask(procAttrNames, "proc attribute", def.Attributes)
	if err != nil {
		return nil, err
	}

	p := &ProcEntry{
		SpellID:           def.SpellID,
		SchoolMask:        def.SchoolMask,
		SpellFamily:       family,
		SpellFamilyMask:   def.SpellFamilyMask,
		ProcFlags:         flags,
		SpellTypeMask:     types,
		SpellPhaseMask:    phases,
		HitMask:           hits,
		Attributes:        attrs,
		DisableEffectMask: def.DisableEffectMask,
		ProcsPerMinute:    def.ProcsPerMinute,
		Chance:            def.Chance,
		Cooldown:          def.Cooldown,
		Charges:           def.Charges,
	}
	if p.SpellPhaseMask == 0 && p.ProcFlags&ReqSpellPhaseProcMask != 0 {
		p.SpellPhaseMask = ProcPhaseHit
	}
	return p, nil
}

func defaultProcEntry(s *SpellInfo) *ProcEntry {
	p := &ProcEntry{
		SpellID:   s.ID,
		ProcFlags: s.ProcFlags,
		Chance:    float64(s.ProcChance),
		Charges:   s.ProcCharges,
	}
	if p.ProcFlags&ReqSpellPhaseProcMask != 0 {
		p.SpellPhaseMask = ProcPhaseHit
	}
	return p
}

func buildConditions(defs []conditionDef) ([]Condition, error) {
	conds := make([]Condition, 0, len(defs))
	for _, d := range defs {
		t, err := lookupName(conditionNames, "condition", d.Type)
		if err != nil {
			return nil, err
		}
		conds = append(conds, Condition{Type: t, Value1: d.Value1, Value2: d.Value2, Negate: d.Negate})
	}
	return conds, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
