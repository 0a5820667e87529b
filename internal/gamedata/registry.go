package gamedata

import (
	"errors"
	"fmt"
)

// ArchetypeRegistry holds loaded archetype definitions keyed by ID.
type ArchetypeRegistry struct {
	byID map[Archetype]*ArchetypeDef
	all  []ArchetypeDef
}

// NewArchetypeRegistry creates a registry from loaded archetype definitions.
func NewArchetypeRegistry(defs []ArchetypeDef) *ArchetypeRegistry {
	registry := &ArchetypeRegistry{
		byID: make(map[Archetype]*ArchetypeDef),
		all:  defs,
	}
	for i := range defs {
		registry.byID[defs[i].ID] = &defs[i]
	}
	return registry
}

// LoadArchetypeRegistry loads and creates a registry from the embedded archetypes.yaml.
func LoadArchetypeRegistry() (*ArchetypeRegistry, error) {
	defs, err := LoadArchetypes()
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, errors.New("no archetypes loaded from archetypes.yaml")
	}
	for _, d := range defs {
		if !d.ID.Valid() {
			return nil, fmt.Errorf("archetypes.yaml: unknown archetype %q", d.ID)
		}
		if d.Health < 1 || d.Attack < 0 || d.Defense < 0 {
			return nil, fmt.Errorf("archetypes.yaml: %s has invalid stats (health=%d attack=%d defense=%d)",
				d.ID, d.Health, d.Attack, d.Defense)
		}
	}
	return NewArchetypeRegistry(defs), nil
}

// MustLoadArchetypeRegistry loads a registry, panicking on error.
func MustLoadArchetypeRegistry() *ArchetypeRegistry {
	registry, err := LoadArchetypeRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the archetype definition with the given ID, or nil if not found.
func (r *ArchetypeRegistry) GetByID(id Archetype) *ArchetypeDef {
	return r.byID[id]
}

// All returns all archetype definitions.
func (r *ArchetypeRegistry) All() []ArchetypeDef {
	return r.all
}

// Count returns the number of archetypes in the registry.
func (r *ArchetypeRegistry) Count() int {
	return len(r.all)
}

// Catalog bundles everything a battle needs from the data files.
type Catalog struct {
	Archetypes *ArchetypeRegistry
	Roster     *RosterDef
	Timing     TimingDef
}

// LoadCatalog loads and cross-validates all embedded game data.
func LoadCatalog() (*Catalog, error) {
	archetypes, err := LoadArchetypeRegistry()
	if err != nil {
		return nil, err
	}
	roster, err := LoadRoster()
	if err != nil {
		return nil, err
	}
	if err := roster.Validate(archetypes); err != nil {
		return nil, fmt.Errorf("invalid roster.yaml: %w", err)
	}
	timing, err := LoadTiming()
	if err != nil {
		return nil, err
	}
	return &Catalog{Archetypes: archetypes, Roster: roster, Timing: timing}, nil
}

// MustLoadCatalog loads the catalog, panicking on error.
func MustLoadCatalog() *Catalog {
	catalog, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return catalog
}
