package gamedata

import "fmt"

// RosterEntry names one combatant of the battle line-up.
type RosterEntry struct {
	Name      string    `yaml:"name"`
	Archetype Archetype `yaml:"archetype"`
}

// RosterDef describes who fights: one hero and an ordered list of enemies.
type RosterDef struct {
	Hero    RosterEntry   `yaml:"hero"`
	Potions int           `yaml:"potions"`
	Enemies []RosterEntry `yaml:"enemies"`
}

// Validate checks the roster against the archetype registry.
func (r *RosterDef) Validate(archetypes *ArchetypeRegistry) error {
	if r.Hero.Archetype != ArchetypeHero {
		return fmt.Errorf("roster hero %q must use archetype %q, got %q", r.Hero.Name, ArchetypeHero, r.Hero.Archetype)
	}
	if r.Potions < 0 {
		return fmt.Errorf("roster potions must be >= 0, got %d", r.Potions)
	}
	if len(r.Enemies) == 0 {
		return fmt.Errorf("roster must list at least one enemy")
	}
	for _, e := range append([]RosterEntry{r.Hero}, r.Enemies...) {
		if e.Name == "" {
			return fmt.Errorf("roster entry with archetype %q has no name", e.Archetype)
		}
		if archetypes.GetByID(e.Archetype) == nil {
			return fmt.Errorf("roster entry %q uses unknown archetype %q", e.Name, e.Archetype)
		}
	}
	return nil
}

// LoadRoster loads the battle roster from the embedded roster.yaml file.
func LoadRoster() (*RosterDef, error) {
	roster, err := Load[RosterDef]("roster.yaml")
	if err != nil {
		return nil, err
	}
	return &roster, nil
}
