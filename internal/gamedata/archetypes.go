package gamedata

// Archetype identifies a combatant's kind and selects its special ability.
type Archetype string

const (
	ArchetypeHero   Archetype = "hero"
	ArchetypeGoblin Archetype = "goblin"
	ArchetypeOrc    Archetype = "orc"
	ArchetypeElf    Archetype = "elf"
)

// String returns the archetype display name.
func (a Archetype) String() string {
	switch a {
	case ArchetypeHero:
		return "Hero"
	case ArchetypeGoblin:
		return "Goblin"
	case ArchetypeOrc:
		return "Orc"
	case ArchetypeElf:
		return "Elf"
	default:
		return "Unknown"
	}
}

// Valid reports whether a is one of the known archetypes.
func (a Archetype) Valid() bool {
	switch a {
	case ArchetypeHero, ArchetypeGoblin, ArchetypeOrc, ArchetypeElf:
		return true
	}
	return false
}

// ArchetypeDef defines the base stats of an archetype loaded from YAML.
type ArchetypeDef struct {
	ID      Archetype `yaml:"id"`      // Archetype identifier (e.g., "orc")
	Special string    `yaml:"special"` // Special ability display name (e.g., "Crushing Blow")
	Glyph   string    `yaml:"glyph"`   // Single character for rendering (e.g., "o")
	Color   string    `yaml:"color"`   // Hex color code (e.g., "#FF3232")
	Health  int       `yaml:"health"`  // Base maximum health
	Attack  int       `yaml:"attack"`  // Base attack power
	Defense int       `yaml:"defense"` // Base defense value
}

// GlyphRune returns the glyph as a rune for rendering.
func (d *ArchetypeDef) GlyphRune() rune {
	if len(d.Glyph) == 0 {
		return '?'
	}
	return rune(d.Glyph[0])
}

// ArchetypesFile represents the structure of archetypes.yaml.
type ArchetypesFile struct {
	Archetypes []ArchetypeDef `yaml:"archetypes"`
}

// LoadArchetypes loads archetype definitions from the embedded archetypes.yaml file.
func LoadArchetypes() ([]ArchetypeDef, error) {
	file, err := Load[ArchetypesFile]("archetypes.yaml")
	if err != nil {
		return nil, err
	}
	return file.Archetypes, nil
}
