package gamedata

import "fmt"

// TimingDef holds the frame counts that gate turn flow.
type TimingDef struct {
	AttackFrames  int `yaml:"attackFrames"`  // Actor lunge forward and back
	HitFrames     int `yaml:"hitFrames"`     // Target shake
	HealFrames    int `yaml:"healFrames"`    // Heal sparkle
	MessageFrames int `yaml:"messageFrames"` // How long a battle message stays visible
	EnemyDelay    int `yaml:"enemyDelay"`    // Frames an enemy waits before acting
}

// Validate checks that every busy window is positive.
func (t TimingDef) Validate() error {
	if t.AttackFrames < 1 || t.HitFrames < 1 || t.HealFrames < 1 {
		return fmt.Errorf("animation frames must be >= 1, got attack=%d hit=%d heal=%d",
			t.AttackFrames, t.HitFrames, t.HealFrames)
	}
	if t.MessageFrames < 0 || t.EnemyDelay < 0 {
		return fmt.Errorf("message and enemy delay frames must be >= 0, got message=%d delay=%d",
			t.MessageFrames, t.EnemyDelay)
	}
	return nil
}

// LoadTiming loads frame timing from the embedded timing.yaml file.
func LoadTiming() (TimingDef, error) {
	timing, err := Load[TimingDef]("timing.yaml")
	if err != nil {
		return TimingDef{}, err
	}
	if err := timing.Validate(); err != nil {
		return TimingDef{}, fmt.Errorf("invalid timing.yaml: %w", err)
	}
	return timing, nil
}
