package dice

import "go.uber.org/zap"

// Roller wraps a Source with the roll shapes combat needs and logs every
// roll at debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller creates a Roller over src. A nil logger disables roll logging.
func NewRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Range returns a uniform integer in [lo, hi] inclusive.
// Precondition: lo <= hi.
func (r *Roller) Range(label string, lo, hi int) int {
	v := lo + r.src.Intn(hi-lo+1)
	r.logger.Debug("dice roll",
		zap.String("roll", label),
		zap.Int("min", lo),
		zap.Int("max", hi),
		zap.Int("result", v),
	)
	return v
}

// Chance reports whether a percent-chance roll succeeded.
// A roll in [0, 100) below percent is a success.
func (r *Roller) Chance(label string, percent int) bool {
	roll := r.src.Intn(100)
	ok := roll < percent
	r.logger.Debug("dice chance",
		zap.String("roll", label),
		zap.Int("percent", percent),
		zap.Int("result", roll),
		zap.Bool("success", ok),
	)
	return ok
}
