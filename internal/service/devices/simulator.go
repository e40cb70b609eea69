package devices

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hwlabel/labelstation/internal/domain/models"
)

const (
	// DefaultFlipProbability is the per-tick chance that a device toggles connectivity.
	DefaultFlipProbability = 0.2
	// DefaultMaxDriftKG bounds a single simulated scale reading.
	DefaultMaxDriftKG = 0.5
)

// WeightFeed receives simulated scale readings. It must drop readings while locked.
type WeightFeed interface {
	ApplyReading(deltaKG float64) bool
}

// Observer is told about every status change and reading.
type Observer interface {
	SetDeviceStatus(status models.DeviceStatus)
	RecordScaleReading(applied bool)
}

// Options configures a Simulator.
type Options struct {
	Feed            WeightFeed
	Observer        Observer
	Rand            func() float64
	Now             func() time.Time
	// FlipProbability is used as given, clamped to [0, 1]; config supplies the default.
	FlipProbability float64
	MaxDriftKG      float64
	Logger          *zap.Logger
}

// Simulator plays the printer and scale: connectivity flips at random and, while the scale
// is connected, each tick feeds a small weight delta. Ticks only have an effect between
// Start and Stop.
type Simulator struct {
	mu       sync.Mutex
	status   models.DeviceStatus
	running  bool
	feed     WeightFeed
	observer Observer
	rand     func() float64
	now      func() time.Time
	flipP    float64
	maxDrift float64
	logger   *zap.Logger
}

// NewSimulator returns a stopped simulator with both devices connected.
func NewSimulator(opts Options) *Simulator {
	s := &Simulator{
		feed:     opts.Feed,
		observer: opts.Observer,
		rand:     opts.Rand,
		now:      opts.Now,
		flipP:    opts.FlipProbability,
		maxDrift: opts.MaxDriftKG,
		logger:   opts.Logger,
	}
	if s.rand == nil {
		s.rand = rand.Float64
	}
	if s.now == nil {
		s.now = time.Now
	}
	// Zero is a valid probability: connectivity never changes.
	if s.flipP < 0 {
		s.flipP = 0
	}
	if s.flipP > 1 {
		s.flipP = 1
	}
	if s.maxDrift <= 0 {
		s.maxDrift = DefaultMaxDriftKG
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	s.status = models.DeviceStatus{
		Printer:   models.StatusConnected,
		Scale:     models.StatusConnected,
		UpdatedAt: s.now(),
	}
	return s
}

// Start enables ticks.
func (s *Simulator) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.logger.Info("device simulator started")
	if s.observer != nil {
		s.observer.SetDeviceStatus(s.status)
	}
}

// Stop disables ticks. A tick already holding the simulator finishes first; none run after
// Stop returns. Stop is idempotent.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.logger.Info("device simulator stopped")
}

// Running reports whether ticks are enabled.
func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Status returns the current connectivity of both devices.
func (s *Simulator) Status() models.DeviceStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Tick advances the simulation by one step.
func (s *Simulator) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}

	changed := false
	if s.rand() < s.flipP {
		s.status.Printer = flip(s.status.Printer)
		changed = true
	}
	if s.rand() < s.flipP {
		s.status.Scale = flip(s.status.Scale)
		changed = true
	}
	if changed {
		s.status.UpdatedAt = s.now()
		s.logger.Debug("device status changed",
			zap.String("printer", string(s.status.Printer)),
			zap.String("scale", string(s.status.Scale)))
		if s.observer != nil {
			s.observer.SetDeviceStatus(s.status)
		}
	}

	if s.status.Scale != models.StatusConnected || s.feed == nil {
		return
	}

	delta := (s.rand()*2 - 1) * s.maxDrift
	// The feed checks its lock when it applies the delta, not here.
	applied := s.feed.ApplyReading(delta)
	if s.observer != nil {
		s.observer.RecordScaleReading(applied)
	}
}

func flip(status models.ConnectionStatus) models.ConnectionStatus {
	if status == models.StatusConnected {
		return models.StatusDisconnected
	}
	return models.StatusConnected
}
