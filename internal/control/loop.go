package control

import (
	"context"
	"sync"
	"time"

	"github.com/KevinKickass/StormBridge/internal/bridge"
	"github.com/KevinKickass/StormBridge/internal/metrics"
	"go.uber.org/zap"
)

// StepFunc is one iteration of the owning process: read sensors and named
// inputs, write named outputs.
type StepFunc func(ctx context.Context, b *bridge.Bridge) error

// Loop runs a StepFunc on a fixed interval against a bridge.
type Loop struct {
	bridge   *bridge.Bridge
	step     StepFunc
	interval time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
	steps    uint64
}

func NewLoop(b *bridge.Bridge, step StepFunc, interval time.Duration, logger *zap.Logger, m *metrics.Metrics) *Loop {
	return &Loop{
		bridge:   b,
		step:     step,
		interval: interval,
		logger:   logger,
		metrics:  m,
	}
}

// Start begins stepping. Calling Start on a running loop does nothing.
func (l *Loop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return nil
	}

	l.running = true
	l.stopChan = make(chan struct{})
	l.wg.Add(1)

	go l.run(l.stopChan)

	l.logger.Info("Control loop started", zap.Duration("interval", l.interval))

	return nil
}

// Stop waits for the current step to finish.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	close(l.stopChan)
	l.mu.Unlock()

	l.wg.Wait()

	l.logger.Info("Control loop stopped", zap.Uint64("steps", l.Steps()))
}

func (l *Loop) run(stop <-chan struct{}) {
	defer l.wg.Done()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			l.runStep(ctx)
		}
	}
}

func (l *Loop) runStep(ctx context.Context) {
	err := l.step(ctx, l.bridge)

	l.mu.Lock()
	l.steps++
	l.mu.Unlock()

	result := "ok"
	if err != nil {
		result = "error"
		l.logger.Warn("Control step failed", zap.Error(err))
	}
	if l.metrics != nil {
		l.metrics.LoopSteps.WithLabelValues(result).Inc()
	}
}

func (l *Loop) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Steps returns how many steps have run.
func (l *Loop) Steps() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.steps
}

// LogSensors is a StepFunc that logs every sensor's readings at debug level.
func LogSensors(logger *zap.Logger) StepFunc {
	return func(ctx context.Context, b *bridge.Bridge) error {
		for name, readings := range b.Sensors().ReadAll() {
			logger.Debug("Sensor readings",
				zap.String("sensor", name),
				zap.Any("readings", readings))
		}
		return nil
	}
}
