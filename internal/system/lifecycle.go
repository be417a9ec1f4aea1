package system

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/KevinKickass/StormBridge/internal/api/rest"
	"github.com/KevinKickass/StormBridge/internal/api/websocket"
	"github.com/KevinKickass/StormBridge/internal/bridge"
	"github.com/KevinKickass/StormBridge/internal/config"
	"github.com/KevinKickass/StormBridge/internal/control"
	"github.com/KevinKickass/StormBridge/internal/interfaces"
	"github.com/KevinKickass/StormBridge/internal/layout"
	"github.com/KevinKickass/StormBridge/internal/metrics"
	"github.com/KevinKickass/StormBridge/internal/streaming"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// LifecycleManager owns the bridge and every component serving it.
type LifecycleManager struct {
	config   *config.Config
	bridge   *bridge.Bridge
	metrics  *metrics.Metrics
	streamer *streaming.FrameStreamer
	hub      *websocket.Hub
	loop     *control.Loop
	logger   *zap.Logger

	restServer *rest.Server
	grpcServer *grpc.Server

	stateMu      sync.RWMutex
	currentState SystemState
	lastError    string

	listenersMu     sync.RWMutex
	statusListeners []chan SystemStatus

	shutdownChan chan struct{}
	shutdownOnce sync.Once
}

// NewLifecycleManager wires a bridge named after the config. step drives
// the control loop; nil logs sensor readings each tick.
func NewLifecycleManager(cfg *config.Config, logger *zap.Logger, step control.StepFunc) *LifecycleManager {
	if step == nil {
		step = control.LogSensors(logger)
	}

	b := bridge.New(cfg.Server.Name)
	m := metrics.New()

	return &LifecycleManager{
		config:          cfg,
		bridge:          b,
		metrics:         m,
		streamer:        streaming.NewFrameStreamer(),
		hub:             websocket.NewHub(logger, m),
		loop:            control.NewLoop(b, step, cfg.Control.Interval, logger, m),
		logger:          logger,
		currentState:    StateInitializing,
		shutdownChan:    make(chan struct{}),
		statusListeners: make([]chan SystemStatus, 0),
	}
}

// Start loads the layout and brings up every server and the control loop.
func (lm *LifecycleManager) Start() error {
	lm.logger.Info("Starting StormBridge",
		zap.String("name", lm.bridge.Name),
		zap.String("bridge_id", lm.bridge.ID.String()))

	lm.broadcastStatus()

	if err := lm.loadLayout(); err != nil {
		lm.setError(fmt.Errorf("failed to load layout: %w", err))
		return err
	}

	go lm.hub.Run()
	_, frames := lm.streamer.Subscribe()
	go lm.hub.Forward(frames)

	if lm.config.Server.GRPCPort != 0 {
		if err := lm.startGRPCServer(); err != nil {
			lm.setError(fmt.Errorf("failed to start gRPC: %w", err))
			return err
		}
	}

	if err := lm.startRESTServer(); err != nil {
		lm.setError(fmt.Errorf("failed to start REST API: %w", err))
		return err
	}

	if err := lm.loop.Start(); err != nil {
		lm.setError(fmt.Errorf("failed to start control loop: %w", err))
		return err
	}

	lm.setState(StateRunning)

	lm.logger.Info("System started successfully",
		zap.String("http_addr", lm.config.Server.HTTPAddr()),
		zap.Int("grpc_port", lm.config.Server.GRPCPort),
		zap.Duration("control_interval", lm.config.Control.Interval))

	return nil
}

func (lm *LifecycleManager) loadLayout() error {
	path := lm.config.Layout.Path
	if path == "" {
		lm.logger.Info("No layout configured, starting with empty registries")
		return nil
	}

	loader, err := layout.NewLoader(lm.logger)
	if err != nil {
		return err
	}
	l, err := loader.Load(path)
	if err != nil {
		return err
	}
	if err := loader.Apply(lm.bridge, l); err != nil {
		return err
	}

	lm.logger.Info("Layout applied",
		zap.String("path", path),
		zap.String("layout", l.Name),
		zap.Int("sensors", len(l.Sensors)))
	return nil
}

// Shutdown gracefully shuts down the system. Only the first call does work;
// the bus stays readable afterwards.
func (lm *LifecycleManager) Shutdown(ctx context.Context) error {
	var shutdownErr error

	lm.shutdownOnce.Do(func() {
		lm.logger.Info("Shutting down system")

		lm.setState(StateStopping)

		shutdownErr = lm.gracefulShutdown(ctx)

		lm.setState(StateStopped)

		close(lm.shutdownChan)
	})

	return shutdownErr
}

// Done is closed once Shutdown has finished.
func (lm *LifecycleManager) Done() <-chan struct{} {
	return lm.shutdownChan
}

func (lm *LifecycleManager) gracefulShutdown(ctx context.Context) error {
	// 1. No more steps against the bus
	lm.loop.Stop()

	// 2. End frame subscriptions so Watch streams and the hub feed return
	lm.streamer.Close()

	var wg sync.WaitGroup
	errChan := make(chan error, 2)

	// 3. REST API Server graceful shutdown
	if lm.restServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := lm.restServer.Shutdown(ctx); err != nil {
				errChan <- fmt.Errorf("rest api shutdown failed: %w", err)
			}
		}()
	}

	// 4. gRPC Server graceful stop
	if lm.grpcServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lm.logger.Info("Stopping gRPC server")
			lm.grpcServer.GracefulStop()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
		lm.logger.Info("Graceful shutdown completed")
	case <-ctx.Done():
		lm.logger.Warn("Shutdown timeout, forcing stop")
		if lm.grpcServer != nil {
			lm.grpcServer.Stop()
		}
		err = fmt.Errorf("shutdown timeout exceeded")
	}

	// 5. Disconnect websocket clients
	lm.hub.Stop()

	if err != nil {
		return err
	}
	select {
	case err := <-errChan:
		return err
	default:
		return nil
	}
}

func (lm *LifecycleManager) startGRPCServer() error {
	lis, err := net.Listen("tcp", lm.config.Server.GRPCAddr())
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	lm.grpcServer = grpc.NewServer()

	service := streaming.NewChannelService(lm.bridge.Bus(), lm.streamer, lm.metrics)
	streaming.RegisterChannelServiceServer(lm.grpcServer, service)
	lm.logger.Info("Channel gRPC service registered")

	go func() {
		lm.logger.Info("gRPC server listening",
			zap.String("address", lis.Addr().String()),
			zap.String("services", streaming.ChannelServiceName))
		if err := lm.grpcServer.Serve(lis); err != nil {
			lm.logger.Error("gRPC server failed", zap.Error(err))
		}
	}()

	return nil
}

func (lm *LifecycleManager) startRESTServer() error {
	lm.restServer = rest.NewServer(lm.config, lm, lm.logger, lm.hub)
	return lm.restServer.Start()
}

func (lm *LifecycleManager) setState(state SystemState) {
	lm.stateMu.Lock()
	previous := lm.currentState
	if err := ValidateTransition(previous, state); err != nil {
		lm.stateMu.Unlock()
		lm.logger.Warn("Ignoring state change", zap.Error(err))
		return
	}
	lm.currentState = state
	lm.stateMu.Unlock()

	lm.hub.Broadcast(websocket.NewBridgeStateMessage(state.String(), previous.String()))
	lm.broadcastStatus()
}

func (lm *LifecycleManager) setError(err error) {
	lm.logger.Error("System error", zap.Error(err))

	lm.stateMu.Lock()
	lm.lastError = err.Error()
	lm.stateMu.Unlock()

	lm.setState(StateError)
}

// State returns the current lifecycle state.
func (lm *LifecycleManager) State() SystemState {
	lm.stateMu.RLock()
	defer lm.stateMu.RUnlock()
	return lm.currentState
}

// GetCurrentStatus returns current system status (Interface implementation)
func (lm *LifecycleManager) GetCurrentStatus() interfaces.SystemStatus {
	named := 0
	for _, entries := range lm.bridge.NamedChannels() {
		named += len(entries)
	}

	return interfaces.SystemStatus{
		State:            lm.State().String(),
		Name:             lm.bridge.Name,
		BridgeID:         lm.bridge.ID.String(),
		LoopRunning:      lm.loop.IsRunning(),
		LoopSteps:        lm.loop.Steps(),
		SensorCount:      len(lm.bridge.Sensors().Names()),
		NamedChannels:    named,
		FrameSequence:    lm.streamer.Sequence(),
		ConnectedClients: lm.hub.GetClientCount(),
	}
}

func (lm *LifecycleManager) getStatusInternal() SystemStatus {
	lm.stateMu.RLock()
	defer lm.stateMu.RUnlock()

	return SystemStatus{
		State:     lm.currentState,
		Timestamp: time.Now().Unix(),
		Error:     lm.lastError,
	}
}

func (lm *LifecycleManager) broadcastStatus() {
	status := lm.getStatusInternal()

	lm.listenersMu.RLock()
	defer lm.listenersMu.RUnlock()

	for _, listener := range lm.statusListeners {
		select {
		case listener <- status:
		default:
			// Channel full, skip
		}
	}
}

// SubscribeStatus subscribes to status updates
func (lm *LifecycleManager) SubscribeStatus() chan SystemStatus {
	ch := make(chan SystemStatus, 10)

	lm.listenersMu.Lock()
	lm.statusListeners = append(lm.statusListeners, ch)
	lm.listenersMu.Unlock()

	return ch
}

// UnsubscribeStatus unsubscribes from status updates
func (lm *LifecycleManager) UnsubscribeStatus(ch chan SystemStatus) {
	lm.listenersMu.Lock()
	defer lm.listenersMu.Unlock()

	for i, listener := range lm.statusListeners {
		if listener == ch {
			lm.statusListeners = append(lm.statusListeners[:i], lm.statusListeners[i+1:]...)
			close(ch)
			break
		}
	}
}

// Bridge returns the channel bridge
func (lm *LifecycleManager) Bridge() *bridge.Bridge {
	return lm.bridge
}

// Metrics returns the Prometheus collectors
func (lm *LifecycleManager) Metrics() *metrics.Metrics {
	return lm.metrics
}

// Streamer returns the exchange frame streamer
func (lm *LifecycleManager) Streamer() *streaming.FrameStreamer {
	return lm.streamer
}

// Config returns the configuration
func (lm *LifecycleManager) Config() *config.Config {
	return lm.config
}
