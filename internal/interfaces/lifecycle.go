package interfaces

import (
	"context"

	"github.com/KevinKickass/StormBridge/internal/bridge"
	"github.com/KevinKickass/StormBridge/internal/config"
	"github.com/KevinKickass/StormBridge/internal/metrics"
	"github.com/KevinKickass/StormBridge/internal/streaming"
)

// SystemStatus represents the current system state
type SystemStatus struct {
	State            string `json:"state"`
	Name             string `json:"name"`
	BridgeID         string `json:"bridge_id"`
	LoopRunning      bool   `json:"loop_running"`
	LoopSteps        uint64 `json:"loop_steps"`
	SensorCount      int    `json:"sensor_count"`
	NamedChannels    int    `json:"named_channels"`
	FrameSequence    uint64 `json:"frame_sequence"`
	ConnectedClients int    `json:"connected_clients"`
}

type LifecycleManager interface {
	Config() *config.Config
	Bridge() *bridge.Bridge
	Metrics() *metrics.Metrics
	Streamer() *streaming.FrameStreamer
	GetCurrentStatus() SystemStatus
	Shutdown(ctx context.Context) error
}
