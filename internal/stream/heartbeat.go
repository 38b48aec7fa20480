package stream

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// PongPayload is published on the ping topic by the heartbeat.
const PongPayload = "pong"

// Heartbeat publishes PongPayload on the ping topic on a cron schedule.
type Heartbeat struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewHeartbeat schedules the heartbeat; spec is a cron expression such as
// "@every 3s".
func NewHeartbeat(pub Publisher, spec string, logger *zap.Logger) (*Heartbeat, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		pub.Publish(TopicPing, PongPayload)
	}); err != nil {
		return nil, fmt.Errorf("invalid heartbeat schedule %q: %w", spec, err)
	}
	return &Heartbeat{cron: c, logger: logger}, nil
}

// Start begins firing the heartbeat.
func (hb *Heartbeat) Start() {
	hb.cron.Start()
	hb.logger.Info("Heartbeat started")
}

// Stop halts the heartbeat and waits for a running tick to finish.
func (hb *Heartbeat) Stop() {
	<-hb.cron.Stop().Done()
	hb.logger.Info("Heartbeat stopped")
}
