package platform

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/netgazer/wifiwatch/internal/entry"
	"github.com/netgazer/wifiwatch/internal/event"
)

// Poller runs recurring WiFi scans on a configurable interval and publishes
// the results to the event bus. It also watches radio availability and
// announces transitions. It doubles as the tracker's initial-read source for
// both scan results and radio state.
type Poller struct {
	scanner  Scanner
	bus      *event.Bus
	interval time.Duration
	logger   *zap.Logger
	nowFunc  func() time.Time

	mu        sync.Mutex
	lastState entry.RadioState
	haveState bool

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewPoller creates a poller that scans every interval.
func NewPoller(scanner Scanner, bus *event.Bus, interval time.Duration, logger *zap.Logger) *Poller {
	return &Poller{
		scanner:  scanner,
		bus:      bus,
		interval: interval,
		logger:   logger,
		nowFunc:  time.Now,
		stopCh:   make(chan struct{}),
	}
}

// ScanResults performs an immediate scan. Used for the tracker's initial
// full read.
func (p *Poller) ScanResults(ctx context.Context) ([]entry.ScanObservation, error) {
	return p.scanner.Scan(ctx)
}

// RadioState reports the current radio availability. Used for the tracker's
// initial full read.
func (p *Poller) RadioState(_ context.Context) (entry.RadioState, error) {
	state := p.currentState()
	p.mu.Lock()
	p.lastState = state
	p.haveState = true
	p.mu.Unlock()
	return state, nil
}

// Run starts the ticker loop. It blocks until the context is cancelled or
// Stop is called. The caller should run this in a goroutine.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("scan poller started", zap.Duration("interval", p.interval))

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("scan poller stopped (context cancelled)")
			return
		case <-p.stopCh:
			p.logger.Info("scan poller stopped")
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// Stop signals the poller to exit its run loop.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
}

// poll is called on each tick: announce radio transitions, then scan and
// publish the full result batch.
func (p *Poller) poll(ctx context.Context) {
	now := p.nowFunc()

	state := p.currentState()
	p.mu.Lock()
	changed := !p.haveState || state != p.lastState
	p.lastState = state
	p.haveState = true
	p.mu.Unlock()

	if changed {
		p.logger.Info("radio state changed", zap.Bool("enabled", state == entry.RadioEnabled))
		p.bus.Publish(ctx, event.Event{
			Topic:     entry.TopicRadioState,
			Source:    "platform",
			Timestamp: now,
			Payload:   &entry.RadioStateEvent{State: state},
		})
	}

	if state == entry.RadioDisabled {
		return
	}

	observations, err := p.scanner.Scan(ctx)
	if err != nil {
		p.logger.Warn("wifi scan failed", zap.Error(err))
		return
	}

	p.logger.Debug("scan completed", zap.Int("observations", len(observations)))
	p.bus.Publish(ctx, event.Event{
		Topic:     entry.TopicScanResults,
		Source:    "platform",
		Timestamp: now,
		Payload:   &entry.ScanResultsEvent{Observations: observations, ObservedAt: now},
	})
}

func (p *Poller) currentState() entry.RadioState {
	if p.scanner.Available() {
		return entry.RadioEnabled
	}
	return entry.RadioDisabled
}
