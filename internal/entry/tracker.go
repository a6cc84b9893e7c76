package entry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/netgazer/wifiwatch/internal/event"
	"go.uber.org/zap"
)

// Defaults applied by NewTracker when the config leaves them unset.
const (
	DefaultMaxScanAge   = 15 * time.Second
	DefaultTickInterval = 10 * time.Second

	queueSize = 64
)

// ErrAlreadyStarted is returned by Start on an active tracker.
var ErrAlreadyStarted = errors.New("tracker already started")

// Config holds tracker tuning knobs.
type Config struct {
	// MaxScanAge is how long a scan observation stays fresh.
	MaxScanAge time.Duration
	// TickInterval is the period of the internal recompute tick that
	// surfaces staleness transitions. Zero disables the internal ticker;
	// external TopicTick events still work.
	TickInterval time.Duration
	// LevelThresholds are ascending dBm cut points for signal quantization.
	// Nil selects DefaultLevelThresholds.
	LevelThresholds []int
}

// ScanSource provides the current scan results for the initial full read.
type ScanSource interface {
	ScanResults(ctx context.Context) ([]ScanObservation, error)
}

// ConfigSource provides the current saved configurations for the initial
// full read.
type ConfigSource interface {
	SavedConfigs(ctx context.Context) ([]SavedConfig, error)
}

// RadioSource provides the current radio state for the initial full read.
type RadioSource interface {
	RadioState(ctx context.Context) (RadioState, error)
}

// Listener observes projection changes. It is invoked synchronously from
// the tracker's worker goroutine after every recompute and must not block.
type Listener func(Projection)

type updateKind int

const (
	updateScan updateKind = iota
	updateConfigs
	updateRadio
	updateTick
	updateSync
)

func (k updateKind) String() string {
	switch k {
	case updateScan:
		return "scan"
	case updateConfigs:
		return "configs"
	case updateRadio:
		return "radio"
	case updateTick:
		return "tick"
	default:
		return "sync"
	}
}

type update struct {
	kind    updateKind
	scan    *ScanResultsEvent
	configs *SavedConfigsEvent
	radio   *RadioStateEvent
	done    chan struct{} // updateSync only
}

// Tracker reconciles scan, saved-config, and radio-state updates for a
// single identity into a live projection. All store mutation and
// recomputation happens on one worker goroutine; bus deliveries from any
// number of publishers are serialized through a single queue in arrival
// order.
type Tracker struct {
	id        Identity
	cfg       Config
	scans     *ScanResultStore
	saved     *SavedConfigIndex
	radio     *RadioStateGate
	projector *Projector
	bus       *event.Bus
	listener  Listener
	logger    *zap.Logger
	nowFunc   func() time.Time

	mu      sync.RWMutex
	current Projection

	stateMu sync.Mutex
	active  bool
	queue   chan update
	stopCh  chan struct{}
	done    chan struct{}
	unsubs  []func()
}

// NewTracker creates an inactive tracker for the given identity. The
// identity must come from NewIdentity, so it is already validated.
func NewTracker(id Identity, cfg Config, bus *event.Bus, logger *zap.Logger) *Tracker {
	if cfg.MaxScanAge <= 0 {
		cfg.MaxScanAge = DefaultMaxScanAge
	}
	if cfg.TickInterval < 0 {
		cfg.TickInterval = 0
	}

	t := &Tracker{
		id:        id,
		cfg:       cfg,
		scans:     NewScanResultStore(),
		saved:     NewSavedConfigIndex(),
		radio:     NewRadioStateGate(),
		projector: NewProjector(cfg.LevelThresholds),
		bus:       bus,
		logger:    logger,
		nowFunc:   time.Now,
	}
	t.current = Projection{
		Key:         id.Key(),
		SSID:        id.SSID(),
		SignalLevel: LevelUnreachable,
	}
	return t
}

// SetListener registers the projection observer. Must be called before Start.
func (t *Tracker) SetListener(l Listener) {
	t.listener = l
}

// Projection returns the most recently computed projection. After Stop the
// last projection remains readable, frozen, until the tracker is restarted.
func (t *Tracker) Projection() Projection {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Start transitions the tracker to active: it populates the stores from an
// initial full read of the given sources (any of which may be nil),
// computes the first projection, subscribes to bus topics, and starts the
// worker. Source read failures are logged and tolerated; the corresponding
// store starts empty.
func (t *Tracker) Start(ctx context.Context, scanSrc ScanSource, cfgSrc ConfigSource, radioSrc RadioSource) error {
	t.stateMu.Lock()
	defer t.stateMu.Unlock()
	if t.active {
		return ErrAlreadyStarted
	}

	now := t.nowFunc()
	if scanSrc != nil {
		if observations, err := scanSrc.ScanResults(ctx); err != nil {
			t.logger.Warn("initial scan read failed", zap.Error(err))
		} else {
			t.scans.ReplaceAll(observations, now)
		}
	}
	if cfgSrc != nil {
		if configs, err := cfgSrc.SavedConfigs(ctx); err != nil {
			t.logger.Warn("initial saved-config read failed", zap.Error(err))
		} else {
			t.saved.ReplaceAll(configs)
		}
	}
	if radioSrc != nil {
		if state, err := radioSrc.RadioState(ctx); err != nil {
			t.logger.Warn("initial radio state read failed", zap.Error(err))
		} else {
			t.radio.Set(state)
		}
	}

	t.queue = make(chan update, queueSize)
	t.stopCh = make(chan struct{})
	t.done = make(chan struct{})

	// First projection before any event can arrive.
	t.recompute("start")

	t.subscribe()

	go t.run()
	if t.cfg.TickInterval > 0 {
		go t.tickLoop()
	}

	t.active = true
	t.logger.Info("tracker started",
		zap.String("key", t.id.Key()),
		zap.Duration("max_scan_age", t.cfg.MaxScanAge),
		zap.Duration("tick_interval", t.cfg.TickInterval),
	)
	return nil
}

// Stop transitions the tracker to inactive. Queued but unprocessed events
// are dropped; an event whose mutation is already underway completes first.
// Safe to call at any time; a no-op when not active.
func (t *Tracker) Stop() {
	t.stateMu.Lock()
	defer t.stateMu.Unlock()
	if !t.active {
		return
	}

	for _, unsub := range t.unsubs {
		unsub()
	}
	t.unsubs = nil

	close(t.stopCh)
	<-t.done
	t.active = false
	t.logger.Info("tracker stopped", zap.String("key", t.id.Key()))
}

// subscribe wires bus topics into the worker queue. The closures capture
// this activation's channels so deliveries racing a restart cannot cross
// generations.
func (t *Tracker) subscribe() {
	if t.bus == nil {
		return
	}
	queue, stop := t.queue, t.stopCh

	enqueue := func(u update) {
		select {
		case <-stop:
			// Dropped: no recompute starts after stop.
		case queue <- u:
		}
	}

	t.unsubs = append(t.unsubs,
		t.bus.Subscribe(TopicScanResults, func(_ context.Context, e event.Event) {
			payload, ok := e.Payload.(*ScanResultsEvent)
			if !ok {
				return
			}
			enqueue(update{kind: updateScan, scan: payload})
		}),
		t.bus.Subscribe(TopicSavedConfigs, func(_ context.Context, e event.Event) {
			payload, ok := e.Payload.(*SavedConfigsEvent)
			if !ok {
				return
			}
			enqueue(update{kind: updateConfigs, configs: payload})
		}),
		t.bus.Subscribe(TopicRadioState, func(_ context.Context, e event.Event) {
			payload, ok := e.Payload.(*RadioStateEvent)
			if !ok {
				return
			}
			enqueue(update{kind: updateRadio, radio: payload})
		}),
		t.bus.Subscribe(TopicTick, func(_ context.Context, _ event.Event) {
			enqueue(update{kind: updateTick})
		}),
	)
}

// run is the worker loop: the only goroutine that mutates the stores.
func (t *Tracker) run() {
	defer close(t.done)
	for {
		// Prefer stop over draining the queue.
		select {
		case <-t.stopCh:
			return
		default:
		}
		select {
		case <-t.stopCh:
			return
		case u := <-t.queue:
			t.apply(u)
		}
	}
}

// apply mutates the store the update targets, then recomputes. An update
// carrying no meaningful change still recomputes: recomputation is
// idempotent and side-effect-free beyond notification.
func (t *Tracker) apply(u update) {
	switch u.kind {
	case updateScan:
		observedAt := u.scan.ObservedAt
		if observedAt.IsZero() {
			observedAt = t.nowFunc()
		}
		t.scans.ReplaceAll(u.scan.Observations, observedAt)
	case updateConfigs:
		t.saved.ReplaceAll(u.configs.Configs)
	case updateRadio:
		t.radio.Set(u.radio.State)
	case updateTick:
		// Recompute with current time only.
	case updateSync:
		close(u.done)
		return
	}
	trackerEventsTotal.WithLabelValues(u.kind.String()).Inc()
	t.recompute(u.kind.String())
}

// recompute projects the current store state, swaps the snapshot atomically,
// and notifies the listener and the bus.
func (t *Tracker) recompute(reason string) {
	now := t.nowFunc()
	proj := t.projector.Project(t.id, t.scans, t.saved, t.radio, now, t.cfg.MaxScanAge)

	t.mu.Lock()
	t.current = proj
	t.mu.Unlock()

	recordProjection(proj)

	if t.listener != nil {
		t.listener(proj)
	}
	if t.bus != nil {
		t.bus.Publish(context.Background(), event.Event{
			Topic:     TopicEntryChanged,
			Source:    "entry",
			Timestamp: now,
			Payload:   &EntryChangedEvent{Projection: proj},
		})
	}

	t.logger.Debug("projection recomputed",
		zap.String("reason", reason),
		zap.Int("level", proj.SignalLevel),
		zap.Bool("saved", proj.Saved),
	)
}

// tickLoop feeds periodic recompute ticks into the queue so a fresh
// observation can transition to stale without a new incoming event.
func (t *Tracker) tickLoop() {
	ticker := time.NewTicker(t.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
			select {
			case <-t.stopCh:
				return
			case t.queue <- update{kind: updateTick}:
			}
		}
	}
}

// flush blocks until every update queued before it has been processed.
// Test hook.
func (t *Tracker) flush() {
	done := make(chan struct{})
	select {
	case <-t.stopCh:
		return
	case t.queue <- update{kind: updateSync, done: done}:
	}
	select {
	case <-done:
	case <-t.stopCh:
	}
}
