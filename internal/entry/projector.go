package entry

import "time"

// LevelUnreachable is the signal level reported when no fresh observation
// corroborates the entry or the radio is off.
const LevelUnreachable = -1

// DefaultLevelThresholds maps RSSI to four quality buckets: a signal at or
// above threshold[i] reaches level i+1; anything weaker than all thresholds
// is level 0. The exact cut points are display tuning, not contract.
var DefaultLevelThresholds = []int{-88, -77, -66, -55}

// Projection is the derived current-state snapshot exposed to observers.
// It is recomputed atomically after every store mutation and never mutated
// in place.
type Projection struct {
	Key           string         `json:"key"`
	SSID          string         `json:"ssid"`
	SignalLevel   int            `json:"signal_level"`
	Saved         bool           `json:"saved"`
	SecurityTypes []SecurityType `json:"security_types"`
	ComputedAt    time.Time      `json:"computed_at"`
}

// Reachable reports whether the entry currently has a usable signal.
func (p Projection) Reachable() bool {
	return p.SignalLevel != LevelUnreachable
}

// Projector computes projections from store state. It is pure: given the
// same stores, identity, and time it always produces the same projection.
type Projector struct {
	thresholds []int // ascending dBm cut points
}

// NewProjector creates a projector with the given RSSI thresholds, or
// DefaultLevelThresholds when nil.
func NewProjector(thresholds []int) *Projector {
	if len(thresholds) == 0 {
		thresholds = DefaultLevelThresholds
	}
	cut := make([]int, len(thresholds))
	copy(cut, thresholds)
	return &Projector{thresholds: cut}
}

// Project computes the current projection for the identity.
//
// Precedence: unless the identity targets new networks, a saved config
// outranks live scans -- the displayed security type comes from the saved
// config, and the signal level only counts scans advertising the saved
// type. An identity targeting new networks reads its own security type from
// the air first, so an unsaved network can be represented even when a
// differently-secured saved network shares its name.
func (p *Projector) Project(id Identity, scans *ScanResultStore, saved *SavedConfigIndex, radio *RadioStateGate, now time.Time, maxAge time.Duration) Projection {
	proj := Projection{
		Key:         id.Key(),
		SSID:        id.SSID(),
		SignalLevel: LevelUnreachable,
		ComputedAt:  now,
	}

	cfg, haveSaved := saved.FindMatch(id)
	proj.Saved = haveSaved

	// Radio off is an absolute override: report the best-known security
	// type but no reachability.
	if !radio.IsEnabled() {
		proj.SecurityTypes = displayTypes(cfg, haveSaved, id)
		return proj
	}

	if haveSaved && !id.TargetingNew() {
		// Saved config wins: level derives only from scans that advertise
		// the saved config's own type.
		proj.SecurityTypes = []SecurityType{cfg.Security}
		proj.SignalLevel = p.strongestLevel(scans.fresh(id.SSID(), cfg.Security, now, maxAge))
		return proj
	}

	if fresh := scans.FreshMatches(id, now, maxAge); len(fresh) > 0 {
		proj.SecurityTypes = []SecurityType{id.Security()}
		proj.SignalLevel = p.strongestLevel(fresh)
		return proj
	}

	// Nothing fresh in the air: fall back to the saved config if present.
	proj.SecurityTypes = displayTypes(cfg, haveSaved, id)
	return proj
}

// displayTypes prefers the saved config's security classification over the
// identity's declared one.
func displayTypes(cfg SavedConfig, haveSaved bool, id Identity) []SecurityType {
	if haveSaved {
		return []SecurityType{cfg.Security}
	}
	return []SecurityType{id.Security()}
}

// strongestLevel quantizes the strongest observation's RSSI, or returns
// LevelUnreachable for an empty set.
func (p *Projector) strongestLevel(observations []ScanObservation) int {
	if len(observations) == 0 {
		return LevelUnreachable
	}
	best := observations[0].SignalDBm
	for _, obs := range observations[1:] {
		if obs.SignalDBm > best {
			best = obs.SignalDBm
		}
	}
	return p.level(best)
}

// level maps a dBm value to a discrete bucket. The mapping is monotonic:
// stronger signal never yields a lower level.
func (p *Projector) level(dbm int) int {
	level := 0
	for _, cut := range p.thresholds {
		if dbm >= cut {
			level++
		}
	}
	return level
}

// MaxLevel returns the highest level this projector can report.
func (p *Projector) MaxLevel() int {
	return len(p.thresholds)
}
