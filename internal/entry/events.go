package entry

import "time"

// Event topics consumed and published by the tracker.
const (
	TopicScanResults  = "wifi.scan.results"  // payload *ScanResultsEvent
	TopicSavedConfigs = "wifi.configs.changed" // payload *SavedConfigsEvent
	TopicRadioState   = "wifi.radio.state"   // payload *RadioStateEvent
	TopicTick         = "wifi.tick"          // no payload
	TopicEntryChanged = "wifi.entry.changed" // payload *EntryChangedEvent
)

// ScanResultsEvent carries a full replacement batch of scan observations.
// ObservedAt stamps observations that carry no timestamp of their own.
type ScanResultsEvent struct {
	Observations []ScanObservation `json:"observations"`
	ObservedAt   time.Time         `json:"observed_at"`
}

// SavedConfigsEvent carries the full replacement set of saved configurations.
type SavedConfigsEvent struct {
	Configs []SavedConfig `json:"configs"`
}

// RadioStateEvent reports a radio subsystem state change.
type RadioStateEvent struct {
	State RadioState `json:"state"`
}

// EntryChangedEvent is published after every recompute, whether or not the
// projection differs from the previous one.
type EntryChangedEvent struct {
	Projection Projection `json:"projection"`
}
