package entry

import "time"

// ScanObservation is one reported sighting of a network.
type ScanObservation struct {
	SSID         string         `json:"ssid"`
	BSSID        string         `json:"bssid"`
	SignalDBm    int            `json:"signal_dbm"`
	Capabilities []SecurityType `json:"capabilities"`
	ObservedAt   time.Time      `json:"observed_at"`
}

// ScanResultStore holds the most recent batch of scan observations. Batches
// replace wholesale; observations that do not match the tracked identity are
// kept and filtered at read time so later identity-targeting queries still
// see them. The store is not safe for concurrent use: the tracker's worker
// goroutine is its only writer and reader.
type ScanResultStore struct {
	observations []ScanObservation
}

// NewScanResultStore creates an empty store.
func NewScanResultStore() *ScanResultStore {
	return &ScanResultStore{}
}

// ReplaceAll discards the prior batch and stores the new one verbatim.
// Observations with a zero ObservedAt are stamped with observedAt.
func (s *ScanResultStore) ReplaceAll(observations []ScanObservation, observedAt time.Time) {
	batch := make([]ScanObservation, len(observations))
	copy(batch, observations)
	for i := range batch {
		if batch[i].ObservedAt.IsZero() {
			batch[i].ObservedAt = observedAt
		}
	}
	s.observations = batch
}

// FreshMatches returns observations matching the identity's SSID and
// declared security whose age at now does not exceed maxAge.
func (s *ScanResultStore) FreshMatches(id Identity, now time.Time, maxAge time.Duration) []ScanObservation {
	return s.fresh(id.SSID(), id.Security(), now, maxAge)
}

// fresh filters by exact SSID, advertised security, and age. Staleness is a
// pure function of (now, maxAge); nothing is mutated or expired in place.
func (s *ScanResultStore) fresh(ssid string, security SecurityType, now time.Time, maxAge time.Duration) []ScanObservation {
	var matches []ScanObservation
	for _, obs := range s.observations {
		if obs.SSID != ssid {
			continue
		}
		if !scanAdvertises(obs.Capabilities, security) {
			continue
		}
		if now.Sub(obs.ObservedAt) > maxAge {
			continue
		}
		matches = append(matches, obs)
	}
	return matches
}

// Size returns the number of stored observations, matching or not.
func (s *ScanResultStore) Size() int {
	return len(s.observations)
}
