package entry

import (
	"testing"
	"time"
)

var scanTestStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func mustIdentity(t *testing.T, ssid string, sec SecurityType, targetNew bool) Identity {
	t.Helper()
	id, err := NewIdentity(ssid, sec, targetNew)
	if err != nil {
		t.Fatalf("NewIdentity(%q, %v): %v", ssid, sec, err)
	}
	return id
}

func TestScanResultStore_ReplaceAllIsWholesale(t *testing.T) {
	s := NewScanResultStore()

	s.ReplaceAll([]ScanObservation{
		{SSID: "a", BSSID: "aa:aa", SignalDBm: -60, Capabilities: []SecurityType{SecurityPSK}},
		{SSID: "b", BSSID: "bb:bb", SignalDBm: -70, Capabilities: []SecurityType{SecurityPSK}},
	}, scanTestStart)
	if s.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", s.Size())
	}

	s.ReplaceAll([]ScanObservation{
		{SSID: "c", BSSID: "cc:cc", SignalDBm: -50, Capabilities: []SecurityType{SecuritySAE}},
	}, scanTestStart)
	if s.Size() != 1 {
		t.Errorf("Size() after replace = %d, want 1 (batches replace, not merge)", s.Size())
	}

	s.ReplaceAll(nil, scanTestStart)
	if s.Size() != 0 {
		t.Errorf("Size() after empty replace = %d, want 0", s.Size())
	}
}

func TestScanResultStore_KeepsNonMatchingObservations(t *testing.T) {
	// Observations for other networks are stored verbatim and filtered at
	// read time, not write time.
	s := NewScanResultStore()
	id := mustIdentity(t, "mine", SecurityPSK, false)

	s.ReplaceAll([]ScanObservation{
		{SSID: "other", SignalDBm: -40, Capabilities: []SecurityType{SecurityPSK}},
		{SSID: "mine", SignalDBm: -60, Capabilities: []SecurityType{SecurityPSK}},
	}, scanTestStart)

	if s.Size() != 2 {
		t.Errorf("Size() = %d, want 2", s.Size())
	}
	matches := s.FreshMatches(id, scanTestStart, time.Minute)
	if len(matches) != 1 {
		t.Fatalf("FreshMatches returned %d observations, want 1", len(matches))
	}
	if matches[0].SSID != "mine" {
		t.Errorf("matched SSID = %q, want %q", matches[0].SSID, "mine")
	}
}

func TestScanResultStore_FreshnessBoundary(t *testing.T) {
	const maxAge = 15 * time.Second
	s := NewScanResultStore()
	id := mustIdentity(t, "ssid", SecurityPSK, false)

	s.ReplaceAll([]ScanObservation{
		{SSID: "ssid", SignalDBm: -50, Capabilities: []SecurityType{SecurityPSK}, ObservedAt: scanTestStart},
	}, scanTestStart)

	tests := []struct {
		name      string
		now       time.Time
		wantFresh bool
	}{
		{"at observation time", scanTestStart, true},
		{"just before max age", scanTestStart.Add(maxAge - time.Millisecond), true},
		{"exactly at max age", scanTestStart.Add(maxAge), true},
		{"just past max age", scanTestStart.Add(maxAge + time.Millisecond), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := len(s.FreshMatches(id, tt.now, maxAge)) > 0
			if got != tt.wantFresh {
				t.Errorf("fresh at %v = %v, want %v", tt.now.Sub(scanTestStart), got, tt.wantFresh)
			}
		})
	}
}

func TestScanResultStore_SecurityFilterIsExact(t *testing.T) {
	s := NewScanResultStore()

	s.ReplaceAll([]ScanObservation{
		{SSID: "ssid", SignalDBm: -50, Capabilities: []SecurityType{SecurityPSK}},
		{SSID: "ssid", SignalDBm: -55, Capabilities: []SecurityType{SecurityPSK, SecuritySAE}},
	}, scanTestStart)

	// A PSK-only AP does not corroborate an SAE query; a transition-mode AP
	// advertising both does.
	saeMatches := s.fresh("ssid", SecuritySAE, scanTestStart, time.Minute)
	if len(saeMatches) != 1 {
		t.Fatalf("SAE matches = %d, want 1", len(saeMatches))
	}
	if saeMatches[0].SignalDBm != -55 {
		t.Errorf("SAE match signal = %d, want -55", saeMatches[0].SignalDBm)
	}

	pskMatches := s.fresh("ssid", SecurityPSK, scanTestStart, time.Minute)
	if len(pskMatches) != 2 {
		t.Errorf("PSK matches = %d, want 2", len(pskMatches))
	}
}

func TestScanResultStore_ZeroTimestampsGetBatchTime(t *testing.T) {
	s := NewScanResultStore()
	id := mustIdentity(t, "ssid", SecurityPSK, false)

	s.ReplaceAll([]ScanObservation{
		{SSID: "ssid", SignalDBm: -50, Capabilities: []SecurityType{SecurityPSK}},
	}, scanTestStart)

	matches := s.FreshMatches(id, scanTestStart, time.Second)
	if len(matches) != 1 {
		t.Fatalf("FreshMatches = %d, want 1", len(matches))
	}
	if !matches[0].ObservedAt.Equal(scanTestStart) {
		t.Errorf("ObservedAt = %v, want batch time %v", matches[0].ObservedAt, scanTestStart)
	}
}

func TestScanResultStore_OutOfOrderTimestampsTolerated(t *testing.T) {
	// A batch may carry an observation older than a previously seen one.
	// Staleness math uses absolute time, so the old observation is just
	// stale sooner; nothing is corrupted.
	s := NewScanResultStore()
	id := mustIdentity(t, "ssid", SecurityPSK, false)

	s.ReplaceAll([]ScanObservation{
		{SSID: "ssid", SignalDBm: -50, Capabilities: []SecurityType{SecurityPSK}, ObservedAt: scanTestStart},
	}, scanTestStart)
	s.ReplaceAll([]ScanObservation{
		{SSID: "ssid", SignalDBm: -50, Capabilities: []SecurityType{SecurityPSK}, ObservedAt: scanTestStart.Add(-time.Hour)},
	}, scanTestStart)

	if got := len(s.FreshMatches(id, scanTestStart, time.Minute)); got != 0 {
		t.Errorf("hour-old observation reported fresh, matches = %d", got)
	}
	if got := len(s.FreshMatches(id, scanTestStart.Add(-time.Hour), time.Minute)); got != 1 {
		t.Errorf("observation not found at its own timestamp, matches = %d", got)
	}
}
