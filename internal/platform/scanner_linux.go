//go:build linux

package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mdlayher/wifi"
	"go.uber.org/zap"

	"github.com/netgazer/wifiwatch/internal/entry"
)

type linuxScanner struct {
	logger *zap.Logger
}

// NewScanner returns a Linux Scanner backed by nl80211.
func NewScanner(logger *zap.Logger) Scanner {
	return &linuxScanner{logger: logger}
}

// Available returns true if at least one station-mode WiFi interface exists.
func (s *linuxScanner) Available() bool {
	c, err := wifi.New()
	if err != nil {
		s.logger.Debug("wifi client unavailable", zap.Error(err))
		return false
	}
	defer c.Close()

	ifaces, err := c.Interfaces()
	if err != nil {
		s.logger.Debug("failed to enumerate wifi interfaces", zap.Error(err))
		return false
	}

	for _, ifi := range ifaces {
		if ifi.Type == wifi.InterfaceTypeStation {
			return true
		}
	}
	return false
}

// Scan discovers nearby WiFi access points via nl80211.
// Requires root or CAP_NET_ADMIN; returns an empty slice on permission errors.
func (s *linuxScanner) Scan(ctx context.Context) ([]entry.ScanObservation, error) {
	c, err := wifi.New()
	if err != nil {
		if isPermissionError(err) {
			s.logger.Warn("wifi scan requires root or CAP_NET_ADMIN, skipping")
			return nil, nil
		}
		return nil, fmt.Errorf("open wifi client: %w", err)
	}
	defer c.Close()

	ifaces, err := c.Interfaces()
	if err != nil {
		if isPermissionError(err) {
			s.logger.Warn("wifi interface enumeration requires elevated privileges, skipping")
			return nil, nil
		}
		return nil, fmt.Errorf("enumerate wifi interfaces: %w", err)
	}

	// Find the first station-mode interface for scanning.
	var ifi *wifi.Interface
	for _, candidate := range ifaces {
		if candidate.Type == wifi.InterfaceTypeStation {
			ifi = candidate
			break
		}
	}
	if ifi == nil {
		s.logger.Debug("no station-mode wifi interface found")
		return nil, nil
	}

	// Trigger an active scan. This is best-effort; if the kernel rejects it
	// (e.g. already scanning, or no permission) we fall back to cached results.
	if scanErr := c.Scan(ctx, ifi); scanErr != nil {
		if isPermissionError(scanErr) {
			s.logger.Warn("wifi active scan requires elevated privileges, using cached results")
		} else if !errors.Is(scanErr, wifi.ErrScanAborted) {
			s.logger.Debug("wifi active scan failed, using cached results", zap.Error(scanErr))
		}
	}

	bssList, err := c.AccessPoints(ifi)
	if err != nil {
		if isPermissionError(err) {
			s.logger.Warn("wifi BSS list requires elevated privileges, skipping")
			return nil, nil
		}
		return nil, fmt.Errorf("get access points: %w", err)
	}

	now := time.Now()
	observations := make([]entry.ScanObservation, 0, len(bssList))
	for _, bss := range bssList {
		if bss.BSSID == nil {
			continue
		}
		observations = append(observations, entry.ScanObservation{
			SSID:         bss.SSID,
			BSSID:        bss.BSSID.String(),
			SignalDBm:    int(bss.Signal / 100), // mBm to dBm
			Capabilities: rsnToCapabilities(bss.RSN),
			ObservedAt:   now,
		})
	}

	return observations, nil
}

// rsnToCapabilities converts RSN information to the security types the
// access point advertises. A transition-mode AP yields multiple types.
func rsnToCapabilities(rsn wifi.RSNInfo) []entry.SecurityType {
	if !rsn.IsInitialized() {
		return []entry.SecurityType{entry.SecurityNone}
	}

	var caps []entry.SecurityType
	seen := make(map[entry.SecurityType]bool)
	add := func(t entry.SecurityType) {
		if !seen[t] {
			seen[t] = true
			caps = append(caps, t)
		}
	}

	for _, akm := range rsn.AKMs {
		switch akm {
		case wifi.RSNAkmSAE, wifi.RSNAkmFTSAE:
			add(entry.SecuritySAE)
		case wifi.RSNAkmPSK, wifi.RSNAkmFTPSK:
			add(entry.SecurityPSK)
		case wifi.RSNAkm8021X, wifi.RSNAkmFT8021X:
			add(entry.SecurityEAP)
		}
	}
	if len(caps) > 0 {
		return caps
	}

	// Fall back to cipher analysis for older networks.
	for _, cipher := range rsn.PairwiseCiphers {
		switch cipher {
		case wifi.RSNCipherCCMP128, wifi.RSNCipherGCMP128, wifi.RSNCipherGCMP256, wifi.RSNCipherCCMP256:
			return []entry.SecurityType{entry.SecurityPSK}
		case wifi.RSNCipherTKIP:
			return []entry.SecurityType{entry.SecurityPSK}
		case wifi.RSNCipherWEP40, wifi.RSNCipherWEP104:
			return []entry.SecurityType{entry.SecurityWEP}
		}
	}

	return []entry.SecurityType{entry.SecurityNone}
}

// isPermissionError checks whether the error is a permission-related error.
func isPermissionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "permission denied") || strings.Contains(msg, "operation not permitted")
}
