// Package platform bridges OS wireless APIs into tracker events.
package platform

import (
	"context"

	"github.com/netgazer/wifiwatch/internal/entry"
)

// Scanner discovers nearby WiFi access points via OS APIs.
type Scanner interface {
	// Available reports whether a usable WiFi radio exists on this system.
	Available() bool
	// Scan returns the current set of visible access points as observations.
	Scan(ctx context.Context) ([]entry.ScanObservation, error)
}
