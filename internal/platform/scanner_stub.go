//go:build !linux

package platform

import (
	"context"

	"go.uber.org/zap"

	"github.com/netgazer/wifiwatch/internal/entry"
)

type stubScanner struct{}

// NewScanner returns a no-op scanner on unsupported platforms.
func NewScanner(_ *zap.Logger) Scanner { return &stubScanner{} }

// Available always returns false on unsupported platforms.
func (s *stubScanner) Available() bool { return false }

// Scan returns nil on unsupported platforms.
func (s *stubScanner) Scan(_ context.Context) ([]entry.ScanObservation, error) { return nil, nil }
