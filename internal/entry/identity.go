// Package entry implements the single-network reconciliation core: it
// ingests scan, saved-config, and radio-state updates and maintains one
// derived projection of the tracked network's current state.
package entry

import (
	"errors"
	"fmt"
	"strings"
)

// SecurityType classifies how a network authenticates clients.
type SecurityType int

const (
	SecurityNone SecurityType = iota // open network
	SecurityOWE                      // enhanced open
	SecurityWEP
	SecurityPSK // WPA/WPA2 personal
	SecuritySAE // WPA3 personal
	SecurityEAP // enterprise
)

var securityNames = map[SecurityType]string{
	SecurityNone: "none",
	SecurityOWE:  "owe",
	SecurityWEP:  "wep",
	SecurityPSK:  "psk",
	SecuritySAE:  "sae",
	SecurityEAP:  "eap",
}

// Valid reports whether s is one of the defined security types.
func (s SecurityType) Valid() bool {
	_, ok := securityNames[s]
	return ok
}

func (s SecurityType) String() string {
	if name, ok := securityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("security(%d)", int(s))
}

// MarshalText lets SecurityType round-trip through JSON as its name.
func (s SecurityType) MarshalText() ([]byte, error) {
	name, ok := securityNames[s]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSecurity, int(s))
	}
	return []byte(name), nil
}

// UnmarshalText parses a security name produced by MarshalText.
func (s *SecurityType) UnmarshalText(text []byte) error {
	parsed, err := ParseSecurity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Validation errors returned by NewIdentity and ParseSecurity.
var (
	ErrEmptySSID       = errors.New("ssid must not be empty")
	ErrUnknownSecurity = errors.New("unknown security type")
)

// ParseSecurity converts a config string to a SecurityType.
func ParseSecurity(s string) (SecurityType, error) {
	for sec, name := range securityNames {
		if name == strings.ToLower(strings.TrimSpace(s)) {
			return sec, nil
		}
	}
	return SecurityNone, fmt.Errorf("%w: %q", ErrUnknownSecurity, s)
}

// Identity is the immutable key naming the single network a tracker follows.
// The zero value is invalid; construct via NewIdentity.
type Identity struct {
	ssid      string
	security  SecurityType
	targetNew bool
}

// NewIdentity validates and builds an Identity. targetNew selects the
// precedence mode where a live scan outranks a saved configuration of the
// same name, used when representing a network the user is about to configure.
func NewIdentity(ssid string, security SecurityType, targetNew bool) (Identity, error) {
	if ssid == "" {
		return Identity{}, ErrEmptySSID
	}
	if _, ok := securityNames[security]; !ok {
		return Identity{}, fmt.Errorf("%w: %d", ErrUnknownSecurity, int(security))
	}
	return Identity{ssid: ssid, security: security, targetNew: targetNew}, nil
}

// SSID returns the tracked network name.
func (id Identity) SSID() string { return id.ssid }

// Security returns the identity's declared security classification.
func (id Identity) Security() SecurityType { return id.security }

// TargetingNew reports whether live scans take precedence over saved
// configurations when both match the SSID.
func (id Identity) TargetingNew() bool { return id.targetNew }

// Key returns the stable string form of the identity. It never changes for
// the lifetime of a tracker and is echoed in every projection.
func (id Identity) Key() string {
	return fmt.Sprintf("entry:%s,%s", id.ssid, id.security)
}
