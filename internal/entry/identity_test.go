package entry

import (
	"errors"
	"testing"
)

func TestNewIdentity_Validation(t *testing.T) {
	tests := []struct {
		name     string
		ssid     string
		security SecurityType
		wantErr  error
	}{
		{"valid psk", "home", SecurityPSK, nil},
		{"valid open", "cafe", SecurityNone, nil},
		{"empty ssid", "", SecurityPSK, ErrEmptySSID},
		{"unknown security", "home", SecurityType(42), ErrUnknownSecurity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewIdentity(tt.ssid, tt.security, false)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewIdentity error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewIdentity: %v", err)
			}
			if id.SSID() != tt.ssid {
				t.Errorf("SSID() = %q, want %q", id.SSID(), tt.ssid)
			}
			if id.Security() != tt.security {
				t.Errorf("Security() = %v, want %v", id.Security(), tt.security)
			}
		})
	}
}

func TestIdentity_KeyIsStable(t *testing.T) {
	id, err := NewIdentity("ssid", SecurityPSK, false)
	if err != nil {
		t.Fatalf("NewIdentity: %v", err)
	}

	key := id.Key()
	if key == "" {
		t.Fatal("Key() returned empty string")
	}
	if id.Key() != key {
		t.Error("Key() not stable across calls")
	}

	// Targeting mode must not change the key: both modes name the same network.
	targeting, err := NewIdentity("ssid", SecurityPSK, true)
	if err != nil {
		t.Fatalf("NewIdentity: %v", err)
	}
	if targeting.Key() != key {
		t.Errorf("targeting identity key = %q, want %q", targeting.Key(), key)
	}
}

func TestParseSecurity(t *testing.T) {
	tests := []struct {
		input   string
		want    SecurityType
		wantErr bool
	}{
		{"psk", SecurityPSK, false},
		{"sae", SecuritySAE, false},
		{"none", SecurityNone, false},
		{"owe", SecurityOWE, false},
		{"wep", SecurityWEP, false},
		{"eap", SecurityEAP, false},
		{"PSK", SecurityPSK, false},
		{" sae ", SecuritySAE, false},
		{"wpa9", SecurityNone, true},
		{"", SecurityNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSecurity(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSecurity(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSecurity(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSecurityType_TextRoundTrip(t *testing.T) {
	for sec, name := range securityNames {
		b, err := sec.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", sec, err)
		}
		if string(b) != name {
			t.Errorf("MarshalText(%v) = %q, want %q", sec, b, name)
		}

		var parsed SecurityType
		if err := parsed.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", b, err)
		}
		if parsed != sec {
			t.Errorf("round trip %v -> %q -> %v", sec, b, parsed)
		}
	}
}
