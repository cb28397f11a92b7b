package version

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    ProtocolVersion
		wantErr bool
	}{
		{"1.0", ProtocolVersion{1, 0}, false},
		{"2.13", ProtocolVersion{2, 13}, false},
		{"65535.65535", ProtocolVersion{65535, 65535}, false},
		{"", ProtocolVersion{}, true},
		{"1", ProtocolVersion{}, true},
		{"1.0.0", ProtocolVersion{}, true},
		{".1", ProtocolVersion{}, true},
		{"1.", ProtocolVersion{}, true},
		{"a.b", ProtocolVersion{}, true},
		{"65536.0", ProtocolVersion{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	if got := (ProtocolVersion{Major: 3, Minor: 7}).String(); got != "3.7" {
		t.Errorf("String() = %q, want %q", got, "3.7")
	}
}

func TestCompatible(t *testing.T) {
	v := ProtocolVersion{1, 0}
	if !v.Compatible(ProtocolVersion{1, 9}) {
		t.Error("1.0 should be compatible with 1.9")
	}
	if v.Compatible(ProtocolVersion{2, 0}) {
		t.Error("1.0 should not be compatible with 2.0")
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		peer    string
		wantErr bool
	}{
		{"", false},
		{Current, false},
		{"1.5", false},
		{"2.0", true},
		{"junk", true},
	}
	for _, tt := range tests {
		err := Check(tt.peer)
		if (err != nil) != tt.wantErr {
			t.Errorf("Check(%q) error = %v, wantErr %v", tt.peer, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrIncompatible) {
			t.Errorf("Check(%q) error = %v, want ErrIncompatible", tt.peer, err)
		}
	}
}

func TestCurrentParses(t *testing.T) {
	if _, err := Parse(Current); err != nil {
		t.Fatalf("Current %q does not parse: %v", Current, err)
	}
}
