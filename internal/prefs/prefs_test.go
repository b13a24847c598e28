package prefs

import (
	"path/filepath"
	"testing"
)

// openStore opens a store in a temp directory.
func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetUnset(t *testing.T) {
	s := openStore(t)

	_, ok, err := s.Get("missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("Get(missing) ok = true, want false")
	}
}

func TestSetGet(t *testing.T) {
	s := openStore(t)

	if err := s.Set(KeyTimeframe, "weekly"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get(KeyTimeframe)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || v != "weekly" {
		t.Errorf("Get = (%q, %v), want (weekly, true)", v, ok)
	}

	// Overwrite
	if err := s.Set(KeyTimeframe, "monthly"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, _, _ = s.Get(KeyTimeframe)
	if v != "monthly" {
		t.Errorf("Get after overwrite = %q, want monthly", v)
	}
}

func TestBoolRoundTrip(t *testing.T) {
	s := openStore(t)

	if got := s.GetBool(KeyUseMockData, true); !got {
		t.Error("GetBool default = false, want true")
	}

	if err := s.SetBool(KeyUseMockData, false); err != nil {
		t.Fatalf("SetBool: %v", err)
	}
	if got := s.GetBool(KeyUseMockData, true); got {
		t.Error("GetBool = true after SetBool(false)")
	}
}

func TestBoolMalformed(t *testing.T) {
	s := openStore(t)

	if err := s.Set(KeyUseMockData, "maybe"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := s.GetBool(KeyUseMockData, true); !got {
		t.Error("GetBool on malformed value should return default")
	}
}
