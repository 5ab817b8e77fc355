package fftvis

import (
	"path/filepath"
	"testing"
)

func TestProfileManagerLoadMissingFileKeepsDefault(t *testing.T) {
	mgr := NewProfileManager(filepath.Join(t.TempDir(), "profiles.json"))
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := mgr.Get("default"); !ok {
		t.Fatal("expected default profile to survive a missing file")
	}
}

func TestProfileManagerSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	mgr := NewProfileManager(path)

	custom := DefaultProfile()
	custom.FPS = 60
	custom.Builder.BarCount = 128
	mgr.Put("podcast-bars", custom)

	if err := mgr.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := NewProfileManager(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	got, ok := reloaded.Get("podcast-bars")
	if !ok {
		t.Fatal("expected podcast-bars profile to round-trip")
	}
	if got.FPS != 60 || got.Builder.BarCount != 128 {
		t.Errorf("unexpected profile after reload: %+v", got)
	}
}

func TestProfileManagerList(t *testing.T) {
	mgr := NewProfileManager(filepath.Join(t.TempDir(), "profiles.json"))
	mgr.Put("music-dense", DefaultProfile())

	names := mgr.List()
	if len(names) != 2 {
		t.Fatalf("expected 2 profiles (default + music-dense), got %d: %v", len(names), names)
	}
}
