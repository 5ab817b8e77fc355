package fftvis

import (
	"encoding/json"
	"os"
	"sync"
)

// EncodeProfile bundles a FrameBuilder configuration with the encoder-level
// settings (frame rate, cascade mask, quantize level, worker count) needed
// to produce a .fvz file. Profiles are named so the CLI and batch encoder
// can share presets instead of re-specifying flags on every run.
type EncodeProfile struct {
	Name            string          `json:"name"`
	Builder         BuilderConfig   `json:"builder"`
	FPS             int             `json:"fps"`
	CompressionMask CompressionMask `json:"compressionMask"`
	QuantizeLevel   QuantizeLevel   `json:"quantizeLevel"`
	Workers         int             `json:"workers,omitempty"`

	// Compressor overrides the default Zstd implementation. Nil means
	// ZstdCompress. Never persisted.
	Compressor Compressor `json:"-"`
}

// DefaultProfile returns the baseline encode profile: a 64-bar log-mapped
// spectrum at 30fps, fully compressed (delta + 16-bit quantize + zstd).
func DefaultProfile() EncodeProfile {
	return EncodeProfile{
		Name:            "default",
		Builder:         DefaultBuilderConfig(),
		FPS:             30,
		CompressionMask: MaskZstd | MaskQuant | MaskDelta,
		QuantizeLevel:   Quantize16,
	}
}

// ProfileManager persists a set of named EncodeProfiles as a single JSON
// file on disk, with Load/Save/Get/Put operations guarded by an RWMutex
// so concurrent CLI and batch callers can share one instance.
type ProfileManager struct {
	mu       sync.RWMutex
	path     string
	profiles map[string]EncodeProfile
}

// NewProfileManager creates a manager backed by the JSON file at path. It
// does not read the file; call Load for that.
func NewProfileManager(path string) *ProfileManager {
	return &ProfileManager{
		path:     path,
		profiles: map[string]EncodeProfile{"default": DefaultProfile()},
	}
}

// Load reads profiles from disk, replacing the in-memory set. A missing
// file is not an error; the manager keeps its current (default) profiles.
func (m *ProfileManager) Load() error {
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return newErr(ErrIOFailed, "reading profile store", err)
	}

	var profiles map[string]EncodeProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return newErr(ErrIOFailed, "parsing profile store", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = profiles
	return nil
}

// Save writes the current profile set to disk as indented JSON.
func (m *ProfileManager) Save() error {
	m.mu.RLock()
	data, err := json.MarshalIndent(m.profiles, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return newErr(ErrIOFailed, "encoding profile store", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return newErr(ErrIOFailed, "writing profile store", err)
	}
	return nil
}

// Get returns the named profile and whether it was found.
func (m *ProfileManager) Get(name string) (EncodeProfile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[name]
	return p, ok
}

// Put adds or replaces a named profile. Callers must call Save to persist it.
func (m *ProfileManager) Put(name string, profile EncodeProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile.Name = name
	m.profiles[name] = profile
}

// List returns the names of all known profiles.
func (m *ProfileManager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.profiles))
	for name := range m.profiles {
		names = append(names, name)
	}
	return names
}
