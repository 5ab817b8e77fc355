package main

import (
	"log"
	"os"
	"path/filepath"
)

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("resolving home directory: %v", err)
	}
	dir := filepath.Join(home, ".config", "fftvis")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		log.Fatalf("creating config directory: %v", err)
	}
	return dir
}

func profilesPath() string {
	return filepath.Join(configDir(), "profiles.json")
}

func libraryPath() string {
	return filepath.Join(configDir(), "library.json")
}
