// ABOUTME: Loads STARPR_* variables from .env files at startup without clobbering the environment.
// ABOUTME: Searches the working directory chain, the binary's directory, and the starpr config dir.
package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// loadDotEnv applies KEY=VALUE lines from path to the process environment and
// reports how many variables it set. Keys already present win. A missing file
// sets nothing.
func loadDotEnv(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	set := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := parseEnvLine(scanner.Text())
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err == nil {
			set++
		}
	}
	return set
}

// parseEnvLine accepts KEY=VALUE, export KEY=VALUE and quoted values.
// Blank lines and # comments yield ok=false.
func parseEnvLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")

	// Values may themselves contain '='.
	key, value, ok = strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, unquote(strings.TrimSpace(value)), true
}

func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
		return v[1 : len(v)-1]
	}
	return v
}

// loadDotEnvAuto loads, in order: .env in the working directory and each
// parent, .env next to the executable, then config.env in the starpr config
// dir. Earlier files take precedence because nothing is overwritten.
func loadDotEnvAuto() {
	seen := map[string]bool{}
	load := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		loadDotEnv(p)
	}

	if wd, err := os.Getwd(); err == nil {
		for dir := wd; ; {
			load(filepath.Join(dir, ".env"))
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	if exe, err := os.Executable(); err == nil {
		load(filepath.Join(filepath.Dir(exe), ".env"))
	}

	if dir, err := defaultConfigDir(); err == nil {
		load(filepath.Join(dir, "config.env"))
	}
}
