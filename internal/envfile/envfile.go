// Package envfile reads and writes dotenv-style configuration files.
//
// The file is treated as an ordered list of lines. KEY=VALUE pairs are
// indexed for lookup; comments, blank lines, and anything else are kept
// verbatim so a rewrite never clobbers hand-edited content. Each key
// appears at most once: Set replaces the existing line in place or
// appends a new one.
package envfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Keys managed by coractl. Everything else in the file belongs to the
// operator and is passed through untouched.
const (
	KeyAppNetwork          = "APP_NETWORK"
	KeyNodeURL             = "APTOS_NODE_URL"
	KeyAPIKey              = "APTOS_API_KEY"
	KeyModuleAddress       = "MODULE_ADDRESS"
	KeyPublisherAddress    = "PUBLISHER_ACCOUNT_ADDRESS"
	KeyPublisherPrivateKey = "PUBLISHER_ACCOUNT_PRIVATE_KEY"
)

type line struct {
	raw    string
	key    string
	value  string
	isPair bool
}

// Env is an in-memory copy of one environment file.
type Env struct {
	path  string
	lines []line
}

// Load reads the file at path. A missing file is not an error: it yields
// an empty store that Save will create.
func Load(path string) (*Env, error) {
	env := &Env{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return env, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	content := strings.TrimSuffix(string(data), "\n")
	if content == "" {
		return env, nil
	}

	for _, raw := range strings.Split(content, "\n") {
		env.lines = append(env.lines, parseLine(raw))
	}
	return env, nil
}

func parseLine(raw string) line {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return line{raw: raw}
	}
	idx := strings.Index(raw, "=")
	if idx < 0 {
		return line{raw: raw}
	}
	key := strings.TrimSpace(raw[:idx])
	if key == "" {
		return line{raw: raw}
	}
	return line{
		raw:    raw,
		key:    key,
		value:  raw[idx+1:],
		isPair: true,
	}
}

// Path returns the file path this store was loaded from.
func (e *Env) Path() string {
	return e.path
}

// Get returns the value for key and whether it is present and non-empty.
func (e *Env) Get(key string) (string, bool) {
	for _, l := range e.lines {
		if l.isPair && l.key == key {
			return l.value, l.value != ""
		}
	}
	return "", false
}

// Set replaces the value of key in place, or appends a new KEY=VALUE line
// if the key is absent.
func (e *Env) Set(key, value string) {
	for i, l := range e.lines {
		if l.isPair && l.key == key {
			e.lines[i].value = value
			e.lines[i].raw = key + "=" + value
			return
		}
	}
	e.lines = append(e.lines, line{
		raw:    key + "=" + value,
		key:    key,
		value:  value,
		isPair: true,
	})
}

// Keys returns all defined keys in file order.
func (e *Env) Keys() []string {
	var keys []string
	for _, l := range e.lines {
		if l.isPair {
			keys = append(keys, l.key)
		}
	}
	return keys
}

// Save writes the store back to its path atomically: the content goes to
// a temp file in the same directory which is then renamed over the
// original. The file carries the publisher's private key, hence 0600.
func (e *Env) Save() error {
	var b strings.Builder
	for _, l := range e.lines {
		b.WriteString(l.raw)
		b.WriteString("\n")
	}

	dir := filepath.Dir(e.path)
	tmp, err := os.CreateTemp(dir, ".env-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, e.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", e.path, err)
	}
	return nil
}

// Require returns the value for key or an error naming the key and the
// file, so misconfiguration fails before any external call is attempted.
func (e *Env) Require(key string) (string, error) {
	value, ok := e.Get(key)
	if !ok {
		return "", fmt.Errorf("%s is not set in %s (run 'coractl account create' first)", key, e.path)
	}
	return value, nil
}
