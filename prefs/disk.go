package prefs

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dlafreniere/coredump/logger"
)

// DefaultPrefsFile is the filename a host tool's preferences are saved
// under, joined onto whatever directory paths.ResourcePath resolves.
const DefaultPrefsFile = "prefs"

// WarningBoilerPlate is written as the first line of every preferences
// file, to discourage manual editing.
const WarningBoilerPlate = "// preferences file for the coredump host tools. edit with care."

// Disk is a named group of typed preference values that can be loaded
// from and saved to a single file, one "key :: value" pair per line.
//
// Save() merges its registered values into whatever is already on disk
// rather than overwriting the file outright, so that two Disk instances
// backed by the same file (for example a host tool's own settings and a
// shared set of coredump defaults) can each save without clobbering the
// other's keys.
type Disk struct {
	path   string
	order  []string
	values map[string]pref
}

// NewDisk creates a Disk backed by the file at path. Add must be called
// once per key before Load or Save is called for that key to take
// effect.
func NewDisk(path string) (*Disk, error) {
	if path == "" {
		return nil, fmt.Errorf("prefs: disk path cannot be empty")
	}
	return &Disk{
		path:   path,
		values: make(map[string]pref),
	}, nil
}

// Add registers a preference value under key. v must be one of Bool,
// Int, String, Float or Generic (or any type implementing the internal
// pref interface). It is an error to register the same key twice.
func (d *Disk) Add(key string, v pref) error {
	if _, exists := d.values[key]; exists {
		return fmt.Errorf("prefs: key %q already registered", key)
	}
	d.order = append(d.order, key)
	d.values[key] = v
	return nil
}

func parseLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	kv := strings.SplitN(line, "::", 2)
	if len(kv) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1]), true
}

// Load reads d's preference file, if it exists, and applies each
// recognised key to its registered value. Defunct keys are silently
// skipped, matching the reference project's tolerance for preferences
// files written by an older version of the tool. Unless minimal is
// true, a preference key that is present in the file but was never
// registered with Add is logged, since it usually indicates a typo or a
// stale entry left by a removed feature.
func (d *Disk) Load(minimal bool) error {
	f, err := os.Open(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := parseLine(scanner.Text())
		if !ok || isDefunct(key) {
			continue
		}

		p, ok := d.values[key]
		if !ok {
			if !minimal {
				logger.Logf(logger.Allow, "prefs", "unrecognised preference key %q in %s", key, d.path)
			}
			continue
		}
		if err := p.Set(value); err != nil {
			return fmt.Errorf("prefs: loading %s: %w", key, err)
		}
	}
	return scanner.Err()
}

// readRaw returns the raw key/value pairs currently on disk, ignoring
// the boilerplate header and any lines that don't parse.
func (d *Disk) readRaw() map[string]string {
	raw := make(map[string]string)

	f, err := os.Open(d.path)
	if err != nil {
		return raw
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if key, value, ok := parseLine(scanner.Text()); ok {
			raw[key] = value
		}
	}
	return raw
}

// Save merges d's registered values into the file's existing contents
// and writes the result back out in sorted key order, so that repeated
// saves of an unchanged set of values produce an identical file.
func (d *Disk) Save() error {
	merged := d.readRaw()
	for key, p := range d.values {
		merged[key] = p.String()
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	f, err := os.Create(d.path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintf(w, "%s\n", WarningBoilerPlate); err != nil {
		return err
	}
	for _, key := range keys {
		if _, err := fmt.Fprintf(w, "%s :: %s\n", key, merged[key]); err != nil {
			return err
		}
	}
	return w.Flush()
}
