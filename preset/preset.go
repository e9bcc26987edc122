// Package preset provides named, persistable command-sequence records.
//
// A preset is the on-disk shape of a scpi.Sequence plus a name and
// description. The JSON layout matches the presets.json format of the
// original desktop tool: a single preset serializes to
//
//	{"name": ..., "description": ..., "commands": [...], "repeat": 1, "interval": 1.0}
//
// and a Library serializes to {"presets": {"<name>": {...}}} with the
// interval expressed in float seconds.
//
// The transport and session core never touches this package; preset storage
// is an external collaborator of the execution engine.
package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/Martinxux/SCPI-Command-Sender/scpi"
)

// ErrEmptyName indicates a preset without a name was added to a library.
var ErrEmptyName = errors.New("preset name is empty")

// Preset is a named command sequence with repeat/interval parameters.
type Preset struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Commands    []string `json:"commands"`
	Repeat      int      `json:"repeat"`
	// Interval is the inter-command delay in seconds.
	Interval float64 `json:"interval"`
}

// Sequence converts the preset into an executable sequence. Repeat is clamped
// to at least 1 and negative intervals to zero, matching sequence semantics.
func (p Preset) Sequence() scpi.Sequence {
	cmds := make([]scpi.Command, len(p.Commands))
	for i, c := range p.Commands {
		cmds[i] = scpi.Command(c)
	}

	return scpi.NewSequence(cmds, p.Repeat, time.Duration(p.Interval*float64(time.Second)))
}

// FromSequence builds a preset record from an executable sequence.
func FromSequence(name, description string, seq scpi.Sequence) Preset {
	cmds := make([]string, len(seq.Commands))
	for i, c := range seq.Commands {
		cmds[i] = string(c)
	}

	return Preset{
		Name:        name,
		Description: description,
		Commands:    cmds,
		Repeat:      seq.Repeat,
		Interval:    seq.Interval.Seconds(),
	}
}

// libraryFile is the on-disk layout of a preset library.
type libraryFile struct {
	Presets map[string]libraryEntry `json:"presets"`
}

// libraryEntry is a preset value keyed by its name in the library file.
type libraryEntry struct {
	Description string   `json:"description"`
	Commands    []string `json:"commands"`
	Repeat      int      `json:"repeat"`
	Interval    float64  `json:"interval"`
}

// Library is an in-memory collection of presets keyed by name.
// It is not safe for concurrent use.
type Library struct {
	presets map[string]Preset
}

// NewLibrary creates an empty preset library.
func NewLibrary() *Library {
	return &Library{presets: make(map[string]Preset)}
}

// Add inserts or replaces a preset. A preset without a name is rejected.
func (l *Library) Add(p Preset) error {
	if p.Name == "" {
		return ErrEmptyName
	}
	l.presets[p.Name] = p

	return nil
}

// Get returns the preset with the given name.
func (l *Library) Get(name string) (Preset, bool) {
	p, ok := l.presets[name]
	return p, ok
}

// Remove deletes the preset with the given name, reporting whether it existed.
func (l *Library) Remove(name string) bool {
	if _, ok := l.presets[name]; !ok {
		return false
	}
	delete(l.presets, name)

	return true
}

// Names returns all preset names in lexical order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.presets))
	for name := range l.presets {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Len returns the number of presets in the library.
func (l *Library) Len() int { return len(l.presets) }

// Load replaces the library content with the presets decoded from r.
func (l *Library) Load(r io.Reader) error {
	var file libraryFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return fmt.Errorf("failed to decode preset library: %w", err)
	}

	presets := make(map[string]Preset, len(file.Presets))
	for name, entry := range file.Presets {
		presets[name] = Preset{
			Name:        name,
			Description: entry.Description,
			Commands:    entry.Commands,
			Repeat:      entry.Repeat,
			Interval:    entry.Interval,
		}
	}
	l.presets = presets

	return nil
}

// Save writes the library to w in the presets.json layout.
func (l *Library) Save(w io.Writer) error {
	file := libraryFile{Presets: make(map[string]libraryEntry, len(l.presets))}
	for name, p := range l.presets {
		file.Presets[name] = libraryEntry{
			Description: p.Description,
			Commands:    p.Commands,
			Repeat:      p.Repeat,
			Interval:    p.Interval,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("failed to encode preset library: %w", err)
	}

	return nil
}

// LoadFile loads a preset library from the file at path.
func (l *Library) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open preset library: %w", err)
	}
	defer f.Close()

	return l.Load(f)
}

// SaveFile writes the preset library to the file at path.
func (l *Library) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create preset library: %w", err)
	}

	if err := l.Save(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
