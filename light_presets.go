package scenekit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type PresetFormat int

const (
	PresetJSON PresetFormat = iota
	PresetYAML
)

// PresetFormatForPath picks YAML for .yaml/.yml files and JSON otherwise.
func PresetFormatForPath(filename string) PresetFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return PresetYAML
	}
	return PresetJSON
}

type LightEntry struct {
	ID    string      `json:"id" yaml:"id"`
	Light LightRecord `json:"light" yaml:"light"`
}

type LightPreset struct {
	Lights []LightEntry `json:"lights" yaml:"lights"`
}

// LightPresets saves and loads the lights of a scene.
type LightPresets struct {
	Logger Logger
	Indent string // JSON indent; YAML always uses two spaces
}

func NewLightPresets(logger Logger) *LightPresets {
	return &LightPresets{
		Logger: LoggerOrNop(logger),
		Indent: "  ",
	}
}

func (p *LightPresets) logger() Logger {
	return LoggerOrNop(p.Logger)
}

// Save writes the entries to filename. Entries without an ID get a new one;
// the slice passed in is not modified. The file is only touched once encoding
// has succeeded.
func (p *LightPresets) Save(filename string, entries []LightEntry) error {
	var buf bytes.Buffer
	if err := p.Encode(&buf, PresetFormatForPath(filename), entries); err != nil {
		return err
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write light preset: %w", err)
	}
	p.logger().Infof("saved %d lights to %s", len(entries), filename)
	return nil
}

func (p *LightPresets) Encode(w io.Writer, format PresetFormat, entries []LightEntry) error {
	preset := LightPreset{Lights: make([]LightEntry, len(entries))}
	for i, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		preset.Lights[i] = e
	}

	switch format {
	case PresetYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(preset); err != nil {
			return fmt.Errorf("encode light preset: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", p.Indent)
		if err := enc.Encode(preset); err != nil {
			return fmt.Errorf("encode light preset: %w", err)
		}
		return nil
	}
}

// Load reads all lights from filename. A single invalid light fails the
// whole load.
func (p *LightPresets) Load(filename string) ([]LightEntry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open light preset: %w", err)
	}
	defer f.Close()

	entries, err := p.Decode(f, PresetFormatForPath(filename))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	p.logger().Debugf("loaded %d lights from %s", len(entries), filename)
	return entries, nil
}

func (p *LightPresets) Decode(r io.Reader, format PresetFormat) ([]LightEntry, error) {
	var raw struct {
		Lights []struct {
			ID    any       `json:"id" yaml:"id"`
			Light yaml.Node `json:"-" yaml:"light"`
			// JSON lights are decoded separately so each error can be tied to its index.
			JSONLight json.RawMessage `json:"light" yaml:"-"`
		} `json:"lights" yaml:"lights"`
	}

	switch format {
	case PresetYAML:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode light preset: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode light preset: %w", err)
		}
	}

	entries := make([]LightEntry, 0, len(raw.Lights))
	for i, item := range raw.Lights {
		var light LightRecord
		var err error
		switch format {
		case PresetYAML:
			if item.Light.Kind == 0 {
				err = &MissingFieldError{Field: "light"}
			} else {
				err = light.UnmarshalYAML(&item.Light)
			}
		default:
			if len(item.JSONLight) == 0 {
				err = &MissingFieldError{Field: "light"}
			} else {
				err = light.UnmarshalJSON(item.JSONLight)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}

		id, ok := item.ID.(string)
		if _, perr := uuid.Parse(id); !ok || perr != nil {
			id = uuid.NewString()
			p.logger().Warnf("light %d has invalid id %v, assigned %s", i, item.ID, id)
		}
		entries = append(entries, LightEntry{ID: id, Light: light})
	}
	return entries, nil
}
