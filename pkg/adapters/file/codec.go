package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/aretw0/stm/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for file extensions other than
// .yaml, .yml and .json.
var ErrUnsupportedFormat = errors.New("unsupported model file format")

// Format is a model document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the encoding from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

// document is the loose on-disk shape. Entries are decoded one by one so
// both the long and the compact forms are accepted.
type document struct {
	Name        string `mapstructure:"name"`
	States      []any  `mapstructure:"states"`
	Transitions []any  `mapstructure:"transitions"`
	Inputs      []any  `mapstructure:"inputs"`
	Sealed      string `mapstructure:"sealed"`
}

// transitionAliases maps accepted keys to the canonical field name.
var transitionAliases = map[string]string{
	"src":         "from",
	"source":      "from",
	"dest":        "to",
	"destination": "to",
	"target":      "to",
	"cond":        "condition",
	"guard":       "condition",
}

// ReadModel reads a model document from path. A missing file yields an
// empty snapshot.
func ReadModel(path string) (*domain.Snapshot, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &domain.Snapshot{}, nil
		}
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	return Decode(data, format)
}

// Decode parses a model document.
func Decode(data []byte, format Format) (*domain.Snapshot, error) {
	var raw map[string]any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse json model: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse yaml model: %w", err)
		}
	}

	var doc document
	if err := decode(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid model document: %w", err)
	}

	snap := &domain.Snapshot{Name: doc.Name, Sealed: doc.Sealed}
	for i, item := range doc.States {
		name, err := decodeState(item)
		if err != nil {
			return nil, fmt.Errorf("states[%d]: %w", i, err)
		}
		snap.States = append(snap.States, name)
	}
	for i, item := range doc.Inputs {
		in, err := decodeInput(item)
		if err != nil {
			return nil, fmt.Errorf("inputs[%d]: %w", i, err)
		}
		snap.Inputs = append(snap.Inputs, in)
	}
	for i, item := range doc.Transitions {
		t, err := decodeTransition(item)
		if err != nil {
			return nil, fmt.Errorf("transitions[%d]: %w", i, err)
		}
		snap.Transitions = append(snap.Transitions, t)
	}
	return snap, nil
}

func decodeState(item any) (string, error) {
	switch v := item.(type) {
	case string:
		return v, nil
	case map[string]any:
		var s domain.State
		if err := decode(v, &s); err != nil {
			return "", err
		}
		if s.Name == "" {
			return "", fmt.Errorf("state missing name")
		}
		return s.Name, nil
	default:
		return "", fmt.Errorf("invalid state definition type: %T", v)
	}
}

// decodeInput accepts {name, value} maps and "name = value" strings.
func decodeInput(item any) (domain.Input, error) {
	switch v := item.(type) {
	case string:
		name, value, ok := strings.Cut(v, "=")
		if !ok {
			return domain.Input{Name: strings.TrimSpace(v), Value: domain.DefaultInputValue}, nil
		}
		return domain.Input{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)}, nil
	case map[string]any:
		in := domain.Input{Value: domain.DefaultInputValue}
		if err := decode(v, &in); err != nil {
			return in, err
		}
		if in.Name == "" {
			return in, fmt.Errorf("input missing name")
		}
		return in, nil
	default:
		return domain.Input{}, fmt.Errorf("invalid input definition type: %T", v)
	}
}

// decodeTransition accepts maps, with key aliases, and compact
// "src -> dest: condition" strings.
func decodeTransition(item any) (domain.Transition, error) {
	switch v := item.(type) {
	case string:
		edge, cond, _ := strings.Cut(v, ":")
		src, dest, ok := strings.Cut(edge, "->")
		if !ok {
			return domain.Transition{}, fmt.Errorf("transition %q is not in the form \"src -> dest: condition\"", v)
		}
		return domain.Transition{
			From:      strings.TrimSpace(src),
			To:        strings.TrimSpace(dest),
			Condition: strings.TrimSpace(cond),
		}, nil
	case map[string]any:
		canonical := make(map[string]any, len(v))
		for k, val := range v {
			if alias, ok := transitionAliases[strings.ToLower(k)]; ok {
				k = alias
			}
			canonical[k] = val
		}
		var t domain.Transition
		if err := decode(canonical, &t); err != nil {
			return t, err
		}
		if t.From == "" || t.To == "" {
			return t, fmt.Errorf("transition missing source or destination")
		}
		return t, nil
	default:
		return domain.Transition{}, fmt.Errorf("invalid transition definition type: %T", v)
	}
}

func decode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  scalarToString,
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// scalarToString lets documents write input values and conditions as
// native numbers or booleans.
func scalarToString(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	switch v := data.(type) {
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	return data, nil
}

// Encode renders a snapshot in the given format.
func Encode(snap *domain.Snapshot, format Format) ([]byte, error) {
	if format == FormatJSON {
		// Conditions hold <, > and &, which must stay readable.
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return nil, fmt.Errorf("failed to marshal model: %w", err)
		}
		return buf.Bytes(), nil
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal model: %w", err)
	}
	return data, nil
}

// WriteModel writes snap to path atomically, in the format its extension names.
func WriteModel(path string, snap *domain.Snapshot) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(snap, format)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}
