package format

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aretw0/automata/pkg/domain"
)

// Format names an encoding for Encode and Decode.
type Format string

const (
	FormatTabular Format = "tabular"
	FormatPretty  Format = "pretty"
	FormatYAML    Format = "yaml"
)

// ParseFormat validates a format name. The empty string means tabular.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "", FormatTabular:
		return FormatTabular, nil
	case FormatPretty, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want tabular, pretty or yaml)", name)
	}
}

// FormatFor picks the decoding format from a file name: .yaml and .yml are
// YAML, anything else is tabular.
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTabular
	}
}

// Decode reads all automata in data using format f.
// The pretty form is write-only and cannot be decoded.
func Decode(f Format, data []byte) ([]*domain.Automaton, error) {
	switch f {
	case FormatYAML:
		return UnmarshalYAML(data)
	case FormatTabular, "":
		return ParseAll(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("format %q cannot be decoded", f)
	}
}

// Encode writes automata to w using format f. The tabular format refuses
// automata that CheckTabular rejects, so its output always parses back.
func Encode(w io.Writer, f Format, automata ...*domain.Automaton) error {
	var data []byte
	switch f {
	case FormatYAML:
		var err error
		if data, err = MarshalYAML(automata...); err != nil {
			return err
		}
	case FormatPretty:
		parts := make([]string, len(automata))
		for i, a := range automata {
			parts[i] = Pretty(a)
		}
		data = []byte(strings.Join(parts, "\n"))
	case FormatTabular, "":
		for i, a := range automata {
			if err := CheckTabular(a); err != nil {
				return fmt.Errorf("automaton %d: %w", i, err)
			}
		}
		data = MarshalAll(automata)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
	_, err := w.Write(data)
	return err
}
