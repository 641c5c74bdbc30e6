package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadParams decodes the built-in defaults and then overlays the optional
// YAML file at path. Keys missing from the file keep their default. Both
// documents are parsed strictly: unrecognized keys (typos) are rejected.
// The result is not validated; callers run Validate once all overrides
// are applied.
func LoadParams(defaults []byte, path string) (*Params, error) {
	var p Params
	if len(defaults) > 0 {
		if err := decodeParams(defaults, &p); err != nil {
			return nil, fmt.Errorf("parsing default parameters: %w", err)
		}
	}
	if path == "" {
		return &p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameter file: %w", err)
	}
	if err := decodeParams(data, &p); err != nil {
		return nil, fmt.Errorf("parsing parameter file %s: %w", path, err)
	}
	return &p, nil
}

func decodeParams(data []byte, p *Params) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	return decoder.Decode(p)
}

// YAML renders the parameters in the same layout LoadParams accepts.
func (p *Params) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encoding parameters: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding parameters: %w", err)
	}
	return buf.Bytes(), nil
}
