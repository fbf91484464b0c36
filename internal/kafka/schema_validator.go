package kafka

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/v1/*.json
var schemaFS embed.FS

var ErrUnknownEvent = errors.New("no schema for event")

// Validator holds one compiled schema per event type and version. A file
// named <event_type>.v<version>.json covers the events carrying those two
// fields.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	files, err := fs.Glob(schemaFS, "schemas/v1/*.json")
	if err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}

	c := jsonschema.NewCompiler()
	c.AssertFormat = true
	for _, f := range files {
		data, err := schemaFS.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		if err := c.AddResource(path.Base(f), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add %s: %w", f, err)
		}
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(files))}
	for _, f := range files {
		name := path.Base(f)
		s, err := c.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", f, err)
		}
		v.schemas[strings.TrimSuffix(name, ".json")] = s
	}
	return v, nil
}

// Validate picks the schema from the event's own event_type and version and
// checks doc against it.
func (v *Validator) Validate(doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}

	m, _ := x.(map[string]any)
	typ, _ := m["event_type"].(string)
	ver, _ := m["version"].(float64)
	key := fmt.Sprintf("%s.v%d", typ, int(ver))

	s, ok := v.schemas[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, key)
	}
	return s.Validate(x)
}
