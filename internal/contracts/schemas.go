// Package contracts validates raw request bodies against the JSON schemas
// embedded in the binary.
package contracts

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema names
const (
	Property    = "property"
	Lead        = "lead"
	HomeSection = "home_section"
	Tenant      = "tenant"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	loadOnce sync.Once
	loadErr  error
	compiled map[string]*jsonschema.Schema
)

var ErrUnknownSchema = errors.New("unknown schema")

// ValidationError lists every violation found in a document
type ValidationError struct {
	Schema     string
	Violations []Violation
}

// Violation is a single failed keyword at a JSON pointer inside the document
type Violation struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		loc := v.Location
		if loc == "" {
			loc = "/"
		}
		msgs = append(msgs, loc+": "+v.Message)
	}
	return fmt.Sprintf("%s: %s", e.Schema, strings.Join(msgs, "; "))
}

// Load compiles every embedded schema. It is safe to call more than once;
// Validate calls it on first use.
func Load() error {
	loadOnce.Do(func() {
		compiled, loadErr = compileAll()
	})
	return loadErr
}

func compileAll() (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil, fmt.Errorf("failed to read schemas: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		file, err := schemaFS.Open(path.Join("schemas", entry.Name()))
		if err != nil {
			return nil, err
		}
		err = compiler.AddResource(entry.Name(), file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to add schema %s: %w", entry.Name(), err)
		}
		names = append(names, entry.Name())
	}

	out := make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		schema, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		out[strings.TrimSuffix(name, ".json")] = schema
	}
	return out, nil
}

// Validate checks body against the named schema. Schema violations are
// returned as *ValidationError.
func Validate(name string, body []byte) error {
	if err := Load(); err != nil {
		return err
	}

	schema, ok := compiled[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return &ValidationError{
			Schema:     name,
			Violations: []Violation{{Message: "body is not valid JSON"}},
		}
	}

	err := schema.Validate(doc)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	return &ValidationError{Schema: name, Violations: violations(verr)}
}

// violations flattens the error tree down to its leaves
func violations(verr *jsonschema.ValidationError) []Violation {
	if len(verr.Causes) == 0 {
		return []Violation{{Location: verr.InstanceLocation, Message: verr.Message}}
	}
	var out []Violation
	for _, cause := range verr.Causes {
		out = append(out, violations(cause)...)
	}
	return out
}
