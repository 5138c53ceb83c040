package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RootPath is the path reported for the validated value itself.
const RootPath = "$"

// Draft is the JSON Schema dialect documents are compiled with.
const Draft = "https://json-schema.org/draft/2020-12/schema"

const (
	resourceURL   = "settings.schema.json"
	actualMissing = "missing"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var printer = message.NewPrinter(language.English)

// Schema is a compiled JSON Schema document
type Schema struct {
	compiled *jsonschema.Schema
}

// Compile compiles a JSON Schema document given in its generic form
// (map[string]any, []any and scalars, as produced by encoding/json)
func Compile(doc map[string]any) (*Schema, error) {
	// normalize numbers and nested Go types to what the compiler expects
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	normalized, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(resourceURL, normalized); err != nil {
		return nil, fmt.Errorf("failed to add schema: %w", err)
	}
	compiled, err := c.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &Schema{compiled: compiled}, nil
}

// Check validates v and collects every mismatch: missing properties
// first, then the others, each sorted by path.
// v must be in the generic form returned by Decode.
func (s *Schema) Check(v any) *Result {
	r := &Result{Errors: []ValidationError{}}

	err := s.compiled.Validate(v)
	if err == nil {
		return r
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		r.add(RootPath, "valid document", err.Error())
		return r
	}

	collect(v, verr, r)
	sort.SliceStable(r.Errors, func(i, j int) bool {
		a, b := r.Errors[i], r.Errors[j]
		if ra, rb := rank(a), rank(b); ra != rb {
			return ra < rb
		}
		return a.Path < b.Path
	})
	return r
}

// rank orders missing properties before any other mismatch
func rank(e ValidationError) int {
	if e.Actual == actualMissing {
		return 0
	}
	return 1
}

// Validate returns the first mismatch of v as a *ValidationError, or nil
func (s *Schema) Validate(v any) error {
	return s.Check(v).Err()
}

// ValidateJSON decodes data into its generic form and validates it.
// Malformed JSON is reported as a ValidationError on the root path.
func (s *Schema) ValidateJSON(data []byte) (any, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Decode parses data into the generic form the validator works on
func Decode(data []byte) (any, error) {
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, &ValidationError{Path: RootPath, Expected: "valid JSON", Actual: err.Error()}
	}
	return v, nil
}

// collect flattens the validator's error tree into r, one entry per
// failing leaf keyword
func collect(root any, e *jsonschema.ValidationError, r *Result) {
	path, value := locate(root, e.InstanceLocation)

	if k, ok := e.ErrorKind.(*kind.PropertyNames); ok {
		expected := "valid key"
		for _, cause := range e.Causes {
			if p, ok := cause.ErrorKind.(*kind.Pattern); ok {
				expected = "key matching " + p.Want
			}
		}
		r.add(child(path, k.Property), expected, strconv.Quote(k.Property))
		return
	}

	if len(e.Causes) > 0 {
		for _, cause := range e.Causes {
			collect(root, cause, r)
		}
		return
	}

	switch k := e.ErrorKind.(type) {
	case *kind.Type:
		want := append([]string(nil), k.Want...)
		sort.Strings(want)
		r.add(path, strings.Join(want, " or "), k.Got)
	case *kind.Required:
		for _, name := range k.Missing {
			r.add(child(path, name), "required property", actualMissing)
		}
	case *kind.AdditionalProperties:
		for _, name := range k.Properties {
			r.add(child(path, name), "no additional properties", "unknown property")
		}
	case *kind.MaxItems:
		r.add(path, fmt.Sprintf("at most %d items", k.Want), fmt.Sprintf("%d items", k.Got))
	default:
		r.add(path, e.ErrorKind.LocalizedString(printer), TypeOf(value))
	}
}

// locate turns a JSON pointer into a display path, walking root so
// array indices print as [i] and object keys as .key
func locate(root any, location []string) (string, any) {
	path, cur := RootPath, root
	for _, seg := range location {
		switch c := cur.(type) {
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(c) {
				return child(path, seg), nil
			}
			path, cur = fmt.Sprintf("%s[%d]", path, i), c[i]
		case map[string]any:
			path, cur = child(path, seg), c[seg]
		default:
			path, cur = child(path, seg), nil
		}
	}
	return path, cur
}

// TypeOf names the JSON type of a generic decoded value.
func TypeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, json.Number, int, int64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func child(path, key string) string {
	if identPattern.MatchString(key) {
		return path + "." + key
	}
	return path + "[" + strconv.Quote(key) + "]"
}
