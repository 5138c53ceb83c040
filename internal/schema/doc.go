/*
Package schema validates decoded JSON values against JSON Schema
(draft 2020-12) documents and reports mismatches as ValidationError
values with a readable path.

Documents are plain data, so a contract reads as a single literal:

	keybind, err := schema.Compile(map[string]any{
		"$schema": schema.Draft,
		"type":    "object",
		"properties": map[string]any{
			"modifiers": map[string]any{"type": "object", "additionalProperties": map[string]any{"type": "boolean"}},
			"key":       map[string]any{"type": []string{"string", "null"}},
		},
		"required":             []string{"modifiers", "key"},
		"additionalProperties": false,
	})

	if _, err = keybind.ValidateJSON(data); err != nil {
		var verr *schema.ValidationError
		errors.As(err, &verr) // verr.Path, verr.Expected, verr.Actual
	}

Paths use $ for the root, .name for object keys and [i] for array items.
*/
package schema
