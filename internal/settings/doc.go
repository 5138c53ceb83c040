// Package settings holds the persisted settings document: its declared
// schema, the factory defaults, JSON/YAML encoding in structured or
// trigger form, and version migration.
//
// Decode never returns a document that failed the schema; the caller
// decides whether to fall back to BuildDefaults or abort.
package settings
