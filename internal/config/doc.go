// Package config implements the YAML and JSON GraphSpec loaders of
// spec.md §6: parse or fail with a source-location error (line/column for
// YAML, a JSON-pointer path for JSON), inferring Variant types the same
// way for both formats (integers to i64, floats to f64, true/false to
// bool, else string).
package config
