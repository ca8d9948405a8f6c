// Package testutil provides shared test helpers and fixtures for the
// converter packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleTraco is a small TRACO document with two hexbugs over two frames,
// listed frame-major the way the annotation tool saves them.
const SampleTraco = `{
  "rois": [
    {"z": 0, "id": 1, "pos": [822.7252539996302, 92.57577718188634]},
    {"z": 0, "id": 0, "pos": [609.1475208527264, 177.84445391353734]},
    {"z": 1, "id": 1, "pos": [817.8527581863927, 86.07911609756982]},
    {"z": 1, "id": 0, "pos": [583.1608765154604, 97.44827299511995]}
  ]
}`

// SampleRows is the flat example list shipped with the original tool.
func SampleRows() [][]float64 {
	return [][]float64{
		{0, 0, 609.1475208527264, 177.84445391353734},
		{0, 1, 822.7252539996302, 92.57577718188634},
		{0, 2, 897.9980055112678, 156.73480170667477},
		{0, 3, 546.1093810385692, 870.4226598045357},
		{1, 0, 583.1608765154604, 97.44827299511995},
		{1, 1, 817.8527581863927, 86.07911609756982},
		{1, 2, 872.8600104439311, 128.31793771751148},
		{1, 3, 436.8137503110175, 858.400140424505},
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content of path as a string.
func ReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
