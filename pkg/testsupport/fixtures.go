package testsupport

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/goliatone/go-spaceship/spaceship"
	"gotest.tools/v3/golden"
)

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it.
// The path is relative to the test package directory.
func LoadFixtureJSON(t *testing.T, path string, dest any) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// LoadRecords loads a JSON array of {"id", "name"} objects as store records,
// ready to seed a store.
func LoadRecords(t *testing.T, path string) []spaceship.Record {
	t.Helper()

	var dtos []spaceship.DTO
	LoadFixtureJSON(t, path, &dtos)

	records := make([]spaceship.Record, 0, len(dtos))
	for i, dto := range dtos {
		if dto.ID == nil || dto.Name == nil {
			t.Fatalf("fixture %s: entry %d needs both id and name", path, i)
		}
		records = append(records, spaceship.Record{ID: *dto.ID, Name: *dto.Name})
	}
	return records
}

// LoadReader creates an io.Reader from fixture data.
// Useful for request bodies.
func LoadReader(t *testing.T, path string) io.Reader {
	t.Helper()

	return bytes.NewReader(LoadFixture(t, path))
}

// WriteGolden writes test output to a golden file.
// The path is relative to the test package directory.
func WriteGolden(t *testing.T, path string, data []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write golden file to %s: %v", path, err)
	}
}

// CompareJSONWithGolden compares actual against the JSON golden file at path,
// ignoring formatting and key order. Missing golden files are created, and
// -update (owned by gotest.tools/v3/golden) rewrites existing ones.
func CompareJSONWithGolden(t *testing.T, path string, actual []byte) {
	t.Helper()

	var got any
	if err := json.Unmarshal(actual, &got); err != nil {
		t.Fatalf("actual output is not JSON: %v\n%s", err, actual)
	}

	expected, err := os.ReadFile(path)
	if golden.FlagUpdate() || os.IsNotExist(err) {
		t.Logf("writing golden file %s", path)
		pretty, merr := json.MarshalIndent(got, "", "  ")
		if merr != nil {
			t.Fatalf("failed to marshal golden JSON for %s: %v", path, merr)
		}
		WriteGolden(t, path, append(pretty, '\n'))
		return
	}
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v", path, err)
	}

	var want any
	if err := json.Unmarshal(expected, &want); err != nil {
		t.Fatalf("golden file %s is not JSON: %v", path, err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("output mismatch for %s:\nExpected:\n%s\nActual:\n%s", path, expected, actual)
	}
}

// FixturePath constructs a path to a fixture file relative to the testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}

// GoldenPath constructs a path to a golden file relative to the testdata directory.
func GoldenPath(filename string) string {
	return filepath.Join("testdata", "golden", filename)
}
