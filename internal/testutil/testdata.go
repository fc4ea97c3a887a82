package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/d21d3q/goelsys/internal/options"
)

// LoadText returns a fixture from testdata relative to the repo root.
func LoadText(t *testing.T, rel string) string {
	t.Helper()
	return string(readTestdata(t, rel))
}

// LoadHex returns a trimmed hex string from testdata relative path.
func LoadHex(t *testing.T, rel string) string {
	t.Helper()
	return strings.TrimSpace(LoadText(t, rel))
}

// LoadPayload decodes a hex fixture into bytes.
func LoadPayload(t *testing.T, rel string) []byte {
	t.Helper()
	data, err := options.ParseHex(LoadHex(t, rel))
	if err != nil {
		t.Fatalf("decode %s: %v", rel, err)
	}
	return data
}

func readTestdata(t *testing.T, rel string) []byte {
	t.Helper()
	candidates := []string{
		filepath.Join("testdata", rel),
		filepath.Join("..", "testdata", rel),
		filepath.Join("..", "..", "testdata", rel),
		filepath.Join("..", "..", "..", "testdata", rel),
	}
	for _, path := range candidates {
		if data, err := os.ReadFile(path); err == nil {
			return data
		}
	}
	t.Fatalf("unable to locate testdata file %s", rel)
	return nil
}
