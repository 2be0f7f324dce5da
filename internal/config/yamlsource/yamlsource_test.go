package yamlsource

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleDoc = `
layout:
  id: L1
  refresh_interval: 1
  children:
    - id: hello
      position: { x1: "0%", y1: "0%", x2: "100%", y2: "100%" }
      title: "Hi"
      on_refresh:
        - echo WORLD
`

func TestLoadFlattensDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boxmux.yml")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Source{}.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	cases := map[string]string{
		"layout___id":                            "L1",
		"layout___refresh_interval":               "1",
		"layout___children___1___id":              "hello",
		"layout___children___1___position___x1":   "0%",
		"layout___children___1___title":           "Hi",
		"layout___children___1___on_refresh___1":   "echo WORLD",
	}
	for k, want := range cases {
		if got := m[k]; got != want {
			t.Errorf("m[%q] = %q, want %q", k, got, want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := (Source{}).Load("/no/such/file.yml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
