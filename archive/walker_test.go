package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/ianaindex"
)

func writeZip(t *testing.T, files map[string]string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	defer w.Close()

	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", name, err)
		}
	}
	return zipPath
}

func TestWalk(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"entries/note1.html":  "<p>first note</p>",
		"entries/note2.html":  "<p>second note</p>",
		"drafts/pending.html": "<p>draft</p>",
		"manifest.yaml":       "version: 1",
	})

	t.Run("walk with entries prefix", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, "entries/", func(archive string, file *zip.File) error {
			if archive != zipPath {
				t.Errorf("archive = %s, want %s", archive, zipPath)
			}
			visited = append(visited, file.Name)
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}

		if len(visited) != 2 {
			t.Errorf("visited %d files, want 2", len(visited))
		}

		expected := map[string]bool{
			"entries/note1.html": true,
			"entries/note2.html": true,
		}
		for _, name := range visited {
			if !expected[name] {
				t.Errorf("unexpected file visited: %s", name)
			}
		}
	})

	t.Run("walk with no matching prefix", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, "nonexistent/", func(archive string, file *zip.File) error {
			visited = append(visited, file.Name)
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}

		if len(visited) != 0 {
			t.Errorf("visited %d files, want 0", len(visited))
		}
	})

	t.Run("walk with empty prefix", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, "", func(archive string, file *zip.File) error {
			visited = append(visited, file.Name)
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}

		if len(visited) != 4 {
			t.Errorf("visited %d files, want 4", len(visited))
		}
	})

	t.Run("walkFn error stops the walk", func(t *testing.T) {
		var visited int
		stopErr := errors.New("stop walking")
		err := Walk(zipPath, "entries/", func(archive string, file *zip.File) error {
			visited++
			if visited == 1 {
				return stopErr
			}
			return nil
		})

		if err != stopErr {
			t.Errorf("Walk() error = %v, want %v", err, stopErr)
		}
		if visited != 1 {
			t.Errorf("visited %d files after error, want 1", visited)
		}
	})
}

func TestWalk_InvalidArchive(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		err := Walk("/nonexistent/file.zip", "", func(archive string, file *zip.File) error {
			return nil
		})

		if err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		invalidZip := filepath.Join(t.TempDir(), "invalid.zip")

		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}

		err := Walk(invalidZip, "", func(archive string, file *zip.File) error {
			return nil
		})

		if err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})
}

func TestWalk_WithDirectories(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "test.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)

	// Add directory entries (usually created by zip utilities)
	dirHeader := &zip.FileHeader{
		Name: "entries/",
	}
	dirHeader.SetMode(os.ModeDir | 0755)
	if _, err := w.CreateHeader(dirHeader); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	fw, err := w.Create("entries/note.html")
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	fw.Write([]byte("<p>note</p>"))

	w.Close()
	zipFile.Close()

	// Walk should not call walkFn for directories
	var visited []string
	err = Walk(zipPath, "entries/", func(archive string, file *zip.File) error {
		visited = append(visited, file.Name)
		return nil
	})

	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}

	if len(visited) != 1 {
		t.Errorf("visited %d entries, want 1 (file only, not directory)", len(visited))
	}

	if len(visited) > 0 && visited[0] != "entries/note.html" {
		t.Errorf("visited %s, want entries/note.html", visited[0])
	}
}

func TestWalk_RejectsUnsafePaths(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{"path traversal", "../outside.html"},
		{"nested traversal", "entries/../../outside.html"},
		{"absolute path", "/etc/passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zipPath := filepath.Join(t.TempDir(), "evil.zip")

			zipFile, err := os.Create(zipPath)
			if err != nil {
				t.Fatalf("Failed to create zip file: %v", err)
			}

			w := zip.NewWriter(zipFile)
			fw, err := w.CreateHeader(&zip.FileHeader{Name: tt.entry})
			if err != nil {
				t.Fatalf("Failed to create entry: %v", err)
			}
			fw.Write([]byte("payload"))
			w.Close()
			zipFile.Close()

			err = Walk(zipPath, "", func(archive string, file *zip.File) error {
				t.Errorf("walkFn called for unsafe entry %q", file.Name)
				return nil
			})
			if err == nil {
				t.Error("Expected error for unsafe entry path")
			}
		})
	}
}

func TestWalk_FileContent(t *testing.T) {
	content := "<p>imported fragment</p>"
	zipPath := writeZip(t, map[string]string{"note.html": content})

	err := Walk(zipPath, "", func(archive string, file *zip.File) error {
		rc, err := file.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(rc); err != nil {
			return err
		}

		if buf.String() != content {
			t.Errorf("content = %s, want %s", buf.String(), content)
		}

		return nil
	})

	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}

func TestWalk_CaseSensitivity(t *testing.T) {
	zipPath := writeZip(t, map[string]string{"Entries/README.html": "<p>readme</p>"})

	// Prefix matching is case-sensitive
	t.Run("case sensitive match", func(t *testing.T) {
		var visited int
		err := Walk(zipPath, "Entries/", func(archive string, file *zip.File) error {
			visited++
			return nil
		})
		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		if visited != 1 {
			t.Errorf("visited %d files with 'Entries/', want 1", visited)
		}
	})

	t.Run("case sensitive no match", func(t *testing.T) {
		var visited int
		err := Walk(zipPath, "entries/", func(archive string, file *zip.File) error {
			visited++
			return nil
		})
		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		if visited != 0 {
			t.Errorf("visited %d files with 'entries/', want 0", visited)
		}
	})
}

func TestDecodeName(t *testing.T) {
	koi8r, err := ianaindex.IANA.Encoding("KOI8-R")
	if err != nil {
		t.Fatalf("unable to resolve KOI8-R: %v", err)
	}

	original := "заметка.html"
	encoded, err := koi8r.NewEncoder().String(original)
	if err != nil {
		t.Fatalf("unable to encode fixture name: %v", err)
	}

	zipPath := filepath.Join(t.TempDir(), "legacy.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zipFile)
	fw, err := w.CreateHeader(&zip.FileHeader{Name: encoded, NonUTF8: true})
	if err != nil {
		t.Fatalf("Failed to create entry: %v", err)
	}
	fw.Write([]byte("<p>legacy</p>"))
	if _, err := w.Create("plain.html"); err != nil {
		t.Fatalf("Failed to create entry: %v", err)
	}
	w.Close()
	zipFile.Close()

	byName := map[string]*zip.File{}
	err = Walk(zipPath, "", func(archive string, file *zip.File) error {
		byName[file.Name] = file
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	t.Run("legacy name converted", func(t *testing.T) {
		f := byName[encoded]
		if f == nil {
			t.Fatalf("legacy entry not found, have %v", byName)
		}
		got, err := DecodeName(f, koi8r)
		if err != nil {
			t.Fatalf("DecodeName() error = %v", err)
		}
		if got != original {
			t.Errorf("DecodeName() = %q, want %q", got, original)
		}
	})

	t.Run("nil encoding passes through", func(t *testing.T) {
		f := byName[encoded]
		if f == nil {
			t.Fatal("legacy entry not found")
		}
		got, err := DecodeName(f, nil)
		if err != nil {
			t.Fatalf("DecodeName() error = %v", err)
		}
		if got != encoded {
			t.Errorf("DecodeName() = %q, want raw name", got)
		}
	})

	t.Run("utf8 name untouched", func(t *testing.T) {
		f := byName["plain.html"]
		if f == nil {
			t.Fatal("plain entry not found")
		}
		got, err := DecodeName(f, koi8r)
		if err != nil {
			t.Fatalf("DecodeName() error = %v", err)
		}
		if got != "plain.html" {
			t.Errorf("DecodeName() = %q, want plain.html", got)
		}
	})
}
