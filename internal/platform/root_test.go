package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindRoot(t *testing.T) {
	// /tmp/
	//   notes/ (framenotes.yaml)
	//     subdir/
	//       nested/
	//   empty/
	baseDir := t.TempDir()
	rootDir := filepath.Join(baseDir, "notes")
	subDir := filepath.Join(rootDir, "subdir")
	nestedDir := filepath.Join(subDir, "nested")
	emptyDir := filepath.Join(baseDir, "empty")

	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(emptyDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(rootDir, ConfigFile), []byte("adapter: fs\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		startPath string
		wantRoot  string
		wantErr   bool
	}{
		{name: "Start at Root", startPath: rootDir, wantRoot: rootDir},
		{name: "Start in Subdir", startPath: subDir, wantRoot: rootDir},
		{name: "Start Nested Deeply", startPath: nestedDir, wantRoot: rootDir},
		{name: "No Root Found", startPath: emptyDir, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.startPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("FindRoot() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != "" && filepath.Clean(got) != filepath.Clean(tt.wantRoot) {
				t.Errorf("FindRoot() = %v, want %v", got, tt.wantRoot)
			}
		})
	}
}

func TestResolveDataDir(t *testing.T) {
	tempRoot := os.TempDir()
	devBase := filepath.Join(tempRoot, "framenotes-dev")

	tests := []struct {
		name     string
		userPath string
		sandbox  bool
		expected string
	}{
		{"Normal Mode - Current Dir", ".", false, "."},
		{"Normal Mode - Empty", "", false, "."},
		{"Normal Mode - Specific Path", "/some/path", false, "/some/path"},
		{"Sandbox - Empty Path", "", true, filepath.Join(devBase, "default")},
		{"Sandbox - Current Dir", ".", true, filepath.Join(devBase, "default")},
		{"Sandbox - Relative Name", "my-notes", true, filepath.Join(devBase, "my-notes")},
		{"Sandbox - Clean Name", "../bad/path", true, filepath.Join(devBase, "path")},
		{"Sandbox - Temp Dir Passes Through", filepath.Join(tempRoot, "my-test"), true, filepath.Join(tempRoot, "my-test")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveDataDir(tt.userPath, tt.sandbox); got != tt.expected {
				t.Errorf("ResolveDataDir(%q, %v) = %q; want %q", tt.userPath, tt.sandbox, got, tt.expected)
			}
		})
	}
}

func TestIsDevRun(t *testing.T) {
	if !IsDevRun() {
		t.Errorf("IsDevRun() = false; want true inside go test")
	}
}
