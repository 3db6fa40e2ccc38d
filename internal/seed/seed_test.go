//nolint:testpackage // Tests require internal access for thorough testing
package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abatilo/lanes/internal/task"
)

func TestBundled(t *testing.T) {
	tasks, err := Bundled().Load()
	if err != nil {
		t.Fatalf("Bundled().Load() failed: %v", err)
	}
	if len(tasks) == 0 {
		t.Fatal("bundled seed should not be empty")
	}

	seen := make(map[int64]bool)
	for _, tk := range tasks {
		if seen[tk.ID] {
			t.Errorf("duplicate id %d in bundled seed", tk.ID)
		}
		seen[tk.ID] = true
		if !task.IsValidStage(tk.Type) {
			t.Errorf("task %d has invalid stage %q", tk.ID, tk.Type)
		}
		if tk.Text == "" {
			t.Errorf("task %d has empty text", tk.ID)
		}
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "tasks.json")
	if err := os.WriteFile(jsonPath, []byte(`[{"id":9,"text":"from json","startDay":1,"endDay":2,"type":"review"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	yamlPath := filepath.Join(dir, "tasks.yaml")
	yamlContent := "- id: 8\n  text: from yaml\n  startDay: 1\n  endDay: 2\n  type: done\n"
	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		wantText string
		wantType task.Stage
	}{
		{"json seed", jsonPath, "from json", task.StageReview},
		{"yaml seed", yamlPath, "from yaml", task.StageDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := FromConfig(tt.path).Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(tasks) != 1 {
				t.Fatalf("len = %d, want 1", len(tasks))
			}
			if tasks[0].Text != tt.wantText || tasks[0].Type != tt.wantType {
				t.Errorf("got %+v, want text %q type %q", tasks[0], tt.wantText, tt.wantType)
			}
		})
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "nope.yaml")).Load(); err == nil {
		t.Error("expected error for missing seed file")
	}
}

func TestStaticCopies(t *testing.T) {
	src := []task.Task{{ID: 1, Text: "a", Type: task.StageTodo}}
	loader := Static(src)

	got, _ := loader.Load()
	got[0].Text = "mutated"

	again, _ := loader.Load()
	if again[0].Text != "a" {
		t.Errorf("Static loader leaked mutation: %q", again[0].Text)
	}
}
