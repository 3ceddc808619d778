package workspace

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func ids(files []File) []string {
	var out []string
	for _, f := range files {
		out = append(out, f.ID)
	}
	return out
}

func TestLoadIndexesTypeScriptSources(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "libs/user/src/user.service.ts", "export class UserService {}")
	writeFile(t, root, "apps/web/src/app.component.tsx", "export class AppComponent {}")
	writeFile(t, root, "README.md", "# nope")
	writeFile(t, root, "script.js", "x")

	ws, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{"apps/web/src/app.component.tsx", "libs/user/src/user.service.ts"}
	if got := ids(ws.Files); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLoadSkipsGeneratedDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "libs/a.ts", "export const A = 1;")
	writeFile(t, root, "node_modules/pkg/index.ts", "export const X = 1;")
	writeFile(t, root, "dist/out.ts", "export const Y = 1;")
	writeFile(t, root, "libs/__mocks__/a.mock.ts", "export const Z = 1;")

	ws, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := ids(ws.Files); !reflect.DeepEqual(got, []string{"libs/a.ts"}) {
		t.Errorf("got %v", got)
	}
}

func TestLoadSkipsDeclarationAndStoryFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "libs/a.ts", "export const A = 1;")
	writeFile(t, root, "libs/a.d.ts", "declare const A: number;")
	writeFile(t, root, "libs/button.stories.ts", "export default {};")

	ws, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := ids(ws.Files); !reflect.DeepEqual(got, []string{"libs/a.ts"}) {
		t.Errorf("got %v", got)
	}
}

func TestLoadClassifiesFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "libs/a.ts", "")
	writeFile(t, root, "libs/a.spec.ts", "")
	writeFile(t, root, "libs/b.test.ts", "")
	writeFile(t, root, "libs/data.worker.ts", "")

	ws, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	classes := make(map[string]FileClass)
	for _, f := range ws.Files {
		classes[f.ID] = f.Class
	}

	if classes["libs/a.ts"] != ClassSource {
		t.Error("a.ts should be source")
	}
	if classes["libs/a.spec.ts"] != ClassTest || classes["libs/b.test.ts"] != ClassTest {
		t.Error("spec/test files should be classified as tests")
	}
	if classes["libs/data.worker.ts"] != ClassWorker {
		t.Error("worker file should be classified as worker")
	}
}

func TestLoadHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "generated/\nlibs/skip.ts\n")
	writeFile(t, root, "libs/a.ts", "")
	writeFile(t, root, "libs/skip.ts", "")
	writeFile(t, root, "generated/gen.ts", "")

	ws, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := ids(ws.Files); !reflect.DeepEqual(got, []string{"libs/a.ts"}) {
		t.Errorf("got %v", got)
	}
}

func TestLoadMissingRoot(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestTestSiblings(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "libs/user.service.ts", "")
	writeFile(t, root, "libs/user.service.spec.ts", "")
	writeFile(t, root, "libs/other.ts", "")

	ws, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got := ws.TestSiblings("libs/user.service.ts")
	if !reflect.DeepEqual(got, []string{"libs/user.service.spec.ts"}) {
		t.Errorf("got %v", got)
	}
	if ws.TestSiblings("libs/other.ts") != nil {
		t.Error("expected no siblings for other.ts")
	}
}

func TestLoadBreaksSymlinkCycles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "libs/a.ts", "")
	if err := os.Symlink(root, filepath.Join(root, "libs", "loop")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	ws, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(ws.Files) == 0 {
		t.Fatal("expected files despite symlink cycle")
	}
}
