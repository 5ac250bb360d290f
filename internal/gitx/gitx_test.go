package gitx

import (
	"errors"
	"reflect"
	"testing"

	"github.com/fbkclanna/mono/internal/testutil"
)

func TestChangedPaths_betweenRefs(t *testing.T) {
	root := testutil.NewWorkspace(t,
		testutil.Pkg{Dir: "packages/core", Name: "core"},
	)
	base := testutil.Head(t, root)

	testutil.WriteFile(t, root, "packages/core/src/lib.py", "x = 1\n")
	testutil.CommitAll(t, root, "change core")
	head := testutil.Head(t, root)

	paths, err := ChangedPaths(root, base, head)
	if err != nil {
		t.Fatalf("ChangedPaths() error: %v", err)
	}
	want := []string{"packages/core/src/lib.py"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("ChangedPaths() = %v, want %v", paths, want)
	}
}

func TestChangedPaths_workingTree(t *testing.T) {
	root := testutil.NewWorkspace(t,
		testutil.Pkg{Dir: "packages/core", Name: "core"},
	)
	base := testutil.Head(t, root)

	// One committed change, one unstaged change, one untracked file.
	testutil.WriteFile(t, root, "packages/core/committed.py", "a\n")
	testutil.CommitAll(t, root, "committed change")
	testutil.WriteFile(t, root, "packages/core/package.toml", "[package]\nname = \"core\"\nversion = \"0.2.0\"\n")
	testutil.WriteFile(t, root, "packages/core/untracked.py", "b\n")

	paths, err := ChangedPaths(root, base, "")
	if err != nil {
		t.Fatalf("ChangedPaths() error: %v", err)
	}
	want := []string{
		"packages/core/committed.py",
		"packages/core/package.toml",
		"packages/core/untracked.py",
	}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("ChangedPaths() = %v, want %v", paths, want)
	}
}

func TestChangedPaths_invalidRef(t *testing.T) {
	root := testutil.NewWorkspace(t,
		testutil.Pkg{Dir: "packages/core", Name: "core"},
	)

	_, err := ChangedPaths(root, "no-such-ref", "")
	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("ChangedPaths() error = %v, want *QueryError", err)
	}
}

func TestChangedPaths_idempotent(t *testing.T) {
	root := testutil.NewWorkspace(t,
		testutil.Pkg{Dir: "packages/core", Name: "core"},
	)
	base := testutil.Head(t, root)
	testutil.WriteFile(t, root, "packages/core/a.py", "a\n")
	testutil.CommitAll(t, root, "change")
	head := testutil.Head(t, root)

	first, err := ChangedPaths(root, base, head)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ChangedPaths(root, base, head)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("ChangedPaths() not idempotent: %v vs %v", first, second)
	}
}

func TestTagAndTags(t *testing.T) {
	root := testutil.NewWorkspace(t,
		testutil.Pkg{Dir: "packages/core", Name: "core"},
	)

	if err := Tag(root, "core@0.2.0", "release core 0.2.0"); err != nil {
		t.Fatalf("Tag() error: %v", err)
	}
	if err := Tag(root, "api@1.0.0", "release api 1.0.0"); err != nil {
		t.Fatalf("Tag() error: %v", err)
	}

	tags, err := Tags(root, "core@*")
	if err != nil {
		t.Fatalf("Tags() error: %v", err)
	}
	if !reflect.DeepEqual(tags, []string{"core@0.2.0"}) {
		t.Errorf("Tags(core@*) = %v", tags)
	}
}

func TestRefExists(t *testing.T) {
	root := testutil.NewWorkspace(t,
		testutil.Pkg{Dir: "packages/core", Name: "core"},
	)
	if !RefExists(root, "HEAD") {
		t.Error("RefExists(HEAD) = false")
	}
	if RefExists(root, "does-not-exist") {
		t.Error("RefExists(does-not-exist) = true")
	}
}

func TestIsRepo(t *testing.T) {
	root := testutil.NewWorkspace(t,
		testutil.Pkg{Dir: "packages/core", Name: "core"},
	)
	if !IsRepo(root) {
		t.Error("IsRepo() = false for a workspace repo")
	}
	if IsRepo(t.TempDir()) {
		t.Error("IsRepo() = true for a plain directory")
	}
}
