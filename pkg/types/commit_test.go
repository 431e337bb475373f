package types

import (
	"reflect"
	"testing"
)

func TestCommitIsRoot(t *testing.T) {
	root := NewCommit(nil, "root", 1, nil, nil)
	if !root.IsRoot() {
		t.Fatal("commit with no parents should be root")
	}
	if _, ok := root.Parent(); ok {
		t.Fatal("root commit should have no parent")
	}

	var parent Hash
	parent[0] = 1
	child := NewCommit([]Hash{parent}, "child", 2, nil, nil)
	if child.IsRoot() {
		t.Fatal("commit with a parent should not be root")
	}
	got, ok := child.Parent()
	if !ok || got != parent {
		t.Fatalf("Parent() = %v, %v; want %v, true", got, ok, parent)
	}
}

func TestCommitSortedTableNames(t *testing.T) {
	tree := map[string]Hash{
		"zebras":  {1},
		"apples":  {2},
		"mangoes": {3},
	}
	commit := NewCommit(nil, "m", 0, nil, tree)
	got := commit.SortedTableNames()
	want := []string{"apples", "mangoes", "zebras"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SortedTableNames() = %v, want %v", got, want)
	}
}

func TestCommitSortedTableNamesEmpty(t *testing.T) {
	commit := NewCommit(nil, "m", 0, nil, nil)
	if got := commit.SortedTableNames(); len(got) != 0 {
		t.Fatalf("expected no table names, got %v", got)
	}
}
