package crdt

import (
	"testing"

	"rowgit/pkg/types"
)

func TestLWWEngineInsertThenUpdate(t *testing.T) {
	e := New()
	insert := types.Insert("users", "1", []byte("alice"))
	update := types.Update("users", "1", []byte("alice smith"))

	if err := e.ApplyChange(&insert); err != nil {
		t.Fatalf("ApplyChange(insert): %v", err)
	}
	if err := e.ApplyChange(&update); err != nil {
		t.Fatalf("ApplyChange(update): %v", err)
	}

	state := e.State()
	got := string(state["users"]["1"])
	if got != "alice smith" {
		t.Fatalf("state[users][1] = %q, want %q", got, "alice smith")
	}
}

func TestLWWEngineDeleteRemovesRow(t *testing.T) {
	e := New()
	insert := types.Insert("users", "1", []byte("alice"))
	del := types.Delete("users", "1")

	if err := e.ApplyChange(&insert); err != nil {
		t.Fatalf("ApplyChange(insert): %v", err)
	}
	if err := e.ApplyChange(&del); err != nil {
		t.Fatalf("ApplyChange(delete): %v", err)
	}

	state := e.State()
	if _, ok := state["users"]["1"]; ok {
		t.Fatal("expected row to be removed after delete")
	}
}

func TestLWWEngineLastWriteWinsByReplayOrder(t *testing.T) {
	e := New()
	first := types.Insert("users", "1", []byte("first"))
	second := types.Insert("users", "1", []byte("second"))

	if err := e.ApplyChange(&first); err != nil {
		t.Fatal(err)
	}
	if err := e.ApplyChange(&second); err != nil {
		t.Fatal(err)
	}

	state := e.State()
	if got := string(state["users"]["1"]); got != "second" {
		t.Fatalf("state[users][1] = %q, want %q (last write should win)", got, "second")
	}
}

func TestLWWEngineStateIsASnapshot(t *testing.T) {
	e := New()
	insert := types.Insert("users", "1", []byte("alice"))
	if err := e.ApplyChange(&insert); err != nil {
		t.Fatal(err)
	}

	state := e.State()
	state["users"]["1"][0] = 'X'

	state2 := e.State()
	if string(state2["users"]["1"]) != "alice" {
		t.Fatal("mutating a returned State snapshot should not affect engine state")
	}
}

func TestLWWEngineIntoDataConsumesEngine(t *testing.T) {
	e := New()
	insert := types.Insert("users", "1", []byte("alice"))
	if err := e.ApplyChange(&insert); err != nil {
		t.Fatal(err)
	}

	data := e.IntoData()
	if string(data["users"]["1"]) != "alice" {
		t.Fatalf("IntoData()[users][1] = %q, want %q", data["users"]["1"], "alice")
	}
}

func TestLWWEngineTablesAreIndependent(t *testing.T) {
	e := New()
	u := types.Insert("users", "1", []byte("alice"))
	o := types.Insert("orders", "1", []byte("order-a"))
	if err := e.ApplyChange(&u); err != nil {
		t.Fatal(err)
	}
	if err := e.ApplyChange(&o); err != nil {
		t.Fatal(err)
	}

	state := e.State()
	if len(state) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(state))
	}
	if string(state["users"]["1"]) != "alice" || string(state["orders"]["1"]) != "order-a" {
		t.Fatal("tables should not cross-contaminate rows")
	}
}
