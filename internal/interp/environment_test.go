package interp

import "testing"

func TestEnvironment_AssignCreatesThenOverwrites(t *testing.T) {
	env := NewEnvironment()
	env.PushFrame()

	env.Assign("x", &IntValue{Value: 1})
	cell, ok := env.Get("x")
	if !ok || cell.Value.(*IntValue).Value != 1 {
		t.Fatalf("expected x=1 after first assign, got %+v ok=%v", cell, ok)
	}

	env.Assign("x", &IntValue{Value: 2})
	cell2, ok := env.Get("x")
	if !ok || cell2.Value.(*IntValue).Value != 2 {
		t.Fatalf("expected x=2 after second assign, got %+v ok=%v", cell2, ok)
	}
	if cell != cell2 {
		t.Error("re-assigning an existing variable should overwrite its cell in place, not create a new one")
	}
}

func TestEnvironment_PopFrameRestoresShadowedBinding(t *testing.T) {
	env := NewEnvironment()
	env.PushFrame()
	env.Assign("x", &IntValue{Value: 1})

	env.PushFrame()
	// Assign would overwrite the live outer x; shadowing pushes a new cell.
	env.PushCell("x", &Cell{Value: &IntValue{Value: 2}})
	if cell, _ := env.Get("x"); cell.Value.(*IntValue).Value != 2 {
		t.Fatalf("expected shadowed x=2 in inner frame")
	}
	env.PopFrame()

	cell, ok := env.Get("x")
	if !ok || cell.Value.(*IntValue).Value != 1 {
		t.Fatalf("expected outer x=1 restored after inner frame popped, got %+v ok=%v", cell, ok)
	}
}

func TestEnvironment_PopFrameRemovesNameEntirelyWhenStackEmpties(t *testing.T) {
	env := NewEnvironment()
	env.PushFrame()
	env.Assign("y", &IntValue{Value: 1})
	env.PopFrame()

	if _, ok := env.Get("y"); ok {
		t.Error("expected y to be unbound once its only frame is popped")
	}
}

func TestEnvironment_PushCellAliasesSharedCell(t *testing.T) {
	env := NewEnvironment()
	env.PushFrame()
	shared := &Cell{Value: &IntValue{Value: 10}}
	env.PushCell("a", shared)

	cell, ok := env.Get("a")
	if !ok || cell != shared {
		t.Fatalf("expected Get to return the aliased cell")
	}
	cell.Value = &IntValue{Value: 99}
	if shared.Value.(*IntValue).Value != 99 {
		t.Error("mutating through the returned cell should mutate the shared cell")
	}
}

func TestEnvironment_SnapshotCopiesLiveBindings(t *testing.T) {
	env := NewEnvironment()
	env.PushFrame()
	env.Assign("x", &IntValue{Value: 5})

	snap := env.Snapshot()
	iv, ok := snap["x"].(*IntValue)
	if !ok || iv.Value != 5 {
		t.Fatalf("expected snapshot to contain x=5, got %+v", snap)
	}

	// Mutating the live cell afterward must not affect the snapshot.
	env.Assign("x", &IntValue{Value: 6})
	if iv.Value != 5 {
		t.Error("snapshot value should be independent of later mutation")
	}
}

func TestEnvironment_FrameDepth(t *testing.T) {
	env := NewEnvironment()
	if env.FrameDepth() != 0 {
		t.Fatalf("expected depth 0, got %d", env.FrameDepth())
	}
	env.PushFrame()
	env.PushFrame()
	if env.FrameDepth() != 2 {
		t.Fatalf("expected depth 2, got %d", env.FrameDepth())
	}
	env.PopFrame()
	if env.FrameDepth() != 1 {
		t.Fatalf("expected depth 1, got %d", env.FrameDepth())
	}
}
