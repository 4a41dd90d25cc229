package lir_test

import (
	"testing"

	"github.com/kestrel-lang/tapec/pkg/fixtures"
	"github.com/kestrel-lang/tapec/pkg/hir"
	"github.com/kestrel-lang/tapec/pkg/lir"
	"github.com/kestrel-lang/tapec/pkg/types"
)

func TestLowerIsDeterministic(t *testing.T) {
	prog := fixtures.Greeting()

	first, err := lir.Lower(prog)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := lir.Lower(prog)
		if err != nil {
			t.Fatalf("Lower: %v", err)
		}
		if again.EntryID != first.EntryID {
			t.Fatalf("entry ID not stable across runs: %d vs %d", again.EntryID, first.EntryID)
		}
		if len(again.Blocks) != len(first.Blocks) {
			t.Fatalf("block count not stable: %d vs %d", len(again.Blocks), len(first.Blocks))
		}
		for id, block := range first.Blocks {
			other, ok := again.Blocks[id]
			if !ok {
				t.Fatalf("block %d missing on rerun", id)
			}
			if block.Branch.String() != other.Branch.String() {
				t.Errorf("block %d branch changed: %v vs %v", id, block.Branch, other.Branch)
			}
		}
	}
}

func TestFrameMonotonicity(t *testing.T) {
	prog := fixtures.Greeting()
	lowered, err := lir.Lower(prog)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}

	entry, ok := lowered.Blocks[lowered.EntryID]
	if !ok {
		t.Fatal("entry block missing")
	}

	// Every local generated in main's entry block is introduced there, so
	// each generating op's target must sit strictly above the previous one.
	seen := map[int]bool{}
	maxOff := -1
	prevTarget := -1
	for _, op := range entry.Ops {
		var offs []int
		if tgt, _, arg, ok := op.IsUnary(); ok {
			offs = []int{tgt, arg}
		} else if tgt, _, a0, a1, ok := op.IsBinary(); ok {
			offs = []int{tgt, a0, a1}
		} else if tgt, _, ok := op.IsDecl(); ok {
			offs = []int{tgt}
		} else if tgt, ok := op.IsIn(); ok {
			offs = []int{tgt}
		}
		if len(offs) > 0 {
			if offs[0] <= prevTarget {
				t.Errorf("%v: target offset %d not above previous target %d", op, offs[0], prevTarget)
			}
			prevTarget = offs[0]
		}
		for _, off := range offs {
			if off > maxOff {
				maxOff = off
			}
			seen[off] = true
		}
	}
	if maxOff < 0 {
		t.Fatal("no offsets observed")
	}
}

func TestCallIsUnsupported(t *testing.T) {
	prog := hir.NewProgram().
		WithFunction("main", hir.NewFunction(types.Empty{}, "in", types.Empty{}).
			WithBlock("entry", hir.NewBlock(hir.Exit()).
				WithOp(hir.Call(
					hir.Local{Name: "r", Type: types.Empty{}},
					"print_byte",
					hir.Local{Name: "in", Type: types.Empty{}},
				))))

	_, err := lir.Lower(prog)
	if err == nil {
		t.Fatal("expected an error lowering a Call op")
	}
	var unsupported *lir.UnsupportedOpError
	if !errorsAs(err, &unsupported) {
		t.Fatalf("expected *UnsupportedOpError, got %T: %v", err, err)
	}
}

func TestNoSuchLocal(t *testing.T) {
	prog := hir.NewProgram().
		WithFunction("main", hir.NewFunction(types.Empty{}, "in", types.Empty{}).
			WithBlock("entry", hir.NewBlock(hir.Exit()).
				WithOp(hir.OutByte("never_declared"))))

	_, err := lir.Lower(prog)
	if err == nil {
		t.Fatal("expected an error for an unbound local")
	}
	var notFound *lir.NoSuchLocalError
	if !errorsAs(err, &notFound) {
		t.Fatalf("expected *NoSuchLocalError, got %T: %v", err, err)
	}
}

func TestMissingEntryBlock(t *testing.T) {
	prog := hir.NewProgram().
		WithFunction("main", hir.NewFunction(types.Empty{}, "in", types.Empty{}).
			WithBlock("start", hir.NewBlock(hir.Exit())))

	_, err := lir.Lower(prog)
	if err == nil {
		t.Fatal("expected an error when main:entry is missing")
	}
}

func TestReturnValEmitsMemcopy(t *testing.T) {
	prog := hir.NewProgram().
		WithFunction("main", hir.NewFunction(types.Byte{}, "in", types.Empty{}).
			WithBlock("entry", hir.NewBlock(hir.ReturnByte("result")).
				WithOp(hir.DeclByte("result", types.ByteValue(42)))))

	lowered, err := lir.Lower(prog)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	entry := lowered.Blocks[lowered.EntryID]

	frameSize, ok := entry.Branch.IsReturn()
	if !ok {
		t.Fatalf("expected a Return branch, got %v", entry.Branch)
	}
	if frameSize != 2 { // 1 byte return slot + 1 byte local "result"
		t.Errorf("frame size = %d, want 2", frameSize)
	}

	last := entry.Ops[len(entry.Ops)-1]
	from, to, num, ok := last.IsMemcopy()
	if !ok {
		t.Fatalf("expected trailing Memcopy, got %v", last)
	}
	if to != 0 || num != 1 || from != 1 {
		t.Errorf("Memcopy{from:%d to:%d num:%d}, want {from:1 to:0 num:1}", from, to, num)
	}
}

func errorsAs[T error](err error, target *T) bool {
	for err != nil {
		if t, ok := err.(T); ok {
			*target = t
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
