package emitter_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/kestrel-lang/tapec/pkg/emitter"
	"github.com/kestrel-lang/tapec/pkg/fixtures"
	"github.com/kestrel-lang/tapec/pkg/hir"
	"github.com/kestrel-lang/tapec/pkg/lir"
)

func emitStream(t *testing.T, prog hir.Program) string {
	t.Helper()
	lowered, err := lir.Lower(prog)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	return emitter.FromLIR(lowered).Emit()
}

func TestBracketsBalance(t *testing.T) {
	progs := map[string]hir.Program{
		"hello_byte": fixtures.HelloByte(),
		"echo":       fixtures.Echo(),
		"add":        fixtures.Add(),
		"equality":   fixtures.Equality(5, 5),
		"countdown":  fixtures.Countdown(),
		"greeting":   fixtures.Greeting(),
	}

	for name, prog := range progs {
		t.Run(name, func(t *testing.T) {
			stream := emitStream(t, prog)
			depth := 0
			for _, c := range stream {
				switch c {
				case '[':
					depth++
				case ']':
					depth--
				}
				if depth < 0 {
					t.Fatalf("%s: unmatched ']' before stream end", name)
				}
			}
			if depth != 0 {
				t.Fatalf("%s: %d unmatched '[' at stream end", name, depth)
			}
		})
	}
}

func TestBlockMarkersPresent(t *testing.T) {
	prog := fixtures.Greeting()
	stream := emitStream(t, prog)
	lowered, err := lir.Lower(prog)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	for id := range lowered.Blocks {
		head := fmt.Sprintf("BLOCK_HEAD(%d)", id)
		code := fmt.Sprintf("BLOCK_CODE(%d)", id)
		end := fmt.Sprintf("BLOCK_END(%d)", id)
		if !strings.Contains(stream, head) {
			t.Errorf("missing %s", head)
		}
		if !strings.Contains(stream, code) {
			t.Errorf("missing %s", code)
		}
		if !strings.Contains(stream, end) {
			t.Errorf("missing %s", end)
		}
	}
}

func TestStreamContainsPrimitiveAlphabet(t *testing.T) {
	stream := emitStream(t, fixtures.Add())
	const primitives = "+-<>.,[]"
	found := false
	for _, c := range stream {
		if strings.ContainsRune(primitives, c) {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected at least one primitive byte in the emitted stream")
	}
}

func TestEmitDebugTracesEveryInstruction(t *testing.T) {
	lowered, err := lir.Lower(fixtures.Add())
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	prog := emitter.FromLIR(lowered)

	var trace bytes.Buffer
	stream := prog.EmitDebug(&trace)

	if trace.Len() == 0 {
		t.Fatal("expected EmitDebug to write a non-empty trace")
	}
	if !strings.Contains(stream, ":") {
		t.Fatal("expected EmitDebug's stream to contain debug-hook markers")
	}

	instrs := 0
	for _, block := range prog.Blocks {
		instrs += len(block.Instrs)
	}
	if lines := strings.Count(trace.String(), "\n"); lines != instrs {
		t.Errorf("trace lines = %d, want one per instruction (%d)", lines, instrs)
	}
	if hooks := strings.Count(stream, ":"); hooks != instrs {
		t.Errorf("debug hooks = %d, want one per instruction (%d)", hooks, instrs)
	}
}

func TestEntryIDCarriedThrough(t *testing.T) {
	lowered, err := lir.Lower(fixtures.Countdown())
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	prog := emitter.FromLIR(lowered)
	if prog.EntryID != lowered.EntryID {
		t.Fatalf("EntryID = %d, want %d", prog.EntryID, lowered.EntryID)
	}
}

func TestDeclExpandsToOneByteSetPerSerializedByte(t *testing.T) {
	prog := fixtures.Add() // two single-byte Decls plus one ByteAdd
	lowered, err := lir.Lower(prog)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	emitted := emitter.FromLIR(lowered)

	sets := 0
	for _, block := range emitted.Blocks {
		for _, instr := range block.Instrs {
			if _, _, ok := instr.IsByteSet(); ok {
				sets++
			}
		}
	}
	if sets != 2 { // "a" and "b" are Decls; "c" is computed by ByteAdd
		t.Errorf("ByteSet count = %d, want 2", sets)
	}
}
