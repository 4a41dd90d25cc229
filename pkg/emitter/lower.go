package emitter

import (
	"sort"

	"github.com/kestrel-lang/tapec/pkg/hir"
	"github.com/kestrel-lang/tapec/pkg/lir"
)

// FromLIR lowers a whole LIR program into emitter instructions. Unlike
// Lower (HIR→LIR), this step has no error return: every LIR shape has a
// defined emitter translation. It panics only on an op whose kind does
// not fit its shape (see lowerOp).
func FromLIR(prog *lir.Program) *Program {
	ids := make([]int, 0, len(prog.Blocks))
	for id := range prog.Blocks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	blocks := make([]Block, 0, len(ids))
	for _, id := range ids {
		blocks = append(blocks, lowerBlock(id, prog.Blocks[id]))
	}

	return &Program{EntryID: prog.EntryID, Blocks: blocks}
}

func lowerBlock(id int, block *lir.Block) Block {
	instrs := make([]Instr, 0, len(block.Ops)+1)
	for _, op := range block.Ops {
		instrs = append(instrs, lowerOp(op)...)
	}
	instrs = append(instrs, lowerBranch(block.Branch))
	return Block{ID: id, Instrs: instrs}
}

// lowerOp expands a single LIR op into one or more emitter instructions.
// Every variant lowers to exactly one instruction except Decl, whose
// value may serialize to several bytes (e.g. an Array or Struct), each
// becoming its own ByteSet at a successive offset. A Unary ByteCopy
// lowers to a one-byte Memcopy.
func lowerOp(op lir.Op) []Instr {
	if tgt, kind, arg, ok := op.IsUnary(); ok && kind == hir.ByteCopy {
		return []Instr{Memcopy(arg, tgt, 1)}
	}
	if tgt, kind, a0, a1, ok := op.IsBinary(); ok {
		switch kind {
		case hir.ByteAdd:
			return []Instr{ByteAdd(tgt, a0, a1)}
		case hir.ByteSub:
			return []Instr{ByteSub(tgt, a0, a1)}
		case hir.ByteEq:
			return []Instr{ByteEq(tgt, a0, a1)}
		}
	}
	if src, ok := op.IsOut(); ok {
		return []Instr{ByteOut(src)}
	}
	if tgt, ok := op.IsIn(); ok {
		return []Instr{ByteIn(tgt)}
	}
	if tgt, ok := op.IsIncr(); ok {
		return []Instr{ByteIncr(tgt)}
	}
	if tgt, ok := op.IsDecr(); ok {
		return []Instr{ByteDecr(tgt)}
	}
	if from, to, num, ok := op.IsMemcopy(); ok {
		return []Instr{Memcopy(from, to, num)}
	}
	if tgt, val, ok := op.IsDecl(); ok {
		bytes := val.Bytes()
		out := make([]Instr, len(bytes))
		for i, b := range bytes {
			out[i] = ByteSet(tgt+i, b)
		}
		return out
	}
	// Only an op whose kind does not fit its shape reaches this point: a
	// Unary of a binary kind, or a Binary of kind ByteCopy.
	panic("lowerOp: unrecognized LIR op")
}

func lowerBranch(branch lir.Branch) Instr {
	if branch.IsExit() {
		return Exit()
	}
	if frameSize, ok := branch.IsReturn(); ok {
		return Return(frameSize)
	}
	if id, ok := branch.IsGoto(); ok {
		return Goto(id)
	}
	if pred, t, f, ok := branch.IsIf(); ok {
		return If(pred, t, f)
	}
	panic("lowerBranch: unrecognized LIR branch")
}
