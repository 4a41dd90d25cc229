// Package lir implements the low-level intermediate representation:
// names resolved to numeric block IDs, locals resolved to fixed byte
// offsets inside a per-function frame. A Program(LIR) is produced from
// a Program(HIR) by Lower.
package lir

import (
	"fmt"

	"github.com/kestrel-lang/tapec/pkg/hir"
	"github.com/kestrel-lang/tapec/pkg/types"
)

// code mirrors hir's op shapes, minus Call (unsupported) and plus
// Memcopy (introduced by lowering a ReturnVal branch).
type code uint8

const (
	opUnary code = iota
	opBinary
	opDecl
	opIn
	opOut
	opIncr
	opDecr
	opMemcopy
)

// Op is an offset-based operation inside a Block.
type Op struct {
	code code

	Target int      // generated local offset: Unary, Binary, Decl, In, Incr, Decr
	Kind   hir.OpKind // Unary, Binary

	Arg0 int // Unary's operand offset; Binary's first operand; Out's source
	Arg1 int // Binary's second operand

	Value types.Value // Decl

	From, To, Num int // Memcopy
}

func unary(tgt int, kind hir.OpKind, arg int) Op {
	return Op{code: opUnary, Target: tgt, Kind: kind, Arg0: arg}
}

func binary(tgt int, kind hir.OpKind, arg0, arg1 int) Op {
	return Op{code: opBinary, Target: tgt, Kind: kind, Arg0: arg0, Arg1: arg1}
}

func decl(tgt int, val types.Value) Op { return Op{code: opDecl, Target: tgt, Value: val} }
func in(tgt int) Op                    { return Op{code: opIn, Target: tgt} }
func out(src int) Op                   { return Op{code: opOut, Arg0: src} }
func incr(tgt int) Op                  { return Op{code: opIncr, Target: tgt} }
func decr(tgt int) Op                  { return Op{code: opDecr, Target: tgt} }

// Memcopy copies Num bytes from logical offset From to logical offset
// To.
func Memcopy(from, to, num int) Op {
	return Op{code: opMemcopy, From: from, To: to, Num: num}
}

// String renders the op as a human-readable mnemonic for debugging.
// Callers that need to switch on the op's shape use the Is* methods.
func (o Op) String() string {
	switch o.code {
	case opUnary:
		return fmt.Sprintf("%d = %s %d", o.Target, o.Kind, o.Arg0)
	case opBinary:
		return fmt.Sprintf("%d = %d %s %d", o.Target, o.Arg0, o.Kind, o.Arg1)
	case opDecl:
		return fmt.Sprintf("%d = decl %s", o.Target, o.Value)
	case opIn:
		return fmt.Sprintf("%d = in", o.Target)
	case opOut:
		return fmt.Sprintf("out %d", o.Arg0)
	case opIncr:
		return fmt.Sprintf("incr %d", o.Target)
	case opDecr:
		return fmt.Sprintf("decr %d", o.Target)
	case opMemcopy:
		return fmt.Sprintf("memcopy %d <- %d (%d bytes)", o.To, o.From, o.Num)
	default:
		return "?op"
	}
}

// IsUnary reports whether this op is a Unary and returns its fields.
func (o Op) IsUnary() (target int, kind hir.OpKind, arg int, ok bool) {
	if o.code != opUnary {
		return 0, 0, 0, false
	}
	return o.Target, o.Kind, o.Arg0, true
}

// IsBinary reports whether this op is a Binary and returns its fields.
func (o Op) IsBinary() (target int, kind hir.OpKind, arg0, arg1 int, ok bool) {
	if o.code != opBinary {
		return 0, 0, 0, 0, false
	}
	return o.Target, o.Kind, o.Arg0, o.Arg1, true
}

// IsDecl reports whether this op is a Decl and returns its fields.
func (o Op) IsDecl() (target int, val types.Value, ok bool) {
	if o.code != opDecl {
		return 0, nil, false
	}
	return o.Target, o.Value, true
}

// IsIn reports whether this op is an In and returns its target offset.
func (o Op) IsIn() (target int, ok bool) {
	if o.code != opIn {
		return 0, false
	}
	return o.Target, true
}

// IsOut reports whether this op is an Out and returns its source offset.
func (o Op) IsOut() (src int, ok bool) {
	if o.code != opOut {
		return 0, false
	}
	return o.Arg0, true
}

// IsIncr reports whether this op is an Incr and returns its target offset.
func (o Op) IsIncr() (target int, ok bool) {
	if o.code != opIncr {
		return 0, false
	}
	return o.Target, true
}

// IsDecr reports whether this op is a Decr and returns its target offset.
func (o Op) IsDecr() (target int, ok bool) {
	if o.code != opDecr {
		return 0, false
	}
	return o.Target, true
}

// IsMemcopy reports whether this op is a Memcopy and returns its fields.
func (o Op) IsMemcopy() (from, to, num int, ok bool) {
	if o.code != opMemcopy {
		return 0, 0, 0, false
	}
	return o.From, o.To, o.Num, true
}

// branchKind is the closed set of ways an LIR Block may terminate.
type branchKind uint8

const (
	branchExit branchKind = iota
	branchReturn
	branchGoto
	branchIf
)

// Branch terminates every LIR Block.
type Branch struct {
	kind branchKind

	FrameSize int // Return

	BlockID int // Goto

	Pred, TrueID, FalseID int // If
}

// ExitBranch halts the whole program.
func ExitBranch() Branch { return Branch{kind: branchExit} }

// ReturnBranch returns from the current function; frameSize is the
// function's frame size. The emitter carries it along but compiles
// Return to the same halt sequence as Exit, so no frame is unwound.
func ReturnBranch(frameSize int) Branch { return Branch{kind: branchReturn, FrameSize: frameSize} }

// GotoBranch transfers control to another block by ID.
func GotoBranch(blockID int) Branch { return Branch{kind: branchGoto, BlockID: blockID} }

// IfBranch transfers control to trueID when the byte at pred is
// nonzero, falseID otherwise.
func IfBranch(pred, trueID, falseID int) Branch {
	return Branch{kind: branchIf, Pred: pred, TrueID: trueID, FalseID: falseID}
}

// IsExit reports whether this is an Exit branch.
func (b Branch) IsExit() bool { return b.kind == branchExit }

// IsReturn reports whether this is a Return branch and its frame size.
func (b Branch) IsReturn() (frameSize int, ok bool) {
	if b.kind != branchReturn {
		return 0, false
	}
	return b.FrameSize, true
}

// IsGoto reports whether this is a Goto branch and its target.
func (b Branch) IsGoto() (blockID int, ok bool) {
	if b.kind != branchGoto {
		return 0, false
	}
	return b.BlockID, true
}

// IsIf reports whether this is an If branch and its fields.
func (b Branch) IsIf() (pred, trueID, falseID int, ok bool) {
	if b.kind != branchIf {
		return 0, 0, 0, false
	}
	return b.Pred, b.TrueID, b.FalseID, true
}

func (b Branch) String() string {
	switch b.kind {
	case branchExit:
		return "exit"
	case branchReturn:
		return fmt.Sprintf("return (frame=%d)", b.FrameSize)
	case branchGoto:
		return fmt.Sprintf("goto %d", b.BlockID)
	case branchIf:
		return fmt.Sprintf("if %d then %d else %d", b.Pred, b.TrueID, b.FalseID)
	default:
		return "?branch"
	}
}

// Block is an ordered sequence of offset-based ops terminated by
// exactly one branch.
type Block struct {
	Ops    []Op
	Branch Branch
}

// Program is the lowered whole-program LIR: a flat table of blocks,
// unique by ID across every function, plus the entry block's ID.
type Program struct {
	EntryID int
	Blocks  map[int]*Block
}
