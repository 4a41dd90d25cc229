// Package emitter implements the LIR→primitive-stream code generator: it
// expands offset-based LIR ops into emitter instructions carrying logical
// (not yet interleaved) offsets, then synthesizes the primitive stream
// that a tape machine executes, including the outer block-dispatch
// trampoline.
package emitter

import (
	"fmt"

	"github.com/kestrel-lang/tapec/pkg/hir"
)

// code is the closed set of instruction shapes an emitter Block may hold.
type code uint8

const (
	iByteAdd code = iota
	iByteSub
	iByteEq
	iByteOut
	iByteIn
	iByteIncr
	iByteDecr
	iByteSet
	iMemcopy
	iExit
	iGoto
	iIf
	iReturn
)

// Instr is a single emitter instruction. Offsets are logical (the
// interleaving ×2 happens only during synthesis, in fragments.go).
type Instr struct {
	code code

	Tgt, Arg0, Arg1 int // ByteAdd, ByteSub, ByteEq
	Byte            byte

	From, To, Num int // Memcopy

	BlockID                 int // Goto
	Pred, TrueID, FalseID   int // If
	FrameSize               int // Return
}

func byteArith(c code, tgt, arg0, arg1 int) Instr {
	return Instr{code: c, Tgt: tgt, Arg0: arg0, Arg1: arg1}
}

// ByteAdd computes tgt = arg0 + arg1 (wrapping).
func ByteAdd(tgt, arg0, arg1 int) Instr { return byteArith(iByteAdd, tgt, arg0, arg1) }

// ByteSub computes tgt = arg0 - arg1 (wrapping).
func ByteSub(tgt, arg0, arg1 int) Instr { return byteArith(iByteSub, tgt, arg0, arg1) }

// ByteEq computes tgt = 1 if arg0 == arg1 else 0.
func ByteEq(tgt, arg0, arg1 int) Instr { return byteArith(iByteEq, tgt, arg0, arg1) }

// ByteOut writes the byte at src to external output.
func ByteOut(src int) Instr { return Instr{code: iByteOut, Arg0: src} }

// ByteIn reads one byte of external input into tgt.
func ByteIn(tgt int) Instr { return Instr{code: iByteIn, Tgt: tgt} }

// ByteIncr increments tgt in place.
func ByteIncr(tgt int) Instr { return Instr{code: iByteIncr, Tgt: tgt} }

// ByteDecr decrements tgt in place.
func ByteDecr(tgt int) Instr { return Instr{code: iByteDecr, Tgt: tgt} }

// ByteSet zeroes tgt then sets it to b. Repeated ByteSet on the same
// offset is correct because it always zeroes first.
func ByteSet(tgt int, b byte) Instr { return Instr{code: iByteSet, Tgt: tgt, Byte: b} }

// Memcopy copies num bytes from logical offset from to logical offset to.
func Memcopy(from, to, num int) Instr { return Instr{code: iMemcopy, From: from, To: to, Num: num} }

// Exit halts the whole program.
func Exit() Instr { return Instr{code: iExit} }

// Goto transfers control to block id.
func Goto(id int) Instr { return Instr{code: iGoto, BlockID: id} }

// If transfers control to trueID when pred is nonzero, falseID otherwise.
func If(pred, trueID, falseID int) Instr {
	return Instr{code: iIf, Pred: pred, TrueID: trueID, FalseID: falseID}
}

// Return unwinds a frameSize-byte frame. See fragments.go's emitReturn
// doc comment for why this compiles to the same halt sequence as Exit.
func Return(frameSize int) Instr { return Instr{code: iReturn, FrameSize: frameSize} }

func (i Instr) String() string {
	switch i.code {
	case iByteAdd:
		return fmt.Sprintf("%d = %d + %d", i.Tgt, i.Arg0, i.Arg1)
	case iByteSub:
		return fmt.Sprintf("%d = %d - %d", i.Tgt, i.Arg0, i.Arg1)
	case iByteEq:
		return fmt.Sprintf("%d = %d == %d", i.Tgt, i.Arg0, i.Arg1)
	case iByteOut:
		return fmt.Sprintf("out %d", i.Arg0)
	case iByteIn:
		return fmt.Sprintf("%d = in", i.Tgt)
	case iByteIncr:
		return fmt.Sprintf("incr %d", i.Tgt)
	case iByteDecr:
		return fmt.Sprintf("decr %d", i.Tgt)
	case iByteSet:
		return fmt.Sprintf("%d = %d", i.Tgt, i.Byte)
	case iMemcopy:
		return fmt.Sprintf("memcopy %d <- %d (%d bytes)", i.To, i.From, i.Num)
	case iExit:
		return "exit"
	case iGoto:
		return fmt.Sprintf("goto %d", i.BlockID)
	case iIf:
		return fmt.Sprintf("if %d then %d else %d", i.Pred, i.TrueID, i.FalseID)
	case iReturn:
		return fmt.Sprintf("return (frame=%d)", i.FrameSize)
	default:
		return "?instr"
	}
}

// IsByteArith reports whether this instruction is a ByteAdd/ByteSub/ByteEq
// and returns its operands alongside the HIR OpKind it corresponds to.
func (i Instr) IsByteArith() (kind hir.OpKind, tgt, arg0, arg1 int, ok bool) {
	switch i.code {
	case iByteAdd:
		return hir.ByteAdd, i.Tgt, i.Arg0, i.Arg1, true
	case iByteSub:
		return hir.ByteSub, i.Tgt, i.Arg0, i.Arg1, true
	case iByteEq:
		return hir.ByteEq, i.Tgt, i.Arg0, i.Arg1, true
	default:
		return 0, 0, 0, 0, false
	}
}

// IsByteOut reports whether this is a ByteOut and its source offset.
func (i Instr) IsByteOut() (src int, ok bool) {
	if i.code != iByteOut {
		return 0, false
	}
	return i.Arg0, true
}

// IsByteIn reports whether this is a ByteIn and its target offset.
func (i Instr) IsByteIn() (tgt int, ok bool) {
	if i.code != iByteIn {
		return 0, false
	}
	return i.Tgt, true
}

// IsByteIncr reports whether this is a ByteIncr and its target offset.
func (i Instr) IsByteIncr() (tgt int, ok bool) {
	if i.code != iByteIncr {
		return 0, false
	}
	return i.Tgt, true
}

// IsByteDecr reports whether this is a ByteDecr and its target offset.
func (i Instr) IsByteDecr() (tgt int, ok bool) {
	if i.code != iByteDecr {
		return 0, false
	}
	return i.Tgt, true
}

// IsByteSet reports whether this is a ByteSet and its fields.
func (i Instr) IsByteSet() (tgt int, b byte, ok bool) {
	if i.code != iByteSet {
		return 0, 0, false
	}
	return i.Tgt, i.Byte, true
}

// IsMemcopy reports whether this is a Memcopy and its fields.
func (i Instr) IsMemcopy() (from, to, num int, ok bool) {
	if i.code != iMemcopy {
		return 0, 0, 0, false
	}
	return i.From, i.To, i.Num, true
}

// IsExit reports whether this is an Exit.
func (i Instr) IsExit() bool { return i.code == iExit }

// IsGoto reports whether this is a Goto and its target block ID.
func (i Instr) IsGoto() (id int, ok bool) {
	if i.code != iGoto {
		return 0, false
	}
	return i.BlockID, true
}

// IsIf reports whether this is an If and its fields.
func (i Instr) IsIf() (pred, trueID, falseID int, ok bool) {
	if i.code != iIf {
		return 0, 0, 0, false
	}
	return i.Pred, i.TrueID, i.FalseID, true
}

// IsReturn reports whether this is a Return and its frame size.
func (i Instr) IsReturn() (frameSize int, ok bool) {
	if i.code != iReturn {
		return 0, false
	}
	return i.FrameSize, true
}

// Block is an emitted block: its LIR ID plus its straight-line
// instruction sequence, trailing branch included as the last instruction.
type Block struct {
	ID     int
	Instrs []Instr
}

// Program is the whole-program emitter IR: every block, each carrying
// its ID, in ascending ID order, plus the entry block's ID (mirrors
// lir.Program.EntryID).
type Program struct {
	EntryID int
	Blocks  []Block
}
