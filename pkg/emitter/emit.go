package emitter

import (
	"fmt"
	"io"
	"strings"
)

// Emit synthesizes the full primitive stream: set the dispatch register
// to the entry block, then loop over every block in turn, executing the
// one whose ID matches the dispatch register. Block order inside the
// loop is fixed (ascending ID, from FromLIR) but otherwise arbitrary —
// the trampoline's equality test, not position in the stream, decides
// which block runs.
func (p *Program) Emit() string {
	var b strings.Builder
	p.writeTraced(&b, nil)
	return b.String()
}

// EmitDebug is Emit's tracing variant: in addition to returning the same
// primitive stream (with a ':' tape-dump hook appended after every
// instruction), it writes a human-readable line per instruction to w.
// The ':' bytes are recognized by the reference interpreter (§6.2) as a
// debug hook and are otherwise non-significant; a VM run without
// debugging enabled may treat them as a no-op.
func (p *Program) EmitDebug(w io.Writer) string {
	var b strings.Builder
	p.writeTraced(&b, w)
	return b.String()
}

func (p *Program) writeTraced(b *strings.Builder, trace io.Writer) {
	b.WriteString(set(dispatchCell, byte(p.EntryID)))
	b.WriteString(">[<")
	for _, block := range p.Blocks {
		fmt.Fprintf(b, "  BLOCK_HEAD(%d)  ", block.ID)
		b.WriteString(zero(trampMatch))
		b.WriteString(zero(scratch1))
		b.WriteString(zero(scratch2))
		b.WriteString(addPreserve(dispatchCell, trampMatch, scratch1))
		b.WriteString(set(scratch1, byte(block.ID)))
		b.WriteString(subPreserve(scratch1, trampMatch, scratch2))
		b.WriteString(not(trampMatch, scratch2))

		b.WriteString(">>>[<<<")
		fmt.Fprintf(b, "  BLOCK_CODE(%d)  ", block.ID)
		for _, instr := range block.Instrs {
			b.WriteString(instr.String0())
			b.WriteString("    _    ")
			if trace != nil {
				fmt.Fprintf(trace, "block %d: %s\n", block.ID, instr)
				b.WriteString(":")
			}
		}
		fmt.Fprintf(b, "  BLOCK_END(%d)  ", block.ID)
		b.WriteString(">>>[-]][-]<<<")
	}
	b.WriteString(">]<")
}

// String0 renders instr as its synthesized primitive fragment. Named to
// avoid colliding with Instr.String, which renders a human-readable
// mnemonic instead.
func (i Instr) String0() string {
	switch i.code {
	case iByteAdd:
		return emitByteAdd(i.Tgt, i.Arg0, i.Arg1)
	case iByteSub:
		return emitByteSub(i.Tgt, i.Arg0, i.Arg1)
	case iByteEq:
		return emitByteEq(i.Tgt, i.Arg0, i.Arg1)
	case iByteOut:
		return emitByteOut(i.Arg0)
	case iByteIn:
		return emitByteIn(i.Tgt)
	case iByteIncr:
		return emitByteIncr(i.Tgt)
	case iByteDecr:
		return emitByteDecr(i.Tgt)
	case iByteSet:
		return emitByteSet(i.Tgt, i.Byte)
	case iMemcopy:
		return emitMemcopy(i.From, i.To, i.Num)
	case iExit:
		return emitExit()
	case iGoto:
		return emitGoto(i.BlockID)
	case iIf:
		return emitIf(i.Pred, i.TrueID, i.FalseID)
	case iReturn:
		return emitReturn(i.FrameSize)
	default:
		return ""
	}
}
