package emitter

import "strings"

// Physical cell layout (§4.3/§6.3 of the cell-layout table this package
// implements): cell 0 is pointer home, cell 1 is the dispatch register,
// cells 3/5/7 are reserved for the trampoline's own block-match test,
// cells 5/7 double as instruction-local scratch once inside a block
// body (the two uses never overlap in time), and cell 9 is reserved.
// Every logical offset k used by program locals is interleaved at
// physical 2k, so program data only ever occupies even cells; no
// fragment uses the odd cell 2k+1 as a per-local scratch slot.
const (
	dispatchCell   = 1
	trampMatch     = 3
	scratch1       = 5
	scratch2       = 7
	scratch3       = 9 // reserved, never written by any fragment below
)

func moveTo(offset int) string   { return strings.Repeat(">", offset) }
func moveBack(offset int) string { return strings.Repeat("<", offset) }

// zero clears cell a. Pointer starts and ends at home.
func zero(a int) string {
	return moveTo(a) + "[-]" + moveBack(a)
}

// set zeroes cell a then increments it n times.
func set(a int, n byte) string {
	return moveTo(a) + "[-]" + strings.Repeat("+", int(n)) + moveBack(a)
}

// addZeroing computes to += from; from = 0.
func addZeroing(from, to int) string {
	return moveTo(from) + "[-" + moveBack(from) +
		moveTo(to) + "+" + moveBack(to) +
		moveTo(from) + "]" + moveBack(from)
}

// subZeroing computes to -= from; from = 0.
func subZeroing(from, to int) string {
	return moveTo(from) + "[-" + moveBack(from) +
		moveTo(to) + "-" + moveBack(to) +
		moveTo(from) + "]" + moveBack(from)
}

// addPreserve computes to += from, leaving from unchanged. scratch must
// be zero on entry and is zero again on exit.
func addPreserve(from, to, scratch int) string {
	return zero(scratch) +
		addZeroing(from, scratch) +
		moveTo(scratch) + "[-" + moveBack(scratch) +
		moveTo(from) + "+" + moveBack(from) +
		moveTo(to) + "+" + moveBack(to) +
		moveTo(scratch) + "]" + moveBack(scratch)
}

// subPreserve computes to -= from, leaving from unchanged. scratch must
// be zero on entry and is zero again on exit.
func subPreserve(from, to, scratch int) string {
	return zero(scratch) +
		addZeroing(from, scratch) +
		moveTo(scratch) + "[-" + moveBack(scratch) +
		moveTo(from) + "+" + moveBack(from) +
		moveTo(to) + "-" + moveBack(to) +
		moveTo(scratch) + "]" + moveBack(scratch)
}

// not computes a = (a == 0) ? 1 : 0, using scratch as a working cell
// (zero on entry, zero on exit).
func not(a, scratch int) string {
	return zero(scratch) +
		moveTo(a) + "[" + moveBack(a) +
		moveTo(scratch) + "+" + moveBack(scratch) +
		moveTo(a) + "[-]" + "]" + "+" + moveBack(a) +
		moveTo(scratch) + "[" + moveBack(scratch) +
		moveTo(a) + "-" + moveBack(a) +
		moveTo(scratch) + "-" + "]" + moveBack(scratch)
}

// emitByteAdd synthesizes Instr(t = a + b). Offsets are logical; the ×2
// interleave is applied here, at the point where logical meets physical.
func emitByteAdd(t, a, b int) string {
	return zero(2*t) + addPreserve(2*a, 2*t, scratch1) + addPreserve(2*b, 2*t, scratch1)
}

func emitByteSub(t, a, b int) string {
	return zero(2*t) + addPreserve(2*a, 2*t, scratch1) + subPreserve(2*b, 2*t, scratch1)
}

// emitByteEq synthesizes Instr(t = a == b): compute a - b preserving both
// operands into scratch1, move that into t, then negate t into a 0/1
// boolean. Without the trailing not, t would hold the raw (wrapping)
// difference rather than an equality flag.
func emitByteEq(t, a, b int) string {
	return zero(scratch1) +
		addPreserve(2*a, scratch1, scratch2) +
		subPreserve(2*b, scratch1, scratch2) +
		zero(2*t) + addZeroing(scratch1, 2*t) +
		not(2*t, scratch2)
}

func emitByteOut(src int) string {
	return moveTo(2*src) + "." + moveBack(2*src)
}

func emitByteIn(tgt int) string {
	return moveTo(2*tgt) + "," + moveBack(2*tgt)
}

func emitByteIncr(tgt int) string {
	return moveTo(2*tgt) + "+" + moveBack(2*tgt)
}

func emitByteDecr(tgt int) string {
	return moveTo(2*tgt) + "-" + moveBack(2*tgt)
}

func emitByteSet(tgt int, b byte) string {
	return set(2*tgt, b)
}

// emitMemcopy copies num bytes logical-offset from→to. The leading
// bracketed pass over the destination region isn't load-bearing for
// correctness (each cell is zeroed individually below too) but matches
// the source material's belt-and-suspenders clearing of the destination
// before the byte-by-byte copy.
func emitMemcopy(from, to, num int) string {
	var b strings.Builder
	b.WriteString(moveTo(2 * to))
	for i := 0; i < num; i++ {
		b.WriteString("[-]>>")
	}
	b.WriteString(moveBack(2 * (to + num)))
	for i := 0; i < num; i++ {
		b.WriteString(zero(2 * (to + i)))
		b.WriteString(addPreserve(2*(from+i), 2*(to+i), scratch1))
	}
	return b.String()
}

// emitExit and emitReturn both halt the trampoline by zeroing the
// dispatch register. Return carries a frame size for documentation
// parity with the source material's stack-unwind step, but since
// function-call lowering is unsupported (no caller block ID ever exists
// to resume), there is nothing to unwind to: halting is the only sound
// behavior available to a Return reached from the entry function.
func emitExit() string { return set(dispatchCell, 0) }

func emitReturn(frameSize int) string { return set(dispatchCell, 0) }

func emitGoto(id int) string { return set(dispatchCell, byte(id)) }

// emitIf copies pred into scratch1 (preserving it), then opens a
// primitive loop on scratch1: if pred was nonzero the loop body runs
// exactly once, dispatching to trueID and zeroing scratch1 so the loop
// exits; if pred was zero the loop never runs, leaving the falseID
// already written to the dispatch register.
func emitIf(pred, trueID, falseID int) string {
	var b strings.Builder
	b.WriteString(set(scratch1, 0))
	b.WriteString(addPreserve(2*pred, scratch1, scratch2))
	b.WriteString(set(scratch2, 0))
	b.WriteString(set(dispatchCell, byte(falseID)))
	b.WriteString(moveTo(scratch1))
	b.WriteString("[")
	b.WriteString(moveBack(scratch1))
	b.WriteString(set(dispatchCell, byte(trueID)))
	b.WriteString(moveTo(scratch1))
	b.WriteString("[-]")
	b.WriteString("]")
	b.WriteString(moveBack(scratch1))
	return b.String()
}
