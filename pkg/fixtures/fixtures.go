// Package fixtures holds shared sample HIR programs used by this
// module's own test suites (pkg/hir, pkg/lir, pkg/emitter, pkg/vm) so
// the same hand-built program exercises every stage of the pipeline
// identically. It is test-support infrastructure, not a compiler
// driver: nothing outside the test suites imports it, and cmd/tapec
// does not build programs from HIR (constructing a sample HIR is
// explicitly out of scope for the shipped tool).
package fixtures

import (
	"github.com/kestrel-lang/tapec/pkg/hir"
	"github.com/kestrel-lang/tapec/pkg/types"
)

// Greeting is the canonical end-to-end sample: it reads two ASCII
// digits from input, echoes whether they're equal, then alternates
// "hi" and "boo\n" three times before halting. It exercises Decl, In,
// Out, Decr and Binary (sub, eq, add) ops and the Goto, If and Exit
// branches across four blocks and a loop, plus an unreachable second
// function (ending in ReturnNone) whose body a Call could target once
// function lowering exists. It has no Unary, Incr or Call op and no
// ReturnVal branch.
func Greeting() hir.Program {
	return hir.NewProgram().
		WithFunction("main", hir.NewFunction(types.Empty{}, "in", types.Empty{}).
			WithBlock("entry", hir.NewBlock(hir.Goto("say_hi")).
				WithOp(hir.DeclByte("zero", types.ByteValue('0'))).
				WithOp(hir.InByte("a_l")).
				WithOp(hir.InByte("b_l")).
				WithOp(hir.SubByte("a", "a_l", "zero")).
				WithOp(hir.SubByte("b", "b_l", "zero")).
				WithOp(hir.EqByte("answer", "a", "b")).
				WithOp(hir.AddByte("answer_l", "answer", "zero")).
				WithOp(hir.OutByte("answer_l")).
				WithOp(hir.DeclByte("count", types.ByteValue(3)))).
			WithBlock("say_hi", hir.NewBlock(hir.Goto("say_boo")).
				WithOp(hir.DeclByte("hl", types.ByteValue('h'))).
				WithOp(hir.DeclByte("il", types.ByteValue('i'))).
				WithOp(hir.OutByte("hl")).
				WithOp(hir.OutByte("il"))).
			WithBlock("say_boo", hir.NewBlock(hir.IfNotZero(
				hir.Local{Name: "count", Type: types.Byte{}}, "say_hi", "exit")).
				WithOp(hir.DeclByte("bl", types.ByteValue('b'))).
				WithOp(hir.DeclByte("ol", types.ByteValue('o'))).
				WithOp(hir.DeclByte("newline", types.ByteValue('\n'))).
				WithOp(hir.OutByte("bl")).
				WithOp(hir.OutByte("ol")).
				WithOp(hir.OutByte("ol")).
				WithOp(hir.OutByte("newline")).
				WithOp(hir.DecrByte("count"))).
			WithBlock("exit", hir.NewBlock(hir.Exit()))).
		WithFunction("print_byte", hir.NewFunction(types.Empty{}, "b", types.Byte{}).
			WithBlock("entry", hir.NewBlock(hir.ReturnNone()).
				WithOp(hir.OutByte("b"))))
}

// HelloByte is the smallest possible end-to-end program: declare one
// byte, emit it, halt.
func HelloByte() hir.Program {
	return hir.NewProgram().
		WithFunction("main", hir.NewFunction(types.Empty{}, "in", types.Empty{}).
			WithBlock("entry", hir.NewBlock(hir.Exit()).
				WithOp(hir.DeclByte("h", types.ByteValue('h'))).
				WithOp(hir.OutByte("h"))))
}

// Echo reads one byte of input and writes it straight back out.
func Echo() hir.Program {
	return hir.NewProgram().
		WithFunction("main", hir.NewFunction(types.Empty{}, "in", types.Empty{}).
			WithBlock("entry", hir.NewBlock(hir.Exit()).
				WithOp(hir.InByte("x")).
				WithOp(hir.OutByte("x"))))
}

// Add computes 3 + 4 and emits the single resulting byte.
func Add() hir.Program {
	return hir.NewProgram().
		WithFunction("main", hir.NewFunction(types.Empty{}, "in", types.Empty{}).
			WithBlock("entry", hir.NewBlock(hir.Exit()).
				WithOp(hir.DeclByte("a", types.ByteValue(3))).
				WithOp(hir.DeclByte("b", types.ByteValue(4))).
				WithOp(hir.AddByte("c", "a", "b")).
				WithOp(hir.OutByte("c"))))
}

// Equality builds a program that compares two declared bytes and
// writes '1' or '0' depending on whether they're equal.
func Equality(a, b byte) hir.Program {
	return hir.NewProgram().
		WithFunction("main", hir.NewFunction(types.Empty{}, "in", types.Empty{}).
			WithBlock("entry", hir.NewBlock(hir.Exit()).
				WithOp(hir.DeclByte("a", types.ByteValue(a))).
				WithOp(hir.DeclByte("b", types.ByteValue(b))).
				WithOp(hir.DeclByte("zero", types.ByteValue('0'))).
				WithOp(hir.EqByte("e", "a", "b")).
				WithOp(hir.AddByte("o", "e", "zero")).
				WithOp(hir.OutByte("o"))))
}

// Countdown declares count = 3 and, in a loop block, decrements it and
// emits a fixed character each iteration until it reaches zero.
func Countdown() hir.Program {
	return hir.NewProgram().
		WithFunction("main", hir.NewFunction(types.Empty{}, "in", types.Empty{}).
			WithBlock("entry", hir.NewBlock(hir.Goto("loop")).
				WithOp(hir.DeclByte("count", types.ByteValue(3)))).
			WithBlock("loop", hir.NewBlock(hir.IfNotZero(
				hir.Local{Name: "count", Type: types.Byte{}}, "loop", "exit")).
				WithOp(hir.DecrByte("count")).
				WithOp(hir.DeclByte("c", types.ByteValue('x'))).
				WithOp(hir.OutByte("c"))).
			WithBlock("exit", hir.NewBlock(hir.Exit())))
}
