// Package hir implements the high-level intermediate representation:
// a name-based, typed program model built through a fluent, by-value
// API (Program.WithFunction, Function.WithBlock, Block.WithOp) with no
// back-references between a Block and its owning Function. Each builder
// call returns the extended value, which shares its Funcs/Blocks map
// and its Ops backing array with the receiver: WithFunction and
// WithBlock add to the receiver's map in place, so earlier copies see
// the addition too.
package hir

import (
	"fmt"

	"github.com/kestrel-lang/tapec/pkg/types"
)

// OpKind is the closed set of arithmetic/comparison kinds usable by
// Unary and Binary ops. All operate on single bytes (spec Non-goal:
// no composite arithmetic).
type OpKind uint8

const (
	ByteCopy OpKind = iota
	ByteAdd
	ByteSub
	ByteEq
)

func (k OpKind) String() string {
	switch k {
	case ByteCopy:
		return "byte_copy"
	case ByteAdd:
		return "byte_add"
	case ByteSub:
		return "byte_sub"
	case ByteEq:
		return "byte_eq"
	default:
		return fmt.Sprintf("OpKind(%d)", uint8(k))
	}
}

// Local names a typed local: either the function's sole input
// parameter, or a local first introduced by a generating op (see
// Op.GeneratedLocal).
type Local struct {
	Name string
	Type types.Type
}

func (l Local) String() string { return l.Name }

// code is the closed set of op shapes a Block body may contain.
type code uint8

const (
	opUnary code = iota
	opBinary
	opDecl
	opIn
	opOut
	opIncr
	opDecr
	opCall
)

// Op is a single operation inside a Block. Only the fields relevant to
// its code are meaningful; which those are is determined by code, the
// same way a single Instruction in a register IR carries a superset of
// fields and a switch on the opcode explains which ones apply.
type Op struct {
	code code

	Target Local  // generated local: Unary, Binary, Decl, In, Incr, Decr, Call
	Kind   OpKind // Unary, Binary

	Arg0 Local // Unary's operand; Binary's first operand; Out's source; Call's argument
	Arg1 Local // Binary's second operand

	Value types.Value // Decl

	FuncName string // Call
}

// Unary builds tgt = kind(arg).
func Unary(tgt Local, kind OpKind, arg Local) Op {
	return Op{code: opUnary, Target: tgt, Kind: kind, Arg0: arg}
}

// Binary builds tgt = arg0 kind arg1.
func Binary(tgt Local, kind OpKind, arg0, arg1 Local) Op {
	return Op{code: opBinary, Target: tgt, Kind: kind, Arg0: arg0, Arg1: arg1}
}

// Decl declares tgt with a compile-time constant value.
func Decl(tgt Local, val types.Value) Op {
	return Op{code: opDecl, Target: tgt, Value: val}
}

// In reads a single byte of external input into tgt.
func In(tgt Local) Op {
	return Op{code: opIn, Target: tgt}
}

// Out writes src to external output. Out generates nothing.
func Out(src Local) Op {
	return Op{code: opOut, Arg0: src}
}

// Incr increments tgt in place.
func Incr(tgt Local) Op {
	return Op{code: opIncr, Target: tgt}
}

// Decr decrements tgt in place.
func Decr(tgt Local) Op {
	return Op{code: opDecr, Target: tgt}
}

// Call invokes funcName with arg, binding its result to tgt. Lowering
// this op is unimplemented (spec open question): HIR→LIR returns
// *lir.UnsupportedOpError for any function whose body reaches a Call.
func Call(tgt Local, funcName string, arg Local) Op {
	return Op{code: opCall, Target: tgt, FuncName: funcName, Arg0: arg}
}

// GeneratedLocal returns the local this op introduces, and whether it
// introduces one at all. Per the generated-local rule, every op
// generates its target except Out.
func (o Op) GeneratedLocal() (Local, bool) {
	switch o.code {
	case opUnary, opBinary, opDecl, opIn, opIncr, opDecr, opCall:
		return o.Target, true
	default:
		return Local{}, false
	}
}

func (o Op) String() string {
	switch o.code {
	case opUnary:
		return fmt.Sprintf("%s = %s %s", o.Target, o.Kind, o.Arg0)
	case opBinary:
		return fmt.Sprintf("%s = %s %s %s", o.Target, o.Arg0, o.Kind, o.Arg1)
	case opDecl:
		return fmt.Sprintf("%s = decl %s", o.Target, o.Value)
	case opIn:
		return fmt.Sprintf("%s = in", o.Target)
	case opOut:
		return fmt.Sprintf("out %s", o.Arg0)
	case opIncr:
		return fmt.Sprintf("incr %s", o.Target)
	case opDecr:
		return fmt.Sprintf("decr %s", o.Target)
	case opCall:
		return fmt.Sprintf("%s = call %s(%s)", o.Target, o.FuncName, o.Arg0)
	default:
		return "?op"
	}
}

// IsUnary reports whether this op is a Unary and returns its fields.
func (o Op) IsUnary() (target Local, kind OpKind, arg Local, ok bool) {
	if o.code != opUnary {
		return Local{}, 0, Local{}, false
	}
	return o.Target, o.Kind, o.Arg0, true
}

// IsBinary reports whether this op is a Binary and returns its fields.
func (o Op) IsBinary() (target Local, kind OpKind, arg0, arg1 Local, ok bool) {
	if o.code != opBinary {
		return Local{}, 0, Local{}, Local{}, false
	}
	return o.Target, o.Kind, o.Arg0, o.Arg1, true
}

// IsDecl reports whether this op is a Decl and returns its fields.
func (o Op) IsDecl() (target Local, val types.Value, ok bool) {
	if o.code != opDecl {
		return Local{}, nil, false
	}
	return o.Target, o.Value, true
}

// IsIn reports whether this op is an In and returns its target.
func (o Op) IsIn() (target Local, ok bool) {
	if o.code != opIn {
		return Local{}, false
	}
	return o.Target, true
}

// IsOut reports whether this op is an Out and returns its source.
func (o Op) IsOut() (src Local, ok bool) {
	if o.code != opOut {
		return Local{}, false
	}
	return o.Arg0, true
}

// IsIncr reports whether this op is an Incr and returns its target.
func (o Op) IsIncr() (target Local, ok bool) {
	if o.code != opIncr {
		return Local{}, false
	}
	return o.Target, true
}

// IsDecr reports whether this op is a Decr and returns its target.
func (o Op) IsDecr() (target Local, ok bool) {
	if o.code != opDecr {
		return Local{}, false
	}
	return o.Target, true
}

// IsCall reports whether this op is a Call and returns its fields.
func (o Op) IsCall() (target Local, funcName string, arg Local, ok bool) {
	if o.code != opCall {
		return Local{}, "", Local{}, false
	}
	return o.Target, o.FuncName, o.Arg0, true
}

// branchKind is the closed set of ways a Block may terminate.
type branchKind uint8

const (
	branchReturnVal branchKind = iota
	branchReturnNone
	branchExit
	branchGoto
	branchIf
)

// Branch terminates every Block; exactly one per Block.
type Branch struct {
	kind branchKind

	Local Local // ReturnVal

	Target string // Goto

	Predicate Local  // If
	IfTrue    string // If
	IfFalse   string // If
}

// ReturnVal returns local's value from the function (copied into the
// return slot by HIR→LIR lowering).
func ReturnVal(local Local) Branch {
	return Branch{kind: branchReturnVal, Local: local}
}

// ReturnNone returns from a function with Empty output.
func ReturnNone() Branch {
	return Branch{kind: branchReturnNone}
}

// Exit halts the whole program.
func Exit() Branch {
	return Branch{kind: branchExit}
}

// Goto transfers control to another block in the same function.
func Goto(block string) Branch {
	return Branch{kind: branchGoto, Target: block}
}

// If transfers control to ifTrue when predicate's byte is nonzero,
// ifFalse otherwise.
func If(predicate Local, ifTrue, ifFalse string) Branch {
	return Branch{kind: branchIf, Predicate: predicate, IfTrue: ifTrue, IfFalse: ifFalse}
}

// IfNotZero is an alias for If matching the original's naming
// (if_not_zero): it branches to ifTrue when predicate is nonzero.
func IfNotZero(predicate Local, ifTrue, ifFalse string) Branch {
	return If(predicate, ifTrue, ifFalse)
}

func (b Branch) String() string {
	switch b.kind {
	case branchReturnVal:
		return fmt.Sprintf("return %s", b.Local)
	case branchReturnNone:
		return "return"
	case branchExit:
		return "exit"
	case branchGoto:
		return fmt.Sprintf("goto %s", b.Target)
	case branchIf:
		return fmt.Sprintf("if %s then %s else %s", b.Predicate, b.IfTrue, b.IfFalse)
	default:
		return "?branch"
	}
}

// IsReturnVal reports whether this is a ReturnVal branch and its local.
func (b Branch) IsReturnVal() (local Local, ok bool) {
	if b.kind != branchReturnVal {
		return Local{}, false
	}
	return b.Local, true
}

// IsReturnNone reports whether this is a ReturnNone branch.
func (b Branch) IsReturnNone() bool { return b.kind == branchReturnNone }

// IsExit reports whether this is an Exit branch.
func (b Branch) IsExit() bool { return b.kind == branchExit }

// IsGoto reports whether this is a Goto branch and its target block name.
func (b Branch) IsGoto() (target string, ok bool) {
	if b.kind != branchGoto {
		return "", false
	}
	return b.Target, true
}

// IsIf reports whether this is an If branch and its fields.
func (b Branch) IsIf() (predicate Local, ifTrue, ifFalse string, ok bool) {
	if b.kind != branchIf {
		return Local{}, "", "", false
	}
	return b.Predicate, b.IfTrue, b.IfFalse, true
}

// Block is a straight-line sequence of ops terminated by exactly one
// branch.
type Block struct {
	Ops    []Op
	Branch Branch
}

// NewBlock starts a block ending in branch, with no ops yet.
func NewBlock(branch Branch) Block {
	return Block{Branch: branch}
}

// WithOp appends op and returns the extended block.
func (b Block) WithOp(op Op) Block {
	b.Ops = append(b.Ops, op)
	return b
}

// Function carries an output type, a single input parameter, and its
// named basic blocks.
type Function struct {
	Output types.Type
	Input  Local
	Blocks map[string]Block
}

// NewFunction declares a function's signature. input is the sole
// parameter's name; its type is inputType.
func NewFunction(output types.Type, input string, inputType types.Type) Function {
	return Function{
		Output: output,
		Input:  Local{Name: input, Type: inputType},
		Blocks: map[string]Block{},
	}
}

// WithBlock adds or replaces a named block and returns the extended
// function.
func (f Function) WithBlock(name string, block Block) Function {
	if f.Blocks == nil {
		f.Blocks = map[string]Block{}
	}
	f.Blocks[name] = block
	return f
}

// Program is a mapping from function name to Function.
type Program struct {
	Funcs map[string]Function
}

// NewProgram returns an empty program.
func NewProgram() Program {
	return Program{Funcs: map[string]Function{}}
}

// WithFunction adds or replaces a named function and returns the
// extended program.
func (p Program) WithFunction(name string, fn Function) Program {
	if p.Funcs == nil {
		p.Funcs = map[string]Function{}
	}
	p.Funcs[name] = fn
	return p
}

// --- convenience constructors matching the original's byte_* helpers ---
//
// These take plain strings (rather than Local) and fix the type to
// types.Byte{}, matching the original's Op::byte_add/byte_sub/byte_eq
// associated functions. They're named *Byte rather than Byte* to avoid
// colliding with the OpKind constants of the same root name.

// DeclByte declares a byte-typed local with a constant value.
func DeclByte(tgt string, val types.Value) Op {
	return Decl(byteLocal(tgt), val)
}

// AddByte computes tgt = arg0 + arg1 (wrapping), all byte-typed.
func AddByte(tgt, arg0, arg1 string) Op {
	return Binary(byteLocal(tgt), ByteAdd, byteLocal(arg0), byteLocal(arg1))
}

// SubByte computes tgt = arg0 - arg1 (wrapping), all byte-typed.
func SubByte(tgt, arg0, arg1 string) Op {
	return Binary(byteLocal(tgt), ByteSub, byteLocal(arg0), byteLocal(arg1))
}

// EqByte computes tgt = (arg0 == arg1) as 1 or 0, all byte-typed.
func EqByte(tgt, arg0, arg1 string) Op {
	return Binary(byteLocal(tgt), ByteEq, byteLocal(arg0), byteLocal(arg1))
}

// IncrByte increments a byte-typed local in place.
func IncrByte(tgt string) Op { return Incr(byteLocal(tgt)) }

// DecrByte decrements a byte-typed local in place.
func DecrByte(tgt string) Op { return Decr(byteLocal(tgt)) }

// OutByte writes a byte-typed local to external output.
func OutByte(arg string) Op { return Out(byteLocal(arg)) }

// InByte reads one byte of external input into a byte-typed local.
func InByte(tgt string) Op { return In(byteLocal(tgt)) }

// ReturnByte returns a byte-typed local from the current function.
func ReturnByte(arg string) Branch { return ReturnVal(byteLocal(arg)) }

func byteLocal(name string) Local { return Local{Name: name, Type: types.Byte{}} }
