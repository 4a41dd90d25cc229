package vm_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/kestrel-lang/tapec/pkg/emitter"
	"github.com/kestrel-lang/tapec/pkg/fixtures"
	"github.com/kestrel-lang/tapec/pkg/hir"
	"github.com/kestrel-lang/tapec/pkg/lir"
	"github.com/kestrel-lang/tapec/pkg/vm"
)

func compile(t *testing.T, prog hir.Program) string {
	t.Helper()
	lowered, err := lir.Lower(prog)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	return emitter.FromLIR(lowered).Emit()
}

func run(t *testing.T, stream string, in string) string {
	t.Helper()
	v := vm.NewVm(0)
	var out bytes.Buffer
	if err := v.Exec(context.Background(), stream, strings.NewReader(in), &out); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	return out.String()
}

func TestHelloByte(t *testing.T) {
	stream := compile(t, fixtures.HelloByte())
	got := run(t, stream, "")
	if got != "h" {
		t.Errorf("output = %q, want %q", got, "h")
	}
}

func TestEcho(t *testing.T) {
	stream := compile(t, fixtures.Echo())
	got := run(t, stream, "A")
	if got != "A" {
		t.Errorf("output = %q, want %q", got, "A")
	}
}

func TestAdd(t *testing.T) {
	stream := compile(t, fixtures.Add())
	got := run(t, stream, "")
	if len(got) != 1 || got[0] != 7 {
		t.Errorf("output = %v, want [7]", []byte(got))
	}
}

func TestEqualityTrueAndFalse(t *testing.T) {
	cases := []struct {
		a, b byte
		want byte
	}{
		{5, 5, '1'},
		{5, 6, '0'},
	}
	for _, c := range cases {
		stream := compile(t, fixtures.Equality(c.a, c.b))
		got := run(t, stream, "")
		if len(got) != 1 || got[0] != c.want {
			t.Errorf("Equality(%d, %d) = %v, want %q", c.a, c.b, []byte(got), string(c.want))
		}
	}
}

func TestCountdown(t *testing.T) {
	stream := compile(t, fixtures.Countdown())
	got := run(t, stream, "")
	if got != "xxx" {
		t.Errorf("output = %q, want %q", got, "xxx")
	}
}

func TestGreeting(t *testing.T) {
	stream := compile(t, fixtures.Greeting())
	got := run(t, stream, "55")
	want := "1" + strings.Repeat("hiboo\n", 3)
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestUnmatchedBracket(t *testing.T) {
	v := vm.NewVm(0)
	var out bytes.Buffer
	err := v.Exec(context.Background(), "[+", strings.NewReader(""), &out)
	if err == nil {
		t.Fatal("expected an UnmatchedBracketError")
	}
	var unmatched *vm.UnmatchedBracketError
	if ub, ok := err.(*vm.UnmatchedBracketError); ok {
		unmatched = ub
	}
	if unmatched == nil {
		t.Fatalf("expected *UnmatchedBracketError, got %T: %v", err, err)
	}
	if unmatched.Char != '[' {
		t.Errorf("Char = %q, want '['", unmatched.Char)
	}
}

func TestHeadSaturatesAtTapeBounds(t *testing.T) {
	v := vm.NewVm(2)
	var out bytes.Buffer
	// "<<" at head 0 must be a no-op rather than panicking; ">>>" on a
	// 2-cell tape must saturate at the last index.
	if err := v.Exec(context.Background(), "<<>>>+.", strings.NewReader(""), &out); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if v.Get(1) != 1 {
		t.Errorf("tape[1] = %d, want 1 (head should have saturated at the last cell)", v.Get(1))
	}
}

func TestEOFSubstitutesZero(t *testing.T) {
	v := vm.NewVm(0)
	var out bytes.Buffer
	if err := v.Exec(context.Background(), ",.", strings.NewReader(""), &out); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if out.Len() != 1 || out.Bytes()[0] != 0 {
		t.Errorf("output = %v, want [0]", out.Bytes())
	}
}

func TestNonPrimitiveBytesAreIgnored(t *testing.T) {
	v := vm.NewVm(0)
	var out bytes.Buffer
	if err := v.Exec(context.Background(), "BLOCK_HEAD(1)+.END", strings.NewReader(""), &out); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if out.Len() != 1 || out.Bytes()[0] != 1 {
		t.Errorf("output = %v, want [1]", out.Bytes())
	}
}

func TestDebugHookWritesWhenSinkSet(t *testing.T) {
	v := vm.NewVm(0)
	var debug bytes.Buffer
	v.Debug = &debug
	var out bytes.Buffer
	if err := v.Exec(context.Background(), "+:", strings.NewReader(""), &out); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if debug.Len() == 0 {
		t.Fatal("expected the debug hook to write a tape dump")
	}
}

func TestDebugHookIsNoOpWithoutSink(t *testing.T) {
	v := vm.NewVm(0)
	var out bytes.Buffer
	if err := v.Exec(context.Background(), "+:.", strings.NewReader(""), &out); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if out.Len() != 1 || out.Bytes()[0] != 1 {
		t.Errorf("output = %v, want [1]", out.Bytes())
	}
}
