package lir

import (
	"fmt"

	"github.com/dolthub/swiss"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/kestrel-lang/tapec/pkg/hir"
)

// funcFrame is the per-function outcome of pass 1: a name→offset table
// plus the final frame size.
type funcFrame struct {
	offsets   *swiss.Map[string, int]
	frameSize int
}

func blockKey(funcName, blockName string) string {
	return funcName + ":" + blockName
}

// sortedKeys returns m's keys in ascending lexicographic order. HIR
// stores functions and blocks in Go maps, whose iteration order is
// randomized per spec.md's REDESIGN FLAG ("frame-iteration order
// determinism"): every pass below walks functions and blocks through
// this helper instead of ranging over the maps directly, so block-ID
// and frame-offset assignment is reproducible for a given input (D2).
func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// Lower implements the HIR→LIR algorithm of spec.md §4.1: a
// name-resolution pass that assigns block IDs and per-function frame
// offsets, followed by an op-lowering pass that substitutes every
// local name with its offset and every block name with its ID.
func Lower(prog hir.Program) (*Program, error) {
	funcNames := sortedKeys(prog.Funcs)

	blockIDs := swiss.NewMap[string, int](uint32(len(prog.Funcs) + 1))
	frames := make(map[string]*funcFrame, len(funcNames))
	nextBlockID := 1 // 0 is reserved as the halt sentinel (§4.3).

	for _, fname := range funcNames {
		fn := prog.Funcs[fname]

		offsets := swiss.NewMap[string, int](8)
		next := fn.Output.Size()
		offsets.Put(fn.Input.Name, next)
		next += fn.Input.Type.Size()

		for _, bname := range sortedKeys(fn.Blocks) {
			blockIDs.Put(blockKey(fname, bname), nextBlockID)
			nextBlockID++

			for _, op := range fn.Blocks[bname].Ops {
				local, ok := op.GeneratedLocal()
				if !ok {
					continue
				}
				if _, exists := offsets.Get(local.Name); !exists {
					offsets.Put(local.Name, next)
					next += local.Type.Size()
				}
				// Already bound: silently alias to the first offset
				// (design decision D1; LocalReassignedError is never
				// returned here).
			}
		}

		frames[fname] = &funcFrame{offsets: offsets, frameSize: next}
	}

	entryID, ok := blockIDs.Get(blockKey("main", "entry"))
	if !ok {
		return nil, &NoSuchLocalError{Name: "main:entry"}
	}

	blocks := make(map[int]*Block, nextBlockID-1)
	for _, fname := range funcNames {
		fn := prog.Funcs[fname]
		frame := frames[fname]

		resolveLocal := func(name string) (int, error) {
			off, ok := frame.offsets.Get(name)
			if !ok {
				return 0, &NoSuchLocalError{Name: name}
			}
			return off, nil
		}
		resolveBlock := func(name string) (int, error) {
			id, ok := blockIDs.Get(blockKey(fname, name))
			if !ok {
				return 0, &NoSuchLocalError{Name: name}
			}
			return id, nil
		}

		for _, bname := range sortedKeys(fn.Blocks) {
			lowered, err := lowerBlock(fn.Blocks[bname], frame.frameSize, resolveLocal, resolveBlock)
			if err != nil {
				return nil, err
			}
			id, err := resolveBlock(bname)
			if err != nil {
				return nil, err
			}
			blocks[id] = lowered
		}
	}

	return &Program{EntryID: entryID, Blocks: blocks}, nil
}

func lowerBlock(
	block hir.Block,
	frameSize int,
	resolveLocal func(string) (int, error),
	resolveBlock func(string) (int, error),
) (*Block, error) {
	ops := make([]Op, 0, len(block.Ops)+1)

	for _, op := range block.Ops {
		lowered, err := lowerOp(op, resolveLocal)
		if err != nil {
			return nil, err
		}
		ops = append(ops, lowered)
	}

	branch, trailing, err := lowerBranch(block.Branch, frameSize, resolveLocal, resolveBlock)
	if err != nil {
		return nil, err
	}
	ops = append(ops, trailing...)

	return &Block{Ops: ops, Branch: branch}, nil
}

func lowerOp(op hir.Op, resolveLocal func(string) (int, error)) (Op, error) {
	resolve := func(l hir.Local) (int, error) { return resolveLocal(l.Name) }

	if tgt, kind, arg, ok := op.IsUnary(); ok {
		t, err := resolve(tgt)
		if err != nil {
			return Op{}, err
		}
		a, err := resolve(arg)
		if err != nil {
			return Op{}, err
		}
		return unary(t, kind, a), nil
	}
	if tgt, kind, arg0, arg1, ok := op.IsBinary(); ok {
		t, err := resolve(tgt)
		if err != nil {
			return Op{}, err
		}
		a0, err := resolve(arg0)
		if err != nil {
			return Op{}, err
		}
		a1, err := resolve(arg1)
		if err != nil {
			return Op{}, err
		}
		return binary(t, kind, a0, a1), nil
	}
	if tgt, val, ok := op.IsDecl(); ok {
		t, err := resolve(tgt)
		if err != nil {
			return Op{}, err
		}
		return decl(t, val), nil
	}
	if tgt, ok := op.IsIn(); ok {
		t, err := resolve(tgt)
		if err != nil {
			return Op{}, err
		}
		return in(t), nil
	}
	if src, ok := op.IsOut(); ok {
		s, err := resolve(src)
		if err != nil {
			return Op{}, err
		}
		return out(s), nil
	}
	if tgt, ok := op.IsIncr(); ok {
		t, err := resolve(tgt)
		if err != nil {
			return Op{}, err
		}
		return incr(t), nil
	}
	if tgt, ok := op.IsDecr(); ok {
		t, err := resolve(tgt)
		if err != nil {
			return Op{}, err
		}
		return decr(t), nil
	}
	if _, _, _, ok := op.IsCall(); ok {
		return Op{}, &UnsupportedOpError{Detail: "Call: function lowering is not implemented"}
	}

	return Op{}, &UnsupportedOpError{Detail: fmt.Sprintf("unrecognized op %v", op)}
}

// lowerBranch lowers an HIR branch to its LIR form. ReturnVal also
// yields a trailing Memcopy op that must be appended to the block's op
// list ahead of the Return branch (§4.1).
func lowerBranch(
	branch hir.Branch,
	frameSize int,
	resolveLocal func(string) (int, error),
	resolveBlock func(string) (int, error),
) (Branch, []Op, error) {
	if branch.IsExit() {
		return ExitBranch(), nil, nil
	}
	if branch.IsReturnNone() {
		return ReturnBranch(frameSize), nil, nil
	}
	if local, ok := branch.IsReturnVal(); ok {
		from, err := resolveLocal(local.Name)
		if err != nil {
			return Branch{}, nil, err
		}
		return ReturnBranch(frameSize), []Op{Memcopy(from, 0, local.Type.Size())}, nil
	}
	if target, ok := branch.IsGoto(); ok {
		id, err := resolveBlock(target)
		if err != nil {
			return Branch{}, nil, err
		}
		return GotoBranch(id), nil, nil
	}
	if pred, ifTrue, ifFalse, ok := branch.IsIf(); ok {
		p, err := resolveLocal(pred.Name)
		if err != nil {
			return Branch{}, nil, err
		}
		t, err := resolveBlock(ifTrue)
		if err != nil {
			return Branch{}, nil, err
		}
		f, err := resolveBlock(ifFalse)
		if err != nil {
			return Branch{}, nil, err
		}
		return IfBranch(p, t, f), nil, nil
	}

	return Branch{}, nil, &UnsupportedOpError{Detail: fmt.Sprintf("unrecognized branch %v", branch)}
}
