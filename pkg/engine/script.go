package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// ErrScript is returned when a strategy script cannot be loaded.
var ErrScript = errors.New("strategy script error")

// DefaultScriptTimeout bounds a single call to a script's choose function.
const DefaultScriptTimeout = time.Second

// ScriptStrategy delegates move choice to a Lua script. The script defines
//
//	function choose(board, side, moves) ... return i end
//
// board is an 8x8 table of "X", "O" and "." (1-based), side is "dark" or
// "light", and moves lists the legal moves in row-major order as tables with
// row, col (0-based), score and notation fields. choose returns the 1-based
// index of the move to play.
//
// A script error, timeout or out-of-range index falls back to the greedy move
// and is kept in Err. It is safe for concurrent use.
type ScriptStrategy struct {
	mu      sync.Mutex
	L       *lua.LState
	name    string
	src     string
	timeout time.Duration
	lastErr error
}

// NewScriptStrategy compiles src and checks that it defines choose.
func NewScriptStrategy(name, src string) (*ScriptStrategy, error) {
	L, err := newScriptState(src)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "script"
	}
	return &ScriptStrategy{L: L, name: name, src: src, timeout: DefaultScriptTimeout}, nil
}

// LoadScriptStrategy reads and compiles a script file.
func LoadScriptStrategy(path string) (*ScriptStrategy, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return NewScriptStrategy(path, string(src))
}

// newScriptState opens a sandboxed Lua state with only the base, table,
// string and math libraries, then runs src.
func newScriptState(src string) (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.fn), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("%w: opening %s: %v", ErrScript, lib.name, err)
		}
	}

	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}
	if _, ok := L.GetGlobal("choose").(*lua.LFunction); !ok {
		L.Close()
		return nil, fmt.Errorf("%w: script does not define choose", ErrScript)
	}
	return L, nil
}

func (s *ScriptStrategy) Name() string { return s.name }

// SetTimeout changes the per-call time limit.
func (s *ScriptStrategy) SetTimeout(d time.Duration) {
	s.mu.Lock()
	s.timeout = d
	s.mu.Unlock()
}

// Err returns the error from the last call that fell back to greedy.
func (s *ScriptStrategy) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close releases the Lua state.
func (s *ScriptStrategy) Close() {
	s.mu.Lock()
	s.L.Close()
	s.mu.Unlock()
}

func (s *ScriptStrategy) Choose(b Board, side Side) (Move, bool) {
	moves := LegalMoves(b, side)
	if len(moves) == 0 {
		return Pass, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.call(b, side, moves)
	if err == nil && (idx < 1 || idx > len(moves)) {
		err = fmt.Errorf("choose returned %d for %d moves", idx, len(moves))
	}
	s.lastErr = err
	if err != nil {
		return GreedyStrategy{}.Choose(b, side)
	}
	return moves[idx-1], true
}

// call invokes choose. s.mu must be held.
func (s *ScriptStrategy) call(b Board, side Side, moves []Move) (int, error) {
	L := s.L
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	L.SetContext(ctx)
	defer L.RemoveContext()

	board := L.NewTable()
	for row := 0; row < BoardSize; row++ {
		r := L.NewTable()
		for col := 0; col < BoardSize; col++ {
			glyph := "."
			switch b[row][col] {
			case DarkDisc:
				glyph = "X"
			case LightDisc:
				glyph = "O"
			}
			r.RawSetInt(col+1, lua.LString(glyph))
		}
		board.RawSetInt(row+1, r)
	}

	list := L.NewTable()
	for i, m := range moves {
		t := L.NewTable()
		L.SetField(t, "row", lua.LNumber(m.Row))
		L.SetField(t, "col", lua.LNumber(m.Col))
		L.SetField(t, "score", lua.LNumber(Score(b, m.Row, m.Col, side)))
		L.SetField(t, "notation", lua.LString(m.Notation()))
		list.RawSetInt(i+1, t)
	}

	err := L.CallByParam(lua.P{
		Fn:      L.GetGlobal("choose"),
		NRet:    1,
		Protect: true,
	}, board, lua.LString(side.String()), list)
	if err != nil {
		return 0, err
	}
	ret := L.Get(-1)
	L.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("choose returned %s, want number", ret.Type())
	}
	return int(n), nil
}

// Factory returns a StrategyFactory that compiles a fresh Lua state per
// self-play worker.
func (s *ScriptStrategy) Factory() StrategyFactory {
	return func(int64) (Strategy, error) {
		c, err := NewScriptStrategy(s.name, s.src)
		if err != nil {
			return nil, err
		}
		c.timeout = s.timeout
		return c, nil
	}
}
