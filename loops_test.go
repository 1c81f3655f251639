package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestLoopStack_PushTopPop(t *testing.T) {
	ls := &LoopStack{}
	be.Equal(t, ls.Depth(), 0)
	be.Equal(t, ls.Top(), nil)

	outer := &LoopFrame{ContinueLabel: 1}
	inner := &LoopFrame{ContinueLabel: 2, IsExpr: true}
	ls.Push(outer)
	ls.Push(inner)
	be.Equal(t, ls.Depth(), 2)
	be.Equal(t, ls.Top(), inner)

	popped, err := ls.Pop()
	be.Err(t, err, nil)
	be.Equal(t, popped, inner)
	be.Equal(t, ls.Top(), outer)
}

func TestLoopStack_PopEmptyIsAnError(t *testing.T) {
	ls := &LoopStack{}
	_, err := ls.Pop()
	be.Err(t, err)
}
