package main

import "fmt"

// LoopFrame is the analysis context for one enclosing loop. A frame is
// pushed when the loop body is entered and popped when it is left, so
// break/continue reductions inside the body always see their loop on
// top of the stack.
type LoopFrame struct {
	ContinueLabel int   // where `continue` jumps
	Breaks        []int // open jumps waiting for the end label

	// Loop expressions (`let x = loop { break v; };`):
	IsExpr     bool
	Result     Operand // result temporary written by `break <expr>`
	ResultType *Type   // inferred from the first valued break; nil until then

	Line int
}

// LoopStack is the stack of loop frames for the loops currently being
// analyzed.
type LoopStack struct {
	frames []*LoopFrame
}

// Push enters a loop body.
func (s *LoopStack) Push(f *LoopFrame) {
	s.frames = append(s.frames, f)
}

// Pop leaves a loop body. An empty stack here means the begin/end
// markers are unbalanced.
func (s *LoopStack) Pop() (*LoopFrame, error) {
	if len(s.frames) == 0 {
		return nil, fmt.Errorf("internal error: popping an empty loop stack")
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f, nil
}

// Top returns the innermost frame, or nil outside any loop.
func (s *LoopStack) Top() *LoopFrame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Depth returns the number of enclosing loops.
func (s *LoopStack) Depth() int {
	return len(s.frames)
}
