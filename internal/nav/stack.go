package nav

import "strings"

// Stack is the navigation history. It always holds at least one frame;
// popping the last frame is refused and reported to the caller, who
// treats it as a request to quit.
type Stack struct {
	frames []Context
}

// NewStack creates a stack seeded with the given root frame.
func NewStack(root Context) *Stack {
	return &Stack{frames: []Context{root}}
}

// Depth returns the number of frames on the stack.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Top returns the current frame.
func (s *Stack) Top() Context {
	return s.frames[len(s.frames)-1]
}

// SetTop stores updated cursor/scroll state back into the current frame.
func (s *Stack) SetTop(ctx Context) {
	s.frames[len(s.frames)-1] = ctx
}

// Push saves the current frame and makes next the new top.
func (s *Stack) Push(next Context) {
	s.frames = append(s.frames, next)
}

// Pop removes the current frame and returns the frame revealed beneath
// it. Popping the root frame is refused: the root is returned unchanged
// with ok=false, which the caller maps to an exit request.
func (s *Stack) Pop() (Context, bool) {
	if len(s.frames) == 1 {
		return s.frames[0], false
	}
	s.frames = s.frames[:len(s.frames)-1]
	return s.Top(), true
}

// Replace swaps the current frame for next without growing the stack.
// Used when a view transforms in place, like retargeting a commit list
// to a different ref.
func (s *Stack) Replace(next Context) {
	s.frames[len(s.frames)-1] = next
}

// PopTo unwinds frames until the top has the given kind. If no frame of
// that kind exists the stack is left at the root. Reports whether a
// matching frame was found.
func (s *Stack) PopTo(kind ViewKind) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Kind == kind {
			s.frames = s.frames[:i+1]
			return true
		}
	}
	s.frames = s.frames[:1]
	return false
}

// Frames returns a copy of the stack from root to top.
func (s *Stack) Frames() []Context {
	out := make([]Context, len(s.frames))
	copy(out, s.frames)
	return out
}

// Breadcrumb renders the trail from root to top, like
// "Menu > Branches > main > a1b2c3d".
func (s *Stack) Breadcrumb() string {
	labels := make([]string, len(s.frames))
	for i, f := range s.frames {
		labels[i] = f.Label()
	}
	return strings.Join(labels, " > ")
}
