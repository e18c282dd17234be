package nav

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewStack(t *testing.T) {
	s := NewStack(Context{Kind: KindMainMenu})

	require.Equal(t, 1, s.Depth())
	require.Equal(t, KindMainMenu, s.Top().Kind)
}

func TestStack_PushPop(t *testing.T) {
	s := NewStack(Context{Kind: KindMainMenu})
	s.Push(Context{Kind: KindBranchList, Cursor: 3})

	require.Equal(t, 2, s.Depth())
	require.Equal(t, KindBranchList, s.Top().Kind)

	revealed, ok := s.Pop()
	require.True(t, ok)
	require.Equal(t, KindMainMenu, revealed.Kind)
	require.Equal(t, 1, s.Depth())
}

func TestStack_PopAtRootRefused(t *testing.T) {
	root := Context{Kind: KindMainMenu, Cursor: 2}
	s := NewStack(root)

	revealed, ok := s.Pop()
	require.False(t, ok, "popping the root frame must be refused")
	require.Equal(t, root, revealed)
	require.Equal(t, 1, s.Depth())
}

func TestStack_PopRestoresSavedState(t *testing.T) {
	s := NewStack(Context{Kind: KindMainMenu})
	s.Push(Context{Kind: KindCommitList, Ref: "main", Cursor: 17, Scroll: 10})
	s.Push(Context{Kind: KindDiffView, CommitHash: "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2"})

	revealed, ok := s.Pop()
	require.True(t, ok)
	require.Equal(t, KindCommitList, revealed.Kind)
	require.Equal(t, "main", revealed.Ref)
	require.Equal(t, 17, revealed.Cursor)
	require.Equal(t, 10, revealed.Scroll)
}

func TestStack_SetTop(t *testing.T) {
	s := NewStack(Context{Kind: KindMainMenu})
	s.Push(Context{Kind: KindBranchList})

	top := s.Top()
	top.Cursor = 9
	s.SetTop(top)

	require.Equal(t, 9, s.Top().Cursor)
	require.Equal(t, 2, s.Depth())
}

func TestStack_Replace(t *testing.T) {
	s := NewStack(Context{Kind: KindMainMenu})
	s.Push(Context{Kind: KindCommitList, Ref: "main"})

	s.Replace(Context{Kind: KindCommitList, Ref: "develop"})

	require.Equal(t, 2, s.Depth())
	require.Equal(t, "develop", s.Top().Ref)

	// Back still lands on the frame beneath, not the replaced one
	revealed, ok := s.Pop()
	require.True(t, ok)
	require.Equal(t, KindMainMenu, revealed.Kind)
}

func TestStack_PopTo(t *testing.T) {
	s := NewStack(Context{Kind: KindMainMenu})
	s.Push(Context{Kind: KindBranchList})
	s.Push(Context{Kind: KindCommitList, Ref: "main"})
	s.Push(Context{Kind: KindDiffView})

	require.True(t, s.PopTo(KindBranchList))
	require.Equal(t, 2, s.Depth())
	require.Equal(t, KindBranchList, s.Top().Kind)
}

func TestStack_PopToMissingKindUnwindsToRoot(t *testing.T) {
	s := NewStack(Context{Kind: KindMainMenu})
	s.Push(Context{Kind: KindBranchList})
	s.Push(Context{Kind: KindCommitList})

	require.False(t, s.PopTo(KindTagList))
	require.Equal(t, 1, s.Depth())
	require.Equal(t, KindMainMenu, s.Top().Kind)
}

func TestStack_Breadcrumb(t *testing.T) {
	s := NewStack(Context{Kind: KindMainMenu})
	require.Equal(t, "Menu", s.Breadcrumb())

	s.Push(Context{Kind: KindBranchList})
	s.Push(Context{Kind: KindCommitList, Ref: "feature/auth"})
	s.Push(Context{Kind: KindDiffView, CommitHash: "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2"})

	require.Equal(t, "Menu > Branches > feature/auth > a1b2c3d", s.Breadcrumb())
}

func TestStack_FramesReturnsCopy(t *testing.T) {
	s := NewStack(Context{Kind: KindMainMenu})
	s.Push(Context{Kind: KindBranchList})

	frames := s.Frames()
	require.Len(t, frames, 2)

	frames[0].Kind = KindTagList
	require.Equal(t, KindMainMenu, s.Frames()[0].Kind, "mutating the copy must not touch the stack")
}

func TestContext_Label(t *testing.T) {
	tests := []struct {
		name string
		ctx  Context
		want string
	}{
		{"main menu", Context{Kind: KindMainMenu}, "Menu"},
		{"commit list with ref", Context{Kind: KindCommitList, Ref: "main"}, "main"},
		{"commit list without ref", Context{Kind: KindCommitList}, "Commits"},
		{"diff with hash", Context{Kind: KindDiffView, CommitHash: "a1b2c3d4e5f6"}, "a1b2c3d"},
		{"diff with short hash", Context{Kind: KindDiffView, CommitHash: "a1b2"}, "Diff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.ctx.Label())
		})
	}
}

// TestStack_NeverEmpty drives the stack with random operation sequences
// and checks the structural invariants hold throughout.
func TestStack_NeverEmpty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := NewStack(Context{Kind: KindMainMenu})
		ops := rapid.SliceOf(rapid.IntRange(0, 3)).Draw(t, "ops")

		for _, op := range ops {
			switch op {
			case 0:
				kind := ViewKind(rapid.IntRange(0, 6).Draw(t, "kind"))
				s.Push(Context{Kind: kind})
			case 1:
				s.Pop()
			case 2:
				kind := ViewKind(rapid.IntRange(0, 6).Draw(t, "kind"))
				s.Replace(Context{Kind: kind})
			case 3:
				kind := ViewKind(rapid.IntRange(0, 6).Draw(t, "kind"))
				s.PopTo(kind)
			}

			if s.Depth() < 1 {
				t.Fatalf("stack depth %d, invariant requires >= 1", s.Depth())
			}
			if s.Frames()[0].Kind != KindMainMenu {
				t.Fatalf("root frame changed kind to %v", s.Frames()[0].Kind)
			}
		}
	})
}

// TestStack_PushPopRoundTrip checks that a pop after a push restores the
// exact frame that was on top before.
func TestStack_PushPopRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := NewStack(Context{Kind: KindMainMenu})

		depth := rapid.IntRange(0, 8).Draw(t, "depth")
		for i := 0; i < depth; i++ {
			s.Push(Context{
				Kind:   ViewKind(rapid.IntRange(0, 6).Draw(t, "kind")),
				Cursor: rapid.IntRange(0, 1000).Draw(t, "cursor"),
				Scroll: rapid.IntRange(0, 1000).Draw(t, "scroll"),
			})
		}

		before := s.Top()
		s.Push(Context{Kind: KindDiffView})
		revealed, ok := s.Pop()

		if !ok {
			t.Fatalf("pop after push reported root refusal")
		}
		if revealed != before {
			t.Fatalf("pop revealed %+v, want %+v", revealed, before)
		}
	})
}
