package views

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/refview/internal/git"
	"github.com/zjrosen/refview/internal/keys"
	"github.com/zjrosen/refview/internal/loader"
	"github.com/zjrosen/refview/internal/nav"
	"github.com/zjrosen/refview/internal/state"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func enterMsg() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func testState() *state.AppState {
	st := state.New(loader.NewCoordinator())
	st.CurrentBranch = "main"
	st.Branches = []git.BranchInfo{
		{Name: "main", IsCurrent: true},
		{Name: "feature/auth"},
		{Name: "origin/main", IsRemote: true},
	}
	st.Tags = []git.TagInfo{
		{Name: "v2.0.0", Date: time.Now().Add(-24 * time.Hour)},
		{Name: "v1.0.0", Date: time.Now().Add(-30 * 24 * time.Hour), Annotation: "first release"},
	}
	st.Remotes = []git.RemoteInfo{
		{Name: "origin", URL: "git@example.com:demo/repo.git"},
	}
	st.Commits["main"] = []git.Commit{
		{Hash: "aaaa111122223333aaaa111122223333aaaa1111", ShortHash: "aaaa111", Subject: "first", Author: "Dev", Email: "dev@example.com", Date: time.Now()},
		{Hash: "bbbb111122223333bbbb111122223333bbbb1111", ShortHash: "bbbb111", Subject: "second", Author: "Dev", Email: "dev@example.com", Date: time.Now()},
	}
	st.Width = 100
	st.Height = 30
	return st
}

func TestMainMenu_EnterPushes(t *testing.T) {
	v := NewMainMenu(keys.DefaultKeyMap())
	st := testState()

	ctx, eff := v.HandleKey(enterMsg(), st, nav.Context{Kind: nav.KindMainMenu})
	require.Equal(t, nav.EffectPush, eff.Kind)
	require.Equal(t, nav.KindBranchList, eff.Next.Kind)
	require.Zero(t, ctx.Cursor)
}

func TestMainMenu_CommitsUsesCurrentBranch(t *testing.T) {
	v := NewMainMenu(keys.DefaultKeyMap())
	st := testState()

	ctx := nav.Context{Kind: nav.KindMainMenu, Cursor: 3}
	_, eff := v.HandleKey(enterMsg(), st, ctx)
	require.Equal(t, nav.EffectPush, eff.Kind)
	require.Equal(t, nav.KindCommitList, eff.Next.Kind)
	require.Equal(t, "main", eff.Next.Ref)
}

func TestMainMenu_CursorClamped(t *testing.T) {
	v := NewMainMenu(keys.DefaultKeyMap())
	st := testState()

	ctx := nav.Context{Kind: nav.KindMainMenu}
	ctx, _ = v.HandleKey(keyMsg("k"), st, ctx)
	require.Zero(t, ctx.Cursor)

	ctx, _ = v.HandleKey(keyMsg("G"), st, ctx)
	require.Equal(t, len(menuEntries)-1, ctx.Cursor)

	ctx, _ = v.HandleKey(keyMsg("j"), st, ctx)
	require.Equal(t, len(menuEntries)-1, ctx.Cursor)
}

func TestBranchList_EnterOpensCommitLog(t *testing.T) {
	v := NewBranchList(keys.DefaultKeyMap())
	st := testState()

	ctx := nav.Context{Kind: nav.KindBranchList, Cursor: 1}
	_, eff := v.HandleKey(enterMsg(), st, ctx)
	require.Equal(t, nav.EffectPush, eff.Kind)
	require.Equal(t, nav.KindCommitList, eff.Next.Kind)
	require.Equal(t, "feature/auth", eff.Next.Ref)
}

func TestBranchList_CheckoutAction(t *testing.T) {
	v := NewBranchList(keys.DefaultKeyMap())
	st := testState()

	_, eff := v.HandleKey(keyMsg("c"), st, nav.Context{Kind: nav.KindBranchList, Cursor: 1})
	require.Equal(t, nav.EffectAction, eff.Kind)
	require.Equal(t, nav.ActionCheckout, eff.Action)
	require.Equal(t, "feature/auth", eff.Arg)
}

func TestBranchList_EmptySafe(t *testing.T) {
	v := NewBranchList(keys.DefaultKeyMap())
	st := state.New(loader.NewCoordinator())

	ctx, eff := v.HandleKey(enterMsg(), st, nav.Context{Kind: nav.KindBranchList, Cursor: 5})
	require.Equal(t, nav.EffectNone, eff.Kind)

	ctx, _ = v.HandleKey(keyMsg("j"), st, ctx)
	require.Zero(t, ctx.Cursor)

	out := v.Render(60, 10, st, ctx)
	require.Contains(t, out, "No branches")
}

func TestBranchList_RenderMarksCurrent(t *testing.T) {
	v := NewBranchList(keys.DefaultKeyMap())
	st := testState()

	out := v.Render(60, 12, st, nav.Context{Kind: nav.KindBranchList})
	require.Contains(t, out, "main")
	require.Contains(t, out, "*")
	require.Contains(t, out, "feature/auth")
}

func TestTagList_EnterOpensCommitLog(t *testing.T) {
	v := NewTagList(keys.DefaultKeyMap())
	st := testState()

	_, eff := v.HandleKey(enterMsg(), st, nav.Context{Kind: nav.KindTagList, Cursor: 1})
	require.Equal(t, nav.EffectPush, eff.Kind)
	require.Equal(t, "v1.0.0", eff.Next.Ref)
}

func TestTagList_RenderShowsAnnotation(t *testing.T) {
	v := NewTagList(keys.DefaultKeyMap())
	st := testState()

	out := v.Render(80, 12, st, nav.Context{Kind: nav.KindTagList})
	require.Contains(t, out, "v2.0.0")
	require.Contains(t, out, "first release")
}

func TestRemoteList_RenderShowsURL(t *testing.T) {
	v := NewRemoteList(keys.DefaultKeyMap())
	st := testState()

	out := v.Render(80, 10, st, nav.Context{Kind: nav.KindRemoteList})
	require.Contains(t, out, "origin")
	require.Contains(t, out, "git@example.com:demo/repo.git")
}

func TestRemoteList_EmptySafe(t *testing.T) {
	v := NewRemoteList(keys.DefaultKeyMap())
	st := state.New(loader.NewCoordinator())

	out := v.Render(60, 10, st, nav.Context{Kind: nav.KindRemoteList})
	require.Contains(t, out, "No remotes configured")
}

func TestCommitList_EnterPushesDiff(t *testing.T) {
	v := NewCommitList(keys.DefaultKeyMap())
	st := testState()

	ctx := nav.Context{Kind: nav.KindCommitList, Ref: "main", Cursor: 1}
	_, eff := v.HandleKey(enterMsg(), st, ctx)
	require.Equal(t, nav.EffectPush, eff.Kind)
	require.Equal(t, nav.KindDiffView, eff.Next.Kind)
	require.Equal(t, "bbbb111122223333bbbb111122223333bbbb1111", eff.Next.CommitHash)
	require.Equal(t, "main", eff.Next.Ref)
}

func TestCommitList_DetailToggle(t *testing.T) {
	v := NewCommitList(keys.DefaultKeyMap())
	st := testState()

	ctx := nav.Context{Kind: nav.KindCommitList, Ref: "main"}
	ctx, eff := v.HandleKey(tea.KeyMsg{Type: tea.KeyTab}, st, ctx)
	require.Equal(t, nav.EffectNone, eff.Kind)
	require.True(t, ctx.ShowDetail)

	ctx, _ = v.HandleKey(tea.KeyMsg{Type: tea.KeyTab}, st, ctx)
	require.False(t, ctx.ShowDetail)
}

func TestCommitList_SaveQueryAction(t *testing.T) {
	v := NewCommitList(keys.DefaultKeyMap())
	st := testState()

	_, eff := v.HandleKey(keyMsg("s"), st, nav.Context{Kind: nav.KindCommitList, Ref: "main"})
	require.Equal(t, nav.EffectAction, eff.Kind)
	require.Equal(t, nav.ActionSaveQuery, eff.Action)
	require.Equal(t, "main", eff.Arg)
}

func TestCommitList_DetailShowsLoadingWithoutBody(t *testing.T) {
	v := NewCommitList(keys.DefaultKeyMap())
	st := testState()

	ctx := nav.Context{Kind: nav.KindCommitList, Ref: "main", ShowDetail: true}
	out := v.Render(100, 30, st, ctx)
	require.Contains(t, out, "Loading commit message")
}

func TestCommitList_DetailRendersBody(t *testing.T) {
	v := NewCommitList(keys.DefaultKeyMap())
	st := testState()
	st.Bodies["aaaa111122223333aaaa111122223333aaaa1111"] = "Explains the change.\n"

	ctx := nav.Context{Kind: nav.KindCommitList, Ref: "main", ShowDetail: true}
	out := v.Render(100, 30, st, ctx)
	require.Contains(t, out, "Explains the change")
}

func TestCommitList_EmptyRef(t *testing.T) {
	v := NewCommitList(keys.DefaultKeyMap())
	st := testState()

	ctx := nav.Context{Kind: nav.KindCommitList, Ref: "gone"}
	out := v.Render(60, 10, st, ctx)
	require.Contains(t, out, "No commits")

	ctx, eff := v.HandleKey(enterMsg(), st, ctx)
	require.Equal(t, nav.EffectNone, eff.Kind)
	require.Zero(t, ctx.Cursor)
}

func TestCommitList_CursorClamped(t *testing.T) {
	v := NewCommitList(keys.DefaultKeyMap())
	st := testState()

	ctx := nav.Context{Kind: nav.KindCommitList, Ref: "main", Cursor: 0}
	ctx, _ = v.HandleKey(keyMsg("G"), st, ctx)
	require.Equal(t, 1, ctx.Cursor)

	ctx, _ = v.HandleKey(keyMsg("f"), st, ctx)
	require.Equal(t, 1, ctx.Cursor)

	ctx, _ = v.HandleKey(keyMsg("g"), st, ctx)
	require.Zero(t, ctx.Cursor)
}

// The nav frame keeps its cursor across refetches, so a list can shrink
// underneath a stored position. Views must land on the last item instead
// of indexing past the end.
func TestBranchList_StaleCursorClamped(t *testing.T) {
	v := NewBranchList(keys.DefaultKeyMap())
	st := testState()

	_, eff := v.HandleKey(keyMsg("c"), st, nav.Context{Kind: nav.KindBranchList, Cursor: 9})
	require.Equal(t, nav.EffectAction, eff.Kind)
	require.Equal(t, "origin/main", eff.Arg)
}

func TestTagList_StaleCursorClamped(t *testing.T) {
	v := NewTagList(keys.DefaultKeyMap())
	st := testState()

	_, eff := v.HandleKey(enterMsg(), st, nav.Context{Kind: nav.KindTagList, Cursor: 9})
	require.Equal(t, nav.EffectPush, eff.Kind)
	require.Equal(t, "v1.0.0", eff.Next.Ref)
}

func TestCommitList_StaleCursorClamped(t *testing.T) {
	v := NewCommitList(keys.DefaultKeyMap())
	st := testState()

	ctx := nav.Context{Kind: nav.KindCommitList, Ref: "main", Cursor: 4}
	next, eff := v.HandleKey(enterMsg(), st, ctx)
	require.Equal(t, nav.EffectPush, eff.Kind)
	require.Equal(t, st.Commits["main"][1].Hash, eff.Next.CommitHash)
	require.Equal(t, 1, next.Cursor)
}

func TestCommitList_StaleCursorRendersDetail(t *testing.T) {
	v := NewCommitList(keys.DefaultKeyMap())
	st := testState()
	st.Bodies[st.Commits["main"][1].Hash] = "second body\n"

	ctx := nav.Context{Kind: nav.KindCommitList, Ref: "main", Cursor: 7, ShowDetail: true}
	out := v.Render(100, 30, st, ctx)
	require.Contains(t, out, "second body")
}

func TestListWindow(t *testing.T) {
	// content fits
	require.Zero(t, listWindow(3, 0, 5, 10))
	// cursor below the window pulls it down
	require.Equal(t, 11, listWindow(20, 0, 50, 10))
	// cursor above the window pulls it up
	require.Equal(t, 5, listWindow(5, 8, 50, 10))
	// window never runs past the end
	require.Equal(t, 40, listWindow(49, 45, 50, 10))
}
