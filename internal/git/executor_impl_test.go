package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestRealExecutor_NewRealExecutor tests the constructor.
func TestRealExecutor_NewRealExecutor(t *testing.T) {
	workDir := "/some/path"
	executor := NewRealExecutor(workDir)

	require.NotNil(t, executor, "NewRealExecutor returned nil")
	require.Equal(t, workDir, executor.workDir)
}

// setupTestRepo creates a throwaway repository with two commits on main
// and a second branch.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Test Author",
			"GIT_AUTHOR_EMAIL=author@example.com",
			"GIT_COMMITTER_NAME=Test Author",
			"GIT_COMMITTER_EMAIL=author@example.com",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}

	run("init", "-b", "main")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\n"), 0o644))
	run("add", "a.txt")
	run("commit", "-m", "first commit")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\ntwo\n"), 0o644))
	run("commit", "-am", "second commit")
	run("branch", "feature/extra")
	run("tag", "-a", "v1.0.0", "-m", "release one")
	run("tag", "light")

	return dir
}

func TestRealExecutor_IsGitRepo(t *testing.T) {
	t.Run("in git repo", func(t *testing.T) {
		executor := NewRealExecutor(setupTestRepo(t))
		require.True(t, executor.IsGitRepo(context.Background()))
	})

	t.Run("not in git repo", func(t *testing.T) {
		executor := NewRealExecutor(t.TempDir())
		require.False(t, executor.IsGitRepo(context.Background()))
	})
}

func TestRealExecutor_RepoRoot(t *testing.T) {
	dir := setupTestRepo(t)
	executor := NewRealExecutor(dir)

	root, err := executor.RepoRoot(context.Background())
	require.NoError(t, err)

	// macOS tempdirs resolve through /private symlinks
	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestRealExecutor_CurrentBranch(t *testing.T) {
	executor := NewRealExecutor(setupTestRepo(t))

	branch, err := executor.CurrentBranch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "main", branch)
}

func TestRealExecutor_ListBranches(t *testing.T) {
	executor := NewRealExecutor(setupTestRepo(t))

	branches, err := executor.ListBranches(context.Background())
	require.NoError(t, err)
	require.Len(t, branches, 2)

	// Current branch sorts first
	require.Equal(t, "main", branches[0].Name)
	require.True(t, branches[0].IsCurrent)
	require.Equal(t, "feature/extra", branches[1].Name)
	require.False(t, branches[1].IsCurrent)
	require.False(t, branches[1].IsRemote)
}

func TestRealExecutor_ListTags(t *testing.T) {
	executor := NewRealExecutor(setupTestRepo(t))

	tags, err := executor.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)

	names := []string{tags[0].Name, tags[1].Name}
	require.Contains(t, names, "v1.0.0")
	require.Contains(t, names, "light")

	for _, tag := range tags {
		switch tag.Name {
		case "v1.0.0":
			require.Equal(t, "release one", tag.Annotation)
			require.False(t, tag.Date.IsZero())
		case "light":
			require.Empty(t, tag.Annotation, "lightweight tag should have no annotation")
		}
	}
}

func TestRealExecutor_ListTags_VersionOrder(t *testing.T) {
	dir := setupTestRepo(t)
	for _, tag := range []string{"v1.9.0", "v1.10.0"} {
		cmd := exec.Command("git", "tag", tag)
		cmd.Dir = dir
		require.NoError(t, cmd.Run())
	}

	executor := NewRealExecutor(dir)
	tags, err := executor.ListTags(context.Background())
	require.NoError(t, err)

	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	// Numeric version sort, not lexical: 1.10 is newer than 1.9.
	require.Less(t, slices.Index(names, "v1.10.0"), slices.Index(names, "v1.9.0"))
}

func TestRealExecutor_ContextCancelled(t *testing.T) {
	executor := NewRealExecutor(setupTestRepo(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := executor.CommitLog(ctx, "", 10)
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRealExecutor_ListRemotes(t *testing.T) {
	dir := setupTestRepo(t)
	cmd := exec.Command("git", "remote", "add", "origin", "https://example.com/repo.git")
	cmd.Dir = dir
	require.NoError(t, cmd.Run())

	executor := NewRealExecutor(dir)
	remotes, err := executor.ListRemotes(context.Background())
	require.NoError(t, err)
	require.Len(t, remotes, 1)
	require.Equal(t, "origin", remotes[0].Name)
	require.Equal(t, "https://example.com/repo.git", remotes[0].URL)
}

func TestRealExecutor_ListRemotes_Empty(t *testing.T) {
	executor := NewRealExecutor(setupTestRepo(t))

	remotes, err := executor.ListRemotes(context.Background())
	require.NoError(t, err)
	require.Empty(t, remotes)
}

func TestRealExecutor_CommitLog(t *testing.T) {
	executor := NewRealExecutor(setupTestRepo(t))

	commits, err := executor.CommitLog(context.Background(), "", 10)
	require.NoError(t, err)
	require.Len(t, commits, 2)

	require.Equal(t, "second commit", commits[0].Subject)
	require.Equal(t, "first commit", commits[1].Subject)
	require.Equal(t, "Test Author", commits[0].Author)
	require.Equal(t, "author@example.com", commits[0].Email)
	require.Len(t, commits[0].Hash, 40)
	require.NotEmpty(t, commits[0].ShortHash)
	require.Equal(t, []string{commits[1].Hash}, commits[0].Parents)
	require.Empty(t, commits[1].Parents, "root commit should have no parents")
	require.False(t, commits[0].Date.IsZero())
}

func TestRealExecutor_CommitLog_Limit(t *testing.T) {
	executor := NewRealExecutor(setupTestRepo(t))

	commits, err := executor.CommitLog(context.Background(), "", 1)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	require.Equal(t, "second commit", commits[0].Subject)
}

func TestRealExecutor_CommitLog_UnknownRef(t *testing.T) {
	executor := NewRealExecutor(setupTestRepo(t))

	_, err := executor.CommitLog(context.Background(), "does-not-exist", 10)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnknownRef)
}

func TestRealExecutor_CommitBody(t *testing.T) {
	dir := setupTestRepo(t)
	cmd := exec.Command("git", "commit", "--allow-empty", "-m", "subject line\n\nbody first\nbody second")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Test Author",
		"GIT_AUTHOR_EMAIL=author@example.com",
		"GIT_COMMITTER_NAME=Test Author",
		"GIT_COMMITTER_EMAIL=author@example.com",
	)
	require.NoError(t, cmd.Run())

	executor := NewRealExecutor(dir)
	commits, err := executor.CommitLog(context.Background(), "", 1)
	require.NoError(t, err)
	require.Len(t, commits, 1)

	body, err := executor.CommitBody(context.Background(), commits[0].Hash)
	require.NoError(t, err)
	require.Equal(t, "body first\nbody second", body)

	// Subject-only commit has an empty body
	body, err = executor.CommitBody(context.Background(), "HEAD~1")
	require.NoError(t, err)
	require.Empty(t, body)
}

func TestRealExecutor_CommitDiff(t *testing.T) {
	executor := NewRealExecutor(setupTestRepo(t))

	diff, err := executor.CommitDiff(context.Background(), "HEAD")
	require.NoError(t, err)
	require.Contains(t, diff, "diff --git a/a.txt b/a.txt")
	require.Contains(t, diff, "+two")
}

func TestRealExecutor_Checkout(t *testing.T) {
	executor := NewRealExecutor(setupTestRepo(t))

	require.NoError(t, executor.Checkout(context.Background(), "feature/extra"))

	branch, err := executor.CurrentBranch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "feature/extra", branch)
}

func TestRealExecutor_Checkout_UnknownRef(t *testing.T) {
	executor := NewRealExecutor(setupTestRepo(t))

	err := executor.Checkout(context.Background(), "no-such-branch")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnknownRef)
}

func TestParseCommitLog(t *testing.T) {
	t.Run("two records", func(t *testing.T) {
		output := strings.Join([]string{
			"aaa111", "a1", "Alice", "alice@example.com", "1700000000", "bbb222", "add feature",
		}, fieldSep) + recordSep + "\n" + strings.Join([]string{
			"bbb222", "b2", "Bob", "bob@example.com", "1690000000", "", "initial",
		}, fieldSep) + recordSep

		commits := parseCommitLog(output)
		require.Len(t, commits, 2)
		require.Equal(t, "aaa111", commits[0].Hash)
		require.Equal(t, "add feature", commits[0].Subject)
		require.Equal(t, []string{"bbb222"}, commits[0].Parents)
		require.Equal(t, time.Unix(1700000000, 0), commits[0].Date)
		require.Empty(t, commits[1].Parents)
	})

	t.Run("merge commit parents", func(t *testing.T) {
		output := strings.Join([]string{
			"ccc333", "c3", "Alice", "alice@example.com", "1700000000", "aaa111 bbb222", "merge",
		}, fieldSep) + recordSep

		commits := parseCommitLog(output)
		require.Len(t, commits, 1)
		require.Equal(t, []string{"aaa111", "bbb222"}, commits[0].Parents)
	})

	t.Run("empty output", func(t *testing.T) {
		require.Empty(t, parseCommitLog(""))
	})

	t.Run("malformed record skipped", func(t *testing.T) {
		require.Empty(t, parseCommitLog("garbage"+recordSep))
	})
}

func TestParseGitError(t *testing.T) {
	tests := []struct {
		name    string
		stderr  string
		wantErr error
	}{
		{
			name:    "not a git repo",
			stderr:  "fatal: not a git repository (or any of the parent directories): .git",
			wantErr: ErrNotGitRepo,
		},
		{
			name:    "unknown revision",
			stderr:  "fatal: ambiguous argument 'nope': unknown revision or path not in the working tree.",
			wantErr: ErrUnknownRef,
		},
		{
			name:    "pathspec mismatch",
			stderr:  "error: pathspec 'nope' did not match any file(s) known to git",
			wantErr: ErrUnknownRef,
		},
		{
			name:    "checkout conflict",
			stderr:  "error: Your local changes to the following files would be overwritten by checkout:",
			wantErr: ErrCheckoutConflict,
		},
		{
			name:    "no upstream",
			stderr:  "fatal: There is no tracking information for the current branch.",
			wantErr: ErrNoUpstream,
		},
		{
			name:    "non fast-forward",
			stderr:  "fatal: Not possible to fast-forward, aborting.",
			wantErr: ErrNonFastForward,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseGitError(tt.stderr, errors.New("exit status 128"))
			require.ErrorIs(t, err, tt.wantErr)
			require.Contains(t, err.Error(), strings.TrimSpace(strings.Split(tt.stderr, "\n")[0]))
		})
	}

	t.Run("unrecognized stderr wraps original", func(t *testing.T) {
		orig := errors.New("exit status 1")
		err := parseGitError("something else entirely", orig)
		require.ErrorIs(t, err, orig)
	})
}

func TestInterfaceCompliance(t *testing.T) {
	var _ Executor = (*RealExecutor)(nil)
	var _ Executor = NewRealExecutor(".")
}
