package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Git-specific errors surfaced to the UI layer.
var (
	// ErrNotGitRepo indicates the directory is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrUnknownRef indicates the requested ref does not resolve.
	ErrUnknownRef = errors.New("unknown ref")

	// ErrCheckoutConflict indicates local changes block a checkout.
	ErrCheckoutConflict = errors.New("checkout would overwrite local changes")

	// ErrNoUpstream indicates the current branch has no upstream configured.
	ErrNoUpstream = errors.New("no upstream configured")

	// ErrNonFastForward indicates a pull could not fast-forward.
	ErrNonFastForward = errors.New("pull is not a fast-forward")
)

// Field and record separators for log parsing. Unit/record separator
// control characters cannot appear in commit metadata.
const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
)

// Compile-time check that RealExecutor implements Executor.
var _ Executor = (*RealExecutor)(nil)

// RealExecutor implements Executor by executing actual git commands.
type RealExecutor struct {
	workDir string
}

// NewRealExecutor creates a new RealExecutor rooted at workDir.
func NewRealExecutor(workDir string) *RealExecutor {
	return &RealExecutor{workDir: workDir}
}

// runGit executes a git command and returns an error if it fails.
func (e *RealExecutor) runGit(ctx context.Context, args ...string) error {
	_, err := e.runGitOutput(ctx, args...)
	return err
}

// runGitOutput executes a git command and returns stdout and any error.
// Cancelling ctx kills the subprocess.
func (e *RealExecutor) runGitOutput(ctx context.Context, args ...string) (string, error) {
	//nolint:gosec // G204: args come from controlled sources
	cmd := exec.CommandContext(ctx, "git", args...)
	if e.workDir != "" {
		cmd.Dir = e.workDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// A killed subprocess reports "signal: killed"; surface the
		// context error instead so callers see the deadline.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), ctxErr)
		}
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", parseGitError(stderrStr, err)
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	return strings.TrimRight(stdout.String(), "\n"), nil
}

// parseGitError converts git stderr messages to specific error types.
func parseGitError(stderr string, originalErr error) error {
	stderrLower := strings.ToLower(stderr)

	// fatal: not a git repository (or any of the parent directories)
	if strings.Contains(stderrLower, "not a git repository") {
		return fmt.Errorf("%w: %s", ErrNotGitRepo, stderr)
	}

	// fatal: ambiguous argument '<ref>': unknown revision or path
	if strings.Contains(stderrLower, "unknown revision") ||
		strings.Contains(stderrLower, "bad revision") ||
		strings.Contains(stderrLower, "did not match any file(s) known to git") {
		return fmt.Errorf("%w: %s", ErrUnknownRef, stderr)
	}

	// error: Your local changes to the following files would be overwritten
	if strings.Contains(stderrLower, "would be overwritten") {
		return fmt.Errorf("%w: %s", ErrCheckoutConflict, stderr)
	}

	// fatal: There is no tracking information for the current branch
	if strings.Contains(stderrLower, "no tracking information") ||
		strings.Contains(stderrLower, "no upstream") {
		return fmt.Errorf("%w: %s", ErrNoUpstream, stderr)
	}

	// fatal: Not possible to fast-forward, aborting
	if strings.Contains(stderrLower, "not possible to fast-forward") ||
		strings.Contains(stderrLower, "diverging") {
		return fmt.Errorf("%w: %s", ErrNonFastForward, stderr)
	}

	return fmt.Errorf("git error: %s: %w", stderr, originalErr)
}

// IsGitRepo checks if the working directory is inside a git repository.
func (e *RealExecutor) IsGitRepo(ctx context.Context) bool {
	err := e.runGit(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// RepoRoot returns the root directory of the git repository.
func (e *RealExecutor) RepoRoot(ctx context.Context) (string, error) {
	return e.runGitOutput(ctx, "rev-parse", "--show-toplevel")
}

// CurrentBranch returns the name of the current branch, or the short
// commit hash when HEAD is detached.
func (e *RealExecutor) CurrentBranch(ctx context.Context) (string, error) {
	// git branch --show-current (git 2.22+) is empty on detached HEAD
	output, err := e.runGitOutput(ctx, "branch", "--show-current")
	if err == nil && output != "" {
		return output, nil
	}

	output, err = e.runGitOutput(ctx, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return output, nil
}

// ListBranches returns local and remote-tracking branches. The current
// branch comes first, then local branches alphabetically, then remote
// ones alphabetically.
func (e *RealExecutor) ListBranches(ctx context.Context) ([]BranchInfo, error) {
	// %(HEAD) gives '*' for the current branch, ' ' otherwise. The full
	// refname disambiguates refs/heads/ from refs/remotes/.
	output, err := e.runGitOutput(ctx, "branch", "-a", "--format=%(HEAD)%(refname)")
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	if output == "" {
		return nil, nil
	}

	var current *BranchInfo
	var local, remote []BranchInfo

	for line := range strings.SplitSeq(output, "\n") {
		if line == "" {
			continue
		}

		var isCurrent bool
		var ref string
		switch line[0] {
		case '*':
			isCurrent = true
			ref = line[1:]
		case ' ':
			ref = line[1:]
		default:
			// No HEAD marker, some git versions omit the space
			ref = line
		}

		// Skip symbolic refs like refs/remotes/origin/HEAD
		if strings.HasSuffix(ref, "/HEAD") {
			continue
		}

		var branch BranchInfo
		switch {
		case strings.HasPrefix(ref, "refs/heads/"):
			branch = BranchInfo{Name: strings.TrimPrefix(ref, "refs/heads/"), IsCurrent: isCurrent}
		case strings.HasPrefix(ref, "refs/remotes/"):
			branch = BranchInfo{Name: strings.TrimPrefix(ref, "refs/remotes/"), IsRemote: true}
		default:
			continue
		}

		switch {
		case branch.IsCurrent:
			current = &branch
		case branch.IsRemote:
			remote = append(remote, branch)
		default:
			local = append(local, branch)
		}
	}

	sort.Slice(local, func(i, j int) bool { return local[i].Name < local[j].Name })
	sort.Slice(remote, func(i, j int) bool { return remote[i].Name < remote[j].Name })

	branches := make([]BranchInfo, 0, len(local)+len(remote)+1)
	if current != nil {
		branches = append(branches, *current)
	}
	branches = append(branches, local...)
	branches = append(branches, remote...)
	return branches, nil
}

// ListTags returns tags in version order, newest version first. Git's
// versionsort handles numeric components, so v1.10.0 sorts above v1.9.0.
func (e *RealExecutor) ListTags(ctx context.Context) ([]TagInfo, error) {
	format := strings.Join([]string{
		"%(refname:short)",
		"%(creatordate:unix)",
		"%(objecttype)",
		"%(subject)",
	}, fieldSep)
	output, err := e.runGitOutput(ctx, "for-each-ref", "refs/tags",
		"--sort=-version:refname", "--format="+format)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	if output == "" {
		return nil, nil
	}

	var tags []TagInfo
	for line := range strings.SplitSeq(output, "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, fieldSep)
		if len(fields) < 4 {
			continue
		}

		tag := TagInfo{Name: fields[0]}
		if unix, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
			tag.Date = time.Unix(unix, 0)
		}
		// Only annotated tags carry their own subject; for lightweight
		// tags %(subject) echoes the target commit, which we drop.
		if fields[2] == "tag" {
			tag.Annotation = fields[3]
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// ListRemotes returns configured remotes with their fetch URLs.
func (e *RealExecutor) ListRemotes(ctx context.Context) ([]RemoteInfo, error) {
	output, err := e.runGitOutput(ctx, "remote", "-v")
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}

	if output == "" {
		return nil, nil
	}

	var remotes []RemoteInfo
	seen := make(map[string]bool)
	for line := range strings.SplitSeq(output, "\n") {
		// Format: "origin\thttps://example.com/repo.git (fetch)"
		if !strings.HasSuffix(line, "(fetch)") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || seen[fields[0]] {
			continue
		}
		seen[fields[0]] = true
		remotes = append(remotes, RemoteInfo{Name: fields[0], URL: fields[1]})
	}
	return remotes, nil
}

// CommitLog returns up to limit commits reachable from ref, newest first.
func (e *RealExecutor) CommitLog(ctx context.Context, ref string, limit int) ([]Commit, error) {
	if limit <= 0 {
		limit = 100
	}
	format := strings.Join([]string{
		"%H", "%h", "%an", "%ae", "%at", "%P", "%s",
	}, fieldSep) + recordSep

	args := []string{"log", "--max-count=" + strconv.Itoa(limit), "--pretty=format:" + format}
	if ref != "" {
		args = append(args, ref)
	}
	args = append(args, "--")

	output, err := e.runGitOutput(ctx, args...)
	if err != nil {
		// An unborn HEAD has no commits; treat it as an empty log.
		if strings.Contains(err.Error(), "does not have any commits yet") {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read commit log: %w", err)
	}

	return parseCommitLog(output), nil
}

// parseCommitLog parses record-separated git log output.
func parseCommitLog(output string) []Commit {
	var commits []Commit
	for record := range strings.SplitSeq(output, recordSep) {
		record = strings.TrimLeft(record, "\n")
		if record == "" {
			continue
		}
		fields := strings.Split(record, fieldSep)
		if len(fields) < 7 {
			continue
		}

		commit := Commit{
			Hash:      fields[0],
			ShortHash: fields[1],
			Author:    fields[2],
			Email:     fields[3],
			Subject:   fields[6],
		}
		if unix, err := strconv.ParseInt(fields[4], 10, 64); err == nil {
			commit.Date = time.Unix(unix, 0)
		}
		if fields[5] != "" {
			commit.Parents = strings.Fields(fields[5])
		}
		commits = append(commits, commit)
	}
	return commits
}

// CommitBody returns the full message body of a commit. Empty string
// means the commit has a subject line only.
func (e *RealExecutor) CommitBody(ctx context.Context, hash string) (string, error) {
	output, err := e.runGitOutput(ctx, "show", "--no-patch", "--format=%b", hash)
	if err != nil {
		return "", fmt.Errorf("failed to read commit body: %w", err)
	}
	return strings.TrimSpace(output), nil
}

// CommitDiff returns the unified diff text for a single commit.
func (e *RealExecutor) CommitDiff(ctx context.Context, hash string) (string, error) {
	output, err := e.runGitOutput(ctx, "show", "--format=", "--patch", hash)
	if err != nil {
		return "", fmt.Errorf("failed to read commit diff: %w", err)
	}
	return output, nil
}

// Checkout switches the working tree to the given ref.
func (e *RealExecutor) Checkout(ctx context.Context, ref string) error {
	return e.runGit(ctx, "checkout", ref)
}

// Pull fast-forwards the current branch from its upstream.
func (e *RealExecutor) Pull(ctx context.Context) error {
	return e.runGit(ctx, "pull", "--ff-only")
}
