package git

import (
	"context"
	"time"
)

// BranchInfo holds information about a git branch.
type BranchInfo struct {
	Name      string // Branch name (e.g., "main", "feature/auth")
	IsCurrent bool   // True if this is the currently checked out branch
	IsRemote  bool   // True for remote-tracking branches (e.g., "origin/main")
}

// TagInfo holds information about a git tag.
type TagInfo struct {
	Name       string    // Tag name (e.g., "v1.2.0")
	Date       time.Time // Creation date (tagger date for annotated tags)
	Annotation string    // Annotation subject, empty for lightweight tags
}

// RemoteInfo holds information about a configured remote.
type RemoteInfo struct {
	Name string // Remote name (e.g., "origin")
	URL  string // Fetch URL
}

// Commit holds information about a git commit.
type Commit struct {
	Hash      string    // Full 40-char SHA
	ShortHash string    // 7-char abbreviated hash
	Subject   string    // First line of commit message
	Author    string    // Author name
	Email     string    // Author email
	Date      time.Time // Author timestamp
	Parents   []string  // Parent commit hashes (empty for root commits)
}

// Executor defines the data-access interface for repository browsing.
// All reads return owned snapshots; callers never share mutable state with
// the executor. Every method runs a git subprocess, so all of them take a
// context that bounds the subprocess lifetime. This abstraction allows
// for easy testing with mock implementations.
type Executor interface {
	IsGitRepo(ctx context.Context) bool
	RepoRoot(ctx context.Context) (string, error)
	CurrentBranch(ctx context.Context) (string, error)

	// ListBranches returns local and remote-tracking branches,
	// current branch first, then local branches, then remote ones.
	ListBranches(ctx context.Context) ([]BranchInfo, error)
	// ListTags returns tags in version order, newest version first.
	ListTags(ctx context.Context) ([]TagInfo, error)
	// ListRemotes returns configured remotes with their fetch URLs.
	ListRemotes(ctx context.Context) ([]RemoteInfo, error)

	// CommitLog returns up to limit commits reachable from ref.
	// An empty ref means HEAD. Returns an empty slice for empty repositories.
	CommitLog(ctx context.Context, ref string, limit int) ([]Commit, error)
	// CommitBody returns the full message body of a commit (may be empty).
	CommitBody(ctx context.Context, hash string) (string, error)
	// CommitDiff returns the unified diff text for a specific commit.
	CommitDiff(ctx context.Context, hash string) (string, error)

	// Checkout switches the working tree to the given ref.
	Checkout(ctx context.Context, ref string) error
	// Pull fast-forwards the current branch from its upstream.
	Pull(ctx context.Context) error
}
