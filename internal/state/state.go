package state

import (
	"github.com/zjrosen/refview/internal/git"
	"github.com/zjrosen/refview/internal/loader"
)

// AppState is the single source of truth views render from. The app
// controller owns it and mutates it on the update loop; views receive
// it read-only.
type AppState struct {
	RepoRoot      string
	CurrentBranch string

	Branches []git.BranchInfo
	Tags     []git.TagInfo
	Remotes  []git.RemoteInfo

	// Per-ref commit logs and per-hash diff material, keyed the same
	// way the loader slots are.
	Commits map[string][]git.Commit
	Diffs   map[string]string
	Bodies  map[string]string

	Loader *loader.Coordinator

	Width  int
	Height int

	// StatusMsg is a transient message shown in the status line after
	// actions like checkout and pull.
	StatusMsg string
}

// New creates an empty AppState wired to the given coordinator.
func New(coord *loader.Coordinator) *AppState {
	return &AppState{
		Commits: make(map[string][]git.Commit),
		Diffs:   make(map[string]string),
		Bodies:  make(map[string]string),
		Loader:  coord,
	}
}

// ApplyResult stores a loader payload into the matching field. The
// caller has already confirmed the result is current via the
// coordinator; this only routes the payload.
func (s *AppState) ApplyResult(msg loader.ResultMsg) {
	if msg.Err != nil {
		return
	}

	switch msg.Slot.Type {
	case loader.SlotBranches:
		if v, ok := msg.Payload.([]git.BranchInfo); ok {
			s.Branches = v
		}
	case loader.SlotTags:
		if v, ok := msg.Payload.([]git.TagInfo); ok {
			s.Tags = v
		}
	case loader.SlotRemotes:
		if v, ok := msg.Payload.([]git.RemoteInfo); ok {
			s.Remotes = v
		}
	case loader.SlotCommits:
		if v, ok := msg.Payload.([]git.Commit); ok {
			s.Commits[msg.Slot.Ref] = v
		}
	case loader.SlotDiff:
		if v, ok := msg.Payload.(string); ok {
			s.Diffs[msg.Slot.Ref] = v
		}
	case loader.SlotCommitBody:
		if v, ok := msg.Payload.(string); ok {
			s.Bodies[msg.Slot.Ref] = v
		}
	}
}

// ClearRepoData drops everything derived from the repository. Called
// when the watcher reports the repo changed on disk.
func (s *AppState) ClearRepoData() {
	s.Branches = nil
	s.Tags = nil
	s.Remotes = nil
	s.Commits = make(map[string][]git.Commit)
	s.Diffs = make(map[string]string)
	s.Bodies = make(map[string]string)
}
