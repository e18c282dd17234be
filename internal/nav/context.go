package nav

// ViewKind identifies which screen a navigation context refers to.
type ViewKind int

const (
	KindMainMenu ViewKind = iota
	KindBranchList
	KindTagList
	KindRemoteList
	KindCommitList
	KindDiffView
	KindQueryHistory
)

// String returns the breadcrumb label for the view kind.
func (k ViewKind) String() string {
	switch k {
	case KindMainMenu:
		return "Menu"
	case KindBranchList:
		return "Branches"
	case KindTagList:
		return "Tags"
	case KindRemoteList:
		return "Remotes"
	case KindCommitList:
		return "Commits"
	case KindDiffView:
		return "Diff"
	case KindQueryHistory:
		return "History"
	default:
		return "Unknown"
	}
}

// Context is one frame of the navigation stack. It carries everything a
// view needs to restore itself when the user navigates back: which ref
// it was showing and where the cursor and scroll were.
type Context struct {
	Kind       ViewKind
	Ref        string // Branch or tag name for commit lists
	CommitHash string // Full hash for diff views
	Cursor     int
	Scroll     int
	ShowDetail bool
}

// Label returns the breadcrumb text for this frame. Ref-scoped frames
// include the ref so "Commits" on two branches read differently.
func (c Context) Label() string {
	switch c.Kind {
	case KindCommitList:
		if c.Ref != "" {
			return c.Ref
		}
	case KindDiffView:
		if len(c.CommitHash) >= 7 {
			return c.CommitHash[:7]
		}
	}
	return c.Kind.String()
}
