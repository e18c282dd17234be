package diff

import (
	"path"
	"sort"
	"strings"
)

// TreeNode is a directory or file entry in the changed-files tree.
type TreeNode struct {
	Name     string // last path component
	Path     string // full path from repo root
	IsDir    bool
	Expanded bool // directories only
	Children []*TreeNode
	File     *File // nil for directories
	Depth    int
}

// Tree holds the changed files organized by directory.
type Tree struct {
	Root []*TreeNode

	visible []*TreeNode // cached flatten of expanded nodes
	stale   bool
}

// NewTree builds a tree from parsed diff files. Directories start
// expanded.
func NewTree(files []File) *Tree {
	t := &Tree{}
	byPath := make(map[string]*TreeNode)

	for i := range files {
		t.insert(files[i].Path(), &files[i], byPath)
	}
	sortNodes(t.Root)
	t.stale = true
	return t
}

func (t *Tree) insert(filePath string, file *File, byPath map[string]*TreeNode) {
	parts := strings.Split(path.Clean(filePath), "/")

	var parent *TreeNode
	for depth := 0; depth < len(parts)-1; depth++ {
		dirPath := strings.Join(parts[:depth+1], "/")
		if node, ok := byPath[dirPath]; ok {
			parent = node
			continue
		}
		node := &TreeNode{
			Name:     parts[depth],
			Path:     dirPath,
			IsDir:    true,
			Expanded: true,
			Depth:    depth,
		}
		byPath[dirPath] = node
		if parent == nil {
			t.Root = append(t.Root, node)
		} else {
			parent.Children = append(parent.Children, node)
		}
		parent = node
	}

	leaf := &TreeNode{
		Name:  parts[len(parts)-1],
		Path:  filePath,
		File:  file,
		Depth: len(parts) - 1,
	}
	byPath[filePath] = leaf
	if parent == nil {
		t.Root = append(t.Root, leaf)
	} else {
		parent.Children = append(parent.Children, leaf)
	}
}

// sortNodes orders directories before files, each group alphabetical.
func sortNodes(nodes []*TreeNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].IsDir != nodes[j].IsDir {
			return nodes[i].IsDir
		}
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})
	for _, node := range nodes {
		if node.IsDir {
			sortNodes(node.Children)
		}
	}
}

// VisibleNodes flattens the tree respecting collapsed directories.
func (t *Tree) VisibleNodes() []*TreeNode {
	if !t.stale && t.visible != nil {
		return t.visible
	}
	t.visible = t.visible[:0]
	t.flatten(t.Root)
	t.stale = false
	return t.visible
}

func (t *Tree) flatten(nodes []*TreeNode) {
	for _, node := range nodes {
		t.visible = append(t.visible, node)
		if node.IsDir && node.Expanded {
			t.flatten(node.Children)
		}
	}
}

// Toggle flips a directory's expanded state. Files are ignored.
func (t *Tree) Toggle(node *TreeNode) bool {
	if !node.IsDir {
		return false
	}
	node.Expanded = !node.Expanded
	t.stale = true
	return true
}

// StatusIndicator returns a single-letter change marker for file nodes:
// A added, D deleted, R renamed, B binary, M modified.
func (n *TreeNode) StatusIndicator() string {
	if n.IsDir || n.File == nil {
		return ""
	}
	switch {
	case n.File.IsBinary:
		return "B"
	case n.File.IsNew:
		return "A"
	case n.File.IsDeleted:
		return "D"
	case n.File.IsRenamed:
		return "R"
	default:
		return "M"
	}
}

// TotalStats sums additions and deletions under the node.
func (n *TreeNode) TotalStats() (additions, deletions int) {
	if !n.IsDir {
		if n.File != nil {
			return n.File.Additions, n.File.Deletions
		}
		return 0, 0
	}
	for _, child := range n.Children {
		a, d := child.TotalStats()
		additions += a
		deletions += d
	}
	return additions, deletions
}
