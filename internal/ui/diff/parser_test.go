package diff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/main.go b/main.go
index 1234567..89abcde 100644
--- a/main.go
+++ b/main.go
@@ -1,5 +1,6 @@ package main
 import "fmt"

-func main() {
+func main() { // entry
+	fmt.Println("hi")
 	run()
 }
diff --git a/README.md b/README.md
new file mode 100644
index 0000000..e69de29
--- /dev/null
+++ b/README.md
@@ -0,0 +1,2 @@
+# readme
+text
`

func TestParse_TwoFiles(t *testing.T) {
	files, err := Parse(sampleDiff)
	require.NoError(t, err)
	require.Len(t, files, 2)

	first := files[0]
	require.Equal(t, "main.go", first.OldPath)
	require.Equal(t, "main.go", first.NewPath)
	require.Equal(t, 2, first.Additions)
	require.Equal(t, 1, first.Deletions)
	require.Len(t, first.Hunks, 1)

	second := files[1]
	require.True(t, second.IsNew)
	require.Equal(t, "/dev/null", second.OldPath)
	require.Equal(t, "README.md", second.NewPath)
	require.Equal(t, 2, second.Additions)
}

func TestParse_HunkHeader(t *testing.T) {
	files, err := Parse(sampleDiff)
	require.NoError(t, err)

	hunk := files[0].Hunks[0]
	require.Equal(t, 1, hunk.OldStart)
	require.Equal(t, 5, hunk.OldCount)
	require.Equal(t, 1, hunk.NewStart)
	require.Equal(t, 6, hunk.NewCount)

	require.Equal(t, LineHunkHeader, hunk.Lines[0].Type)
	require.Equal(t, "package main", hunk.Lines[0].Content)
}

func TestParse_LineNumbers(t *testing.T) {
	files, err := Parse(sampleDiff)
	require.NoError(t, err)

	lines := files[0].Hunks[0].Lines
	// After the header: context, blank context, deletion, two additions,
	// context, context.
	require.Equal(t, LineContext, lines[1].Type)
	require.Equal(t, 1, lines[1].OldLineNum)
	require.Equal(t, 1, lines[1].NewLineNum)

	require.Equal(t, LineDeletion, lines[3].Type)
	require.Equal(t, 3, lines[3].OldLineNum)
	require.Zero(t, lines[3].NewLineNum)

	require.Equal(t, LineAddition, lines[4].Type)
	require.Zero(t, lines[4].OldLineNum)
	require.Equal(t, 3, lines[4].NewLineNum)
	require.Equal(t, LineAddition, lines[5].Type)
	require.Equal(t, 4, lines[5].NewLineNum)
}

func TestParse_Empty(t *testing.T) {
	files, err := Parse("")
	require.NoError(t, err)
	require.Nil(t, files)
}

func TestParse_BinaryFile(t *testing.T) {
	input := `diff --git a/logo.png b/logo.png
index 1234567..89abcde 100644
Binary files a/logo.png and b/logo.png differ
`
	files, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.True(t, files[0].IsBinary)
	require.Empty(t, files[0].Hunks)
}

func TestParse_Rename(t *testing.T) {
	input := `diff --git a/old/name.go b/new/name.go
similarity index 92%
rename from old/name.go
rename to new/name.go
index 1234567..89abcde 100644
--- a/old/name.go
+++ b/new/name.go
@@ -1 +1 @@
-old
+new
`
	files, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.True(t, files[0].IsRenamed)
	require.Equal(t, 92, files[0].Similarity)
	require.Equal(t, "old/name.go", files[0].OldPath)
	require.Equal(t, "new/name.go", files[0].NewPath)
}

func TestParse_DeletedFile(t *testing.T) {
	input := `diff --git a/gone.txt b/gone.txt
deleted file mode 100644
index e69de29..0000000
--- a/gone.txt
+++ /dev/null
@@ -1,2 +0,0 @@
-first
-second
`
	files, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.True(t, files[0].IsDeleted)
	require.Equal(t, "gone.txt", files[0].Path())
	require.Equal(t, 2, files[0].Deletions)
}

func TestParse_OmittedHunkCounts(t *testing.T) {
	input := `diff --git a/a.txt b/a.txt
--- a/a.txt
+++ b/a.txt
@@ -1 +1 @@
-x
+y
`
	files, err := Parse(input)
	require.NoError(t, err)
	hunk := files[0].Hunks[0]
	require.Equal(t, 1, hunk.OldCount)
	require.Equal(t, 1, hunk.NewCount)
}

func TestParse_NoNewlineMarkerSkipped(t *testing.T) {
	input := `diff --git a/a.txt b/a.txt
--- a/a.txt
+++ b/a.txt
@@ -1 +1 @@
-x
+y
\ No newline at end of file
`
	files, err := Parse(input)
	require.NoError(t, err)
	// header + deletion + addition, the backslash marker is dropped
	require.Len(t, files[0].Hunks[0].Lines, 3)
}
