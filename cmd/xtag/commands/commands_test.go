package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazor-de/xtag/internal/model"
	"github.com/erazor-de/xtag/internal/storage"
	"github.com/erazor-de/xtag/internal/xattr"
	"github.com/erazor-de/xtag/pkg/tagql"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeCatalog(t *testing.T, items ...model.Item) string {
	t.Helper()
	cw, err := storage.NewCatalogWriter()
	require.NoError(t, err)
	defer cw.Close()

	path := filepath.Join(t.TempDir(), "catalog.jsonl.zst")
	require.NoError(t, cw.WriteFile(path, items))
	return path
}

func item(t *testing.T, path, tags string) model.Item {
	t.Helper()
	ts, err := tagql.ParseTagList(tags)
	require.NoError(t, err)
	return model.Item{Path: path, Tags: ts}
}

func musicCatalog(t *testing.T) string {
	return writeCatalog(t,
		item(t, "/music/a.flac", "genre=rock,year=1999"),
		item(t, "/music/b.flac", "genre=jazz,year=1965,favorite"),
		item(t, "/music/c.flac", "genre=metal,year=2004,favorite"),
		item(t, "/music/d.flac", "genre=rock,year=1971"),
	)
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestCheck(t *testing.T) {
	out, _, err := execute(t, "check", "a and b or not c")
	require.NoError(t, err)
	assert.Equal(t, "a && b || !c\n", out)

	_, _, err = execute(t, "check", "a b")
	require.Error(t, err)
	assert.ErrorIs(t, err, tagql.ErrTrailingInput)
	assert.Contains(t, err.Error(), "invalid query")
	assert.True(t, strings.HasSuffix(err.Error(), "\n  a b\n    ^"), err.Error())

	_, _, err = execute(t, "check", "--variant", "basic", "a != b")
	assert.ErrorIs(t, err, tagql.ErrUnexpectedCharacter)

	_, _, err = execute(t, "check", "--variant", "fancy", "a")
	assert.Error(t, err)
}

func TestTags(t *testing.T) {
	out, _, err := execute(t, "tags", "a , b = c")
	require.NoError(t, err)
	assert.Equal(t, "a,b=c\n", out)

	_, _, err = execute(t, "tags", "a b")
	assert.ErrorIs(t, err, tagql.ErrTrailingInput)
}

func TestSearchCatalog(t *testing.T) {
	catalog := musicCatalog(t)

	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"genre == rock"}, []string{"/music/a.flac", "/music/d.flac"}},
		{[]string{"favorite and year > 2000"}, []string{"/music/c.flac"}},
		{[]string{"genre != rock"}, []string{"/music/b.flac", "/music/c.flac"}},
		{[]string{"genre == (rock|metal)", "--limit", "2"}, []string{"/music/a.flac", "/music/c.flac"}},
		{[]string{"style == rock", "--rename", "genre=style"}, []string{"/music/a.flac", "/music/d.flac"}},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			args := append([]string{"search", "--catalog", catalog, "--workers", "2"}, tt.args...)
			out, _, err := execute(t, args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lines(out))
		})
	}
}

func TestSearchInvalidQuery(t *testing.T) {
	_, _, err := execute(t, "search", "--catalog", filepath.Join(t.TempDir(), "missing"), "a ==")
	assert.ErrorIs(t, err, tagql.ErrUnexpectedEOF, "the query is checked before items are read")

	_, _, err = execute(t, "search", "--catalog", filepath.Join(t.TempDir(), "missing"), "a")
	assert.Error(t, err)
}

func TestSearchSkipsMalformedCatalogLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.jsonl")
	content := `{"path": "/ok", "tags": "a"}
{"path": "/bad", "tags": "a b"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	out, stderr, err := execute(t, "search", "--catalog", path, "--log-format", "json", "a")
	require.NoError(t, err)
	assert.Equal(t, "/ok\n", out)
	assert.Contains(t, stderr, "skipping catalog entry")
	assert.Contains(t, stderr, "line 2")
}

func TestBookmarkAndSearch(t *testing.T) {
	catalog := musicCatalog(t)
	dir := t.TempDir()

	_, _, err := execute(t, "bookmark", "--bookmarks", dir, "loud", "genre == (rock|metal)")
	require.NoError(t, err)

	target, err := os.Readlink(filepath.Join(dir, "loud"))
	require.NoError(t, err)
	assert.Equal(t, "genre == (rock|metal)", target)

	out, _, err := execute(t, "search", "--bookmarks", dir, "--catalog", catalog, "{loud} && !favorite")
	require.NoError(t, err)
	assert.Equal(t, []string{"/music/a.flac", "/music/d.flac"}, lines(out))

	_, _, err = execute(t, "bookmark", "--bookmarks", dir, "broken", "a &&")
	assert.ErrorIs(t, err, tagql.ErrUnexpectedEOF)
}

func TestConfigFile(t *testing.T) {
	catalog := musicCatalog(t)
	cfgPath := filepath.Join(t.TempDir(), "xtag.toml")
	content := "variant = \"basic\"\ncatalog = \"" + filepath.ToSlash(catalog) + "\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	out, _, err := execute(t, "search", "--config", cfgPath, "year < 1970")
	require.NoError(t, err)
	assert.Equal(t, "/music/b.flac\n", out)

	_, _, err = execute(t, "check", "--config", cfgPath, "a != b")
	assert.ErrorIs(t, err, tagql.ErrUnexpectedCharacter, "basic variant from the config file")
}

func TestWalkFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	for _, name := range []string{"a", "sub/b"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	paths, err := walkFiles([]string{dir, filepath.Join(dir, "a")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a"),
		filepath.Join(dir, "sub", "b"),
		filepath.Join(dir, "a"),
	}, paths)

	_, err = walkFiles([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestMergeTags(t *testing.T) {
	old := item(t, "", "a=1,b,c=3").Tags
	update := item(t, "", "a=2,d").Tags
	assert.Equal(t, "b,c=3,a=2,d", mergeTags(old, update).String())
}

// taggedDir returns a directory with tagged files, or skips when the
// filesystem does not support user extended attributes.
func taggedDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	probe := filepath.Join(dir, "probe")
	require.NoError(t, os.WriteFile(probe, nil, 0o600))
	if err := xattr.SetTags(probe, tagql.TagSet{tagql.NewTag("x")}); err != nil {
		t.Skipf("extended attributes unavailable: %v", err)
	}
	require.NoError(t, os.Remove(probe))

	for _, name := range []string{"one", "two", "three"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}
	return dir
}

func TestFileCommands(t *testing.T) {
	dir := taggedDir(t)
	one, two := filepath.Join(dir, "one"), filepath.Join(dir, "two")

	_, _, err := execute(t, "set", "genre=rock,year=1999", one, two)
	require.NoError(t, err)
	_, _, err = execute(t, "set", "--merge", "year=2001,live", two)
	require.NoError(t, err)

	out, _, err := execute(t, "show", one, two)
	require.NoError(t, err)
	assert.Equal(t, []string{
		one + ": genre=rock,year=1999",
		two + ": genre=rock,year=2001,live",
	}, lines(out))

	out, _, err = execute(t, "search", "year > 2000", dir)
	require.NoError(t, err)
	assert.Equal(t, two+"\n", out)

	catalog := filepath.Join(t.TempDir(), "index.jsonl")
	_, _, err = execute(t, "index", "-o", catalog, dir)
	require.NoError(t, err)
	out, _, err = execute(t, "search", "--catalog", catalog, "genre == rock")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{one, two}, lines(out))

	_, _, err = execute(t, "clear", one)
	require.NoError(t, err)
	out, _, err = execute(t, "show", one)
	require.NoError(t, err)
	assert.Equal(t, one+": \n", out)
}
