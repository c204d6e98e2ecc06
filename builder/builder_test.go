package builder

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leodido/swgen/config"
	swgenerrors "github.com/leodido/swgen/errors"
	"github.com/leodido/swgen/prompt"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// faultyFs fails to open the given paths.
type faultyFs struct {
	afero.Fs
	failures map[string]error
}

func (f *faultyFs) Open(name string) (afero.File, error) {
	if err, ok := f.failures[filepath.Clean(name)]; ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	return f.Fs.Open(name)
}

// scripted answers every prompt with the next answer, recording the prompted directories.
type scripted struct {
	answers []string
	dirs    []string
	listed  [][]prompt.Entry
}

func (s *scripted) Select(ctx context.Context, dir string, entries []prompt.Entry) (prompt.Selection, error) {
	s.dirs = append(s.dirs, dir)
	s.listed = append(s.listed, entries)
	answer := "all"
	if len(s.answers) > 0 {
		answer, s.answers = s.answers[0], s.answers[1:]
	}

	return prompt.ParseSelection(answer, len(entries))
}

type builderSuite struct {
	suite.Suite
	fs afero.Fs
}

func TestBuilderSuite(t *testing.T) {
	suite.Run(t, new(builderSuite))
}

func (suite *builderSuite) SetupTest() {
	suite.fs = afero.NewMemMapFs()
	for _, name := range []string{"/root/a.txt", "/root/sub/b.txt", "/root/sub/c.txt"} {
		require.NoError(suite.T(), afero.WriteFile(suite.fs, name, []byte(name), 0o644))
	}
}

func (suite *builderSuite) build(p prompt.Prompter) (config.Configuration, error) {
	return New(suite.fs, p, nil).Build(context.Background(), "/root")
}

func (suite *builderSuite) TestBuild_AllEverywhere() {
	p := &scripted{}

	cfg, err := suite.build(p)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "/root", cfg.RootPath)
	assert.Equal(suite.T(), []string{"a.txt", "sub/*", "sub/b.txt", "sub/c.txt"}, cfg.Include)
	assert.Empty(suite.T(), cfg.Exclude)
	assert.Equal(suite.T(), []string{"/root", "/root/sub"}, p.dirs, "parent must be prompted before its children")
	assert.Equal(suite.T(), []prompt.Entry{{Name: "a.txt"}, {Name: "sub", Dir: true}}, p.listed[0])
}

func (suite *builderSuite) TestBuild_FirstEntryOnly() {
	p := &scripted{answers: []string{"1"}}

	cfg, err := suite.build(p)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), []string{"a.txt"}, cfg.Include)
	assert.Equal(suite.T(), []string{"/root"}, p.dirs)
}

func (suite *builderSuite) TestBuild_RetryHasNoSideEffects() {
	var out bytes.Buffer
	withRetry := prompt.NewLinePrompter(strings.NewReader("whatever\nall\nall\n"), &out, nil)

	cfg, err := suite.build(withRetry)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), []string{"a.txt", "sub/*", "sub/b.txt", "sub/c.txt"}, cfg.Include)
	assert.Contains(suite.T(), out.String(), "Invalid input. Please try again.")
}

func (suite *builderSuite) TestBuild_DirectoryBeforeLaterSiblings() {
	require.NoError(suite.T(), afero.WriteFile(suite.fs, "/root/z.txt", []byte("z"), 0o644))
	require.NoError(suite.T(), afero.WriteFile(suite.fs, "/root/sub/deep/d.txt", []byte("d"), 0o644))

	cfg, err := suite.build(&scripted{})
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), []string{
		"a.txt",
		"sub/*",
		"sub/b.txt",
		"sub/c.txt",
		"sub/deep/*",
		"sub/deep/d.txt",
		"z.txt",
	}, cfg.Include)
}

func (suite *builderSuite) TestBuild_SelectDirectoryThenNothingInside() {
	p := &scripted{answers: []string{"2", "9"}}

	cfg, err := suite.build(p)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), []string{"sub/*"}, cfg.Include)
}

func (suite *builderSuite) TestBuild_EmptyDirectoriesAreNotPrompted() {
	require.NoError(suite.T(), suite.fs.MkdirAll("/root/empty", 0o755))
	p := &scripted{}

	cfg, err := suite.build(p)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), []string{"a.txt", "empty/*", "sub/*", "sub/b.txt", "sub/c.txt"}, cfg.Include)
	assert.Equal(suite.T(), []string{"/root", "/root/sub"}, p.dirs)
}

func (suite *builderSuite) TestBuild_PermissionDeniedIsSkipped() {
	require.NoError(suite.T(), afero.WriteFile(suite.fs, "/root/tail.txt", []byte("t"), 0o644))
	faulty := &faultyFs{Fs: suite.fs, failures: map[string]error{"/root/sub": fs.ErrPermission}}

	cfg, err := New(faulty, &scripted{}, nil).Build(context.Background(), "/root")
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), []string{"a.txt", "sub/*", "tail.txt"}, cfg.Include)
}

func (suite *builderSuite) TestBuild_OtherListingErrorsAreFatal() {
	boom := errors.New("input/output error")
	faulty := &faultyFs{Fs: suite.fs, failures: map[string]error{"/root/sub": boom}}

	_, err := New(faulty, &scripted{}, nil).Build(context.Background(), "/root")
	require.Error(suite.T(), err)

	assert.True(suite.T(), errors.Is(err, boom))
	assert.False(suite.T(), errors.Is(err, swgenerrors.ErrPermission))
	assert.Contains(suite.T(), err.Error(), "/root/sub")
}

func (suite *builderSuite) TestBuild_MaxDepth() {
	require.NoError(suite.T(), afero.WriteFile(suite.fs, "/root/sub/deep/d.txt", []byte("d"), 0o644))
	b := New(suite.fs, &scripted{}, nil)
	b.MaxDepth = 1

	cfg, err := b.Build(context.Background(), "/root")
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), []string{"a.txt", "sub/*", "sub/b.txt", "sub/c.txt", "sub/deep/*"}, cfg.Include)
}

func (suite *builderSuite) TestBuild_RootNotFound() {
	_, err := New(suite.fs, &scripted{}, nil).Build(context.Background(), "/nope")
	require.Error(suite.T(), err)

	assert.True(suite.T(), errors.Is(err, swgenerrors.ErrNotFound))
}

func (suite *builderSuite) TestBuild_RootIsAFile() {
	_, err := New(suite.fs, &scripted{}, nil).Build(context.Background(), "/root/a.txt")
	require.Error(suite.T(), err)

	assert.True(suite.T(), errors.Is(err, swgenerrors.ErrNotFound))
}

func (suite *builderSuite) TestBuild_PrompterErrorsAbort() {
	cancelled := prompt.PrompterFunc(func(ctx context.Context, dir string, entries []prompt.Entry) (prompt.Selection, error) {
		return prompt.Selection{}, swgenerrors.ErrSelectionCancelled
	})

	_, err := suite.build(cancelled)
	assert.True(suite.T(), errors.Is(err, swgenerrors.ErrSelectionCancelled))
}

func (suite *builderSuite) TestBuild_CancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(suite.fs, &scripted{}, nil).Build(ctx, "/root")
	assert.True(suite.T(), errors.Is(err, context.Canceled))
}

func TestBuild_OsFilesystemSymlinksAreLeaves(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "real"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "real", "x.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")))
	p := &scripted{}

	cfg, err := New(afero.NewOsFs(), p, nil).Build(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"link", "real/*", "real/x.txt"}, cfg.Include)
	assert.Equal(t, []string{root, filepath.Join(root, "real")}, p.dirs)
	require.NotEmpty(t, p.listed)
	assert.Equal(t, []prompt.Entry{{Name: "link"}, {Name: "real", Dir: true}}, p.listed[0])
}
