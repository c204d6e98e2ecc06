package config

import (
	"context"
	"errors"
	"testing"

	swgenerrors "github.com/leodido/swgen/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ListsAreEmptyNotNil(t *testing.T) {
	cfg := New("/srv/www")

	assert.Equal(t, "/srv/www", cfg.RootPath)
	assert.NotNil(t, cfg.Include)
	assert.NotNil(t, cfg.Exclude)
	assert.NotNil(t, cfg.CacheOnInstall)
	assert.NotNil(t, cfg.CacheOnDemand)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name       string
		cfg        Configuration
		assertFunc func(t *testing.T, errs []error)
	}{
		{
			name: "valid configuration",
			cfg:  Configuration{RootPath: "/srv", Include: []string{"a.txt", "sub/*", "**/*.css", "img/{a,b}.png"}},
			assertFunc: func(t *testing.T, errs []error) {
				assert.Empty(t, errs)
			},
		},
		{
			name: "missing root path",
			cfg:  Configuration{Include: []string{"a.txt"}},
			assertFunc: func(t *testing.T, errs []error) {
				require.Len(t, errs, 1)
				assert.Equal(t, "field 'root_path': is required", errs[0].Error())
			},
		},
		{
			name: "invalid include pattern",
			cfg:  Configuration{RootPath: "/srv", Include: []string{"ok.txt", "assets/["}},
			assertFunc: func(t *testing.T, errs []error) {
				require.Len(t, errs, 1)
				assert.True(t, errors.Is(errs[0], swgenerrors.ErrInvalidPattern))
				var patternErr *swgenerrors.InvalidPatternError
				require.True(t, errors.As(errs[0], &patternErr))
				assert.Equal(t, "include[1]", patternErr.Field)
				assert.Equal(t, "assets/[", patternErr.Pattern)
			},
		},
		{
			name: "invalid patterns in every list are reported",
			cfg: Configuration{
				RootPath:       "/srv",
				Exclude:        []string{"{a"},
				CacheOnInstall: []string{"["},
				CacheOnDemand:  []string{"x/["},
			},
			assertFunc: func(t *testing.T, errs []error) {
				assert.Len(t, errs, 3)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.assertFunc(t, tc.cfg.Validate(context.Background()))
		})
	}
}

func TestTransform_TrimsPatterns(t *testing.T) {
	cfg := Configuration{
		RootPath: "  /srv/www ",
		Include:  []string{" a.txt", "sub/* "},
		Exclude:  []string{"\tsub/*.map\n"},
	}

	require.NoError(t, cfg.Transform(context.Background()))

	assert.Equal(t, "/srv/www", cfg.RootPath)
	assert.Equal(t, []string{"a.txt", "sub/*"}, cfg.Include)
	assert.Equal(t, []string{"sub/*.map"}, cfg.Exclude)
}

func TestNormalizePattern(t *testing.T) {
	testCases := map[string]string{
		"a.txt":         "a.txt",
		"./a.txt":       "a.txt",
		"././sub/*":     "sub/*",
		"/sub/b.txt":    "sub/b.txt",
		`sub\b.txt`:     "sub/b.txt",
		"  sub/*  ":     "sub/*",
		"sub//b.txt":    "sub/b.txt",
		"sub/./b.txt":   "sub/b.txt",
		".":             "",
		"":              "",
		"/":             "",
		"**/*.js":       "**/*.js",
		"img/{a,b}.png": "img/{a,b}.png",
	}

	for input, expected := range testCases {
		assert.Equal(t, expected, NormalizePattern(input), "input %q", input)
	}
}
