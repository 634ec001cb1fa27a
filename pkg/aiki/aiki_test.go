package aiki

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/aiki/internal/ctxlog"
	"github.com/mesh-intelligence/aiki/pkg/types"
)

func TestOpenYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	repos, err := Open(types.Config{Backend: "yml", DataDir: "/data"}, Options{Fs: fs, Logger: ctxlog.Discard()})
	require.NoError(t, err)
	defer repos.Close()

	assert.Equal(t, "/data/features.yml", repos.Config().FeatureCachePath)

	features, err := repos.Features()
	require.NoError(t, err)
	_, err = features.Save(&types.Feature{ID: "core.timeout", Name: "Timeout"})
	require.NoError(t, err)

	exists, err := afero.Exists(fs, "/data/features.yml")
	require.NoError(t, err)
	assert.True(t, exists)

	errs, err := repos.Errors()
	require.NoError(t, err)
	got, err := errs.Get("core.timeout")
	require.ErrorIs(t, err, types.ErrDocumentNotFound)
	assert.Nil(t, got)
}

func TestOpenSQLite(t *testing.T) {
	repos, err := Open(types.Config{Backend: "sqlite", DataDir: t.TempDir()}, Options{Logger: ctxlog.Discard()})
	require.NoError(t, err)
	defer repos.Close()

	errs, err := repos.Errors()
	require.NoError(t, err)
	saved, err := errs.Save(&types.ErrorEntry{ID: "http.404", Message: map[string]string{"en": "not found"}})
	require.NoError(t, err)

	got, err := errs.Get("http.404")
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestOpenDeclarationsPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := `container:
  - type: attribute
    id: feature_cache_path
    data:
      value: /custom/features.yml
  - type: dependency
    id: feature_cache
    data:
      module_path: aiki.repositories
      class_name: FeatureCache
`
	require.NoError(t, afero.WriteFile(fs, "/cfg/container.yml", []byte(doc), 0o644))

	repos, err := Open(types.Config{Backend: "yaml", DataDir: "/data"}, Options{
		Fs:               fs,
		Logger:           ctxlog.Discard(),
		DeclarationsPath: "/cfg/container.yml",
	})
	require.NoError(t, err)

	features, err := repos.Features()
	require.NoError(t, err)
	_, err = features.Save(&types.Feature{ID: "core.timeout", Name: "Timeout"})
	require.NoError(t, err)

	exists, err := afero.Exists(fs, "/custom/features.yml")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repos.Errors()
	assert.ErrorIs(t, err, types.ErrBindingNotFound)
	assert.Equal(t, []string{"feature_cache_path", "feature_cache"}, repos.Container().IDs())
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(types.Config{Backend: "csv"}, Options{Logger: ctxlog.Discard()})
	assert.ErrorIs(t, err, types.ErrConfiguration)

	fs := afero.NewMemMapFs()
	doc := "container:\n  - type: dependency\n    id: x\n    data:\n      module_path: aiki.repositories\n      class_name: FeatureCahce\n"
	require.NoError(t, afero.WriteFile(fs, "/cfg/container.yml", []byte(doc), 0o644))
	_, err = Open(types.Config{Backend: "yaml"}, Options{Fs: fs, Logger: ctxlog.Discard(), DeclarationsPath: "/cfg/container.yml"})
	require.ErrorIs(t, err, types.ErrResolution)
	assert.Contains(t, err.Error(), "did you mean aiki.repositories.FeatureCache?")
}
