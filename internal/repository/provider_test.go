package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/aiki/internal/container"
	"github.com/mesh-intelligence/aiki/internal/ctxlog"
	"github.com/mesh-intelligence/aiki/internal/sqlite"
	"github.com/mesh-intelligence/aiki/pkg/types"
)

func newProvider(t *testing.T, backend string) *Provider {
	t.Helper()
	p, err := NewProvider(types.Config{Backend: backend, DataDir: t.TempDir()}, WithLogger(ctxlog.Discard()))
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestNewProviderRejectsBadConfig(t *testing.T) {
	_, err := NewProvider(types.Config{Backend: "mongo"})
	assert.ErrorIs(t, err, types.ErrConfiguration)

	_, err = NewProvider(types.Config{})
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestProviderSelectsVariant(t *testing.T) {
	tests := []struct {
		flag    string
		want    any
		wantErr error
	}{
		{flag: "yaml", want: &YAML[types.Feature]{}},
		{flag: "YML", want: &YAML[types.Feature]{}},
		{flag: "sqlite", want: &sqlite.Records[types.Feature]{}},
		{flag: "redis", wantErr: types.ErrConfiguration},
		{flag: "", wantErr: types.ErrConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			p := newProvider(t, "yaml")
			repo, err := p.FeatureCache(tt.flag, p.Config().FeatureCachePath)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, repo)
		})
	}
}

func TestProviderYAMLRequiresPath(t *testing.T) {
	p := newProvider(t, "yaml")
	_, err := p.ErrorCache("yaml", "")
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestProviderBackendsBehaveAlike(t *testing.T) {
	for _, backend := range []string{"yaml", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			p := newProvider(t, backend)
			cfg := p.Config()
			features, err := p.FeatureCache(cfg.Backend, cfg.FeatureCachePath)
			require.NoError(t, err)

			if backend == "yaml" {
				// The YAML document must exist before the first read.
				_, err = features.Get("core.timeout")
				require.ErrorIs(t, err, types.ErrDocumentNotFound)
			}

			saved, err := features.Save(&types.Feature{ID: "core.timeout", Name: "Timeout", Help: "desc"})
			require.NoError(t, err)

			got, err := features.Get("core.timeout")
			require.NoError(t, err)
			assert.Equal(t, saved, got)

			missing, err := features.Get("core.missing")
			require.NoError(t, err)
			assert.Nil(t, missing)

			_, err = features.Get("badid-no-dot")
			assert.ErrorIs(t, err, types.ErrInvalidID)
		})
	}
}

func TestProviderSharesSQLiteBackend(t *testing.T) {
	p := newProvider(t, "sqlite")

	features, err := p.FeatureCache("sqlite", "")
	require.NoError(t, err)
	errs, err := p.ErrorCache("sqlite", "")
	require.NoError(t, err)

	_, err = features.Save(&types.Feature{ID: "core.timeout", Name: "Timeout"})
	require.NoError(t, err)
	_, err = errs.Save(&types.ErrorEntry{ID: "core.timeout", Message: map[string]string{"en": "timed out"}})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(p.Config().DataDir, types.DefaultDatabaseFile))

	require.NoError(t, p.Close())
	_, err = features.Get("core.timeout")
	assert.ErrorIs(t, err, types.ErrDetached)
	require.NoError(t, p.Close())
}

func TestProviderRegister(t *testing.T) {
	p := newProvider(t, "yaml")
	reg := container.NewRegistry(ctxlog.Discard())
	require.NoError(t, p.Register(reg))
	assert.ErrorIs(t, p.Register(reg), types.ErrAlreadyRegistered)

	c, err := container.NewAssembler(reg, ctxlog.Discard()).Build(DefaultDeclarations(p.Config()))
	require.NoError(t, err)

	features, err := container.Value[types.FeatureRepository](c, AttrFeatureCache)
	require.NoError(t, err)
	assert.Equal(t, p.Config().FeatureCachePath, features.(*YAML[types.Feature]).Path())

	errs, err := container.Value[types.ErrorRepository](c, AttrErrorCache)
	require.NoError(t, err)
	assert.Equal(t, p.Config().ErrorCachePath, errs.(*YAML[types.ErrorEntry]).Path())
}

func TestProviderRegisterUsesContainerSettings(t *testing.T) {
	p := newProvider(t, "yaml")
	reg := container.NewRegistry(ctxlog.Discard())
	require.NoError(t, p.Register(reg))

	c, err := container.NewAssembler(reg, ctxlog.Discard()).Build([]types.ContainerAttribute{
		types.Attribute(AttrBackend, "sqlite"),
		types.Dependency(AttrFeatureCache, ModulePath, FeatureCacheClass),
		types.Dependency("broken", ModulePath, ErrorCacheClass),
		types.Attribute(AttrErrorCachePath, 42),
	})
	require.NoError(t, err)

	features, err := container.Value[types.FeatureRepository](c, AttrFeatureCache)
	require.NoError(t, err)
	assert.IsType(t, &sqlite.Records[types.Feature]{}, features)

	_, err = c.Get("broken")
	assert.ErrorIs(t, err, types.ErrTypeMismatch)
}
