package types

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:   "yaml backend",
			config: Config{Backend: "yaml", DataDir: "/tmp/data"},
		},
		{
			name:   "yml alias",
			config: Config{Backend: "yml"},
		},
		{
			name:   "sqlite backend",
			config: Config{Backend: "sqlite", DataDir: "/tmp/data"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected %v to wrap ErrConfiguration", err)
			}
		})
	}
}

func TestNormalizeBackend(t *testing.T) {
	for flag, want := range map[string]string{
		"yaml":   BackendYAML,
		"yml":    BackendYAML,
		" YML ":  BackendYAML,
		"SQLite": BackendSQLite,
		"sqlite": BackendSQLite,
	} {
		got, err := NormalizeBackend(flag)
		assert.NoError(t, err, flag)
		assert.Equal(t, want, got, flag)
	}
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{Backend: BackendYAML, DataDir: "/srv/aiki"}.WithDefaults()
	assert.Equal(t, filepath.Join("/srv/aiki", DefaultFeatureCacheFile), cfg.FeatureCachePath)
	assert.Equal(t, filepath.Join("/srv/aiki", DefaultErrorCacheFile), cfg.ErrorCachePath)
	assert.Equal(t, filepath.Join("/srv/aiki", DefaultDatabaseFile), cfg.DatabasePath())

	explicit := Config{DataDir: "/srv/aiki", FeatureCachePath: "/etc/features.yml"}.WithDefaults()
	assert.Equal(t, "/etc/features.yml", explicit.FeatureCachePath)
}
