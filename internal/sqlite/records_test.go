package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/aiki/internal/ctxlog"
	"github.com/mesh-intelligence/aiki/internal/mapper"
	"github.com/mesh-intelligence/aiki/pkg/types"
)

var featuresMapper = mapper.Features{}

func attached(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend(ctxlog.Discard())
	require.NoError(t, b.Attach(filepath.Join(t.TempDir(), "aiki.db")))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestRecords_GetMissing(t *testing.T) {
	features := NewRecords[types.Feature](attached(t), featuresMapper)

	got, err := features.Get("core.missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err := features.Exists("core.missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecords_InvalidID(t *testing.T) {
	features := NewRecords[types.Feature](attached(t), featuresMapper)
	_, err := features.Get("badid-no-dot")
	require.ErrorIs(t, err, types.ErrInvalidID)
	_, err = features.Exists("badid-no-dot")
	require.ErrorIs(t, err, types.ErrInvalidID)
}

func TestRecords_SaveGetRoundTrip(t *testing.T) {
	features := NewRecords[types.Feature](attached(t), featuresMapper)

	saved, err := features.Save(&types.Feature{GroupID: "core", FeatureKey: "timeout", Name: "Timeout", Help: "desc"})
	require.NoError(t, err)
	want := &types.Feature{ID: "core.timeout", GroupID: "core", FeatureKey: "timeout", Name: "Timeout", Help: "desc"}
	if diff := cmp.Diff(want, saved); diff != "" {
		t.Errorf("Save() mismatch (-want +got):\n%s", diff)
	}

	got, err := features.Get("core.timeout")
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	ok, err := features.Exists("core.timeout")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRecords_SaveOverwrites(t *testing.T) {
	features := NewRecords[types.Feature](attached(t), featuresMapper)

	_, err := features.Save(&types.Feature{GroupID: "core", FeatureKey: "timeout", Name: "Timeout"})
	require.NoError(t, err)
	_, err = features.Save(&types.Feature{ID: "core.timeout", Name: "Deadline"})
	require.NoError(t, err)

	got, err := features.Get("core.timeout")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Deadline", got.Name)
	assert.Empty(t, got.Help)
}

func TestRecords_KindsAreSeparate(t *testing.T) {
	b := attached(t)
	features := NewRecords[types.Feature](b, featuresMapper)
	errs := NewRecords[types.ErrorEntry](b, mapper.Errors{})

	_, err := errs.Save(&types.ErrorEntry{GroupID: "core", ErrorCode: "timeout", Message: map[string]string{"en_US": "Timed out."}})
	require.NoError(t, err)

	got, err := features.Get("core.timeout")
	require.NoError(t, err)
	assert.Nil(t, got)

	entry, err := errs.Get("core.timeout")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Timed out.", entry.Message["en_US"])
}

func TestRecords_GeneratedKey(t *testing.T) {
	features := NewRecords[types.Feature](attached(t), featuresMapper)

	saved, err := features.Save(&types.Feature{GroupID: "core", Name: "Anonymous"})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.FeatureKey)
	assert.Equal(t, "core."+saved.FeatureKey, saved.ID)

	got, err := features.Get(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestRecords_SaveValidation(t *testing.T) {
	features := NewRecords[types.Feature](attached(t), featuresMapper)

	_, err := features.Save(&types.Feature{GroupID: "core", FeatureKey: "timeout"})
	require.ErrorIs(t, err, types.ErrValidation)

	_, err = features.Save(&types.Feature{GroupID: "co.re", FeatureKey: "timeout", Name: "T"})
	require.ErrorIs(t, err, types.ErrInvalidID)
}
