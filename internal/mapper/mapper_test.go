package mapper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/aiki/pkg/types"
)

var coreTimeout = types.Ref{GroupID: "core", Key: "timeout"}

func TestFeaturesToDomain(t *testing.T) {
	tests := []struct {
		name    string
		rec     Record
		want    *types.Feature
		wantErr error
	}{
		{
			name: "stored fields plus context",
			rec:  Record{"name": "Timeout", "help": "desc"},
			want: &types.Feature{ID: "core.timeout", GroupID: "core", FeatureKey: "timeout", Name: "Timeout", Help: "desc"},
		},
		{
			name: "description alias",
			rec:  Record{"name": "Timeout", "description": "desc"},
			want: &types.Feature{ID: "core.timeout", GroupID: "core", FeatureKey: "timeout", Name: "Timeout", Help: "desc"},
		},
		{
			name: "help wins over description",
			rec:  Record{"name": "Timeout", "help": "h", "description": "d"},
			want: &types.Feature{ID: "core.timeout", GroupID: "core", FeatureKey: "timeout", Name: "Timeout", Help: "h"},
		},
		{
			name: "stored ids are overridden by location",
			rec:  Record{"name": "Timeout", "id": "x.y", "group_id": "x", "feature_key": "y"},
			want: &types.Feature{ID: "core.timeout", GroupID: "core", FeatureKey: "timeout", Name: "Timeout"},
		},
		{
			name: "weakly typed name",
			rec:  Record{"name": 42},
			want: &types.Feature{ID: "core.timeout", GroupID: "core", FeatureKey: "timeout", Name: "42"},
		},
		{
			name:    "missing name",
			rec:     Record{"help": "desc"},
			wantErr: types.ErrValidation,
		},
		{
			name:    "name is a mapping",
			rec:     Record{"name": map[string]any{"a": 1}},
			wantErr: types.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Features{}.ToDomain(tt.rec, coreTimeout)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ToDomain() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFeaturesToDomainDoesNotMutateRecord(t *testing.T) {
	rec := Record{"name": "Timeout", "description": "desc"}
	_, err := Features{}.ToDomain(rec, coreTimeout)
	require.NoError(t, err)
	assert.Equal(t, Record{"name": "Timeout", "description": "desc"}, rec)
}

func TestFeaturesToStorage(t *testing.T) {
	f := &types.Feature{ID: "core.timeout", GroupID: "core", FeatureKey: "timeout", Name: "Timeout", Help: "desc"}
	rec, ref, err := Features{}.ToStorage(f)
	require.NoError(t, err)
	assert.Equal(t, coreTimeout, ref)
	assert.Equal(t, Record{"name": "Timeout", "help": "desc"}, rec)

	rec, _, err = Features{}.ToStorage(&types.Feature{GroupID: "core", FeatureKey: "timeout", Name: "T"})
	require.NoError(t, err)
	assert.NotContains(t, rec, "help")
}

func TestFeaturesToStorageRefFromID(t *testing.T) {
	_, ref, err := Features{}.ToStorage(&types.Feature{ID: "core.timeout", Name: "T"})
	require.NoError(t, err)
	assert.Equal(t, coreTimeout, ref)

	_, _, err = Features{}.ToStorage(&types.Feature{ID: "core.other", GroupID: "core", FeatureKey: "timeout", Name: "T"})
	require.ErrorIs(t, err, types.ErrInvalidID)

	_, _, err = Features{}.ToStorage(&types.Feature{ID: "nodot", Name: "T"})
	require.ErrorIs(t, err, types.ErrInvalidID)

	_, _, err = Features{}.ToStorage(&types.Feature{GroupID: "core", FeatureKey: "timeout"})
	require.ErrorIs(t, err, types.ErrValidation)
}

func TestFeaturesRoundTrip(t *testing.T) {
	orig := &types.Feature{ID: "core.timeout", GroupID: "core", FeatureKey: "timeout", Name: "Timeout", Help: "desc"}
	rec, ref, err := Features{}.ToStorage(orig)
	require.NoError(t, err)
	back, err := Features{}.ToDomain(rec, ref)
	require.NoError(t, err)
	if diff := cmp.Diff(orig, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorsRoundTrip(t *testing.T) {
	orig := &types.ErrorEntry{
		ID:        "auth.INVALID_TOKEN",
		GroupID:   "auth",
		ErrorCode: "INVALID_TOKEN",
		ErrorName: "Invalid token",
		Message:   map[string]string{"en_US": "The token is invalid.", "fr_FR": "Le jeton est invalide."},
	}
	rec, ref, err := Errors{}.ToStorage(orig)
	require.NoError(t, err)
	assert.NotContains(t, rec, "id")
	assert.NotContains(t, rec, "error_code")
	assert.Equal(t, types.Ref{GroupID: "auth", Key: "INVALID_TOKEN"}, ref)

	back, err := Errors{}.ToDomain(rec, ref)
	require.NoError(t, err)
	if diff := cmp.Diff(orig, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorsToDomainRequiresMessage(t *testing.T) {
	_, err := Errors{}.ToDomain(Record{"error_name": "x"}, types.Ref{GroupID: "auth", Key: "E1"})
	require.ErrorIs(t, err, types.ErrValidation)
}

func TestSections(t *testing.T) {
	assert.Equal(t, "features", Features{}.Section())
	assert.Equal(t, "errors", Errors{}.Section())
}
