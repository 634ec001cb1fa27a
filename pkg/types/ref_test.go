package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    Ref
		wantErr bool
	}{
		{name: "group and key", id: "core.timeout", want: Ref{GroupID: "core", Key: "timeout"}},
		{name: "no separator", id: "badid-no-dot", wantErr: true},
		{name: "empty group", id: ".timeout", wantErr: true},
		{name: "empty key", id: "core.", wantErr: true},
		{name: "key with separator", id: "core.a.b", wantErr: true},
		{name: "empty id", id: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRef(tt.id)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.id, got.ID())
		})
	}
}

func TestRefValidate(t *testing.T) {
	assert.NoError(t, Ref{GroupID: "core", Key: "timeout"}.Validate())
	assert.ErrorIs(t, Ref{GroupID: "co.re", Key: "timeout"}.Validate(), ErrInvalidID)
	assert.ErrorIs(t, Ref{GroupID: "core"}.Validate(), ErrInvalidID)
}

func TestRefEnsureKey(t *testing.T) {
	ref, err := Ref{GroupID: "core"}.EnsureKey()
	require.NoError(t, err)
	assert.Len(t, ref.Key, 36)
	assert.NotContains(t, ref.Key, IDSeparator)

	kept, err := Ref{GroupID: "core", Key: "timeout"}.EnsureKey()
	require.NoError(t, err)
	assert.Equal(t, "timeout", kept.Key)

	_, err = Ref{Key: "timeout"}.EnsureKey()
	assert.ErrorIs(t, err, ErrInvalidID)
}
