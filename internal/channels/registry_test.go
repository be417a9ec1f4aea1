package channels

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AutoAssignsLowestFree(t *testing.T) {
	r := NewRegistry(NumericOut)

	idx, err := r.Register("oMotor")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	_, err = r.RegisterAt("oPump", 1)
	require.NoError(t, err)

	idx, err = r.Register("oLight")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
}

func TestRegistry_FillsGaps(t *testing.T) {
	r := NewRegistry(BooleanIn)

	_, err := r.RegisterAt("a", 0)
	require.NoError(t, err)
	_, err = r.RegisterAt("c", 2)
	require.NoError(t, err)

	idx, err := r.Register("b")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestRegistry_Full(t *testing.T) {
	r := NewRegistry(NumericOut)

	for i := 0; i < Size; i++ {
		idx, err := r.Register(fmt.Sprintf("ch%d", i))
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}

	_, err := r.Register("extra")
	assert.ErrorIs(t, err, ErrRegistryFull)
	assert.Equal(t, Size, r.Len())

	_, err = r.Resolve("extra")
	assert.ErrorIs(t, err, ErrUnknownName)
}

func TestRegistry_Duplicates(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(r *Registry)
		call    func(r *Registry) error
		wantErr error
	}{
		{
			name:  "same name same index",
			setup: func(r *Registry) { _, _ = r.RegisterAt("iActive", 1) },
			call: func(r *Registry) error {
				_, err := r.RegisterAt("iActive", 1)
				return err
			},
			wantErr: ErrDuplicateName,
		},
		{
			name:  "different name same index",
			setup: func(r *Registry) { _, _ = r.RegisterAt("iActive", 1) },
			call: func(r *Registry) error {
				_, err := r.RegisterAt("iOther", 1)
				return err
			},
			wantErr: ErrDuplicateIndex,
		},
		{
			name:  "auto register existing name",
			setup: func(r *Registry) { _, _ = r.Register("iActive") },
			call: func(r *Registry) error {
				_, err := r.Register("iActive")
				return err
			},
			wantErr: ErrDuplicateName,
		},
		{
			name:  "explicit index out of range",
			setup: func(r *Registry) {},
			call: func(r *Registry) error {
				_, err := r.RegisterAt("iFar", Size)
				return err
			},
			wantErr: ErrOutOfRange,
		},
		{
			name:  "negative index",
			setup: func(r *Registry) {},
			call: func(r *Registry) error {
				_, err := r.RegisterAt("iNeg", -1)
				return err
			},
			wantErr: ErrOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(BooleanIn)
			tt.setup(r)
			before := r.Entries()

			err := tt.call(r)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, r.Entries(), "failed registration must not change state")
		})
	}
}

func TestRegistry_ResolveAndEntries(t *testing.T) {
	r := NewRegistry(NumericIn)

	_, err := r.RegisterAt("b", 5)
	require.NoError(t, err)
	_, err = r.Register("a")
	require.NoError(t, err)

	idx, err := r.Resolve("b")
	require.NoError(t, err)
	assert.Equal(t, 5, idx)

	assert.Equal(t, []Entry{{Name: "a", Index: 0}, {Name: "b", Index: 5}}, r.Entries())

	_, err = r.Resolve("missing")
	assert.ErrorIs(t, err, ErrUnknownName)
}

func TestRegistry_IndependentRoles(t *testing.T) {
	out := NewRegistry(NumericOut)
	in := NewRegistry(NumericIn)

	_, err := out.Register("speed")
	require.NoError(t, err)
	_, err = in.Register("speed")
	require.NoError(t, err)

	_, err = NewRegistry(BooleanOut).Resolve("speed")
	assert.ErrorIs(t, err, ErrUnknownName)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusCode(fmt.Errorf("x: %w", ErrUnknownName)))
	assert.Equal(t, http.StatusConflict, StatusCode(ErrDuplicateName))
	assert.Equal(t, http.StatusConflict, StatusCode(ErrDuplicateIndex))
	assert.Equal(t, http.StatusConflict, StatusCode(ErrRegistryFull))
	assert.Equal(t, http.StatusBadRequest, StatusCode(ErrOutOfRange))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(assert.AnError))
}
