package collision

import (
	"testing"

	"github.com/e57fmt/e57/errs"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r)
	require.Equal(t, 0, r.Count())
	require.Empty(t, r.Guids())
}

func TestRegistry_Register_Success(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("guid-a"))
	require.Equal(t, 1, r.Count())

	require.NoError(t, r.Register("guid-b"))
	require.Equal(t, 2, r.Count())
	require.Equal(t, []string{"guid-a", "guid-b"}, r.Guids())
}

func TestRegistry_Register_Collision(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("guid-a"))

	err := r.Register("guid-a")
	require.ErrorIs(t, err, errs.ErrGuidCollision)
	require.Equal(t, 1, r.Count()) // rejected registration is not counted
}

func TestRegistry_Derive_DeterministicAndUnique(t *testing.T) {
	r := NewRegistry()

	guid1, err := r.Derive(0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, guid1)

	guid2, err := r.Derive(0, 1)
	require.NoError(t, err)
	require.NotEqual(t, guid1, guid2)

	guid3, err := r.Derive(128, 0)
	require.NoError(t, err)
	require.NotEqual(t, guid1, guid3)

	require.Equal(t, 3, r.Count())
}

func TestRegistry_Derive_IsDeterministic(t *testing.T) {
	r1 := NewRegistry()
	r2 := NewRegistry()

	guid1, err := r1.Derive(4096, 2)
	require.NoError(t, err)
	guid2, err := r2.Derive(4096, 2)
	require.NoError(t, err)

	require.Equal(t, guid1, guid2)
}

func TestRegistry_MixedRegisterAndDerive_Collision(t *testing.T) {
	r := NewRegistry()

	derived, err := r.Derive(256, 0)
	require.NoError(t, err)

	err = r.Register(derived)
	require.ErrorIs(t, err, errs.ErrGuidCollision)
}

func TestRegistry_Reset(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("guid-a"))
	require.NoError(t, r.Register("guid-b"))
	require.Equal(t, 2, r.Count())

	r.Reset()
	require.Equal(t, 0, r.Count())
	require.Empty(t, r.Guids())

	require.NoError(t, r.Register("guid-a")) // no longer collides after reset
}

func TestRegistry_Guids_PreservesOrder(t *testing.T) {
	r := NewRegistry()
	names := []string{"a", "b", "c", "d"}
	for _, n := range names {
		require.NoError(t, r.Register(n))
	}

	require.Equal(t, names, r.Guids())
}
