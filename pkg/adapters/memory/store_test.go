package memory_test

import (
	"testing"

	"github.com/aretw0/stm/pkg/adapters/memory"
	"github.com/aretw0/stm/pkg/domain"
	"github.com/aretw0/stm/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunModelStoreContract(t, store)
}

func TestMemorySource(t *testing.T) {
	var _ ports.ModelSource = (*memory.Source)(nil)

	src := memory.NewSource(nil)
	snap, err := src.Read()
	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())

	want := &domain.Snapshot{States: []string{"A"}}
	require.NoError(t, src.Write(want))
	want.States[0] = "changed"

	got, err := src.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, got.States)
}
