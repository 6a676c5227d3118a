package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/stm"
	"github.com/aretw0/stm/pkg/adapters/memory"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()
	count := 1000

	for i := 0; i < count; i++ {
		id, err := mgr.Create(ctx, nil)
		if err != nil {
			t.Fatal(err)
		}
		_ = mgr.Edit(ctx, id, func(ed *stm.Editor) error { return ed.AddState(fmt.Sprint(i)) })
		_ = mgr.Delete(ctx, id)
	}

	if lockCount := len(mgr.locks); lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
}
