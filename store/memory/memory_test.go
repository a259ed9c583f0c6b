package memory_test

import (
	"testing"

	"github.com/warp/njob-manager/store"
	"github.com/warp/njob-manager/store/memory"
	"github.com/warp/njob-manager/store/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return memory.New() })
}
