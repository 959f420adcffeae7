package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/xactodb/xacto/internal/engine"
	"github.com/xactodb/xacto/internal/registry"
)

func TestCollectorSamplesEngineAndRegistry(t *testing.T) {
	mgr := engine.NewManager()
	store := engine.NewStore()
	reg := registry.New()

	mgr.Create()
	mgr.Create()

	c := NewCollector(mgr, store, reg, time.Hour)
	c.collect()

	assert.Equal(t, float64(2), testutil.ToFloat64(TransactionsActive))
	assert.Equal(t, float64(0), testutil.ToFloat64(SessionsActive))
}

func TestCollectorReportsMaxChainLength(t *testing.T) {
	mgr := engine.NewManager()
	store := engine.NewStore()
	reg := registry.New()

	tx := mgr.Create()
	store.Put(tx, engine.NewKey(engine.NewBlob([]byte("k"))), engine.NewBlob([]byte("v")))

	c := NewCollector(mgr, store, reg, time.Hour)
	c.collect()

	assert.Equal(t, float64(1), testutil.ToFloat64(BucketChainLength))
}
