package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spicesharp/mcp-server/internal/backend"
)

func TestStoreThenGet(t *testing.T) {
	c := New()
	result := backend.CachedAnalysisResult{
		AnalysisType: backend.AnalysisTransient,
		XData:        []float64{0, 1, 2},
		Signals:      map[string][]float64{"v(out)": {0, 1, 2}},
	}

	c.Store("c1", result)

	got, ok := c.Get("c1")
	assert.True(t, ok)
	assert.Equal(t, result, got)
}

func TestGetMissingReturnsFalse(t *testing.T) {
	c := New()
	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestStoreReplacesPriorEntry(t *testing.T) {
	c := New()
	c.Store("c1", backend.CachedAnalysisResult{AnalysisType: backend.AnalysisDCSweep})
	c.Store("c1", backend.CachedAnalysisResult{AnalysisType: backend.AnalysisAC})

	got, ok := c.Get("c1")
	assert.True(t, ok)
	assert.Equal(t, backend.AnalysisAC, got.AnalysisType)
}

func TestClearRemovesEntry(t *testing.T) {
	c := New()
	c.Store("c1", backend.CachedAnalysisResult{AnalysisType: backend.AnalysisDCSweep})
	c.Clear("c1")

	_, ok := c.Get("c1")
	assert.False(t, ok)
}

func TestClearAllRemovesEverything(t *testing.T) {
	c := New()
	c.Store("c1", backend.CachedAnalysisResult{AnalysisType: backend.AnalysisDCSweep})
	c.Store("c2", backend.CachedAnalysisResult{AnalysisType: backend.AnalysisAC})
	c.ClearAll()

	_, ok1 := c.Get("c1")
	_, ok2 := c.Get("c2")
	assert.False(t, ok1)
	assert.False(t, ok2)
}

func TestConcurrentStoreAndGet(t *testing.T) {
	c := New()
	done := make(chan struct{})
	for i := 0; i < 20; i++ {
		go func(n int) {
			c.Store("c1", backend.CachedAnalysisResult{AnalysisType: backend.AnalysisTransient})
			c.Get("c1")
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 20; i++ {
		<-done
	}
	_, ok := c.Get("c1")
	assert.True(t, ok)
}
