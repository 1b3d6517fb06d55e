package coroutine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testNode struct {
	name     string
	children []*testNode
}

func buildTestTree() *testNode {
	return &testNode{name: "root", children: []*testNode{
		{name: "a", children: []*testNode{{name: "a1"}, {name: "a2"}}},
		{name: "b", children: []*testNode{{name: "b1"}}},
		{name: "c"},
	}}
}

func TestProcessLayersOrder(t *testing.T) {
	var mu sync.Mutex
	depth := map[string]int{}
	levels := map[*testNode]int{}
	root := buildTestTree()
	levels[root] = 0

	err := ProcessLayers(context.Background(), 4, []*testNode{root}, func(ctx context.Context, n *testNode) ([]*testNode, error) {
		mu.Lock()
		depth[n.name] = levels[n]
		for _, c := range n.children {
			levels[c] = levels[n] + 1
		}
		mu.Unlock()
		return n.children, nil
	})

	assert.NoError(t, err)
	assert.Len(t, depth, 7)
	assert.Equal(t, 0, depth["root"])
	assert.Equal(t, 1, depth["b"])
	assert.Equal(t, 2, depth["a2"])
}

func TestProcessLayersLayerBarrier(t *testing.T) {
	var processed int32
	root := buildTestTree()

	err := ProcessLayers(context.Background(), 2, []*testNode{root}, func(ctx context.Context, n *testNode) ([]*testNode, error) {
		count := atomic.AddInt32(&processed, 1)
		if n.name == "a1" || n.name == "a2" || n.name == "b1" {
			// 第三层开始时前两层的四个节点必然已经完成
			assert.GreaterOrEqual(t, count, int32(5))
		}
		return n.children, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, int32(7), processed)
}

func TestProcessLayersError(t *testing.T) {
	boom := errors.New("boom")
	err := ProcessLayers(context.Background(), 0, []*testNode{buildTestTree()}, func(ctx context.Context, n *testNode) ([]*testNode, error) {
		if n.name == "b" {
			return nil, boom
		}
		return n.children, nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestProcessLayersCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := ProcessLayers(ctx, 1, []*testNode{buildTestTree()}, func(ctx context.Context, n *testNode) ([]*testNode, error) {
		called = true
		return n.children, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestDefaultMaxWorkers(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultMaxWorkers(), 2)
}
