package coroutine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxWorkers 返回默认的并发数量，单核机器上至少为 2
func DefaultMaxWorkers() int {
	n := runtime.NumCPU()
	if n < 2 {
		return 2
	}
	return n
}

// LayerFunc 处理一层中的一个条目，返回它在下一层产生的条目
type LayerFunc[T any] func(ctx context.Context, item T) ([]T, error)

// ProcessLayers 逐层并行处理树形结构
// 同一层的条目最多由 maxWorkers 个协程并行处理，下一层在本层全部完成后才开始。
// 下一层条目的顺序与产生它们的条目在本层中的顺序一致。
func ProcessLayers[T any](ctx context.Context, maxWorkers int, roots []T, process LayerFunc[T]) error {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers()
	}

	layer := roots
	for len(layer) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		slots := make([][]T, len(layer))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxWorkers)
		for i, item := range layer {
			i, item := i, item
			g.Go(func() error {
				next, err := process(gctx, item)
				if err != nil {
					return err
				}
				slots[i] = next
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		var next []T
		for _, s := range slots {
			next = append(next, s...)
		}
		layer = next
	}
	return nil
}
