package schedule

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tkc/vibe-schedule/internal/domain"
)

// BatchItem は一括投影の1タスク分の結果
type BatchItem struct {
	TaskID     int
	Projection *domain.Projection
	Err        error
}

// ProjectAll は複数タスクを並行に投影する
// 結果は ids と同じ順で返す。タスクごとのエラーは BatchItem.Err に入り、
// ctx がキャンセルされた場合のみエラーを返す
func (e *Engine) ProjectAll(ctx context.Context, ids []int, workers int) ([]BatchItem, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	items := make([]BatchItem, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, id := range ids {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := e.Project(id)
			items[i] = BatchItem{TaskID: id, Projection: p, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
