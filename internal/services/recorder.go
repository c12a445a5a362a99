package services

import (
	"context"

	"github.com/baharkarakas/case-market/internal/logger"
	"github.com/baharkarakas/case-market/internal/metrics"
	"github.com/baharkarakas/case-market/internal/models"
	repo "github.com/baharkarakas/case-market/internal/repository"
	"github.com/baharkarakas/case-market/internal/worker"
)

// Recorder writes transaction records after the mutation they describe has
// committed. A failed write is logged and counted; it never reaches the
// caller and never undoes the mutation.
type Recorder struct {
	log  repo.TransactionLog
	pool *worker.Pool
}

// NewRecorder returns a Recorder that writes on pool, or inline when pool is
// nil.
func NewRecorder(log repo.TransactionLog, pool *worker.Pool) *Recorder {
	return &Recorder{log: log, pool: pool}
}

func (r *Recorder) Record(ctx context.Context, recs ...models.Transaction) {
	if r == nil || r.log == nil || len(recs) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	write := func() {
		for _, rec := range recs {
			r.write(ctx, rec)
		}
	}
	if r.pool == nil || !r.pool.Submit(write) {
		write()
	}
}

func (r *Recorder) write(ctx context.Context, rec models.Transaction) {
	if err := r.log.Create(ctx, rec); err != nil {
		metrics.RecordFailures.Inc()
		logger.FromContext(ctx).Warn("transaction record dropped",
			"user_id", rec.UserID,
			"type", rec.Type,
			"amount", rec.Amount,
			"err", err,
		)
	}
}
