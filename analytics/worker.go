package analytics

import (
	"context"

	"go.uber.org/zap"

	"goflare.io/display/models"
)

// Handler processes one analytics event on a worker goroutine.
type Handler func(ctx context.Context, event *models.AnalyticsEvent)

type Worker struct {
	ID         int
	WorkerPool chan chan WorkRequest
	JobChannel chan WorkRequest
	quit       chan struct{}
	handler    Handler
	logger     *zap.Logger
}

type WorkRequest struct {
	Event *models.AnalyticsEvent
	Ctx   context.Context
}

func NewWorker(id int, workerPool chan chan WorkRequest, handler Handler, logger *zap.Logger) Worker {
	return Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan WorkRequest),
		quit:       make(chan struct{}),
		handler:    handler,
		logger:     logger,
	}
}

func (w Worker) Start() {
	go func() {
		for {
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-w.quit:
				return
			}

			select {
			case job := <-w.JobChannel:
				w.process(job)
			case <-w.quit:
				return
			}
		}
	}()
}

func (w Worker) process(job WorkRequest) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("分析事件處理時發生 panic",
				zap.Any("panic", r),
				zap.Int("worker_id", w.ID),
				zap.String("promotion_id", job.Event.PromotionID))
		}
	}()

	w.handler(job.Ctx, job.Event)
}

func (w Worker) Stop() {
	close(w.quit)
}
