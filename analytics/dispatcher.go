package analytics

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"goflare.io/display/models"
)

var (
	ErrQueueFull = errors.New("analytics queue is full")
	ErrStopped   = errors.New("analytics dispatcher is stopped")
)

type Dispatcher struct {
	WorkerPool chan chan WorkRequest
	maxWorkers int
	jobQueue   chan WorkRequest
	handler    Handler
	workers    []Worker
	stop       chan struct{}
	stopped    bool
	mu         sync.Mutex
	logger     *zap.Logger
}

func NewDispatcher(maxWorkers int, jobQueueSize int, handler Handler, logger *zap.Logger) *Dispatcher {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if jobQueueSize < 1 {
		jobQueueSize = 1
	}
	return &Dispatcher{
		WorkerPool: make(chan chan WorkRequest, maxWorkers),
		maxWorkers: maxWorkers,
		jobQueue:   make(chan WorkRequest, jobQueueSize),
		handler:    handler,
		stop:       make(chan struct{}),
		logger:     logger,
	}
}

func (d *Dispatcher) Run() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := 0; i < d.maxWorkers; i++ {
		worker := NewWorker(i+1, d.WorkerPool, d.handler, d.logger)
		worker.Start()
		d.workers = append(d.workers, worker)
	}

	go d.dispatch()
}

// Submit enqueues event without blocking. A full queue returns ErrQueueFull.
func (d *Dispatcher) Submit(ctx context.Context, event *models.AnalyticsEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return ErrStopped
	}

	select {
	case d.jobQueue <- WorkRequest{Event: event, Ctx: ctx}:
		return nil
	default:
		return ErrQueueFull
	}
}

// QueueLength returns the number of events waiting for a worker.
func (d *Dispatcher) QueueLength() int {
	return len(d.jobQueue)
}

// dispatch waits for an idle worker before taking the next job, so jobQueue
// only drains as fast as workers free up.
func (d *Dispatcher) dispatch() {
	for {
		var jobChannel chan WorkRequest
		select {
		case jobChannel = <-d.WorkerPool:
		case <-d.stop:
			d.drain()
			return
		}

		select {
		case job := <-d.jobQueue:
			select {
			case jobChannel <- job:
				// 成功將事件交給 worker
			case <-d.stop:
				d.logDropped("Dispatcher stopped before processing", job)
				d.drain()
				return
			}
		case <-d.stop:
			d.drain()
			return
		}
	}
}

// drain logs every job still queued when the dispatcher stops.
func (d *Dispatcher) drain() {
	for {
		select {
		case job := <-d.jobQueue:
			d.logDropped("Dispatcher stopped while waiting for available worker", job)
		default:
			return
		}
	}
}

func (d *Dispatcher) logDropped(msg string, job WorkRequest) {
	d.logger.Warn(msg,
		zap.String("event_type", string(job.Event.EventType)),
		zap.String("promotion_id", job.Event.PromotionID))
}

func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.stop)
	workers := d.workers
	d.workers = nil
	d.mu.Unlock()

	var wg sync.WaitGroup
	for _, worker := range workers {
		wg.Add(1)
		go func(w Worker) {
			defer wg.Done()
			w.Stop()
		}(worker)
	}
	wg.Wait()
}
