// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package viewer

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// A Job is a task run outside the viewer,
// such as reading or writing a file.
// The returned message is applied to the viewer.
type Job func(ctx context.Context) Msg

// A Worker runs jobs in background goroutines.
type Worker struct {
	ctx  context.Context
	jobs chan Job
	out  chan Msg
	log  *zap.Logger
	wg   sync.WaitGroup
}

// NewWorker starts a worker with the indicated
// number of goroutines.
// If cpu is zero,
// it uses the number of available CPUs.
// Use Close to stop the goroutines.
func NewWorker(ctx context.Context, cpu int, log *zap.Logger) *Worker {
	if cpu <= 0 {
		cpu = runtime.NumCPU()
	}
	if log == nil {
		log = zap.NewNop()
	}
	w := &Worker{
		ctx:  ctx,
		jobs: make(chan Job, cpu*2),
		out:  make(chan Msg, cpu*2),
		log:  log,
	}
	w.wg.Add(cpu)
	for range cpu {
		go w.run()
	}
	return w
}

func (w *Worker) run() {
	defer w.wg.Done()
	for j := range w.jobs {
		msg := j(w.ctx)
		if msg == nil {
			continue
		}
		select {
		case w.out <- msg:
		case <-w.ctx.Done():
			w.log.Debug("job result dropped", zap.Error(w.ctx.Err()))
		}
	}
}

// Submit sends a job to the worker.
// It never blocks:
// it returns false if the worker queue is full
// or the context of the worker is done.
func (w *Worker) Submit(j Job) bool {
	if w.ctx.Err() != nil {
		return false
	}
	select {
	case w.jobs <- j:
		return true
	default:
		w.log.Debug("worker queue full")
		return false
	}
}

// Results returns the channel of job results.
// It is closed after Close.
func (w *Worker) Results() <-chan Msg {
	return w.out
}

// Close waits for the submitted jobs to finish
// and stops the worker.
// Submit must not be called after Close.
func (w *Worker) Close() {
	close(w.jobs)
	w.wg.Wait()
	close(w.out)
}
