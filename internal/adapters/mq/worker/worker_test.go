package worker_test

import (
	"context"
	"testing"
	"time"

	queue "github.com/okian/champsim/internal/adapters/mq/queue"
	worker "github.com/okian/champsim/internal/adapters/mq/worker"
	"github.com/okian/champsim/internal/domain/model"
	"github.com/okian/champsim/internal/domain/montecarlo"
	logging "github.com/okian/champsim/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock queue handing out jobs from a plain channel.
type mockQueue struct {
	jobs chan queue.Job
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan queue.Job, 64)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan queue.Job { return mq.jobs }

func (mq *mockQueue) Close() error {
	close(mq.jobs)
	return nil
}

func newDriver(seasons int) *montecarlo.Driver {
	setup, err := model.NewSetup(model.Params{
		Competitors: []model.Competitor{
			{Name: "A", StartPoints: 10, MainWeight: 0.5},
			{Name: "B", StartPoints: 8, MainWeight: 0.3},
			{Name: "C", StartPoints: 4, MainWeight: 0.2},
		},
		MainPoints:     model.PointsTable{10, 6, 3},
		Modifiers:      model.ModifierTable{"Any": {1, 1, 1}},
		Schedule:       []model.Category{"Any", "Any"},
		DNFProbability: 0.05,
	})
	convey.So(err, convey.ShouldBeNil)
	d, err := montecarlo.New(setup, "B", montecarlo.WithSeasons(seasons), montecarlo.WithSeed(99))
	convey.So(err, convey.ShouldBeNil)
	return d
}

func waitDone(b *montecarlo.Batch) bool {
	select {
	case <-b.Done():
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a new InMemoryWorker", t, func() {
		_ = logging.Init()
		q := newMockQueue()

		convey.Convey("When creating a worker with custom options", func() {
			w := worker.NewInMemoryWorker(q, worker.WithName("test-worker"), worker.WithLogger(logging.Get()))

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
				convey.So(w.Processed(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When running a worker on a batch", func() {
			w := worker.NewInMemoryWorker(q)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Run(ctx)

			d := newDriver(20)
			batch := d.NewBatch("batch-1")
			for i := 0; i < batch.Len(); i++ {
				q.jobs <- batch.Job(i)
			}

			convey.Convey("Then every season should be played", func() {
				convey.So(waitDone(batch), convey.ShouldBeTrue)
				res, err := batch.Wait(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(res.Summary.Seasons, convey.ShouldEqual, 20)
				convey.So(eventually(func() bool { return w.Processed() == 20 }), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a job panics", func() {
			w := worker.NewInMemoryWorker(q)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Run(ctx)

			q.jobs <- montecarlo.Job{} // no batch behind it
			batch := newDriver(1).NewBatch("after-panic")
			q.jobs <- batch.Job(0)

			convey.Convey("Then the worker should survive and keep going", func() {
				convey.So(waitDone(batch), convey.ShouldBeTrue)
				convey.So(eventually(func() bool { return w.Processed() == 2 }), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When shutting down a running worker", func() {
			w := worker.NewInMemoryWorker(q)
			go w.Run(context.Background())

			err := w.Shutdown(context.Background())

			convey.Convey("Then it should stop cleanly", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the queue closes", func() {
			w := worker.NewInMemoryWorker(q)
			stopped := make(chan struct{})
			go func() {
				w.Run(context.Background())
				close(stopped)
			}()
			_ = q.Close()

			convey.Convey("Then the worker should exit", func() {
				select {
				case <-stopped:
				case <-time.After(time.Second):
					convey.So("worker still running", convey.ShouldBeEmpty)
				}
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a pool on a real queue", t, func() {
		_ = logging.Init()
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		pool := worker.NewPool(4, q, worker.WithPoolLogger(logging.Get()))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)
		pool.Start(ctx)

		convey.Convey("When a batch larger than the queue is fed through it", func() {
			d := newDriver(200)
			batch := d.NewBatch("pooled")
			go func() {
				for i := 0; i < batch.Len(); i++ {
					if err := q.Put(ctx, batch.Job(i)); err != nil {
						return
					}
				}
			}()

			convey.Convey("Then the result should match the sequential run", func() {
				convey.So(waitDone(batch), convey.ShouldBeTrue)
				par, err := batch.Wait(ctx)
				convey.So(err, convey.ShouldBeNil)
				seq, err := d.Run(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(par.Differentials, convey.ShouldResemble, seq.Differentials)
				convey.So(par.Summary.WinProbability, convey.ShouldEqual, seq.Summary.WinProbability)
				convey.So(eventually(func() bool { return pool.Processed() == 200 }), convey.ShouldBeTrue)
				convey.So(pool.Size(), convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When the pool shuts down", func() {
			err := pool.Shutdown(context.Background())

			convey.Convey("Then the queue should be closed and workers stopped", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a pool with no explicit size", t, func() {
		_ = logging.Init()
		pool := worker.NewPool(0, newMockQueue())

		convey.Convey("Then it should use at least one worker", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
			convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
		})
	})
}
