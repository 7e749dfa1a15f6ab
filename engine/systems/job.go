package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/anima-gl/engine/core"
)

/**
 * @brief A unit of work for the job system. OnStart runs on a worker
 * goroutine and must not touch the graphics context. OnComplete or
 * OnFailure run later, on the goroutine calling Update.
 */
type JobTask struct {
	Name       string
	OnStart    func() (any, error)
	OnComplete func(result any)
	OnFailure  func(err error)
}

type jobResult struct {
	task   JobTask
	result any
	err    error
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup

	// held for reading while sending on jobQueue
	submitMutex sync.RWMutex
	closed      bool

	mutex    sync.Mutex
	finished []jobResult
	pending  int
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
var ErrJobSystemClosed = fmt.Errorf("job system is shut down")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				result, err := job.OnStart()
				if err != nil {
					core.LogError("job %s failed: %s", job.Name, err)
				}
				js.mutex.Lock()
				js.finished = append(js.finished, jobResult{task: job, result: result, err: err})
				js.mutex.Unlock()
			}
		}()
	}
}

/**
 * @brief Shuts the job system down. Queued jobs still run; their callbacks
 * are dispatched by a last Update.
 */
func (js *JobSystem) Shutdown() error {
	js.submitMutex.Lock()
	if js.closed {
		js.submitMutex.Unlock()
		return nil
	}
	js.closed = true
	close(js.jobQueue)
	js.submitMutex.Unlock()

	js.wg.Wait()
	js.Update()
	return nil
}

/**
 * @brief Runs the callbacks of the jobs finished since the last call, in
 * completion order. Should happen once an update cycle, on the render
 * goroutine.
 */
func (js *JobSystem) Update() {
	js.mutex.Lock()
	finished := js.finished
	js.finished = nil
	js.pending -= len(finished)
	js.mutex.Unlock()

	for _, r := range finished {
		if r.err != nil {
			if r.task.OnFailure != nil {
				r.task.OnFailure(r.err)
			}
			continue
		}
		if r.task.OnComplete != nil {
			r.task.OnComplete(r.result)
		}
	}
}

// Pending returns the number of submitted jobs whose callbacks did not run yet.
func (js *JobSystem) Pending() int {
	js.mutex.Lock()
	defer js.mutex.Unlock()
	return js.pending
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while
 * the queue is full.
 */
func (js *JobSystem) Submit(jt JobTask) error {
	js.submitMutex.RLock()
	defer js.submitMutex.RUnlock()
	if js.closed {
		return ErrJobSystemClosed
	}
	js.mutex.Lock()
	js.pending++
	js.mutex.Unlock()

	js.jobQueue <- jt
	return nil
}
