package classify

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/mkarlsen/earshot/internal/audio"
)

// Result is one classification of the most recent audio window.
type Result struct {
	Time        time.Time     `json:"time"`
	Predictions []Prediction  `json:"predictions"`
	Elapsed     time.Duration `json:"elapsed_ns"`
}

// Runner pulls a full window from a capture producer every interval, runs
// the classifier over it, and emits results. The producer and runner never
// share memory directly: each cycle is one synchronized window read into the
// runner's own tensor.
type Runner struct {
	producer   audio.Producer
	classifier Classifier
	tensor     *audio.Tensor
	interval   time.Duration
	results    chan Result

	mu      sync.RWMutex
	last    Result
	hasLast bool
	skipped int
}

// NewRunner builds a runner whose tensor window matches the producer's
// buffer size.
func NewRunner(p audio.Producer, c Classifier, interval time.Duration) (*Runner, error) {
	tensor, err := audio.NewTensor(p.Format(), p.BufferSize())
	if err != nil {
		return nil, err
	}
	return &Runner{
		producer:   p,
		classifier: c,
		tensor:     tensor,
		interval:   interval,
		results:    make(chan Result, 16),
	}, nil
}

// Results returns the channel of outgoing classifications. Results are
// dropped, not queued, when the consumer lags.
func (r *Runner) Results() <-chan Result {
	return r.results
}

// Last returns the most recent result, if any cycle has completed.
func (r *Runner) Last() (Result, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last, r.hasLast
}

// SkippedCycles returns how many cycles were skipped because the producer
// had no clean window to give.
func (r *Runner) SkippedCycles() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.skipped
}

// Run classifies on a fixed cadence until ctx is cancelled. A failed window
// read means "no new data this cycle": the cycle is skipped and the next
// tick retries. Classifier errors are logged and skipped the same way.
func (r *Runner) Run(ctx context.Context) {
	defer close(r.results)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := r.tensor.LoadFromProducer(r.producer); err != nil {
			r.noteSkip()
			if !errors.Is(err, audio.ErrProcessing) {
				log.Printf("classify: window read: %v", err)
			}
			continue
		}

		window := r.tensor.OrderedSnapshot()
		start := time.Now()
		preds, err := r.classifier.Classify(window.Samples())
		if err != nil {
			r.noteSkip()
			log.Printf("classify: %v", err)
			continue
		}

		res := Result{
			Time:        start,
			Predictions: preds,
			Elapsed:     time.Since(start),
		}

		r.mu.Lock()
		r.last = res
		r.hasLast = true
		r.mu.Unlock()

		select {
		case r.results <- res:
		default:
		}
	}
}

func (r *Runner) noteSkip() {
	r.mu.Lock()
	r.skipped++
	r.mu.Unlock()
}
