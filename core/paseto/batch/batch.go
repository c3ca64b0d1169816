// Package batch verifies or decrypts many tokens concurrently on a bounded
// goroutine pool.
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/kochabx/paseto/core/paseto"
	"github.com/kochabx/paseto/core/tag"
	"github.com/kochabx/paseto/log"
)

// Operation turns one token into its message.
type Operation func(token string) ([]byte, error)

// Result is the outcome for the token at Index.
type Result struct {
	Index   int
	Message []byte
	Err     error
}

// Summary counts results by class.
type Summary struct {
	Total        int
	Succeeded    int
	ParseErrors  int
	Verification int
	Other        int
	Elapsed      time.Duration
}

// Options configures a Verifier.
type Options struct {
	Concurrency int `json:"concurrency" default:"8"`
	PreAlloc    bool
	Logger      *log.Logger
}

// Option configures Options.
type Option func(*Options)

// WithConcurrency sets the pool size.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		o.Concurrency = n
	}
}

// WithPreAlloc preallocates the pool's worker queue.
func WithPreAlloc() Option {
	return func(o *Options) {
		o.PreAlloc = true
	}
}

// WithLogger sets the logger used for run summaries.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// Verifier runs an Operation over many tokens. It is safe for concurrent use.
type Verifier struct {
	pool   *ants.Pool
	logger *log.Logger
}

// New creates a Verifier with its own pool. Call Release when done.
func New(opts ...Option) (*Verifier, error) {
	o := &Options{}
	if err := tag.ApplyDefaults(o); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.Concurrency <= 0 {
		return nil, fmt.Errorf("batch: concurrency must be positive, got %d", o.Concurrency)
	}
	if o.Logger == nil {
		o.Logger = log.G
	}

	pool, err := ants.NewPool(o.Concurrency, ants.WithPreAlloc(o.PreAlloc))
	if err != nil {
		return nil, fmt.Errorf("batch: failed to create pool: %w", err)
	}

	return &Verifier{pool: pool, logger: o.Logger}, nil
}

// Run applies op to every token. Results keep the order of tokens. Tokens not
// started before ctx is done report ctx.Err().
func (v *Verifier) Run(ctx context.Context, tokens []string, op Operation) ([]Result, Summary) {
	start := time.Now()
	results := make([]Result, len(tokens))

	var wg sync.WaitGroup
	for i, token := range tokens {
		results[i].Index = i

		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		wg.Add(1)
		err := v.pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return
			}
			results[i].Message, results[i].Err = op(token)
		})
		if err != nil {
			wg.Done()
			results[i].Err = err
		}
	}
	wg.Wait()

	summary := summarize(results)
	summary.Elapsed = time.Since(start)

	v.logger.Debug().
		Int("total", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("parse_errors", summary.ParseErrors).
		Int("verification_errors", summary.Verification).
		Dur("elapsed", summary.Elapsed).
		Msg("batch finished")

	return results, summary
}

// Release closes the pool.
func (v *Verifier) Release() {
	v.pool.Release()
}

func summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Err == nil:
			s.Succeeded++
		case paseto.IsParseError(r.Err):
			s.ParseErrors++
		case paseto.IsVerificationError(r.Err):
			s.Verification++
		default:
			s.Other++
		}
	}
	return s
}
