package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kochabx/paseto/core/paseto"
	"github.com/kochabx/paseto/core/paseto/batch"
	"github.com/kochabx/paseto/log"
)

func batchFlags(a *app, fs *pflag.FlagSet) {
	verifyFlags(a, fs)
	fs.StringVarP(&a.purpose, "purpose", "p", string(paseto.PurposeEncrypt), "auth, enc, sign or seal")
	fs.IntVar(&a.concurrency, "concurrency", 0, "worker count (default: batch.concurrency from the configuration)")
}

type batchLine struct {
	Index   int    `json:"index"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// runBatchVerify prints one JSON line per input token, in input order, and
// fails when any token fails.
func runBatchVerify(ctx context.Context, a *app) error {
	tokens, err := a.readTokens()
	if err != nil {
		return err
	}

	op, release, err := a.batchOperation()
	if err != nil {
		return err
	}
	defer release()

	concurrency := a.cfg.Batch.Concurrency
	if a.concurrency > 0 {
		concurrency = a.concurrency
	}
	v, err := batch.New(batch.WithConcurrency(concurrency), batch.WithLogger(log.G))
	if err != nil {
		return err
	}
	defer v.Release()

	results, summary := v.Run(ctx, tokens, op)

	enc := json.NewEncoder(a.stdout)
	for _, r := range results {
		line := batchLine{Index: r.Index}
		if r.Err != nil {
			line.Error = r.Err.Error()
		} else {
			line.Message = string(r.Message)
		}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}

	log.Info().
		Int("total", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("parse_errors", summary.ParseErrors).
		Int("verification_errors", summary.Verification).
		Dur("elapsed", summary.Elapsed).
		Msg("batch verified")

	if failed := summary.Total - summary.Succeeded; failed > 0 {
		return fmt.Errorf("%d of %d tokens failed", failed, summary.Total)
	}
	return nil
}

func (a *app) readTokens() ([]string, error) {
	var tokens []string
	s := bufio.NewScanner(a.stdin)
	s.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for s.Scan() {
		if t := strings.TrimSpace(s.Text()); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens, s.Err()
}

// batchOperation loads the key for -purpose and returns the matching
// operation together with a func that wipes the key.
func (a *app) batchOperation() (batch.Operation, func(), error) {
	p, err := paseto.ParsePurpose(a.purpose)
	if err != nil {
		return nil, nil, err
	}

	switch p {
	case paseto.PurposeAuth:
		key, err := paseto.LoadSymmetricAuthenticationKey(a.key(a.cfg.Keys.Local))
		if err != nil {
			return nil, nil, err
		}
		return a.operation(key.Version(), key.Destroy, func(pr paseto.Protocol) batch.Operation {
			return a.withFooter(func(token string, footer []byte) ([]byte, error) { return pr.AuthVerify(token, key, footer) })
		})
	case paseto.PurposeEncrypt:
		key, err := paseto.LoadSymmetricEncryptionKey(a.key(a.cfg.Keys.Local))
		if err != nil {
			return nil, nil, err
		}
		return a.operation(key.Version(), key.Destroy, func(pr paseto.Protocol) batch.Operation {
			return a.withFooter(func(token string, footer []byte) ([]byte, error) { return pr.Decrypt(token, key, footer) })
		})
	case paseto.PurposeSign:
		key, err := paseto.LoadPublicKey(a.key(a.cfg.Keys.Public))
		if err != nil {
			return nil, nil, err
		}
		return a.operation(key.Version(), func() {}, func(pr paseto.Protocol) batch.Operation {
			return a.withFooter(func(token string, footer []byte) ([]byte, error) { return pr.SignVerify(token, key, footer) })
		})
	default:
		key, err := paseto.LoadSecretKey(a.key(a.cfg.Keys.Secret))
		if err != nil {
			return nil, nil, err
		}
		return a.operation(key.Version(), key.Destroy, func(pr paseto.Protocol) batch.Operation {
			return a.withFooter(func(token string, footer []byte) ([]byte, error) { return pr.Unseal(token, key, footer) })
		})
	}
}

func (a *app) operation(v paseto.Version, release func(), build func(paseto.Protocol) batch.Operation) (batch.Operation, func(), error) {
	pr, err := a.protocol(v)
	if err != nil {
		release()
		return nil, nil, err
	}
	return build(pr), release, nil
}

// withFooter binds -footer, or each token's own footer with -use-footer.
func (a *app) withFooter(next func(token string, footer []byte) ([]byte, error)) batch.Operation {
	if a.useFooter {
		return batch.WithFooter(next)
	}
	footer := []byte(a.footer)
	return func(token string) ([]byte, error) {
		return next(token, footer)
	}
}
