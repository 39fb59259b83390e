// Package poseidon2gen derives Poseidon2 round constants and linear layers
// from a seed, and applies the resulting permutation natively.
//
// GenerateConstants is the single entry point of the engine. Each of the
// three constant families is drawn from its own SHAKE256 sub-stream keyed by
// the same seed and a distinct tag, so changing how one family is derived
// never perturbs another.
package poseidon2gen

import (
	"bytes"
	"fmt"
	"time"

	"github.com/consensys/gnark/logger"
	"golang.org/x/sync/errgroup"

	"github.com/eon-protocol/poseidon2gen/derive"
	"github.com/eon-protocol/poseidon2gen/params"
	"github.com/eon-protocol/poseidon2gen/stream"
)

// GenerateConstants validates p, derives every constant family concurrently
// and bundles them. On error no ConstantSet is returned.
func GenerateConstants(p params.Parameters, seed []byte) (*ConstantSet, error) {
	if err := p.ValidateVariant(); err != nil {
		return nil, err
	}
	p = p.Clone()
	f, err := p.Field()
	if err != nil {
		return nil, err
	}

	log := logger.Logger().With().
		Str("params", p.String()).
		Str("seed", fmt.Sprintf("%q", seed)).Logger()
	start := time.Now()

	tags := p.ResolvedTags()
	sub := func(tag string) *stream.Generator {
		return stream.New(f, seed, p.StreamTag(tag))
	}

	set := &ConstantSet{
		params: p,
		seed:   bytes.Clone(seed),
		field:  f,
	}
	if set.seed == nil {
		set.seed = []byte{}
	}

	var g errgroup.Group
	g.Go(func() error {
		rc, err := derive.RoundConstants(p, sub(tags.RoundConstants))
		if err != nil {
			return fmt.Errorf("round constants: %w", err)
		}
		set.rc = rc
		return nil
	})
	g.Go(func() error {
		m, attempts, err := derive.ExternalMatrix(p, sub(tags.ExternalMatrix))
		if err != nil {
			return err
		}
		set.external, set.externalAttempts = m, attempts
		return nil
	})
	g.Go(func() error {
		m, attempts, err := derive.InternalMatrix(p, sub(tags.InternalMatrix))
		if err != nil {
			return err
		}
		set.internal, set.internalAttempts = m, attempts
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Debug().Err(err).Msg("constant generation failed")
		return nil, err
	}

	log.Debug().
		Int("nbRoundConstants", len(set.rc)).
		Int("externalAttempts", set.externalAttempts).
		Int("internalAttempts", set.internalAttempts).
		Dur("took", time.Since(start)).
		Msg("constants generated")
	return set, nil
}

// Job is one independent generation request.
type Job struct {
	Name   string
	Params params.Parameters
	Seed   []byte
}

// Result carries either a ConstantSet or the error that prevented it.
type Result struct {
	Job Job
	Set *ConstantSet
	Err error
}

func (r Result) OK() bool { return r.Err == nil }

// GenerateAll runs jobs with at most limit in flight (limit <= 0 means no
// limit) and returns results in job order. A failing job does not stop the
// others. onDone, if set, is called once per job as it finishes, possibly from
// several goroutines at once.
func GenerateAll(jobs []Job, limit int, onDone func(Result)) []Result {
	results := make([]Result, len(jobs))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, job := range jobs {
		g.Go(func() error {
			set, err := GenerateConstants(job.Params, job.Seed)
			if err != nil {
				err = fmt.Errorf("job %q: %w", job.Name, err)
			}
			results[i] = Result{Job: job, Set: set, Err: err}
			if onDone != nil {
				onDone(results[i])
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
