package contentcheck

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"

	"github.com/workintel/workintel/pkg/domain/quality"
)

// ResilientProvider wraps a check provider with retry and an overall
// timeout. Errors still surface to the engine, which records the degraded
// neutral score.
type ResilientProvider struct {
	inner quality.CheckProvider
}

var _ quality.CheckProvider = (*ResilientProvider)(nil)

func NewResilientProvider(inner quality.CheckProvider) *ResilientProvider {
	return &ResilientProvider{inner: inner}
}

func (p *ResilientProvider) ValidateArtifact(ctx context.Context, artifact quality.Artifact, check quality.CheckConfig) (float64, error) {
	return p.execute(ctx, func(ctx context.Context) (float64, error) {
		return p.inner.ValidateArtifact(ctx, artifact, check)
	})
}

func (p *ResilientProvider) ValidateContent(ctx context.Context, artifact quality.Artifact, check quality.CheckConfig) (float64, error) {
	return p.execute(ctx, func(ctx context.Context) (float64, error) {
		return p.inner.ValidateContent(ctx, artifact, check)
	})
}

func (p *ResilientProvider) execute(ctx context.Context, fn func(context.Context) (float64, error)) (float64, error) {
	r := retry.New[float64](retry.Config{
		MaxAttempts:   2,
		InitialDelay:  time.Second,
		BackoffPolicy: retry.BackoffExponential,
	})

	t := timeout.New[float64](timeout.Config{
		DefaultTimeout: 60 * time.Second,
	})

	return t.Execute(ctx, 60*time.Second, func(ctx context.Context) (float64, error) {
		return r.Do(ctx, fn)
	})
}
