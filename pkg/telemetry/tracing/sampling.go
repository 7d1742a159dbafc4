package tracing

import (
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"netcentric/achistory/pkg/config"
)

// newSampler builds the sampler for cfg.Sampler.
//
//	telemetry:
//	  tracing:
//	    sampler: ratio
//	    sample_ratio: 0.1
//
// Every strategy defers to the caller's decision when a run carries a
// TRACEPARENT, so an install hook that is traced keeps its persist span.
// The strategy only decides for root runs: "parent" drops them, which
// traces persist runs from traced installers and nothing started by hand.
// An empty strategy samples everything.
func newSampler(cfg *config.TracingConfig) (sdktrace.Sampler, error) {
	var root sdktrace.Sampler

	switch cfg.Sampler {
	case config.SamplerAlways, "":
		root = sdktrace.AlwaysSample()

	case config.SamplerNever, config.SamplerParent:
		root = sdktrace.NeverSample()

	case config.SamplerRatio:
		if cfg.SampleRatio < 0.0 || cfg.SampleRatio > 1.0 {
			return nil, fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %f", cfg.SampleRatio)
		}
		root = sdktrace.TraceIDRatioBased(cfg.SampleRatio)

	default:
		return nil, fmt.Errorf("unknown sampler strategy: %s (valid: always, never, ratio, parent)", cfg.Sampler)
	}

	return sdktrace.ParentBased(root), nil
}
