package tracing

import (
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Sampling strategies determine which traces are recorded and exported.
// Three strategies are supported:
//   - always: Sample 100% of traces (development/debugging)
//   - never: Sample 0% of traces (tracing effectively disabled)
//   - ratio: Sample a percentage of traces (production)

const (
	// SamplerAlways samples all traces
	SamplerAlways = "always"

	// SamplerNever samples no traces
	SamplerNever = "never"

	// SamplerRatio samples a percentage of traces
	SamplerRatio = "ratio"
)

// createSampler creates a sampler based on the strategy and ratio.
//
// # Sampling Strategies
//
// AlwaysOn: Samples all traces. Use in development/debugging.
//
//	tracing:
//	  sampler: always
//
// AlwaysOff: Samples no traces.
//
//	tracing:
//	  sampler: never
//
// TraceIDRatioBased: Samples traces based on trace ID hash. This ensures
// consistent sampling decisions across services (same trace ID = same decision).
//
//	tracing:
//	  sampler: ratio
//	  sample_ratio: 0.1  # Sample 10% of traces
//
// All samplers are wrapped in ParentBased(), which respects the parent
// span's sampling decision when available:
//   - If parent span is sampled → child is sampled
//   - If parent span is not sampled → child is not sampled
//   - If no parent span → use configured sampler
func createSampler(strategy string, ratio float64) (sdktrace.Sampler, error) {
	var baseSampler sdktrace.Sampler

	switch strategy {
	case SamplerAlways:
		baseSampler = sdktrace.AlwaysSample()

	case SamplerNever:
		baseSampler = sdktrace.NeverSample()

	case SamplerRatio:
		if ratio < 0.0 || ratio > 1.0 {
			return nil, fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %f", ratio)
		}

		// TraceIDRatioBased samples based on trace ID hash
		baseSampler = sdktrace.TraceIDRatioBased(ratio)

	default:
		return nil, fmt.Errorf("unknown sampler strategy: %s (valid: always, never, ratio)", strategy)
	}

	// Wrap in ParentBased to respect parent sampling decisions
	return sdktrace.ParentBased(baseSampler), nil
}

// SamplingConfig contains configuration for trace sampling.
type SamplingConfig struct {
	// Strategy is the sampling strategy ("always", "never", "ratio")
	Strategy string

	// Ratio is the sampling ratio for "ratio" strategy (0.0 to 1.0)
	Ratio float64
}

// ValidateSamplingConfig validates the sampling configuration.
func ValidateSamplingConfig(cfg SamplingConfig) error {
	switch cfg.Strategy {
	case SamplerAlways, SamplerNever, SamplerRatio:
		// Valid strategies
	default:
		return fmt.Errorf("invalid sampling strategy: %s (valid: always, never, ratio)", cfg.Strategy)
	}

	if cfg.Strategy == SamplerRatio {
		if cfg.Ratio < 0.0 || cfg.Ratio > 1.0 {
			return fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %f", cfg.Ratio)
		}
	}

	return nil
}
