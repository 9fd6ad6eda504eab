package reach

import (
	"math"
	"runtime"

	"github.com/go-viper/mapstructure/v2"
)

// Config is the typed projection of the engine-consumed keys described in
// spec §6: optimization.radius, optimization.max_steps,
// optimization.step_improvement_threshold, plus MaxThreads (spec §4.4/§9
// note (c), not itself a spec §6 key; zero selects hardware concurrency).
// Every other key in a host's configuration tree is plugin configuration
// the engine never looks at.
type Config struct {
	// Radius is the neighbor query radius, in meters. Must be > 0.
	Radius float64 `mapstructure:"radius"`
	// MaxSteps hard-caps the Optimization Loop's iteration count. Must be
	// >= 1.
	MaxSteps int `mapstructure:"max_steps"`
	// StepImprovementThreshold is the minimum fractional improvement in
	// total_pose_score required to continue optimizing. Must be >= 0.
	StepImprovementThreshold float64 `mapstructure:"step_improvement_threshold"`
	// MaxThreads bounds worker parallelism for both the Initial Evaluation
	// Pass and the Optimization Loop. Zero means "use hardware
	// concurrency" (spec §4.4 default); 1 is honored for deterministic
	// test runs (spec §9 note (c)).
	MaxThreads int `mapstructure:"max_threads"`
}

// DecodeConfig projects the optimization.* subtree of a generic
// key/value configuration tree (spec §6) into a Config. Unrecognized
// keys elsewhere in the tree are left untouched for external plugin
// constructors; DecodeConfig only looks at the "optimization" node.
func DecodeConfig(tree map[string]interface{}) (Config, error) {
	var cfg Config
	raw, ok := tree["optimization"]
	if !ok {
		return cfg, newConfigError("optimization", "missing \"optimization\" section")
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return cfg, newConfigError("optimization", err.Error())
	}
	if err := decoder.Decode(raw); err != nil {
		return cfg, newConfigError("optimization", err.Error())
	}
	return cfg, nil
}

// Validate checks the invariants spec §4.5 requires of optimization
// parameters ("all required, all finite") and of MaxThreads.
func (c Config) Validate() error {
	if !(c.Radius > 0) || math.IsInf(c.Radius, 1) {
		return newConfigError("radius", "must be finite and > 0")
	}
	if c.MaxSteps < 1 {
		return newConfigError("max_steps", "must be >= 1")
	}
	if !(c.StepImprovementThreshold >= 0) || math.IsInf(c.StepImprovementThreshold, 1) {
		return newConfigError("step_improvement_threshold", "must be finite and >= 0")
	}
	if c.MaxThreads < 0 {
		return newConfigError("max_threads", "must be >= 0")
	}
	return nil
}

// resolvedMaxThreads returns c.MaxThreads, defaulting to hardware
// concurrency when unset (spec §4.4: "default: hardware concurrency").
func (c Config) resolvedMaxThreads() int {
	if c.MaxThreads > 0 {
		return c.MaxThreads
	}
	return runtime.NumCPU()
}
