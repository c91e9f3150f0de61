package config

import "time"

// SweeperConfig controls the background loop that reclaims expired
// seat reservations.
type SweeperConfig struct {
	Enabled  bool
	Interval time.Duration
}

// LoadSweeperConfig reads sweeper settings from the environment.  The
// default 30s interval keeps the worst-case overstay well under a
// minute without hammering the store.
func LoadSweeperConfig() SweeperConfig {
	def := SweeperConfig{
		Enabled:  envBool("SWEEP_ENABLED", true),
		Interval: envDur("SWEEP_INTERVAL", 30*time.Second),
	}
	if def.Interval <= 0 {
		def.Interval = 30 * time.Second
	}
	return def
}

// SamplerConfig controls the background loop that records occupancy
// samples for the analytics views.
type SamplerConfig struct {
	Enabled  bool
	Interval time.Duration
}

// LoadSamplerConfig reads sampler settings from the environment.
func LoadSamplerConfig() SamplerConfig {
	def := SamplerConfig{
		Enabled:  envBool("SAMPLE_ENABLED", true),
		Interval: envDur("SAMPLE_INTERVAL", 5*time.Minute),
	}
	if def.Interval <= 0 {
		def.Interval = 5 * time.Minute
	}
	return def
}
