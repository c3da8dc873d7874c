package core

// AcquisitionConfig describes the sampling of an fMRI time series.
type AcquisitionConfig struct {
	// TR is the repetition time in seconds (the sampling period).
	TR float64
	// Duration is the length of the acquisition in seconds.
	Duration float64
}

// AcquisitionOption mutates an AcquisitionConfig.
type AcquisitionOption func(*AcquisitionConfig)

// DefaultAcquisitionConfig returns a five minute acquisition sampled at 1 s.
func DefaultAcquisitionConfig() AcquisitionConfig {
	return AcquisitionConfig{
		TR:       1.0,
		Duration: 300,
	}
}

// WithTR sets the repetition time.
func WithTR(tr float64) AcquisitionOption {
	return func(cfg *AcquisitionConfig) {
		if tr > 0 {
			cfg.TR = tr
		}
	}
}

// WithDuration sets the acquisition duration in seconds.
func WithDuration(seconds float64) AcquisitionOption {
	return func(cfg *AcquisitionConfig) {
		if seconds > 0 {
			cfg.Duration = seconds
		}
	}
}

// WithMinutes sets the acquisition duration in minutes.
func WithMinutes(minutes float64) AcquisitionOption {
	return WithDuration(minutes * 60)
}

// ApplyAcquisitionOptions applies zero or more options to the default config.
func ApplyAcquisitionOptions(opts ...AcquisitionOption) AcquisitionConfig {
	cfg := DefaultAcquisitionConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Samples returns the number of scans acquired at TR over Duration.
func (c AcquisitionConfig) Samples() int {
	if c.TR <= 0 || c.Duration <= 0 {
		return 0
	}
	return int(c.Duration/c.TR + 1e-9)
}

// Times returns the scan time stamps, evenly spaced over [0, Duration].
func (c AcquisitionConfig) Times() []float64 {
	return Linspace(0, c.Duration, c.Samples())
}
