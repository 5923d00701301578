package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Export: ExportConfig{
			Path: "",
		},
		Vendors: VendorsConfig{
			Chrome:  true,
			Firefox: true,
			Safari:  true,
		},
		Locator: LocatorConfig{},
		Reader: ReaderConfig{
			BusyTimeoutMS: 3000,
			Parallelism:   4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
