package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	configFile string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithConfigFile sets the config file path to watch for live reloads.
// When empty, config watching is disabled.
func WithConfigFile(path string) Option {
	return func(a *application) {
		a.configFile = path
	}
}
