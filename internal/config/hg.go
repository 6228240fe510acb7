package config

type HG struct {
	// Command line used to run Mercurial, e.g. "chg" or
	// "hg --config extensions.largefiles=".
	Command string `mapstructure:"command"`
}
