package config

type Ignore struct {
	File string `mapstructure:"file"`
	Lock bool   `mapstructure:"lock"`
}
