package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "HGIGNORE"

type Config struct {
	HG     HG     `mapstructure:"hg"`
	Ignore Ignore `mapstructure:"ignore"`
	Log    Log    `mapstructure:"log"`
}

func DirsLocal() ([]string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}
	dirs := []string{filepath.Join(home, ".hgignore.d")}

	// Avoid duplicate paths. If $XDG_CONFIG_HOME is the same as ~/.config,
	// only add it once.
	configHome := filepath.Join(home, ".config")
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" && filepath.Clean(xdgConfigHome) != configHome {
		dirs = append(dirs, filepath.Join(xdgConfigHome, "hgignore"))
	}
	dirs = append(dirs, filepath.Join(configHome, "hgignore"))
	return dirs, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("hg.command", "hg")
	v.SetDefault("ignore.file", ".hgignore")
	v.SetDefault("ignore.lock", true)
	v.SetDefault("log.enabled", false)
	v.SetDefault("log.level", "debug")
}

// Read loads the config file. configFile takes precedence over the
// HGIGNORE_CONFIG environment variable, which takes precedence over the
// search paths. Not finding a config file in the search paths is not an
// error; defaults are used instead.
func Read(configFile string) (config *Config, v *viper.Viper, err error) {
	v = viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else if configFileEnv := os.Getenv(envPrefix + "_CONFIG"); configFileEnv != "" {
		v.SetConfigFile(configFileEnv)
	} else {
		v.SetConfigName("hgignore")
		v.SetConfigType("yml")

		v.AddConfigPath(".")
		dirs, err := DirsLocal()
		if err != nil {
			return nil, nil, err
		}
		for _, dir := range dirs {
			v.AddConfigPath(dir)
		}
	}

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, err
		}
	}
	config = new(Config)
	err = v.Unmarshal(config)
	if err != nil {
		return nil, nil, err
	}
	return config, v, nil
}

func (c *Config) PlaceEnvironmentVariables() {
	replace := func(r *string) { *r = os.ExpandEnv(*r) }

	replace(&c.Ignore.File)
	replace(&c.Log.Level)
}

func (c *Config) Check() error {
	if strings.TrimSpace(c.HG.Command) == "" {
		return fmt.Errorf("config: empty hg command. remove `hg.command` to use the default")
	}
	if c.Ignore.File == "" {
		return fmt.Errorf("config: empty ignore file name. remove `ignore.file` to use the default")
	}
	if filepath.Base(c.Ignore.File) != c.Ignore.File || c.Ignore.File == "." || c.Ignore.File == ".." {
		return fmt.Errorf("config: ignore file `%s` must be a file name inside the repository root, not a path", c.Ignore.File)
	}
	_, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return fmt.Errorf("config: %v", err)
	}
	return nil
}
