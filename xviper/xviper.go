package xviper

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultNameFlag = "name"
	DefaultFileFlag = "file"
)

type option func(*viper.Viper) error

// AddConfigPaths appends each path to the Viper search list.
func AddConfigPaths(paths ...string) option {
	return func(v *viper.Viper) error {
		for _, p := range paths {
			v.AddConfigPath(p)
		}

		return nil
	}
}

// SetEnvPrefix establishes the prefix for environment variable overrides.
func SetEnvPrefix(prefix string) option {
	return func(v *viper.Viper) error {
		v.SetEnvPrefix(prefix)
		return nil
	}
}

// SetConfigName sets the base name of the configuration file to search for.
func SetConfigName(name string) option {
	return func(v *viper.Viper) error {
		v.SetConfigName(name)
		return nil
	}
}

// SetConfigFile sets the fully-qualified configuration file path.
func SetConfigFile(file string) option {
	return func(v *viper.Viper) error {
		v.SetConfigFile(file)
		return nil
	}
}

// AutomaticEnv turns on environment variable overrides.
func AutomaticEnv(v *viper.Viper) error {
	v.AutomaticEnv()
	return nil
}

// BindPFlags binds the given flagset into the Viper instance.
func BindPFlags(fs *pflag.FlagSet) option {
	return func(v *viper.Viper) error {
		return v.BindPFlags(fs)
	}
}

// BindConfigName overrides the configuration file name from a command-line
// flag, when that flag is present and non-empty.
func BindConfigName(fs *pflag.FlagSet, flag string) option {
	return func(v *viper.Viper) error {
		if f := fs.Lookup(flag); f != nil {
			configName := f.Value.String()
			if len(configName) > 0 {
				v.SetConfigName(configName)
			}
		}

		return nil
	}
}

// BindConfigFile overrides the fully-qualified configuration file path from
// a command-line flag, when that flag is present and non-empty.
func BindConfigFile(fs *pflag.FlagSet, flag string) option {
	return func(v *viper.Viper) error {
		if f := fs.Lookup(flag); f != nil {
			configFile := f.Value.String()
			if len(configFile) > 0 {
				v.SetConfigFile(configFile)
			}
		}

		return nil
	}
}

// StdOptions configures the standard *nix-style search paths, environment
// prefix, configuration name, and flag bindings for an application.
func StdOptions(applicationName string, fs *pflag.FlagSet) option {
	return func(v *viper.Viper) error {
		err := AddConfigPaths(
			fmt.Sprintf("/etc/%s", applicationName),
			fmt.Sprintf("$HOME/.%s", applicationName),
			".",
		)(v)

		if err == nil {
			err = SetEnvPrefix(applicationName)(v)
		}

		if err == nil {
			err = AutomaticEnv(v)
		}

		if err == nil {
			err = SetConfigName(applicationName)(v)
		}

		if err == nil {
			err = BindPFlags(fs)(v)
		}

		return err
	}
}

// New creates and configures a fresh Viper instance.
func New(o ...option) (*viper.Viper, error) {
	return Configure(viper.New(), o...)
}

// Configure applies options to an existing Viper instance.
func Configure(v *viper.Viper, o ...option) (*viper.Viper, error) {
	if v != nil {
		for _, f := range o {
			if err := f(v); err != nil {
				return nil, err
			}
		}
	}

	return v, nil
}
