package config

import "os"

// LoadOptions selects the configuration sources.
type LoadOptions struct {
	// ConfigFile is the TOML file. When empty DefaultConfigFile is used
	// and may be missing; an explicit path must exist.
	ConfigFile string

	// EnvFile is the dotenv file. Empty means DefaultEnvFile.
	EnvFile string

	// Getenv reads the process environment. Defaults to os.Getenv.
	Getenv func(string) string
}

// Load builds the configuration from defaults, the TOML file, the .env
// file and the environment. It does not validate the result.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	path, required := opts.ConfigFile, true
	if path == "" {
		path, required = DefaultConfigFile, false
	}
	if err := applyFile(&cfg, path, required); err != nil {
		return Config{}, err
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	env, err := loadEnvironment(getenv, envFile)
	if err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg, env); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
