package cosmic

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	cfg       = Config{}
)

// Config is the simulator tuning. All keys are defaulted so an empty or
// absent configuration file yields a working simulator.
type Config struct {
	InfluenceCutoff float64 // m, gravity sources farther than this are skipped
	MaxStep         float64 // s, recommended dt ceiling before a stability warning
	TickRate        float64 // Hz, fixed session rate
	OutputDir       string  // telemetry export destination
}

// DefaultConfig returns the built-in tuning used when no file overrides it.
func DefaultConfig() Config {
	return Config{
		InfluenceCutoff: 1e12,
		MaxStep:         1.0,
		TickRate:        60,
		OutputDir:       "./",
	}
}

// LoadConfig returns the simulator configuration. If the COSMIC_CONFIG
// environment variable is set it must point to a directory containing a
// conf.toml, whose keys override the defaults; a set-but-broken path is a
// hard failure rather than a silent fallback.
func LoadConfig() Config {
	if cfgLoaded {
		return cfg
	}
	cfg = DefaultConfig()
	confPath := os.Getenv("COSMIC_CONFIG")
	if confPath == "" {
		cfgLoaded = true
		return cfg
	}
	viper.SetConfigName("conf")
	viper.AddConfigPath(confPath)
	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("%s/conf.toml not found", confPath))
	}
	if viper.IsSet("physics.influence_cutoff") {
		cfg.InfluenceCutoff = viper.GetFloat64("physics.influence_cutoff")
	}
	if viper.IsSet("physics.max_step") {
		cfg.MaxStep = viper.GetFloat64("physics.max_step")
	}
	if viper.IsSet("session.tick_rate") {
		cfg.TickRate = viper.GetFloat64("session.tick_rate")
	}
	if viper.IsSet("general.output_path") {
		cfg.OutputDir = viper.GetString("general.output_path")
	}
	cfgLoaded = true
	return cfg
}
