package cosmic

import (
	"os"
	"path/filepath"
	"testing"
)

func resetConfig() {
	cfgLoaded = false
	cfg = Config{}
	os.Unsetenv("COSMIC_CONFIG")
}

func TestLoadConfigDefaults(t *testing.T) {
	resetConfig()
	defer resetConfig()
	c := LoadConfig()
	if c.InfluenceCutoff != 1e12 || c.MaxStep != 1.0 || c.TickRate != 60 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.OutputDir == "" {
		t.Fatal("output dir must have a default")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	resetConfig()
	defer resetConfig()
	dir := t.TempDir()
	conf := `[physics]
influence_cutoff = 5e11
max_step = 2.0

[session]
tick_rate = 30
`
	if err := os.WriteFile(filepath.Join(dir, "conf.toml"), []byte(conf), 0644); err != nil {
		t.Fatal(err)
	}
	os.Setenv("COSMIC_CONFIG", dir)
	c := LoadConfig()
	if c.InfluenceCutoff != 5e11 || c.MaxStep != 2.0 || c.TickRate != 30 {
		t.Fatalf("file overrides not applied: %+v", c)
	}
	if c.OutputDir != DefaultConfig().OutputDir {
		t.Fatal("unset keys must keep their defaults")
	}
}
