package cli

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/erdot/pkg/errors"
	"github.com/matzehuels/erdot/pkg/pipeline"
)

// config is the TOML configuration file.
//
//	[render]
//	formats = ["dot", "svg"]
//	styled = true
//	output = "out/diagram"
//	cache = false
type config struct {
	Render renderConfig `toml:"render"`
}

type renderConfig struct {
	Formats []string `toml:"formats"`
	Styled  *bool    `toml:"styled"`
	Output  string   `toml:"output"`
	Cache   *bool    `toml:"cache"`
}

// loadConfig reads the config file at path. An empty path falls back to
// erdot.toml in the working directory, which may be absent. A path given
// explicitly must exist.
func loadConfig(path string) (config, error) {
	var cfg config
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errs.New(errs.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	for i, f := range cfg.Render.Formats {
		cfg.Render.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	if err := pipeline.ValidateFormats(cfg.Render.Formats); err != nil {
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}
