package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/formpost/packages/core/config"
	"github.com/abdul-hamid-achik/formpost/packages/mime"
)

// loadConfig reads the config file (--config, or the first of
// config.ConfigFilenames in the working directory) and layers the
// global flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, exitWith(ExitConfigError, err)
	}

	overrides := &config.Config{}
	if cmd.Flags().Changed("verbose") {
		overrides.Verbose = config.BoolPtr(verboseFlag > 0)
	}
	if noColorFlag {
		overrides.NoColor = config.BoolPtr(true)
	}
	return fileConfig.Merge(overrides), nil
}

// registryFor returns the built-in media type table extended with the
// config's mimeTypes entries.
func registryFor(cfg *config.Config) *mime.Registry {
	if len(cfg.MimeTypes) == 0 {
		return mime.Default()
	}

	base := mime.Default()
	entries := make(map[string]string, base.Len()+len(cfg.MimeTypes))
	for _, ext := range base.Extensions() {
		entries[ext], _ = base.Lookup(ext)
	}
	for ext, typ := range cfg.MimeTypes {
		entries[ext] = typ
	}
	return mime.New(entries)
}
