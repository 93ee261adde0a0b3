package main

import (
	"github.com/spf13/pflag"

	"github.com/Flarenzy/netcollide/internal/app"
)

func registerFlags(flags *pflag.FlagSet) {
	def := app.DefaultConfig()

	flags.StringP("config", "c", "", "INI configuration file")
	flags.String("source", def.Source, "Workload source: docker or capture")
	flags.String("capture-dir", def.CaptureDir, "Directory of captured 'ip -j addr show' output, one file per workload")
	flags.String("store", def.Store, "Snapshot store: file or postgres")
	flags.String("snapshot", def.SnapshotPath, "Snapshot file written by the file store")
	flags.String("dsn", def.DSN, "Postgres connection string for the postgres store")
	flags.Int("concurrency", def.Concurrency, "Workloads queried in parallel")
	flags.Duration("exec-timeout", def.ExecTimeout, "Timeout for each in-container command, 0 for none")
	flags.String("log-level", def.LogLevel, "Log level: debug, info, warn or error")
	flags.String("port", def.Port, "Port the API listens on")
}

// loadConfig layers explicitly set flags over the file and environment
// configuration.
func loadConfig(flags *pflag.FlagSet) (app.Config, error) {
	path, err := flags.GetString("config")
	if err != nil {
		return app.Config{}, err
	}
	cfg, err := app.LoadConfig(path)
	if err != nil {
		return cfg, err
	}

	var flagErr error
	flags.Visit(func(f *pflag.Flag) {
		if flagErr != nil {
			return
		}
		switch f.Name {
		case "source":
			cfg.Source, flagErr = flags.GetString(f.Name)
		case "capture-dir":
			cfg.CaptureDir, flagErr = flags.GetString(f.Name)
		case "store":
			cfg.Store, flagErr = flags.GetString(f.Name)
		case "snapshot":
			cfg.SnapshotPath, flagErr = flags.GetString(f.Name)
		case "dsn":
			cfg.DSN, flagErr = flags.GetString(f.Name)
		case "concurrency":
			cfg.Concurrency, flagErr = flags.GetInt(f.Name)
		case "exec-timeout":
			cfg.ExecTimeout, flagErr = flags.GetDuration(f.Name)
		case "log-level":
			cfg.LogLevel, flagErr = flags.GetString(f.Name)
		case "port":
			cfg.Port, flagErr = flags.GetString(f.Name)
		}
	})
	if flagErr != nil {
		return cfg, flagErr
	}
	return cfg, cfg.Validate()
}
