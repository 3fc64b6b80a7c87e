package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile  = flag.String("log-file", "", "Write logs to this file as well")
	flagScenario = flag.String("scenario", "", "Path to scenario file")
	flagTicks    = flag.Int("ticks", 0, "Stop after this many ticks")
	flagTickRate = flag.Float64("tick-rate", 0, "Simulation rate in Hz")
	flagRealtime = flag.Bool("realtime", false, "Pace ticks on the wall clock")
	flagWatch    = flag.Bool("watch", false, "Reload config when the file changes")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagScenario != "" {
		cfg.Simulation.Scenario = *flagScenario
	}
	if *flagTicks > 0 {
		cfg.Simulation.Ticks = *flagTicks
	}
	if *flagTickRate > 0 {
		cfg.Simulation.TickRate = float32(*flagTickRate)
	}
	if *flagRealtime {
		cfg.Simulation.Realtime = true
	}
	if *flagWatch {
		cfg.Simulation.Watch = true
	}
}
