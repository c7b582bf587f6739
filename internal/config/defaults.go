package config

const (
	defaultDestBaseDir     = "~/backups"
	defaultDestSubdirName  = "packages"
	defaultLogDir          = "~/.local/share/pkgstash/logs"
	defaultLedgerPath      = "~/.local/share/pkgstash/ledger.json"
	defaultCheckInterval   = 300
	defaultStableThreshold = 600
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults. MonitorDir
// has no default; it must come from the configuration file.
func Default() Config {
	return Config{
		Paths: Paths{
			DestBaseDir:    defaultDestBaseDir,
			DestSubdirName: defaultDestSubdirName,
			LogDir:         defaultLogDir,
			LedgerPath:     defaultLedgerPath,
		},
		Monitor: Monitor{
			FileExtensions:  []string{".tgz"},
			CheckInterval:   defaultCheckInterval,
			StableThreshold: defaultStableThreshold,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
