package config

const (
	defaultConfigPath           = "~/.config/handyman/config.toml"
	defaultStateDir             = "~/.local/state/handyman"
	defaultLogDir               = "~/.local/share/handyman/logs"
	defaultProbeTimeoutSeconds  = 30
	defaultShortVideoMaxSeconds = 3.0
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

var (
	defaultVideoExtensions = []string{".mp4", ".mov", ".wmv", ".avi", ".flv", ".f4v", ".mkv", ".m4v"}
	defaultImageExtensions = []string{".png", ".jpg", ".jpeg", ".tiff", ".bmp"}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Probe: Probe{
			TimeoutSeconds: defaultProbeTimeoutSeconds,
		},
		Rules: Rules{
			ShortVideoMaxSeconds: defaultShortVideoMaxSeconds,
			VideoExtensions:      append([]string(nil), defaultVideoExtensions...),
			ImageExtensions:      append([]string(nil), defaultImageExtensions...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
