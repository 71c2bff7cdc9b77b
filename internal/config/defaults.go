package config

const (
	defaultDestinationFolder     = "~/recordings"
	defaultLogPath               = "~/.local/share/airsync/logs"
	defaultLogName               = "airsync"
	defaultLogLevel              = "info"
	defaultLogFormat             = "console"
	defaultRetryCount            = 3
	defaultImminentWindowMinutes = 60
	defaultHTTPTimeoutSeconds    = 30
	defaultDownloadTimeout       = 600
	defaultNotifyTimeoutSeconds  = 10
)

// The upstream publishes the next broadcast shortly before air time, so the
// daemon checks twice an hour, offset from the half hour.
var defaultScheduleMinutes = []int{20, 50}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		DestinationFolder:      defaultDestinationFolder,
		RetryCount:             defaultRetryCount,
		LogPath:                defaultLogPath,
		LogName:                defaultLogName,
		LogLevel:               defaultLogLevel,
		LogFormat:              defaultLogFormat,
		EnableSlack:            true,
		ScheduleMinutes:        append([]int{}, defaultScheduleMinutes...),
		ImminentWindowMinutes:  defaultImminentWindowMinutes,
		HTTPTimeoutSeconds:     defaultHTTPTimeoutSeconds,
		DownloadTimeoutSeconds: defaultDownloadTimeout,
		NotifyTimeoutSeconds:   defaultNotifyTimeoutSeconds,
	}
}
