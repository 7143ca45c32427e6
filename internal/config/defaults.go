package config

const (
	defaultSpeakerBinary         = "sonos"
	defaultSpeakerVolumeStep     = 5
	defaultSpeakerVolumeMax      = 60
	defaultSpeakerCommandTimeout = 10
	defaultDisplayBinary         = "cec-client"
	defaultDisplayPowerOnSettle  = 3
	defaultDisplayInputSettle    = 1
	defaultDisplayCommandTimeout = 15
	defaultVideoBinary           = "mpv"
	defaultVideoProcessName      = "mpv"
	defaultVideoStopGrace        = 3
	defaultReaderRetryBackoff    = 1
	defaultFeedbackSampleRate    = 22050
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultLogDir                = "~/.local/share/magicbox/logs"
)

func defaultReaderDevices() []string {
	return []string{
		"pn532_uart:/dev/ttyS0",
		"pn532_uart:/dev/ttyAMA0",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Speaker: Speaker{
			Binary:         defaultSpeakerBinary,
			VolumeStep:     defaultSpeakerVolumeStep,
			VolumeMax:      defaultSpeakerVolumeMax,
			CommandTimeout: defaultSpeakerCommandTimeout,
		},
		Display: Display{
			Binary:         defaultDisplayBinary,
			PowerOnSettle:  defaultDisplayPowerOnSettle,
			InputSettle:    defaultDisplayInputSettle,
			CommandTimeout: defaultDisplayCommandTimeout,
		},
		Video: Video{
			Binary:      defaultVideoBinary,
			ProcessName: defaultVideoProcessName,
			StopGrace:   defaultVideoStopGrace,
		},
		Reader: Reader{
			Devices:      defaultReaderDevices(),
			RetryBackoff: defaultReaderRetryBackoff,
		},
		Feedback: Feedback{
			Enabled:    true,
			SampleRate: defaultFeedbackSampleRate,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			Dir:    defaultLogDir,
		},
	}
}
