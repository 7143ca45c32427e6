package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeSpeaker()
	c.normalizeDisplay()
	c.normalizeVideo()
	c.normalizeReader()
	c.normalizeFeedback()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeSpeaker() {
	c.Speaker.Binary = strings.TrimSpace(c.Speaker.Binary)
	if c.Speaker.Binary == "" {
		c.Speaker.Binary = defaultSpeakerBinary
	}
	if c.Speaker.VolumeStep <= 0 {
		c.Speaker.VolumeStep = defaultSpeakerVolumeStep
	}
	if c.Speaker.VolumeMax <= 0 {
		c.Speaker.VolumeMax = defaultSpeakerVolumeMax
	}
	if c.Speaker.CommandTimeout <= 0 {
		c.Speaker.CommandTimeout = defaultSpeakerCommandTimeout
	}
}

func (c *Config) normalizeDisplay() {
	c.Display.Binary = strings.TrimSpace(c.Display.Binary)
	if c.Display.Binary == "" {
		c.Display.Binary = defaultDisplayBinary
	}
	c.Display.Address = strings.TrimSpace(c.Display.Address)
	if c.Display.Address == "" {
		if value, ok := os.LookupEnv("MAGICBOX_TV_IP"); ok {
			c.Display.Address = strings.TrimSpace(value)
		}
	}
	if c.Display.PowerOnSettle < 0 {
		c.Display.PowerOnSettle = defaultDisplayPowerOnSettle
	}
	if c.Display.InputSettle < 0 {
		c.Display.InputSettle = defaultDisplayInputSettle
	}
	if c.Display.CommandTimeout <= 0 {
		c.Display.CommandTimeout = defaultDisplayCommandTimeout
	}
}

func (c *Config) normalizeVideo() {
	c.Video.Binary = strings.TrimSpace(c.Video.Binary)
	if c.Video.Binary == "" {
		c.Video.Binary = defaultVideoBinary
	}
	c.Video.ProcessName = strings.TrimSpace(c.Video.ProcessName)
	if c.Video.ProcessName == "" {
		c.Video.ProcessName = defaultVideoProcessName
	}
	if c.Video.StopGrace <= 0 {
		c.Video.StopGrace = defaultVideoStopGrace
	}
}

func (c *Config) normalizeReader() {
	devices := make([]string, 0, len(c.Reader.Devices))
	seen := make(map[string]struct{}, len(c.Reader.Devices))
	for _, device := range c.Reader.Devices {
		trimmed := strings.TrimSpace(device)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		devices = append(devices, trimmed)
	}
	if len(devices) == 0 {
		devices = defaultReaderDevices()
	}
	c.Reader.Devices = devices
	if c.Reader.RetryBackoff <= 0 {
		c.Reader.RetryBackoff = defaultReaderRetryBackoff
	}
}

func (c *Config) normalizeFeedback() {
	if c.Feedback.SampleRate <= 0 {
		c.Feedback.SampleRate = defaultFeedbackSampleRate
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Dir) == "" {
		c.Logging.Dir = defaultLogDir
	}
	var err error
	if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
