package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSpeaker(); err != nil {
		return err
	}
	if err := c.validateDisplay(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateReader(); err != nil {
		return err
	}
	if err := c.validateFeedback(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSpeaker() error {
	if err := ensurePositiveMap(map[string]int{
		"speaker.volume_step":     c.Speaker.VolumeStep,
		"speaker.command_timeout": c.Speaker.CommandTimeout,
	}); err != nil {
		return err
	}
	if c.Speaker.VolumeMax < 1 || c.Speaker.VolumeMax > 100 {
		return errors.New("speaker.volume_max must be between 1 and 100")
	}
	if c.Speaker.VolumeStep > c.Speaker.VolumeMax {
		return errors.New("speaker.volume_step must not exceed speaker.volume_max")
	}
	return nil
}

func (c *Config) validateDisplay() error {
	if c.Display.PowerOnSettle < 0 {
		return errors.New("display.power_on_settle must be >= 0")
	}
	if c.Display.InputSettle < 0 {
		return errors.New("display.input_settle must be >= 0")
	}
	if c.Display.CommandTimeout <= 0 {
		return errors.New("display.command_timeout must be positive")
	}
	return nil
}

func (c *Config) validateVideo() error {
	if strings.TrimSpace(c.Video.ProcessName) == "" {
		return errors.New("video.process_name must be set")
	}
	if c.Video.StopGrace <= 0 {
		return errors.New("video.stop_grace must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateReader() error {
	if len(c.Reader.Devices) == 0 {
		return errors.New("reader.devices must include at least one connection string")
	}
	if c.Reader.RetryBackoff <= 0 {
		return errors.New("reader.retry_backoff must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateFeedback() error {
	if c.Feedback.SampleRate <= 0 {
		return errors.New("feedback.sample_rate must be positive")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
