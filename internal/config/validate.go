package config

import (
	"errors"
	"fmt"
	"strings"
)

var supportedFormats = map[string]struct{}{
	"wav":  {},
	"flac": {},
	"mp3":  {},
	"opus": {},
	"ogg":  {},
	"m4a":  {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDrive(); err != nil {
		return err
	}
	if err := c.validateExtract(); err != nil {
		return err
	}
	if err := c.validateEncoder(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDrive() error {
	if c.Drive.ReadBatchSectors < 1 || c.Drive.ReadBatchSectors > maxReadBatchSectors {
		return fmt.Errorf("drive.read_batch_sectors must be between 1 and %d", maxReadBatchSectors)
	}
	if c.Drive.MaxPasses < 1 || c.Drive.MaxPasses > maxPasses {
		return fmt.Errorf("drive.max_passes must be between 1 and %d", maxPasses)
	}
	return nil
}

func (c *Config) validateExtract() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validateEncoder() error {
	switch c.Encoder.Name {
	case "wav":
		if c.Encoder.Format != "wav" {
			return errors.New("encoder.format must be wav when encoder.name is wav (use the ffmpeg encoder for other formats)")
		}
	case "ffmpeg":
		if _, ok := supportedFormats[c.Encoder.Format]; !ok {
			return fmt.Errorf("encoder.format: unsupported value %q", c.Encoder.Format)
		}
	default:
		return fmt.Errorf("encoder.name: unsupported value %q (expected wav or ffmpeg)", c.Encoder.Name)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
