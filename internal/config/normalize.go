package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDrive()
	c.normalizeExtract()
	c.normalizeEncoder()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LibraryDB) == "" {
		c.Paths.LibraryDB = defaultLibraryDB
	}
	if c.Paths.LibraryDB, err = expandPath(c.Paths.LibraryDB); err != nil {
		return fmt.Errorf("paths.library_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeDrive() {
	if value, ok := os.LookupEnv("CDDARIP_DEVICE"); ok && strings.TrimSpace(value) != "" {
		c.Drive.Device = value
	}
	c.Drive.Device = strings.TrimSpace(c.Drive.Device)
	if c.Drive.ReadBatchSectors == 0 {
		c.Drive.ReadBatchSectors = defaultReadBatchSectors
	}
	if c.Drive.MaxPasses == 0 {
		c.Drive.MaxPasses = defaultMaxPasses
	}
}

func (c *Config) normalizeExtract() {
	if strings.TrimSpace(c.Extract.FilenameTemplate) == "" {
		c.Extract.FilenameTemplate = defaultFilenameTemplate
	}
}

func (c *Config) normalizeEncoder() {
	c.Encoder.Name = strings.ToLower(strings.TrimSpace(c.Encoder.Name))
	if c.Encoder.Name == "" {
		c.Encoder.Name = defaultEncoderName
	}
	c.Encoder.Format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Encoder.Format), "."))
	if c.Encoder.Format == "" {
		c.Encoder.Format = defaultEncoderFormat
	}
	c.Encoder.Settings = strings.TrimSpace(c.Encoder.Settings)
	c.Encoder.FFmpegBinary = strings.TrimSpace(c.Encoder.FFmpegBinary)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
