package config

const (
	defaultOutputDir        = "~/Music/cddarip"
	defaultLogDir           = "~/.local/share/cddarip/logs"
	defaultStateDir         = "~/.local/share/cddarip/state"
	defaultLibraryDB        = "~/.local/share/cddarip/library.db"
	defaultDevice           = "/dev/sr0"
	defaultReadBatchSectors = 32
	defaultMaxPasses        = 9
	defaultFilenameTemplate = "%a/%d/%n %t"
	defaultEncoderName      = "wav"
	defaultEncoderFormat    = "wav"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"

	maxReadBatchSectors = 75
	maxPasses           = 99
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			StateDir:  defaultStateDir,
			LibraryDB: defaultLibraryDB,
		},
		Drive: Drive{
			Device:           defaultDevice,
			ReadBatchSectors: defaultReadBatchSectors,
			MaxPasses:        defaultMaxPasses,
		},
		Extract: Extract{
			FilenameTemplate: defaultFilenameTemplate,
		},
		Encoder: Encoder{
			Name:   defaultEncoderName,
			Format: defaultEncoderFormat,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
