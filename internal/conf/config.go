// config.go: settings struct for the SubScan-Go application and functions to
// load and save the settings.
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"

	"github.com/subghzlab/subscan-go/internal/errors"
)

//go:embed config.yaml
var configFiles embed.FS

// MainSettings contains application-wide settings.
type MainSettings struct {
	Name string // node name, stamped on analysis records
	Log  struct {
		Enabled bool   // true to enable structured log file
		Path    string // path to log file
	}
}

// DecoderSettings controls bit decoding of captured pulse trains.
type DecoderSettings struct {
	Threshold  string // thresholding method: median, mean or adaptive
	Encoding   string // encoding to decode: auto, ook, manchester or pwm
	DataLength int    // data bits extracted after a preamble
}

// OutputSettings controls where analysis results are written.
type OutputSettings struct {
	Log struct {
		Enabled bool   // true to append analysis results to a text log
		Path    string // path to results log
	}
	SQLite struct {
		Enabled bool   // true to save analysis records to SQLite
		Path    string // path to SQLite database
	}
}

// WatchSettings controls directory watch mode.
type WatchSettings struct {
	MetricsAddr string // listen address for prometheus metrics, empty to disable
}

// Settings is the root configuration for the application.
type Settings struct {
	Debug bool // true to enable debug logging

	Main    MainSettings
	Decoder DecoderSettings
	Output  OutputSettings
	Watch   WatchSettings

	Input struct {
		Path string `yaml:"-"` // path to capture file or directory, runtime value
	} `yaml:"-"`
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment into a Settings struct.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the
// configuration file, creating one from the embedded defaults when none
// exists yet.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return createDefaultConfig(configPaths[0])
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes the embedded default config to the primary
// config path and re-reads it.
func createDefaultConfig(configDir string) error {
	configPath := filepath.Join(configDir, "config.yaml")

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("path", configPath).
			Build()
	}

	if err := os.WriteFile(configPath, []byte(getDefaultConfig()), 0o644); err != nil {
		return errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("path", configPath).
			Build()
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded
// config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("Error reading embedded config file: %v", err)
	}
	return string(data)
}

// GetDefaultConfigPaths returns the config file search paths in priority
// order: the user config directory followed by the working directory.
func GetDefaultConfigPaths() ([]string, error) {
	var paths []string

	if userDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(userDir, "subscan-go"))
	}
	paths = append(paths, ".")

	if len(paths) == 0 {
		return nil, errors.NewStd("no config paths available")
	}
	return paths, nil
}

// GetSettings returns the current settings instance.
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}
