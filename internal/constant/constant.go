package constant

import (
	"os"
	"path/filepath"
)

const (
	// ConfigDirName is the main configuration directory name
	ConfigDirName = ".mathimage"

	LogDirName = "log"

	// LogFileName is the name of the rotating application log file
	LogFileName = "mathimage.log"

	// DBFileName is the unified SQLite database file
	DBFileName = "mathimage.db"

	// DefaultRequestTimeout is the default timeout for HTTP requests in seconds
	DefaultRequestTimeout = 30

	// ConnectionTestTimeout is the timeout for connection test requests in seconds
	ConnectionTestTimeout = 10

	// ModelFetchTimeout is the timeout for fetching models from the API in seconds
	ModelFetchTimeout = 30

	// DefaultServerPort is the port the backend API listens on for the shell
	DefaultServerPort = 12710
)

// GetConfDir returns the config directory path (default: ~/.mathimage)
func GetConfDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home directory is not accessible
		return ConfigDirName
	}
	return filepath.Join(homeDir, ConfigDirName)
}

// GetLogDir returns the log directory path for a config directory
func GetLogDir(baseDir string) string {
	return filepath.Join(baseDir, LogDirName)
}

// GetDBFile returns the SQLite database file path for a config directory
func GetDBFile(baseDir string) string {
	return filepath.Join(baseDir, DBFileName)
}
