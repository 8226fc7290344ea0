package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultDerivativesSubDir = "derivatives"
)

const (
	defaultImportQueueSize   = 16
	defaultNumImportWorkers  = 2
	defaultHotPreviewSize    = 150
	defaultColdPreviewSize   = 1200
	defaultJpegQuality       = 85
	defaultCounterFlushEvery = 25
	defaultErrorLogCap       = 100
	defaultPoolSizeLarge     = 1200
	defaultPoolSizeMedium    = 800
	defaultPoolSizeSmall     = 400
)

type Config struct {
	// source directory (where original user files are scanned)
	RootDirectory string

	// database path
	DatabasePath string

	// media storage configuration
	MediaStoragePath string // primary root for generated assets
	DerivativesPath  string // full-calculated path for derivative renditions

	// derivative generation settings
	HotPreviewSize  int // bounding box for the embedded preview
	ColdPreviewSize int // bounding box for the medium preview
	JpegQuality     int
	PoolSizeLarge   int
	PoolSizeMedium  int
	PoolSizeSmall   int

	// import batch settings
	CounterFlushEvery int // flush progress counters every N processed groups
	ErrorLogCap       int

	// worker settings
	ImportQueueSize  int
	NumImportWorkers int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	root := getEnvOrDefault("ROOT_DIRECTORY", ".")
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for root directory '%s': %w", root, err)
	}

	dbPath := getEnvOrDefault("DATABASE_PATH", "photos.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	derivSubDir := getEnvOrDefault("DERIVATIVES_SUBDIR", DefaultDerivativesSubDir)
	absDerivativesPath := filepath.Join(absMediaStorage, derivSubDir)

	cfg := Config{
		RootDirectory:     absRoot,
		DatabasePath:      dbPath,
		MediaStoragePath:  absMediaStorage,
		DerivativesPath:   absDerivativesPath,
		HotPreviewSize:    getEnvIntOrDefault("HOT_PREVIEW_SIZE", defaultHotPreviewSize),
		ColdPreviewSize:   getEnvIntOrDefault("COLD_PREVIEW_SIZE", defaultColdPreviewSize),
		JpegQuality:       getEnvIntOrDefault("JPEG_QUALITY", defaultJpegQuality),
		PoolSizeLarge:     getEnvIntOrDefault("POOL_SIZE_LARGE", defaultPoolSizeLarge),
		PoolSizeMedium:    getEnvIntOrDefault("POOL_SIZE_MEDIUM", defaultPoolSizeMedium),
		PoolSizeSmall:     getEnvIntOrDefault("POOL_SIZE_SMALL", defaultPoolSizeSmall),
		CounterFlushEvery: getEnvIntOrDefault("COUNTER_FLUSH_EVERY", defaultCounterFlushEvery),
		ErrorLogCap:       getEnvIntOrDefault("ERROR_LOG_CAP", defaultErrorLogCap),
		ImportQueueSize:   getEnvIntOrDefault("IMPORT_QUEUE_SIZE", defaultImportQueueSize),
		NumImportWorkers:  getEnvIntOrDefault("NUM_IMPORT_WORKERS", defaultNumImportWorkers),
	}

	return cfg, nil
}
