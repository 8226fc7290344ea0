package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/imalink-project/imalink-sub001/config"
	"github.com/imalink-project/imalink-sub001/database"
	"github.com/imalink-project/imalink-sub001/importer"
	"github.com/imalink-project/imalink-sub001/media"
	"github.com/imalink-project/imalink-sub001/repository"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.DerivativesPath, 0755); err != nil {
		log.Fatalf("FATAL: Failed to create storage directory %s: %v", cfg.DerivativesPath, err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}

	blobStore, err := media.NewLocalStorage(cfg.DerivativesPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize derivative store: %v", err)
	}

	generator := media.NewGenerator(blobStore, media.GeneratorOptions{
		HotPreviewSize:  cfg.HotPreviewSize,
		ColdPreviewSize: cfg.ColdPreviewSize,
		JpegQuality:     cfg.JpegQuality,
		PoolSizes: []media.PoolSize{
			{Name: media.SizeLarge, Bound: cfg.PoolSizeLarge},
			{Name: media.SizeMedium, Bound: cfg.PoolSizeMedium},
			{Name: media.SizeSmall, Bound: cfg.PoolSizeSmall},
		},
	})

	photoRepo := repository.NewPhotoRepository(db)
	fileRepo := repository.NewImageFileRepository(db)
	batchRepo := repository.NewBatchRepository(db)

	engine := importer.NewEngine(photoRepo, fileRepo, generator)
	orchestrator := importer.NewOrchestrator(engine, batchRepo, cfg.CounterFlushEvery, cfg.ErrorLogCap)

	log.Printf("Importing from root: %s", cfg.RootDirectory)
	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing derivatives in: %s", cfg.DerivativesPath)

	manager := importer.NewManager(orchestrator, batchRepo, cfg.ImportQueueSize, cfg.NumImportWorkers)
	defer manager.Stop()

	batchID, err := manager.StartImport(cfg.RootDirectory)
	if err != nil {
		log.Fatalf("FATAL: Failed to start import: %v", err)
	}
	log.Printf("Started import batch %s", batchID)

	for {
		time.Sleep(500 * time.Millisecond)
		batch, err := manager.GetBatchStatus(batchID)
		if err != nil {
			log.Fatalf("FATAL: Failed to poll batch %s: %v", batchID, err)
		}
		if batch.Status != database.StatusCompleted && batch.Status != database.StatusFailed {
			continue
		}

		log.Printf("Batch %s finished with status '%s'", batch.ID, batch.Status)
		log.Printf("  files found:              %d", batch.FilesFound)
		log.Printf("  photos created:           %d", batch.PhotosCreated)
		log.Printf("  partial merges:           %d", batch.PartialMerges)
		log.Printf("  duplicates skipped:       %d", batch.DuplicatesSkipped)
		log.Printf("  raw without jpeg skipped: %d", batch.RawWithoutJpegSkipped)
		log.Printf("  errors:                   %d", batch.Errors)
		for _, e := range batch.ErrorLog {
			log.Printf("  error: %s: %s", e.File, e.Message)
		}
		if batch.Status == database.StatusFailed && batch.ErrorMessage != nil {
			log.Fatalf("Import failed: %s", *batch.ErrorMessage)
		}
		return
	}
}
