package importer

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/imalink-project/imalink-sub001/database"
	"github.com/imalink-project/imalink-sub001/media"
	"github.com/imalink-project/imalink-sub001/models"
	"github.com/imalink-project/imalink-sub001/repository"
)

type testEnv struct {
	DB           *gorm.DB
	Store        *media.LocalStorage
	Photos       *repository.PhotoRepository
	Files        *repository.ImageFileRepository
	Batches      *repository.BatchRepository
	Engine       *Engine
	Orchestrator *Orchestrator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Photo{}, &models.ImageFile{}, &models.ImportBatch{}))

	store, err := media.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	photos := repository.NewPhotoRepository(db)
	files := repository.NewImageFileRepository(db)
	batches := repository.NewBatchRepository(db)

	generator := media.NewGenerator(store, media.DefaultGeneratorOptions())
	engine := NewEngine(photos, files, generator)
	orchestrator := NewOrchestrator(engine, batches, 10, 100)

	return &testEnv{
		DB:           db,
		Store:        store,
		Photos:       photos,
		Files:        files,
		Batches:      batches,
		Engine:       engine,
		Orchestrator: orchestrator,
	}
}

// newBatch creates a pending batch record and returns its ID.
func (env *testEnv) newBatch(t *testing.T, sourceRoot string) string {
	t.Helper()
	batch := &models.ImportBatch{
		ID:         uuid.NewString(),
		SourceRoot: sourceRoot,
		Status:     database.StatusPending,
		CreatedAt:  time.Now().Unix(),
	}
	require.NoError(t, env.Batches.Create(batch))
	return batch.ID
}

// runBatch drives a batch over sourceRoot to its terminal state.
func (env *testEnv) runBatch(t *testing.T, sourceRoot string) *models.ImportBatch {
	t.Helper()
	batchID := env.newBatch(t, sourceRoot)
	env.Orchestrator.Run(batchID, sourceRoot, make(chan struct{}))
	batch, err := env.Batches.GetByID(batchID)
	require.NoError(t, err)
	return batch
}

func writeJPEG(t *testing.T, path string, width, height int, c color.NRGBA) {
	t.Helper()
	require.NoError(t, imaging.Save(imaging.New(width, height, c), path))
}

func writePNG(t *testing.T, path string, width, height int, c color.NRGBA) {
	t.Helper()
	require.NoError(t, imaging.Save(imaging.New(width, height, c), path))
}

func writeRaw(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("raw sensor payload"), 0644))
}
