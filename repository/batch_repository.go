package repository

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/imalink-project/imalink-sub001/database"
	"github.com/imalink-project/imalink-sub001/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// BatchRepository handles database operations for ImportBatch entities
type BatchRepository struct {
	DB *gorm.DB
}

// NewBatchRepository creates a new instance of BatchRepository
func NewBatchRepository(db *gorm.DB) *BatchRepository {
	return &BatchRepository{DB: db}
}

// Create inserts a new batch record in pending state
func (r *BatchRepository) Create(batch *models.ImportBatch) error {
	if batch.Status == "" {
		batch.Status = database.StatusPending
	}
	if err := r.DB.Create(batch).Error; err != nil {
		return fmt.Errorf("failed to create import batch: %w", err)
	}
	return nil
}

// GetByID retrieves a batch record, counters and error log included
func (r *BatchRepository) GetByID(id string) (*models.ImportBatch, error) {
	var batch models.ImportBatch
	err := r.DB.Where("id = ?", id).First(&batch).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get import batch %s: %w", id, err)
	}
	return &batch, nil
}

// MarkRunning transitions a pending batch to running
func (r *BatchRepository) MarkRunning(id string) error {
	now := time.Now().Unix()
	result := r.DB.Model(&models.ImportBatch{}).
		Where("id = ? AND status = ?", id, database.StatusPending).
		Updates(map[string]interface{}{
			"status":     database.StatusRunning,
			"started_at": &now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark batch %s running: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("batch %s is not in pending state", id)
	}
	return nil
}

// ApplyCounterDeltas increments the batch counters in a single UPDATE. The
// increment expressions are built with squirrel and executed through GORM so
// concurrent batches never overwrite each other's counts.
func (r *BatchRepository) ApplyCounterDeltas(id string, deltas CounterDeltas) error {
	if deltas.IsZero() {
		return nil
	}

	queryBuilder := psql.Update("import_batches").
		Set("files_found", sq.Expr("files_found + ?", deltas.FilesFound)).
		Set("photos_created", sq.Expr("photos_created + ?", deltas.PhotosCreated)).
		Set("partial_merges", sq.Expr("partial_merges + ?", deltas.PartialMerges)).
		Set("duplicates_skipped", sq.Expr("duplicates_skipped + ?", deltas.DuplicatesSkipped)).
		Set("raw_without_jpeg_skipped", sq.Expr("raw_without_jpeg_skipped + ?", deltas.RawWithoutJpegSkipped)).
		Set("errors", sq.Expr("errors + ?", deltas.Errors)).
		Where(sq.Eq{"id": id})

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL query for ApplyCounterDeltas: %w", err)
	}

	if err := r.DB.Exec(sqlStr, args...).Error; err != nil {
		return fmt.Errorf("failed to apply counter deltas for batch %s: %w", id, err)
	}
	return nil
}

// AppendErrorEntries appends per-item errors to the batch's bounded log.
// Entries past logCap are dropped; the errors counter keeps the true count.
func (r *BatchRepository) AppendErrorEntries(id string, entries []models.ImportError, logCap int) error {
	if len(entries) == 0 {
		return nil
	}

	return r.DB.Transaction(func(tx *gorm.DB) error {
		var batch models.ImportBatch
		if err := tx.Where("id = ?", id).First(&batch).Error; err != nil {
			return fmt.Errorf("failed to load batch %s for error log append: %w", id, err)
		}

		if len(batch.ErrorLog) >= logCap {
			return nil
		}

		room := logCap - len(batch.ErrorLog)
		if len(entries) > room {
			entries = entries[:room]
		}
		batch.ErrorLog = append(batch.ErrorLog, entries...)

		// updating through the loaded model runs the column's JSON serializer;
		// a raw column update would hand the slice straight to the driver
		if err := tx.Model(&batch).Select("error_log").Updates(&batch).Error; err != nil {
			return fmt.Errorf("failed to append error log for batch %s: %w", id, err)
		}
		return nil
	})
}

// MarkCompleted transitions a running batch to its completed terminal state
func (r *BatchRepository) MarkCompleted(id string) error {
	return r.markTerminal(id, database.StatusCompleted, nil)
}

// MarkFailed transitions a running batch to failed and records the root fault
func (r *BatchRepository) MarkFailed(id string, failure error) error {
	var msg *string
	if failure != nil {
		s := failure.Error()
		msg = &s
	}
	return r.markTerminal(id, database.StatusFailed, msg)
}

func (r *BatchRepository) markTerminal(id, status string, errMsg *string) error {
	now := time.Now().Unix()
	result := r.DB.Model(&models.ImportBatch{}).
		Where("id = ? AND status = ?", id, database.StatusRunning).
		Updates(map[string]interface{}{
			"status":        status,
			"finished_at":   &now,
			"error_message": errMsg,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark batch %s %s: %w", id, status, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("batch %s is not in running state", id)
	}
	return nil
}
