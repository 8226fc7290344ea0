package importer

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/imalink-project/imalink-sub001/database"
	"github.com/imalink-project/imalink-sub001/models"
	"github.com/imalink-project/imalink-sub001/repository"
)

type batchJob struct {
	BatchID    string
	SourceRoot string
}

// Manager runs import batches on a background worker pool. Each worker runs
// one whole batch at a time; batches only mutate their own counters, so
// several may run concurrently against the same metadata store.
type Manager struct {
	JobQueue     chan batchJob
	Orchestrator *Orchestrator
	Batches      repository.BatchRepositoryInterface
	Wg           sync.WaitGroup
	StopChan     chan struct{}
}

// NewManager starts the worker pool
func NewManager(orchestrator *Orchestrator, batches repository.BatchRepositoryInterface, queueSize, numWorkers int) *Manager {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 16
	}

	m := &Manager{
		JobQueue:     make(chan batchJob, queueSize),
		Orchestrator: orchestrator,
		Batches:      batches,
		StopChan:     make(chan struct{}),
	}

	m.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go m.worker(i)
	}
	log.Printf("started %d import worker(s) with queue size %d", numWorkers, queueSize)

	return m
}

func (m *Manager) worker(id int) {
	defer m.Wg.Done()
	log.Printf("import worker %d started", id)
	for {
		select {
		case job, ok := <-m.JobQueue:
			if !ok {
				log.Printf("import worker %d stopping: job queue closed", id)
				return
			}
			log.Printf("worker %d running import batch %s over %s", id, job.BatchID, job.SourceRoot)
			m.Orchestrator.Run(job.BatchID, job.SourceRoot, m.StopChan)

		case <-m.StopChan:
			log.Printf("import worker %d stopping: stop signal received", id)
			return
		}
	}
}

// StartImport creates a pending batch for the source root and queues it for
// processing. The returned batch ID can be polled with GetBatchStatus.
func (m *Manager) StartImport(sourceRoot string) (string, error) {
	batch := &models.ImportBatch{
		ID:         uuid.NewString(),
		SourceRoot: sourceRoot,
		Status:     database.StatusPending,
		CreatedAt:  time.Now().Unix(),
	}
	if err := m.Batches.Create(batch); err != nil {
		return "", fmt.Errorf("failed to create import batch: %w", err)
	}

	select {
	case m.JobQueue <- batchJob{BatchID: batch.ID, SourceRoot: sourceRoot}:
		log.Printf("queued import batch %s for: %s", batch.ID, sourceRoot)
		return batch.ID, nil
	default:
		log.Printf("WARNING: import job queue full, failing batch %s", batch.ID)
		queueErr := fmt.Errorf("import queue full")
		if err := m.Batches.MarkRunning(batch.ID); err == nil {
			if err := m.Batches.MarkFailed(batch.ID, queueErr); err != nil {
				log.Printf("failed to mark batch %s failed: %v", batch.ID, err)
			}
		}
		return "", queueErr
	}
}

// GetBatchStatus returns the batch record with its counters and error log
func (m *Manager) GetBatchStatus(batchID string) (*models.ImportBatch, error) {
	return m.Batches.GetByID(batchID)
}

// Stop shuts the pool down: queued batches are abandoned, in-flight batches
// wind down after their current group.
func (m *Manager) Stop() {
	log.Println("stopping import workers...")
	close(m.StopChan)
	m.Wg.Wait()
	log.Println("all import workers stopped")
}
