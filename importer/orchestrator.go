package importer

import (
	"errors"
	"log"

	"github.com/imalink-project/imalink-sub001/models"
	"github.com/imalink-project/imalink-sub001/repository"
)

// Orchestrator drives one import batch over a source directory: scan, group,
// disposition every group, and keep the batch record's counters fresh.
type Orchestrator struct {
	engine  *Engine
	batches repository.BatchRepositoryInterface

	flushEvery int // counter flush interval, in processed groups
	logCap     int // bounded error log size
}

// NewOrchestrator creates an orchestrator; flushEvery and logCap fall back to
// sane values when unset.
func NewOrchestrator(engine *Engine, batches repository.BatchRepositoryInterface, flushEvery, logCap int) *Orchestrator {
	if flushEvery <= 0 {
		flushEvery = 25
	}
	if logCap <= 0 {
		logCap = 100
	}
	return &Orchestrator{engine: engine, batches: batches, flushEvery: flushEvery, logCap: logCap}
}

// Run executes the batch to a terminal state. Only root-level faults fail the
// batch; per-item errors are swallowed into the counters and the bounded
// error log. A close of stop makes the run wind down after the in-flight
// group instead of starting new ones.
func (o *Orchestrator) Run(batchID, sourceRoot string, stop <-chan struct{}) {
	if err := o.batches.MarkRunning(batchID); err != nil {
		log.Printf("importer: cannot start batch %s: %v", batchID, err)
		return
	}

	files, err := ScanSource(sourceRoot)
	if err != nil {
		log.Printf("importer: batch %s failed: %v", batchID, err)
		if markErr := o.batches.MarkFailed(batchID, err); markErr != nil {
			log.Printf("importer: failed to mark batch %s failed: %v", batchID, markErr)
		}
		return
	}

	groups := GroupFiles(files)
	log.Printf("importer: batch %s: %d files in %d groups under %s", batchID, len(files), len(groups), sourceRoot)

	deltas := repository.CounterDeltas{FilesFound: int64(len(files))}
	var pendingErrors []models.ImportError
	processed := 0

	flush := func() {
		if err := o.batches.ApplyCounterDeltas(batchID, deltas); err != nil {
			log.Printf("importer: counter flush failed for batch %s: %v", batchID, err)
		} else {
			deltas = repository.CounterDeltas{}
		}
		if err := o.batches.AppendErrorEntries(batchID, pendingErrors, o.logCap); err != nil {
			log.Printf("importer: error log flush failed for batch %s: %v", batchID, err)
		} else {
			pendingErrors = nil
		}
	}

	for _, group := range groups {
		select {
		case <-stop:
			log.Printf("importer: batch %s stopping early: %d/%d groups processed", batchID, processed, len(groups))
			flush()
			if err := o.batches.MarkFailed(batchID, errors.New("import interrupted by shutdown")); err != nil {
				log.Printf("importer: failed to mark batch %s failed: %v", batchID, err)
			}
			return
		default:
		}

		outcome := o.engine.ProcessGroup(batchID, group)
		switch outcome.Kind {
		case OutcomeNew:
			deltas.PhotosCreated++
		case OutcomeDuplicate:
			deltas.DuplicatesSkipped++
		case OutcomePartial:
			deltas.PartialMerges++
		case OutcomeSkipped:
			if outcome.SkipReason == SkipReasonRawWithoutJpeg {
				deltas.RawWithoutJpegSkipped++
			}
		case OutcomeError:
			deltas.Errors++
			file := group.Stem
			if m := group.Master(); m != nil {
				file = m.Name
			}
			pendingErrors = append(pendingErrors, models.ImportError{File: file, Message: outcome.Err.Error()})
			log.Printf("importer: batch %s: group %s: %v", batchID, group.Stem, outcome.Err)
		}

		processed++
		if processed%o.flushEvery == 0 {
			flush()
		}
	}

	flush()
	if err := o.batches.MarkCompleted(batchID); err != nil {
		log.Printf("importer: failed to mark batch %s completed: %v", batchID, err)
		return
	}
	log.Printf("importer: batch %s completed (%d groups)", batchID, processed)
}
