package journal

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Ajay0072005/floodsense-ai/internal/models"
	"github.com/Ajay0072005/floodsense-ai/internal/repository"
)

// Journal persists prediction logs off the request path. Submission never
// blocks: when the buffer is full the record is dropped and counted, and
// persistence errors are logged and swallowed. Losing a log entry is
// acceptable; delaying a risk response is not.
type Journal struct {
	repo    repository.PredictionLogRepository
	entries chan models.PredictionLog
	dropped func()
	wg      sync.WaitGroup
}

func New(repo repository.PredictionLogRepository, workers, bufferSize int, dropped func()) *Journal {
	j := &Journal{
		repo:    repo,
		entries: make(chan models.PredictionLog, bufferSize),
		dropped: dropped,
	}
	j.start(workers)
	return j
}

func (j *Journal) start(workers int) {
	for i := 0; i < workers; i++ {
		j.wg.Add(1)
		go j.worker()
	}
}

func (j *Journal) worker() {
	defer j.wg.Done()

	for entry := range j.entries {
		if err := j.repo.Add(context.Background(), &entry); err != nil {
			slog.Error("prediction log persist failed", "id", entry.ID, "error", err)
		}
	}
}

// Submit enqueues a log entry, dropping it if the buffer is full.
func (j *Journal) Submit(entry models.PredictionLog) {
	select {
	case j.entries <- entry:
	default:
		slog.Warn("prediction journal full, dropping entry", "id", entry.ID)
		if j.dropped != nil {
			j.dropped()
		}
	}
}

// Stop drains queued entries and waits for workers to finish.
func (j *Journal) Stop() {
	close(j.entries)
	j.wg.Wait()
	slog.Info("prediction journal stopped")
}
