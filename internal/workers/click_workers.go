package workers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	customerrors "github.com/axellelanca/shortlinks/internal/errors"
	"github.com/axellelanca/shortlinks/internal/models"
	"github.com/axellelanca/shortlinks/internal/repository"
	"github.com/rs/zerolog"
)

const writeTimeout = 5 * time.Second

// ClickWorkers is a pool of goroutines turning click events into stored
// Click rows. The pool drains its channel and stops once the channel is closed.
type ClickWorkers struct {
	clickRepo repository.ClickRepository
	ipSalt    string
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// StartClickWorkers launches workerCount goroutines reading from events.
// Close events to stop them, then call Wait.
func StartClickWorkers(workerCount int, events <-chan models.ClickEvent, clickRepo repository.ClickRepository, ipSalt string, log zerolog.Logger) *ClickWorkers {
	if workerCount < 1 {
		workerCount = 1
	}

	w := &ClickWorkers{
		clickRepo: clickRepo,
		ipSalt:    ipSalt,
		log:       log.With().Str("component", "click_workers").Logger(),
	}

	w.log.Info().Int("workers", workerCount).Msg("starting click workers")
	for i := 0; i < workerCount; i++ {
		w.wg.Add(1)
		go w.run(i, events)
	}
	return w
}

// Wait blocks until every worker has exited.
func (w *ClickWorkers) Wait() {
	w.wg.Wait()
}

func (w *ClickWorkers) run(id int, events <-chan models.ClickEvent) {
	defer w.wg.Done()

	for event := range events {
		if err := w.record(event); err != nil {
			w.log.Error().
				Err(err).
				Int("worker", id).
				Str("link_id", event.LinkID).
				Msg("failed to save click event")
			continue
		}
		w.log.Debug().Int("worker", id).Str("link_id", event.LinkID).Msg("click event recorded")
	}
}

func (w *ClickWorkers) record(event models.ClickEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	click := &models.Click{
		LinkID:    event.LinkID,
		Timestamp: event.Timestamp,
		UserAgent: truncate(event.UserAgent, 255),
		IPHash:    HashIP(event.IP, w.ipSalt),
		Referrer:  truncate(event.Referrer, 512),
	}
	if err := w.clickRepo.CreateClick(ctx, click); err != nil {
		return customerrors.ErrClickRecordingFailed{LinkID: event.LinkID, Reason: err.Error()}
	}
	return nil
}

// HashIP returns a salted SHA-256 of ip, or "" when ip is empty.
func HashIP(ip, salt string) string {
	if ip == "" {
		return ""
	}
	h := sha256.Sum256([]byte(ip + "|" + salt))
	return hex.EncodeToString(h[:])
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
