// Package maintenance runs background housekeeping for the catalog.
package maintenance

import (
	"time"

	"github.com/isandoval/librarian-be/internal/services"
	"github.com/isandoval/librarian-be/internal/storage"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// minAge protects freshly uploaded files from being swept while their book
// insert is still in flight.
const minAge = time.Hour

// Sweeper periodically deletes uploaded cover files that no book references.
type Sweeper struct {
	bookSvc services.BookServiceProvider
	covers  *storage.CoverStore
	cron    *cron.Cron
}

// NewSweeper creates a Sweeper on the given schedule (standard cron
// expression or a descriptor like "@daily").
func NewSweeper(bookSvc services.BookServiceProvider, covers *storage.CoverStore, schedule string) (*Sweeper, error) {
	s := &Sweeper{
		bookSvc: bookSvc,
		covers:  covers,
		cron:    cron.New(),
	}
	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins running the sweep on its schedule.
func (s *Sweeper) Start() {
	log.Info().Msg("Starting cover sweeper")
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped cover sweeper")
}

// Sweep removes stored cover files not referenced by any book. Files younger
// than minAge are left alone.
func (s *Sweeper) Sweep() {
	referenced, err := s.bookSvc.ReferencedCovers()
	if err != nil {
		log.Error().Err(err).Msg("Sweep: failed to load referenced covers")
		return
	}

	stored, err := s.covers.List()
	if err != nil {
		log.Error().Err(err).Msg("Sweep: failed to list stored covers")
		return
	}

	removed := 0
	cutoff := time.Now().Add(-minAge)
	for path, modTime := range stored {
		if referenced[path] || modTime.After(cutoff) {
			continue
		}
		if err := s.covers.Remove(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Sweep: failed to remove orphaned cover")
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Msg("Swept orphaned cover files")
	}
}
