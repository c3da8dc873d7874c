package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-bold/internal/archive"
)

// openArchive opens the store named by --db. It returns nil when archiving
// is disabled.
func (a *app) openArchive() (*archive.Store, error) {
	path := a.v.GetString("db")
	if path == "" {
		return nil, nil
	}
	s, err := archive.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open archive %s", path)
	}
	return s, nil
}

// record archives run when --db is set.
func (a *app) record(ctx context.Context, run *archive.Run, series ...archive.Series) error {
	s, err := a.openArchive()
	if err != nil || s == nil {
		return err
	}
	defer s.Close()

	if err := s.SaveRun(ctx, run, series...); err != nil {
		return errors.Wrap(err, "failed to archive run")
	}
	a.log.WithFields(log.Fields{
		"id":   run.ID,
		"kind": run.Kind,
	}).Info("archived run")
	return nil
}

// timer measures a command's solver time for the archive.
type timer struct{ start time.Time }

func startTimer() timer { return timer{start: time.Now()} }

func (t timer) elapsed() time.Duration { return time.Since(t.start) }
