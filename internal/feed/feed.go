// Package feed is the read-only view over the externally produced
// contest list. The file is re-read on every call so each daily cycle
// sees whatever the upstream scraper last wrote.
package feed

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/uthkarsh2006/contestbot/internal/domain"
)

// ErrDataUnavailable marks a missing or corrupt feed file in logs.
var ErrDataUnavailable = errors.New("contest feed unavailable")

// File reads contest records from a JSON file.
type File struct {
	path string
	log  *zap.Logger
}

// NewFile creates a feed over the JSON file at path.
func NewFile(path string, log *zap.Logger) *File {
	return &File{path: path, log: log}
}

// All returns every contest in the feed, in source order. A missing or
// malformed file degrades to an empty list with a logged warning; it
// never errors to the caller.
func (f *File) All() []domain.Contest {
	data, err := os.ReadFile(f.path)
	if err != nil {
		f.log.Warn("contest feed unreadable",
			zap.String("path", f.path),
			zap.NamedError("reason", ErrDataUnavailable),
			zap.Error(err),
		)
		return nil
	}
	var contests []domain.Contest
	if err := json.Unmarshal(data, &contests); err != nil {
		f.log.Warn("contest feed malformed",
			zap.String("path", f.path),
			zap.NamedError("reason", ErrDataUnavailable),
			zap.Error(err),
		)
		return nil
	}
	return contests
}

// TodayContests filters the feed to records whose date string exactly
// equals now's date, preserving source order. No timezone handling
// beyond the host clock.
func (f *File) TodayContests(now time.Time) []domain.Contest {
	today := domain.DateString(now)
	var out []domain.Contest
	for _, c := range f.All() {
		if c.Date == today {
			out = append(out, c)
		}
	}
	return out
}
