// Package watchlist manages the curated instrument list: a read-only seed
// sheet shipped as CSV plus user additions persisted as JSON. The merged
// view is what the CLI renders and refreshes.
package watchlist

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/rxtech-lab/boerse-charts/internal/logger"
	"github.com/rxtech-lab/boerse-charts/pkg/errors"
)

// Entry is one watchlist row. The csv tags match the seed sheet's column
// headers verbatim; the json tags shape the user file.
type Entry struct {
	Name            string `csv:"Name" json:"name" validate:"required"`
	Identifier      string `csv:"Identifier" json:"identifier" validate:"required"`
	Market          string `csv:"Market" json:"market,omitempty"`
	Cluster         string `csv:"Cluster" json:"cluster,omitempty"`
	PrimaryTriggers string `csv:"Primary Triggers" json:"primary_triggers,omitempty"`
	EntrySetup      string `csv:"Entry Setup" json:"entry_setup,omitempty"`
	StopRule        string `csv:"Stop Rule" json:"stop_rule,omitempty"`
	TPManagement    string `csv:"TP/Management" json:"tp_management,omitempty"`
	TimeWindow      string `csv:"Time Window (CEST)" json:"time_window,omitempty"`
	Notes           string `csv:"Notes" json:"notes,omitempty"`
}

// Validate validates the Entry struct.
func (e *Entry) Validate() error {
	validate := validator.New()
	if err := validate.Struct(e); err != nil {
		return errors.Wrap(errors.ErrCodeWatchlistSave, "invalid watchlist entry", err)
	}

	return nil
}

// normalize trims surrounding whitespace from every field.
func (e *Entry) normalize() {
	e.Name = strings.TrimSpace(e.Name)
	e.Identifier = strings.TrimSpace(e.Identifier)
	e.Market = strings.TrimSpace(e.Market)
	e.Cluster = strings.TrimSpace(e.Cluster)
	e.PrimaryTriggers = strings.TrimSpace(e.PrimaryTriggers)
	e.EntrySetup = strings.TrimSpace(e.EntrySetup)
	e.StopRule = strings.TrimSpace(e.StopRule)
	e.TPManagement = strings.TrimSpace(e.TPManagement)
	e.TimeWindow = strings.TrimSpace(e.TimeWindow)
	e.Notes = strings.TrimSpace(e.Notes)
}

// Repository is the watchlist surface the CLI depends on.
type Repository interface {
	// Load returns the merged watchlist, sorted by name.
	Load() ([]Entry, error)
	// Add persists a user entry. Adding an identifier that already exists
	// anywhere in the merged list is a no-op.
	Add(entry Entry) error
	// Remove deletes a user entry by identifier. Seed entries cannot be
	// removed.
	Remove(identifier string) error
}

// FileRepository reads the seed CSV (optional) and keeps user entries in a
// JSON file.
type FileRepository struct {
	seedPath string
	userPath string
	logger   *logger.Logger
}

// NewFileRepository creates a repository over the given files. An empty or
// missing seed sheet means no seed entries; userPath is created on the
// first Add.
func NewFileRepository(seedPath, userPath string, log *logger.Logger) *FileRepository {
	return &FileRepository{
		seedPath: seedPath,
		userPath: userPath,
		logger:   log,
	}
}

// Load implements Repository.
func (r *FileRepository) Load() ([]Entry, error) {
	seed, err := r.loadSeed()
	if err != nil {
		return nil, err
	}

	user, err := r.loadUser()
	if err != nil {
		return nil, err
	}

	return merge(seed, user), nil
}

// Add implements Repository.
func (r *FileRepository) Add(entry Entry) error {
	entry.normalize()

	if err := entry.Validate(); err != nil {
		return err
	}

	merged, err := r.Load()
	if err != nil {
		return err
	}

	for _, existing := range merged {
		if existing.Identifier == entry.Identifier {
			r.logger.Debug("Watchlist entry already present",
				zap.String("identifier", entry.Identifier))

			return nil
		}
	}

	user, err := r.loadUser()
	if err != nil {
		return err
	}

	user = append(user, entry)

	return r.saveUser(user)
}

// Remove implements Repository.
func (r *FileRepository) Remove(identifier string) error {
	identifier = strings.TrimSpace(identifier)

	user, err := r.loadUser()
	if err != nil {
		return err
	}

	kept := user[:0]

	for _, entry := range user {
		if entry.Identifier != identifier {
			kept = append(kept, entry)
		}
	}

	if len(kept) == len(user) {
		seed, err := r.loadSeed()
		if err != nil {
			return err
		}

		for _, entry := range seed {
			if entry.Identifier == identifier {
				return errors.Newf(errors.ErrCodeWatchlistNotFound,
					"%s is a seed entry and cannot be removed", identifier)
			}
		}

		return errors.Newf(errors.ErrCodeWatchlistNotFound,
			"no watchlist entry with identifier %s", identifier)
	}

	return r.saveUser(kept)
}

func (r *FileRepository) loadSeed() ([]Entry, error) {
	if r.seedPath == "" {
		return nil, nil
	}

	file, err := os.Open(r.seedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, errors.Wrap(errors.ErrCodeWatchlistLoad, "failed to open seed watchlist", err)
	}
	defer file.Close()

	var entries []Entry
	if err := gocsv.UnmarshalFile(file, &entries); err != nil {
		return nil, errors.Wrap(errors.ErrCodeWatchlistLoad, "failed to parse seed watchlist", err)
	}

	for i := range entries {
		entries[i].normalize()
	}

	return entries, nil
}

func (r *FileRepository) loadUser() ([]Entry, error) {
	raw, err := os.ReadFile(r.userPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, errors.Wrap(errors.ErrCodeWatchlistLoad, "failed to read user watchlist", err)
	}

	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, nil
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrap(errors.ErrCodeWatchlistLoad, "failed to parse user watchlist", err)
	}

	for i := range entries {
		entries[i].normalize()
	}

	return entries, nil
}

func (r *FileRepository) saveUser(entries []Entry) error {
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeWatchlistSave, "failed to serialize user watchlist", err)
	}

	if err := os.WriteFile(r.userPath, raw, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeWatchlistSave, "failed to write user watchlist", err)
	}

	return nil
}

// merge combines seed and user entries. On identifier collision the seed
// entry wins. The result is sorted by name.
func merge(seed, user []Entry) []Entry {
	merged := make([]Entry, 0, len(seed)+len(user))
	merged = append(merged, seed...)

	for _, entry := range user {
		exists := false

		for _, existing := range seed {
			if existing.Identifier == entry.Identifier {
				exists = true

				break
			}
		}

		if !exists {
			merged = append(merged, entry)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Name < merged[j].Name
	})

	return merged
}
