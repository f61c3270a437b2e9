package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"algoridigm/internal/models"
	"algoridigm/internal/presentation"
)

// PresentationStore keeps the presenter's place in a JSON file so a restarted
// server resumes on the same slide. Mute is never stored.
type PresentationStore struct {
	mu       sync.Mutex
	filePath string
	logger   *zap.Logger
	loaded   *models.PresentationSnapshot
	latest   models.PresentationSnapshot
	dirty    chan struct{}
	now      func() time.Time
}

// NewPresentationStore creates a store backed by filePath and loads any
// previous snapshot
func NewPresentationStore(filePath string, logger *zap.Logger) (*PresentationStore, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	store := &PresentationStore{
		filePath: filePath,
		logger:   logger,
		dirty:    make(chan struct{}, 1),
		now:      time.Now,
	}
	if err := store.load(); err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return store, nil
}

// load reads the snapshot file. A missing or corrupt file leaves nothing to restore.
func (s *PresentationStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		s.logger.Info("Session file not found, starting fresh", zap.String("path", s.filePath))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var snap models.PresentationSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("Failed to parse session file, starting fresh", zap.Error(err))
		return nil
	}
	s.loaded = &snap
	s.latest = snap
	return nil
}

// Snapshot returns the snapshot read at startup, if any
func (s *PresentationStore) Snapshot() (models.PresentationSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded == nil {
		return models.PresentationSnapshot{}, false
	}
	return *s.loaded, true
}

// Restore moves seq to the saved slide. Out of range slides from an older
// deck are ignored by the sequencer.
func (s *PresentationStore) Restore(seq *presentation.Sequencer) bool {
	snap, ok := s.Snapshot()
	if !ok {
		return false
	}
	seq.GoToSlide(snap.Slide)
	s.logger.Info("Presentation restored",
		zap.Int("slide", snap.Slide),
		zap.Time("savedAt", snap.SavedAt))
	return true
}

// Track records slide changes from seq. Writes happen in Run.
func (s *PresentationStore) Track(seq *presentation.Sequencer) (cancel func()) {
	return seq.Watch(func(state models.PresentationState) {
		s.mu.Lock()
		changed := state.CurrentSlide != s.latest.Slide
		if changed {
			s.latest.Slide = state.CurrentSlide
		}
		s.mu.Unlock()

		if changed {
			select {
			case s.dirty <- struct{}{}:
			default:
			}
		}
	})
}

// Run writes tracked changes until ctx is done, then flushes once more
func (s *PresentationStore) Run(ctx context.Context) {
	for {
		select {
		case <-s.dirty:
			if err := s.Save(); err != nil {
				s.logger.Error("Failed to save session", zap.Error(err))
			}
		case <-ctx.Done():
			select {
			case <-s.dirty:
				if err := s.Save(); err != nil {
					s.logger.Error("Failed to save session", zap.Error(err))
				}
			default:
			}
			return
		}
	}
}

// Save atomically writes the latest snapshot (temp file, sync, rename)
func (s *PresentationStore) Save() error {
	s.mu.Lock()
	s.latest.SavedAt = s.now().UTC()
	data, err := json.MarshalIndent(s.latest, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tempPath := s.filePath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open temp file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	file.Close()

	if err := os.Rename(tempPath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
