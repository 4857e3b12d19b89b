package preferences

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"streamerverse/models"
)

var (
	ErrStorageDirRequired = errors.New("storage directory not provided")
	ErrUserIDRequired     = errors.New("user id is required")
	ErrThemeRequired      = errors.New("theme is required")
)

// Service manages persistence of per-user UI preferences (theme, accent
// color, autoplay). Storage goes through afero so tests run on a memory fs.
type Service struct {
	mu    sync.RWMutex
	fs    afero.Fs
	path  string
	prefs map[int64]models.Preferences
}

// NewService creates a preferences service storing data inside the provided
// directory on the given filesystem.
func NewService(fsys afero.Fs, storageDir string) (*Service, error) {
	if strings.TrimSpace(storageDir) == "" {
		return nil, ErrStorageDirRequired
	}

	if err := fsys.MkdirAll(storageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create preferences dir: %w", err)
	}

	svc := &Service{
		fs:    fsys,
		path:  filepath.Join(storageDir, "preferences.json"),
		prefs: make(map[int64]models.Preferences),
	}

	if err := svc.load(); err != nil {
		return nil, err
	}

	return svc, nil
}

// Get returns the user's preferences, falling back to defaults when the
// user has never saved any.
func (s *Service) Get(userID int64) (models.Preferences, error) {
	if userID <= 0 {
		return models.Preferences{}, ErrUserIDRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.prefs[userID]; ok {
		return p, nil
	}
	return models.DefaultPreferences(), nil
}

// Set replaces the user's preferences.
func (s *Service) Set(userID int64, p models.Preferences) (models.Preferences, error) {
	if userID <= 0 {
		return models.Preferences{}, ErrUserIDRequired
	}
	if strings.TrimSpace(p.Theme) == "" {
		return models.Preferences{}, ErrThemeRequired
	}

	p.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs[userID] = p
	if err := s.saveLocked(); err != nil {
		return models.Preferences{}, err
	}

	return p, nil
}

func (s *Service) load() error {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read preferences: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var byUser map[string]models.Preferences
	if err := json.Unmarshal(data, &byUser); err != nil {
		return fmt.Errorf("decode preferences: %w", err)
	}

	for key, p := range byUser {
		userID, err := strconv.ParseInt(key, 10, 64)
		if err != nil || userID <= 0 {
			continue
		}
		s.prefs[userID] = p
	}

	return nil
}

func (s *Service) saveLocked() error {
	byUser := make(map[string]models.Preferences, len(s.prefs))
	for userID, p := range s.prefs {
		byUser[strconv.FormatInt(userID, 10)] = p
	}

	data, err := json.MarshalIndent(byUser, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write preferences temp file: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace preferences file: %w", err)
	}

	return nil
}
