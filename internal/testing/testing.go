// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/jihohub/track-list-now/internal/services"
)

// MockCatalog is a test double for [services.Catalog]. Responses are served
// from the configured records; Err, when set, fails every call.
type MockCatalog struct {
	Artists []services.ArtistRecord
	Tracks  []services.TrackRecord
	Err     error
}

func (m *MockCatalog) Authenticate(ctx context.Context) error {
	return m.Err
}

func (m *MockCatalog) SeveralArtists(ctx context.Context, artistIDs []string) ([]services.ArtistRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	byID := make(map[string]services.ArtistRecord, len(m.Artists))
	for _, a := range m.Artists {
		byID[a.ID] = a
	}

	var records []services.ArtistRecord
	for _, id := range artistIDs {
		if a, ok := byID[id]; ok {
			records = append(records, a)
		}
	}
	return records, nil
}

func (m *MockCatalog) SeveralTracks(ctx context.Context, trackIDs []string) ([]services.TrackRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	byID := make(map[string]services.TrackRecord, len(m.Tracks))
	for _, t := range m.Tracks {
		byID[t.ID] = t
	}

	var records []services.TrackRecord
	for _, id := range trackIDs {
		if t, ok := byID[id]; ok {
			records = append(records, t)
		}
	}
	return records, nil
}

func (m *MockCatalog) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
