package repositories

import (
	"fmt"

	"github.com/desertthunder/sonix/internal/models"
)

// SnapshotAdapter implements tasks.Snapshotter using LibraryRepository.
//
// Each exported discography replaces the stored snapshot of the same artist.
type SnapshotAdapter struct {
	repo *LibraryRepository
}

// NewSnapshotAdapter creates a new SnapshotAdapter with the given repository
func NewSnapshotAdapter(repo *LibraryRepository) *SnapshotAdapter {
	return &SnapshotAdapter{repo: repo}
}

// Snapshot stores the artist and albums of d.
func (a *SnapshotAdapter) Snapshot(d models.Discography) error {
	if err := a.repo.Save(models.NewArtistRecord(d)); err != nil {
		return fmt.Errorf("failed to snapshot artist %d: %w", d.Artist.ID, err)
	}
	return nil
}
