// package models defines the records exported and persisted by sonix
package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/sonix/internal/subsonic"
)

// Model defines the base interface for all persistent records in the library snapshot.
type Model interface {
	ID() string           // ID returns the unique identifier for this record
	CreatedAt() time.Time // CreatedAt returns when this record was written
	Validate() error      // Validate checks if the record's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific record types.
type Repository[T Model] interface {
	Save(model T) error                        // Save inserts the record or replaces the stored one with the same server id
	Get(id string) (T, error)                  // Get retrieves a record by its ID
	Delete(id string) error                    // Delete removes a record from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all records matching the given criteria
}

// Discography is an artist together with the full, reconciled list of its albums.
type Discography struct {
	Artist subsonic.Artist  `json:"artist"`
	Albums []subsonic.Album `json:"albums"`
}

// TotalDuration sums the duration of every album, in seconds.
func (d Discography) TotalDuration() uint64 {
	var total uint64
	for _, a := range d.Albums {
		total += a.Duration
	}
	return total
}

// TotalSongs sums the song count of every album.
func (d Discography) TotalSongs() uint64 {
	var total uint64
	for _, a := range d.Albums {
		total += a.SongCount
	}
	return total
}

// ArtistRecord is a snapshot of an artist as stored in the library database.
type ArtistRecord struct {
	id         string
	ServerID   uint64
	Name       string
	AlbumCount uint64
	CoverArt   string
	Albums     []AlbumRecord
	exportedAt time.Time
}

// AlbumRecord is a snapshot of an album belonging to an [ArtistRecord].
type AlbumRecord struct {
	ID        string
	ServerID  uint64
	Name      string
	SongCount uint64
	Duration  uint64
	Year      uint64
	Genre     string
	CoverArt  string
}

// NewArtistRecord converts a discography into a record ready to be saved.
func NewArtistRecord(d Discography) *ArtistRecord {
	cover, _ := d.Artist.CoverID()
	r := &ArtistRecord{
		ServerID:   d.Artist.ID,
		Name:       d.Artist.Name,
		AlbumCount: d.Artist.AlbumCount,
		CoverArt:   cover,
		Albums:     make([]AlbumRecord, 0, len(d.Albums)),
		exportedAt: time.Now().UTC(),
	}

	for _, a := range d.Albums {
		cover, _ := a.CoverID()
		r.Albums = append(r.Albums, AlbumRecord{
			ServerID:  a.ID,
			Name:      a.Name,
			SongCount: a.SongCount,
			Duration:  a.Duration,
			Year:      a.Year,
			Genre:     a.Genre,
			CoverArt:  cover,
		})
	}
	return r
}

// RestoreArtistRecord rebuilds a record read back from storage.
func RestoreArtistRecord(id string, exportedAt time.Time) *ArtistRecord {
	return &ArtistRecord{id: id, exportedAt: exportedAt}
}

func (r *ArtistRecord) ID() string           { return r.id }
func (r *ArtistRecord) SetID(id string)      { r.id = id }
func (r *ArtistRecord) CreatedAt() time.Time { return r.exportedAt }

// Validate checks the record before it is written.
func (r *ArtistRecord) Validate() error {
	if r.ServerID == 0 {
		return fmt.Errorf("artist server id is required")
	}
	if r.Name == "" {
		return fmt.Errorf("artist name is required")
	}
	for _, a := range r.Albums {
		if a.ServerID == 0 {
			return fmt.Errorf("album %q of artist %q has no server id", a.Name, r.Name)
		}
	}
	return nil
}

var _ Model = (*ArtistRecord)(nil)

// ArtistExportResult is the outcome of exporting a single artist.
type ArtistExportResult struct {
	ArtistID   uint64
	ArtistName string
	Success    bool
	Files      []string
	Error      error
}

// ExportResult summarizes an export run over many artists.
type ExportResult struct {
	TotalArtists      int
	SuccessfulExports int
	FailedExports     int
	SnapshotErrors    int
	OutputDirectory   string
	ManifestPath      string
	Results           []ArtistExportResult
}
