// package tasks implements multi-request library operations on top of package subsonic.
//
// Operations emit progress updates via channels for non-blocking status reporting to the CLI.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/sonix/internal/models"
	"github.com/desertthunder/sonix/internal/shared"
	"github.com/desertthunder/sonix/internal/subsonic"
)

// LibraryEngine defines operations spanning several requests against one server.
type LibraryEngine interface {
	// Discography fetches an artist and its full, reconciled album list.
	Discography(ctx context.Context, progress chan<- ProgressUpdate, id uint64) (*models.Discography, error)

	// Similar fetches the artists similar to id and upgrades those present on the server.
	Similar(ctx context.Context, progress chan<- ProgressUpdate, id uint64, count int) (*SimilarResult, error)

	// Export writes the discographies of the given artists (all artists when empty) to disk.
	Export(ctx context.Context, progress chan<- ProgressUpdate, ids []uint64, opts ExportOpts) (*models.ExportResult, error)
}

// Snapshotter persists exported discographies (repositories.SnapshotAdapter).
type Snapshotter interface {
	Snapshot(d models.Discography) error
}

// SimilarResult splits similar artists by whether the server knows them.
type SimilarResult struct {
	Artist   *subsonic.Artist
	OnServer []subsonic.Artist        // upgraded to full artists
	Missing  []subsonic.SimilarArtist // suggestions absent from the library
	Failed   map[string]error         // upgrade failures keyed by name
}

// ExportEngine implements LibraryEngine against a [subsonic.Client].
type ExportEngine struct {
	client   subsonic.Client
	snapshot Snapshotter
	logger   *log.Logger
}

var _ LibraryEngine = (*ExportEngine)(nil)

// NewExportEngine creates a new ExportEngine. snapshot may be nil.
func NewExportEngine(client subsonic.Client, snapshot Snapshotter, logger *log.Logger) *ExportEngine {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &ExportEngine{
		client:   client,
		snapshot: snapshot,
		logger:   shared.WithLogger(logger, "engine", "export"),
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Discography fetches an artist and its albums.
//
// At most two requests are made: getArtist, and a second one only when the embedded
// album list disagrees with the declared album count.
func (e *ExportEngine) Discography(ctx context.Context, progress chan<- ProgressUpdate, id uint64) (*models.Discography, error) {
	return e.discography(ctx, e.client, progress, id)
}

func (e *ExportEngine) discography(ctx context.Context, c subsonic.Client, progress chan<- ProgressUpdate, id uint64) (*models.Discography, error) {
	artist, err := subsonic.GetArtist(ctx, c, id)
	if err != nil {
		return nil, err
	}

	albums, err := artist.Albums(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch albums of %s: %w", artist.Name, err)
	}

	d := &models.Discography{Artist: *artist, Albums: albums}
	e.sendProgress(progress, fetchAlbumsUpdate(d))
	return d, nil
}

// Similar resolves the similar artists of id.
//
// Suggestions with an ID are upgraded one by one. A suggestion the server no longer knows
// is reported under Missing along with those that never had an ID.
func (e *ExportEngine) Similar(ctx context.Context, progress chan<- ProgressUpdate, id uint64, count int) (*SimilarResult, error) {
	artist, err := subsonic.GetArtist(ctx, e.client, id)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchSimilarUpdate(artist.Name))

	var countArg *int
	if count > 0 {
		countArg = &count
	}
	includeNotPresent := true

	info, err := artist.Info(ctx, e.client, countArg, &includeNotPresent)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artist info: %w", err)
	}

	result := &SimilarResult{Artist: artist, Failed: map[string]error{}}
	total := len(info.SimilarArtists)
	for i, s := range info.SimilarArtists {
		e.sendProgress(progress, upgradeSimilarUpdate(i+1, total, s.Name))

		full, err := s.Upgrade(ctx, e.client)
		switch {
		case err == nil:
			result.OnServer = append(result.OnServer, *full)
		case errors.Is(err, subsonic.ErrNotFound):
			result.Missing = append(result.Missing, s)
		default:
			e.logger.Warn("upgrade failed", "artist", s.Name, "err", err)
			result.Failed[s.Name] = err
		}
	}
	return result, nil
}
