package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/sonix/internal/formatter"
	"github.com/desertthunder/sonix/internal/models"
	"github.com/desertthunder/sonix/internal/shared"
	"github.com/desertthunder/sonix/internal/subsonic"
)

const (
	defaultWorkers   = 5
	maxWorkers       = 10
	defaultRateLimit = 5.0
)

// ExportOpts contains configuration for exports.
type ExportOpts struct {
	Format     string  // Export format: json, yaml, csv, markdown, txt
	OutputDir  string  // Base output directory (default: sonix_export_{epoch})
	NumWorkers int     // Concurrent file writers (default: 5, max: 10)
	RateLimit  float64 // Requests per second against the server (default: 5)
	Covers     bool    // Download artist cover art for markdown exports
}

type exportJob struct {
	index int
	d     *models.Discography
}

type indexedResult struct {
	index int
	res   models.ArtistExportResult
	d     *models.Discography
}

// limitedClient waits on a shared limiter before every request.
type limitedClient struct {
	subsonic.Client
	limiter *rate.Limiter
}

func (c limitedClient) Invoke(ctx context.Context, op string, q subsonic.Query) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.Client.Invoke(ctx, op, q)
}

func (c limitedClient) InvokeBytes(ctx context.Context, op string, q subsonic.Query) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.Client.InvokeBytes(ctx, op, q)
}

// Export exports many artists with rate limiting and progress tracking.
//
// Artists are fetched one at a time by a single producer, so the server sees at most
// RateLimit requests per second. Writing files is done by a pool of workers. A failed
// artist is recorded in the result and does not stop the run. A manifest summarizing the
// results is written to the output directory.
func (e *ExportEngine) Export(ctx context.Context, progress chan<- ProgressUpdate, ids []uint64, opts ExportOpts) (*models.ExportResult, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: client not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Format == "" {
		opts.Format = "json"
	}
	if !slices.Contains(shared.ExportFormats, opts.Format) {
		return nil, fmt.Errorf("%w: format %q", shared.ErrInvalidFlag, opts.Format)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("sonix_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	opts.NumWorkers = min(opts.NumWorkers, maxWorkers)
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	client := limitedClient{Client: e.client, limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1)}

	if len(ids) == 0 {
		e.sendProgress(progress, fetchIndexUpdate())
		all, err := allArtistIDs(ctx, client)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch artist index: %w", err)
		}
		ids = all
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &models.ExportResult{
		TotalArtists:    len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]models.ArtistExportResult, 0, len(ids)),
	}

	jobs := make(chan exportJob, len(ids))
	results := make(chan indexedResult, len(ids))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, client, &wg, jobs, results, opts)
	}

	// The producer counts as a sender on results, so results closes only after it returns.
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(jobs)
		for i, id := range ids {
			if ctx.Err() != nil {
				return
			}

			e.sendProgress(progress, fetchArtistUpdate(i+1, len(ids), id))
			d, err := e.discography(ctx, client, nil, id)
			if err != nil {
				results <- indexedResult{index: i, res: models.ArtistExportResult{
					ArtistID:   id,
					ArtistName: fmt.Sprintf("Unknown (%d)", id),
					Error:      fmt.Errorf("failed to fetch artist: %w", err),
				}}
				continue
			}

			e.sendProgress(progress, exportingArtistUpdate(i+1, len(ids), d.Artist.Name))
			jobs <- exportJob{index: i, d: d}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]indexedResult, 0, len(ids))
	for r := range results {
		collected = append(collected, r)

		if r.res.Success {
			result.SuccessfulExports++
			e.sendProgress(progress, exportCompletedUpdate(len(collected), len(ids), r.res.ArtistName, len(r.res.Files)))

			// Snapshots are written from this goroutine only; SQLite gets one writer.
			if e.snapshot != nil {
				if err := e.snapshot.Snapshot(*r.d); err != nil {
					result.SnapshotErrors++
					e.logger.Warn("snapshot failed", "artist", r.res.ArtistName, "err", err)
					e.sendProgress(progress, snapshotFailedUpdate(r.res.ArtistName, err))
				}
			}
		} else {
			result.FailedExports++
			e.sendProgress(progress, exportFailedUpdate(len(collected), len(ids), r.res.ArtistName, r.res.Error))
		}
	}

	slices.SortFunc(collected, func(a, b indexedResult) int { return a.index - b.index })
	for _, r := range collected {
		result.Results = append(result.Results, r.res)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteExportManifest(result, opts.Format, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func allArtistIDs(ctx context.Context, c subsonic.Client) ([]uint64, error) {
	index, err := subsonic.GetArtists(ctx, c, nil)
	if err != nil {
		return nil, err
	}

	var ids []uint64
	for _, group := range index {
		for _, a := range group.Artists {
			ids = append(ids, a.ID)
		}
	}
	return ids, nil
}

// exportWorker is a worker goroutine that writes discographies from the jobs channel.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	client subsonic.Client,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- indexedResult,
	opts ExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			continue
		}
		results <- indexedResult{index: job.index, res: e.exportArtist(ctx, client, job.d, opts), d: job.d}
	}
}

// exportArtist writes a single discography in the requested format.
func (e *ExportEngine) exportArtist(ctx context.Context, client subsonic.Client, d *models.Discography, opts ExportOpts) models.ArtistExportResult {
	result := models.ArtistExportResult{
		ArtistID:   d.Artist.ID,
		ArtistName: d.Artist.Name,
		Files:      []string{},
	}
	base := filepath.Join(opts.OutputDir, formatter.BaseName(d))

	switch opts.Format {
	case "csv":
		csvRes, err := formatter.WriteCSVExport(d, base)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.AlbumsFile, csvRes.MetadataFile}

	case "markdown":
		var cover []byte
		if opts.Covers {
			img, err := d.Artist.CoverArt(ctx, client, nil)
			switch {
			case err == nil:
				cover = img
			case errors.Is(err, subsonic.ErrNoCoverArt):
			default:
				e.logger.Warn("failed to download cover art", "artist", d.Artist.Name, "err", err)
			}
		}

		mdRes, err := formatter.WriteMarkdownExport(d, base, cover)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = mdRes.Files

	case "yaml":
		path, err := formatter.WriteYAMLExport(d, base+".yaml")
		if err != nil {
			result.Error = fmt.Errorf("YAML export failed: %w", err)
			return result
		}
		result.Files = []string{path}

	case "txt":
		path, err := formatter.WriteTextExport(d, base+"_albums.txt")
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{path}

	default:
		path, err := formatter.WriteJSONExport(d, base+".json")
		if err != nil {
			result.Error = fmt.Errorf("JSON export failed: %w", err)
			return result
		}
		result.Files = []string{path}
	}

	result.Success = true
	return result
}
