package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/sonix/internal/repositories"
	"github.com/desertthunder/sonix/internal/shared"
	"github.com/desertthunder/sonix/internal/tasks"
	"github.com/desertthunder/sonix/internal/ui"
)

// Export writes the discographies of the given artists, or of every artist, to disk.
//
// Flags override the [export] section of the config. With --db every exported artist is
// also snapshotted into the library database.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.client()
	if err != nil {
		return err
	}

	ids := make([]uint64, 0, cmd.NArg())
	for i := range cmd.NArg() {
		id, err := argID(cmd, i, "id")
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	opts := tasks.ExportOpts{
		Format:     r.config.Export.Format,
		OutputDir:  r.config.Export.OutputDir,
		NumWorkers: r.config.Export.Workers,
		RateLimit:  r.config.Export.RateLimit,
		Covers:     cmd.Bool("covers"),
	}
	if cmd.IsSet("format") {
		opts.Format = cmd.String("format")
	}
	if cmd.IsSet("output") {
		opts.OutputDir = cmd.String("output")
	}
	if cmd.IsSet("workers") {
		opts.NumWorkers = cmd.Int("workers")
	}
	if cmd.IsSet("rate-limit") {
		opts.RateLimit = cmd.Float("rate-limit")
	}

	engine := r.engine
	if cmd.Bool("db") {
		db, err := shared.OpenDatabase(r.config.Database)
		if err != nil {
			return fmt.Errorf("failed to open library database: %w", err)
		}
		defer db.Close()

		snapshot := repositories.NewSnapshotAdapter(repositories.NewLibraryRepository(db))
		engine = tasks.NewExportEngine(svc, snapshot, r.logger)
	}

	if len(ids) == 0 {
		r.logger.Info("exporting every artist in the library")
	} else {
		r.logger.Info("exporting artists", "count", len(ids))
	}

	progress := make(chan tasks.ProgressUpdate, 100)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for u := range progress {
			r.writePlain("%s %s\n", ui.Bar(u.Step, u.Total, 20), u.Message)
		}
	}()

	result, err := engine.Export(ctx, progress, ids, opts)
	close(progress)
	wg.Wait()

	if result == nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlainln("%s", ui.Title("Export summary"))
	r.writePlain("%s\n", ui.KeyValue("Artists", result.TotalArtists))
	r.writePlain("%s\n", ui.KeyValue("Exported", result.SuccessfulExports))
	r.writePlain("%s\n", ui.KeyValue("Failed", result.FailedExports))
	if cmd.Bool("db") {
		r.writePlain("%s\n", ui.KeyValue("Snapshot errors", result.SnapshotErrors))
	}
	r.writePlain("%s\n", ui.KeyValue("Directory", result.OutputDirectory))
	if result.ManifestPath != "" {
		r.writePlain("%s\n", ui.KeyValue("Manifest", result.ManifestPath))
	}

	for _, res := range result.Results {
		if !res.Success {
			r.writePlain("%s\n", ui.Err("%s: %v", res.ArtistName, res.Error))
		}
	}

	if err != nil {
		return err
	}
	if result.SuccessfulExports == 0 && result.TotalArtists > 0 {
		return errors.New("no artists were exported")
	}
	return nil
}

// Library lists the artists stored by export --db.
func (r *Runner) Library(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to open library database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewLibraryRepository(db)
	artists, err := repo.List(map[string]any{
		"name":  cmd.String("name"),
		"limit": cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type album struct {
			ID        uint64 `json:"id"`
			Name      string `json:"name"`
			Year      uint64 `json:"year,omitempty"`
			SongCount uint64 `json:"song_count"`
			Duration  uint64 `json:"duration"`
		}
		type artist struct {
			ID         uint64  `json:"id"`
			Name       string  `json:"name"`
			AlbumCount uint64  `json:"album_count"`
			ExportedAt string  `json:"exported_at"`
			Albums     []album `json:"albums"`
		}

		out := make([]artist, 0, len(artists))
		for _, a := range artists {
			entry := artist{
				ID:         a.ServerID,
				Name:       a.Name,
				AlbumCount: a.AlbumCount,
				ExportedAt: a.CreatedAt().Format(time.RFC3339),
				Albums:     make([]album, 0, len(a.Albums)),
			}
			for _, al := range a.Albums {
				entry.Albums = append(entry.Albums, album{
					ID: al.ServerID, Name: al.Name, Year: al.Year, SongCount: al.SongCount, Duration: al.Duration,
				})
			}
			out = append(out, entry)
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	if len(artists) == 0 {
		r.writePlain("No artists stored. Run 'sonix export --db' first.\n")
		return nil
	}

	r.writePlain("Found %d artists:\n\n", len(artists))
	for i, a := range artists {
		r.writePlain("%d. %s\n", i+1, a.Name)
		r.writePlain("%s\n", ui.KeyValue("ID", a.ServerID))
		r.writePlain("%s\n", ui.KeyValue("Albums", len(a.Albums)))
		r.writePlain("%s\n", ui.KeyValue("Exported", a.CreatedAt().Format("2006-01-02 15:04")))
		r.writePlain("\n")
	}
	return nil
}
