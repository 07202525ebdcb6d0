package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/sonix/internal/formatter"
	"github.com/desertthunder/sonix/internal/shared"
	"github.com/desertthunder/sonix/internal/subsonic"
	"github.com/desertthunder/sonix/internal/ui"
)

// ArtistList prints the artist index.
func (r *Runner) ArtistList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.client()
	if err != nil {
		return err
	}

	var folder *uint64
	if cmd.IsSet("folder") {
		v := cmd.Int("folder")
		if v < 0 {
			return fmt.Errorf("%w: --folder must not be negative, got %d", shared.ErrInvalidFlag, v)
		}
		id := uint64(v)
		folder = &id
	}

	index, err := subsonic.GetArtists(ctx, svc, folder)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(index, cmd.Bool("pretty"))
	}

	total := 0
	for _, group := range index {
		r.writePlain("%s\n", ui.Title(group.Name))
		for _, a := range group.Artists {
			r.writePlain("%6d  %s (%d albums)\n", a.ID, a.Name, a.AlbumCount)
			total++
		}
	}
	r.writePlainln("%d artists", total)
	return nil
}

// ArtistGet prints a single artist.
func (r *Runner) ArtistGet(ctx context.Context, cmd *cli.Command) error {
	id, err := argID(cmd, 0, "id")
	if err != nil {
		return err
	}

	svc, err := r.client()
	if err != nil {
		return err
	}

	artist, err := subsonic.GetArtist(ctx, svc, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(artist, cmd.Bool("pretty"))
	}

	r.writePlainHeader(artist.Name)
	r.writePlain("%s\n", ui.KeyValue("ID", artist.ID))
	r.writePlain("%s\n", ui.KeyValue("Albums", artist.AlbumCount))
	if cover, ok := artist.CoverID(); ok {
		r.writePlain("%s\n", ui.KeyValue("Cover", cover))
	}
	return nil
}

// ArtistAlbums prints the reconciled album list of an artist.
func (r *Runner) ArtistAlbums(ctx context.Context, cmd *cli.Command) error {
	id, err := argID(cmd, 0, "id")
	if err != nil {
		return err
	}

	if _, err := r.client(); err != nil {
		return err
	}

	d, err := r.engine.Discography(ctx, nil, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(d, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d albums)", d.Artist.Name, len(d.Albums)))
	for i, a := range d.Albums {
		r.writePlain("%d. %s\n", i+1, a.Name)
		r.writePlain("%s\n", ui.KeyValue("ID", a.ID))
		if a.Year > 0 {
			r.writePlain("%s\n", ui.KeyValue("Year", a.Year))
		}
		r.writePlain("%s\n", ui.KeyValue("Songs", a.SongCount))
		r.writePlain("%s\n", ui.KeyValue("Duration", formatter.FormatDuration(a.Duration)))
	}
	r.writePlainln("Total: %d songs, %s", d.TotalSongs(), formatter.FormatDuration(d.TotalDuration()))
	return nil
}

// ArtistInfo prints what the server's metadata agent knows about an artist.
func (r *Runner) ArtistInfo(ctx context.Context, cmd *cli.Command) error {
	id, err := argID(cmd, 0, "id")
	if err != nil {
		return err
	}

	svc, err := r.client()
	if err != nil {
		return err
	}

	artist, err := subsonic.GetArtist(ctx, svc, id)
	if err != nil {
		return err
	}

	var includeNotPresent *bool
	if cmd.IsSet("all") {
		v := cmd.Bool("all")
		includeNotPresent = &v
	}

	info, err := artist.Info(ctx, svc, optInt(cmd, "count"), includeNotPresent)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(info, cmd.Bool("pretty"))
	}

	r.writePlainHeader(artist.Name)
	if info.Biography != "" {
		r.writePlain("%s\n\n", info.Biography)
	}
	if info.LastFMURL != "" {
		r.writePlain("%s\n", ui.KeyValue("Last.fm", info.LastFMURL))
	}
	if info.MusicBrainzID != "" {
		r.writePlain("%s\n", ui.KeyValue("MusicBrainz", info.MusicBrainzID))
	}

	if len(info.SimilarArtists) > 0 {
		r.writePlainln("Similar artists:")
		for _, s := range info.SimilarArtists {
			if s.OnServer() {
				r.writePlain("  %s [%d]\n", s.Name, s.ID)
			} else {
				r.writePlain("  %s %s\n", s.Name, ui.Help("(not in library)"))
			}
		}
	}
	return nil
}

// ArtistTop prints the most popular songs of an artist.
func (r *Runner) ArtistTop(ctx context.Context, cmd *cli.Command) error {
	id, err := argID(cmd, 0, "id")
	if err != nil {
		return err
	}

	svc, err := r.client()
	if err != nil {
		return err
	}

	artist, err := subsonic.GetArtist(ctx, svc, id)
	if err != nil {
		return err
	}

	songs, err := artist.TopSongs(ctx, svc, optInt(cmd, "count"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	if len(songs) == 0 {
		return r.writePlain("No top songs for %s\n", artist.Name)
	}

	r.writePlainHeader("Top songs by " + artist.Name)
	for i, s := range songs {
		r.writePlain("%2d. %s (%s) %s\n", i+1, s.Title, s.Album, formatter.FormatDuration(s.Duration))
	}
	return nil
}

// ArtistSimilar resolves the similar artists of an artist against the library.
func (r *Runner) ArtistSimilar(ctx context.Context, cmd *cli.Command) error {
	id, err := argID(cmd, 0, "id")
	if err != nil {
		return err
	}

	if _, err := r.client(); err != nil {
		return err
	}

	result, err := r.engine.Similar(ctx, nil, id, cmd.Int("count"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		failed := make(map[string]string, len(result.Failed))
		for name, err := range result.Failed {
			failed[name] = err.Error()
		}
		return r.writeJSON(map[string]any{
			"artist":    result.Artist,
			"on_server": result.OnServer,
			"missing":   result.Missing,
			"failed":    failed,
		}, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Similar to " + result.Artist.Name)
	for _, a := range result.OnServer {
		r.writePlain("%s\n", ui.OK("%s [%d] (%d albums)", a.Name, a.ID, a.AlbumCount))
	}
	for _, s := range result.Missing {
		r.writePlain("  %s %s\n", s.Name, ui.Help("(not in library)"))
	}
	for name, err := range result.Failed {
		r.writePlain("%s\n", ui.Err("%s: %v", name, err))
	}
	return nil
}

// AlbumGet prints a single album.
func (r *Runner) AlbumGet(ctx context.Context, cmd *cli.Command) error {
	id, err := argID(cmd, 0, "id")
	if err != nil {
		return err
	}

	svc, err := r.client()
	if err != nil {
		return err
	}

	album, err := subsonic.GetAlbum(ctx, svc, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(album, cmd.Bool("pretty"))
	}

	r.writePlainHeader(album.Name)
	r.writePlain("%s\n", ui.KeyValue("ID", album.ID))
	r.writePlain("%s\n", ui.KeyValue("Artist", album.Artist))
	if album.Year > 0 {
		r.writePlain("%s\n", ui.KeyValue("Year", album.Year))
	}
	if album.Genre != "" {
		r.writePlain("%s\n", ui.KeyValue("Genre", album.Genre))
	}
	r.writePlain("%s\n", ui.KeyValue("Songs", album.SongCount))
	r.writePlain("%s\n", ui.KeyValue("Duration", formatter.FormatDuration(album.Duration)))
	return nil
}

// AlbumSongs prints the reconciled song list of an album.
func (r *Runner) AlbumSongs(ctx context.Context, cmd *cli.Command) error {
	id, err := argID(cmd, 0, "id")
	if err != nil {
		return err
	}

	svc, err := r.client()
	if err != nil {
		return err
	}

	album, err := subsonic.GetAlbum(ctx, svc, id)
	if err != nil {
		return err
	}

	songs, err := album.Songs(ctx, svc)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d songs)", album.Name, len(songs)))
	for _, s := range songs {
		r.writePlain("%2d. %s %s\n", s.Track, s.Title, formatter.FormatDuration(s.Duration))
		if cmd.Bool("urls") {
			u, err := s.StreamURL(svc, nil, nil)
			if err != nil {
				return err
			}
			r.writePlain("    %s\n", ui.Help(u))
		}
	}
	return nil
}

// Cover downloads (or prints the URL of) the cover art of an entity.
func (r *Runner) Cover(ctx context.Context, cmd *cli.Command) error {
	kind := cmd.Args().First()
	if kind == "" {
		return fmt.Errorf("%w: kind (artist, album or song)", shared.ErrMissingArgument)
	}

	id, err := argID(cmd, 1, "id")
	if err != nil {
		return err
	}

	svc, err := r.client()
	if err != nil {
		return err
	}

	var media subsonic.Media
	switch kind {
	case "artist":
		a, err := subsonic.GetArtist(ctx, svc, id)
		if err != nil {
			return err
		}
		media = *a
	case "album":
		a, err := subsonic.GetAlbum(ctx, svc, id)
		if err != nil {
			return err
		}
		media = *a
	case "song":
		s, err := subsonic.GetSong(ctx, svc, id)
		if err != nil {
			return err
		}
		media = *s
	default:
		return fmt.Errorf("%w: kind %q, want artist, album or song", shared.ErrInvalidArgument, kind)
	}

	size := optInt(cmd, "size")
	if cmd.Bool("url") {
		u, err := media.CoverArtURL(svc, size)
		if err != nil {
			return err
		}
		return r.writePlain("%s\n", u)
	}

	img, err := media.CoverArt(ctx, svc, size)
	if err != nil {
		return err
	}

	path := cmd.String("output")
	if path == "" {
		path = fmt.Sprintf("%s-%d.jpg", kind, id)
	}
	if err := os.WriteFile(path, img, 0644); err != nil {
		return fmt.Errorf("failed to save cover: %w", err)
	}

	r.writePlain("%s\n", ui.OK("Saved %d bytes to %s", len(img), path))
	return nil
}
