package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/sonix/internal/models"
	"github.com/desertthunder/sonix/internal/shared"
)

// LibraryRepository implements models.Repository[*models.ArtistRecord] for the library snapshot.
//
// An artist and its albums are always written together. Saving an artist whose server id is
// already stored replaces the previous snapshot and keeps its ID.
type LibraryRepository struct {
	db *sql.DB
}

// NewLibraryRepository creates a new LibraryRepository with the given database connection
func NewLibraryRepository(db *sql.DB) *LibraryRepository {
	return &LibraryRepository{db: db}
}

var _ models.Repository[*models.ArtistRecord] = (*LibraryRepository)(nil)

const artistColumns = `id, server_id, name, album_count, cover_art, exported_at`

// Save writes the artist and replaces its albums in one transaction.
func (r *LibraryRepository) Save(artist *models.ArtistRecord) error {
	if err := artist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRow("SELECT id FROM artists WHERE server_id = ?", artist.ServerID).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		id = shared.GenerateID()
		_, err = tx.Exec(`
			INSERT INTO artists (id, server_id, name, name_key, album_count, cover_art, exported_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, artist.ServerID, artist.Name, shared.NormalizeKey(artist.Name),
			artist.AlbumCount, nullString(artist.CoverArt), artist.CreatedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert artist: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to look up artist: %w", err)
	default:
		_, err = tx.Exec(`
			UPDATE artists
			SET name = ?, name_key = ?, album_count = ?, cover_art = ?, exported_at = ?
			WHERE id = ?`,
			artist.Name, shared.NormalizeKey(artist.Name), artist.AlbumCount,
			nullString(artist.CoverArt), artist.CreatedAt(), id,
		)
		if err != nil {
			return fmt.Errorf("failed to update artist: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM albums WHERE artist_id = ?", id); err != nil {
			return fmt.Errorf("failed to clear albums: %w", err)
		}
	}

	for i := range artist.Albums {
		album := &artist.Albums[i]

		err := tx.QueryRow(`
			INSERT INTO albums (id, server_id, artist_id, name, song_count, duration, year, genre, cover_art)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(server_id) DO UPDATE SET
				artist_id = excluded.artist_id, name = excluded.name, song_count = excluded.song_count,
				duration = excluded.duration, year = excluded.year, genre = excluded.genre,
				cover_art = excluded.cover_art
			RETURNING id`,
			shared.GenerateID(), album.ServerID, id, album.Name, album.SongCount, album.Duration,
			nullInt(album.Year), nullString(album.Genre), nullString(album.CoverArt),
		).Scan(&album.ID)
		if err != nil {
			return fmt.Errorf("failed to insert album %d: %w", album.ServerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit artist: %w", err)
	}

	artist.SetID(id)
	return nil
}

// Get retrieves an artist and its albums by ID
func (r *LibraryRepository) Get(id string) (*models.ArtistRecord, error) {
	row := r.db.QueryRow("SELECT "+artistColumns+" FROM artists WHERE id = ?", id)
	return r.withAlbums(scanArtist(row))
}

// GetByServerID retrieves an artist and its albums by the server's artist id
func (r *LibraryRepository) GetByServerID(serverID uint64) (*models.ArtistRecord, error) {
	row := r.db.QueryRow("SELECT "+artistColumns+" FROM artists WHERE server_id = ?", serverID)
	return r.withAlbums(scanArtist(row))
}

// Delete removes an artist; its albums are removed by the foreign key cascade.
func (r *LibraryRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM artists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete artist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrArtistNotStored, id)
	}
	return nil
}

// List retrieves artists ordered by name.
//
// Supported criteria:
//   - "name" (string): case and whitespace insensitive substring of the artist name
//   - "limit" (int): maximum number of artists
func (r *LibraryRepository) List(criteria map[string]any) ([]*models.ArtistRecord, error) {
	query := "SELECT " + artistColumns + " FROM artists WHERE 1 = 1"
	args := []any{}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name_key LIKE ?"
		args = append(args, "%"+shared.NormalizeKey(name)+"%")
	}

	query += " ORDER BY name_key ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}

	var artists []*models.ArtistRecord
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		artists = append(artists, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	// Albums are loaded after the artist rows are released; the snapshot may run on a single connection.
	for _, a := range artists {
		if a.Albums, err = r.albums(a.ID()); err != nil {
			return nil, err
		}
	}
	return artists, nil
}

func (r *LibraryRepository) withAlbums(a *models.ArtistRecord, err error) (*models.ArtistRecord, error) {
	if err != nil {
		return nil, err
	}
	if a.Albums, err = r.albums(a.ID()); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *LibraryRepository) albums(artistID string) ([]models.AlbumRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, server_id, name, song_count, duration, year, genre, cover_art
		FROM albums
		WHERE artist_id = ?
		ORDER BY COALESCE(year, 0) ASC, name ASC`, artistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	defer rows.Close()

	var albums []models.AlbumRecord
	for rows.Next() {
		var (
			a     models.AlbumRecord
			year  sql.NullInt64
			genre sql.NullString
			cover sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.ServerID, &a.Name, &a.SongCount, &a.Duration, &year, &genre, &cover); err != nil {
			return nil, fmt.Errorf("failed to scan album: %w", err)
		}
		a.Year = uint64(year.Int64)
		a.Genre = genre.String
		a.CoverArt = cover.String
		albums = append(albums, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return albums, nil
}

func scanArtist(s scanner) (*models.ArtistRecord, error) {
	var (
		id         string
		serverID   uint64
		name       string
		albumCount uint64
		cover      sql.NullString
		exportedAt time.Time
	)

	if err := s.Scan(&id, &serverID, &name, &albumCount, &cover, &exportedAt); err != nil {
		return nil, notFound(err, shared.ErrArtistNotStored, "artist")
	}

	a := models.RestoreArtistRecord(id, exportedAt)
	a.ServerID = serverID
	a.Name = name
	a.AlbumCount = albumCount
	a.CoverArt = cover.String
	return a, nil
}
