package subsonic

import (
	"context"
	"encoding/json"
	"slices"
	"strconv"
	"time"
)

// Album is an album as organized by ID3 tags.
type Album struct {
	ID        uint64
	Name      string
	Artist    string
	ArtistID  uint64
	SongCount uint64
	Duration  uint64
	PlayCount uint64
	Year      uint64
	Genre     string
	Created   time.Time
	cover

	songs []Song
}

type wireAlbum struct {
	ID        number     `json:"id"`
	Name      string     `json:"name"`
	Artist    string     `json:"artist,omitempty"`
	ArtistID  *number    `json:"artistId,omitempty"`
	CoverArt  string     `json:"coverArt,omitempty"`
	SongCount number     `json:"songCount"`
	Duration  *number    `json:"duration,omitempty"`
	PlayCount *number    `json:"playCount,omitempty"`
	Year      *number    `json:"year,omitempty"`
	Genre     string     `json:"genre,omitempty"`
	Created   string     `json:"created,omitempty"`
	Song      list[Song] `json:"song,omitempty"`
}

func (a *Album) UnmarshalJSON(b []byte) error {
	var w wireAlbum
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	var c coercer
	out := Album{
		ID:        c.required("id", w.ID),
		Name:      w.Name,
		Artist:    w.Artist,
		ArtistID:  c.optional("artistId", w.ArtistID),
		SongCount: c.required("songCount", w.SongCount),
		Duration:  c.optional("duration", w.Duration),
		PlayCount: c.optional("playCount", w.PlayCount),
		Year:      c.optional("year", w.Year),
		Genre:     w.Genre,
		cover:     cover{id: w.CoverArt},
		songs:     w.Song.items(),
	}
	if c.err != nil {
		return c.err
	}

	// created is informational; a timestamp in another layout leaves it zero.
	if t, err := time.Parse(time.RFC3339, w.Created); err == nil {
		out.Created = t
	}

	*a = out
	return nil
}

func (a Album) MarshalJSON() ([]byte, error) {
	w := wireAlbum{
		ID:        num(a.ID),
		Name:      a.Name,
		Artist:    a.Artist,
		ArtistID:  optNum(a.ArtistID),
		CoverArt:  a.cover.id,
		SongCount: num(a.SongCount),
		Duration:  optNum(a.Duration),
		PlayCount: optNum(a.PlayCount),
		Year:      optNum(a.Year),
		Genre:     a.Genre,
		Song:      a.songs,
	}
	if !a.Created.IsZero() {
		w.Created = a.Created.Format(time.RFC3339Nano)
	}
	return json.Marshal(w)
}

// Songs returns the album's songs.
//
// The embedded list is returned when its length matches SongCount. Otherwise the album
// is fetched again by ID and the freshly embedded list is returned instead.
func (a Album) Songs(ctx context.Context, c Client) ([]Song, error) {
	if uint64(len(a.songs)) == a.SongCount {
		return slices.Clone(a.songs), nil
	}

	fresh, err := GetAlbum(ctx, c, a.ID)
	if err != nil {
		return nil, err
	}
	return fresh.songs, nil
}

// GetAlbum fetches an album and its songs.
func GetAlbum(ctx context.Context, c Client, id uint64) (*Album, error) {
	a, err := fetch[Album](ctx, c, "getAlbum", With("id", id))
	if err != nil {
		return nil, notFound("album", strconv.FormatUint(id, 10), err)
	}
	return a, nil
}
