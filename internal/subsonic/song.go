package subsonic

import (
	"context"
	"encoding/json"
	"strconv"
)

// Song is a single media file.
type Song struct {
	ID          uint64
	Parent      uint64
	Title       string
	Album       string
	Artist      string
	AlbumID     uint64
	ArtistID    uint64
	Track       uint64
	DiscNumber  uint64
	Year        uint64
	Genre       string
	Size        uint64
	Duration    uint64
	BitRate     uint64
	Suffix      string
	ContentType string
	Path        string
	cover
}

type wireSong struct {
	ID          number  `json:"id"`
	Parent      *number `json:"parent,omitempty"`
	Title       string  `json:"title"`
	Album       string  `json:"album,omitempty"`
	Artist      string  `json:"artist,omitempty"`
	AlbumID     *number `json:"albumId,omitempty"`
	ArtistID    *number `json:"artistId,omitempty"`
	CoverArt    string  `json:"coverArt,omitempty"`
	Track       *number `json:"track,omitempty"`
	DiscNumber  *number `json:"discNumber,omitempty"`
	Year        *number `json:"year,omitempty"`
	Genre       string  `json:"genre,omitempty"`
	Size        *number `json:"size,omitempty"`
	Duration    *number `json:"duration,omitempty"`
	BitRate     *number `json:"bitRate,omitempty"`
	Suffix      string  `json:"suffix,omitempty"`
	ContentType string  `json:"contentType,omitempty"`
	Path        string  `json:"path,omitempty"`
}

func (s *Song) UnmarshalJSON(b []byte) error {
	var w wireSong
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	var c coercer
	out := Song{
		ID:          c.required("id", w.ID),
		Parent:      c.optional("parent", w.Parent),
		Title:       w.Title,
		Album:       w.Album,
		Artist:      w.Artist,
		AlbumID:     c.optional("albumId", w.AlbumID),
		ArtistID:    c.optional("artistId", w.ArtistID),
		Track:       c.optional("track", w.Track),
		DiscNumber:  c.optional("discNumber", w.DiscNumber),
		Year:        c.optional("year", w.Year),
		Genre:       w.Genre,
		Size:        c.optional("size", w.Size),
		Duration:    c.optional("duration", w.Duration),
		BitRate:     c.optional("bitRate", w.BitRate),
		Suffix:      w.Suffix,
		ContentType: w.ContentType,
		Path:        w.Path,
		cover:       cover{id: w.CoverArt},
	}
	if c.err != nil {
		return c.err
	}
	*s = out
	return nil
}

func (s Song) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireSong{
		ID:          num(s.ID),
		Parent:      optNum(s.Parent),
		Title:       s.Title,
		Album:       s.Album,
		Artist:      s.Artist,
		AlbumID:     optNum(s.AlbumID),
		ArtistID:    optNum(s.ArtistID),
		CoverArt:    s.cover.id,
		Track:       optNum(s.Track),
		DiscNumber:  optNum(s.DiscNumber),
		Year:        optNum(s.Year),
		Genre:       s.Genre,
		Size:        optNum(s.Size),
		Duration:    optNum(s.Duration),
		BitRate:     optNum(s.BitRate),
		Suffix:      s.Suffix,
		ContentType: s.ContentType,
		Path:        s.Path,
	})
}

// StreamURL returns a URL that streams the song, optionally transcoded.
func (s Song) StreamURL(c Client, maxBitRate *int, format *string) (string, error) {
	q := With("id", s.ID).
		Arg("maxBitRate", maxBitRate).
		Arg("format", format)

	u, err := c.BuildURL("stream", q)
	if err != nil {
		return "", transportErr("stream", err)
	}
	return u, nil
}

// Download fetches the original, untranscoded media file.
func (s Song) Download(ctx context.Context, c Client) ([]byte, error) {
	b, err := c.InvokeBytes(ctx, "download", With("id", s.ID))
	if err != nil {
		return nil, transportErr("download", err)
	}
	return b, nil
}

// GetSong fetches a single song.
func GetSong(ctx context.Context, c Client, id uint64) (*Song, error) {
	s, err := fetch[Song](ctx, c, "getSong", With("id", id))
	if err != nil {
		return nil, notFound("song", strconv.FormatUint(id, 10), err)
	}
	return s, nil
}

type songList struct {
	Song list[Song] `json:"song,omitempty"`
}

// ScanStatus reports the state of the server's media library scan.
type ScanStatus struct {
	Scanning bool
	Count    uint64
}

func (s *ScanStatus) UnmarshalJSON(b []byte) error {
	var w struct {
		Scanning bool    `json:"scanning"`
		Count    *number `json:"count"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	var c coercer
	count := c.optional("count", w.Count)
	if c.err != nil {
		return c.err
	}
	*s = ScanStatus{Scanning: w.Scanning, Count: count}
	return nil
}

// GetScanStatus returns the current library scan status.
func GetScanStatus(ctx context.Context, c Client) (*ScanStatus, error) {
	return fetch[ScanStatus](ctx, c, "getScanStatus", Query{})
}
