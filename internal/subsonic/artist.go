package subsonic

import (
	"context"
	"encoding/json"
	"slices"
	"strconv"
)

// Artist is an artist as organized by ID3 tags.
//
// The embedded album list may be a prefix of the artist's albums (or empty) depending on
// the endpoint that produced it. Use [Artist.Albums] to read it.
type Artist struct {
	ID         uint64
	Name       string
	AlbumCount uint64
	cover

	albums []Album
}

type wireArtist struct {
	ID         number      `json:"id"`
	Name       string      `json:"name"`
	CoverArt   string      `json:"coverArt,omitempty"`
	AlbumCount number      `json:"albumCount"`
	Album      list[Album] `json:"album,omitempty"`
}

func (a *Artist) UnmarshalJSON(b []byte) error {
	var w wireArtist
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	var c coercer
	out := Artist{
		ID:         c.required("id", w.ID),
		Name:       w.Name,
		AlbumCount: c.required("albumCount", w.AlbumCount),
		cover:      cover{id: w.CoverArt},
		albums:     w.Album.items(),
	}
	if c.err != nil {
		return c.err
	}
	*a = out
	return nil
}

func (a Artist) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireArtist{
		ID:         num(a.ID),
		Name:       a.Name,
		CoverArt:   a.cover.id,
		AlbumCount: num(a.AlbumCount),
		Album:      a.albums,
	})
}

// Albums returns the albums released by the artist.
//
// The embedded list is returned when its length matches AlbumCount. Otherwise the artist
// is fetched again by ID and the freshly embedded list is returned instead.
func (a Artist) Albums(ctx context.Context, c Client) ([]Album, error) {
	if uint64(len(a.albums)) == a.AlbumCount {
		return slices.Clone(a.albums), nil
	}

	fresh, err := GetArtist(ctx, c, a.ID)
	if err != nil {
		return nil, err
	}
	return fresh.albums, nil
}

// Info queries the server's metadata agent (typically last.fm) for details about the artist.
//
// count limits the number of similar artists; includeNotPresent also returns similar
// artists that are not in the server's library. Both are optional.
func (a Artist) Info(ctx context.Context, c Client, count *int, includeNotPresent *bool) (*ArtistInfo, error) {
	q := With("id", a.ID).
		Arg("count", count).
		Arg("includeNotPresent", includeNotPresent)
	return fetch[ArtistInfo](ctx, c, "getArtistInfo2", q)
}

// TopSongs returns up to count of the artist's most played songs.
func (a Artist) TopSongs(ctx context.Context, c Client, count *int) ([]Song, error) {
	q := With("artist", a.Name).Arg("count", count)

	top, err := fetch[songList](ctx, c, "getTopSongs", q)
	if err != nil {
		return nil, err
	}
	return top.Song.items(), nil
}

// GetArtist fetches an artist and its albums.
func GetArtist(ctx context.Context, c Client, id uint64) (*Artist, error) {
	a, err := fetch[Artist](ctx, c, "getArtist", With("id", id))
	if err != nil {
		return nil, notFound("artist", strconv.FormatUint(id, 10), err)
	}
	return a, nil
}

// ArtistIndex groups artists under a shared initial.
type ArtistIndex struct {
	Name    string   `json:"name"`
	Artists []Artist `json:"artist"`
}

type wireArtistIndex struct {
	Name   string       `json:"name"`
	Artist list[Artist] `json:"artist,omitempty"`
}

type wireArtists struct {
	IgnoredArticles string                `json:"ignoredArticles,omitempty"`
	Index           list[wireArtistIndex] `json:"index,omitempty"`
}

// GetArtists returns the artist index, optionally restricted to one music folder.
//
// Indexed artists carry no embedded albums.
func GetArtists(ctx context.Context, c Client, musicFolderID *uint64) ([]ArtistIndex, error) {
	w, err := fetch[wireArtists](ctx, c, "getArtists", With("musicFolderId", musicFolderID))
	if err != nil {
		return nil, err
	}

	idx := make([]ArtistIndex, 0, len(w.Index))
	for _, i := range w.Index {
		idx = append(idx, ArtistIndex{Name: i.Name, Artists: i.Artist.items()})
	}
	return idx, nil
}

// ArtistInfo holds details about an artist provided by the server's metadata agent.
type ArtistInfo struct {
	Biography      string
	MusicBrainzID  string
	LastFMURL      string
	ImageURLs      ImageURLs
	SimilarArtists []SimilarArtist
}

// ImageURLs are the small, medium and large artist image locations.
type ImageURLs struct {
	Small  string
	Medium string
	Large  string
}

type wireArtistInfo struct {
	Biography      string              `json:"biography,omitempty"`
	MusicBrainzID  string              `json:"musicBrainzId,omitempty"`
	LastFMURL      string              `json:"lastFmUrl,omitempty"`
	SmallImageURL  string              `json:"smallImageUrl,omitempty"`
	MediumImageURL string              `json:"mediumImageUrl,omitempty"`
	LargeImageURL  string              `json:"largeImageUrl,omitempty"`
	SimilarArtist  list[SimilarArtist] `json:"similarArtist,omitempty"`
}

func (i *ArtistInfo) UnmarshalJSON(b []byte) error {
	var w wireArtistInfo
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	*i = ArtistInfo{
		Biography:     w.Biography,
		MusicBrainzID: w.MusicBrainzID,
		LastFMURL:     w.LastFMURL,
		ImageURLs: ImageURLs{
			Small:  w.SmallImageURL,
			Medium: w.MediumImageURL,
			Large:  w.LargeImageURL,
		},
		SimilarArtists: w.SimilarArtist.items(),
	}
	return nil
}

func (i ArtistInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireArtistInfo{
		Biography:      i.Biography,
		MusicBrainzID:  i.MusicBrainzID,
		LastFMURL:      i.LastFMURL,
		SmallImageURL:  i.ImageURLs.Small,
		MediumImageURL: i.ImageURLs.Medium,
		LargeImageURL:  i.ImageURLs.Large,
		SimilarArtist:  i.SimilarArtists,
	})
}

// SimilarArtist is an artist suggested by the metadata agent.
//
// Suggestions that are not in the server's library have no ID.
type SimilarArtist struct {
	ID         uint64
	Name       string
	AlbumCount uint64
	cover

	onServer bool
}

type wireSimilarArtist struct {
	ID         *number `json:"id,omitempty"`
	Name       string  `json:"name"`
	CoverArt   string  `json:"coverArt,omitempty"`
	AlbumCount *number `json:"albumCount,omitempty"`
}

func (s *SimilarArtist) UnmarshalJSON(b []byte) error {
	var w wireSimilarArtist
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	var c coercer
	out := SimilarArtist{
		ID:         c.optional("id", w.ID),
		Name:       w.Name,
		AlbumCount: c.optional("albumCount", w.AlbumCount),
		cover:      cover{id: w.CoverArt},
		onServer:   w.ID != nil && w.ID.set,
	}
	if c.err != nil {
		return c.err
	}
	*s = out
	return nil
}

func (s SimilarArtist) MarshalJSON() ([]byte, error) {
	w := wireSimilarArtist{
		Name:       s.Name,
		CoverArt:   s.cover.id,
		AlbumCount: optNum(s.AlbumCount),
	}
	if s.onServer {
		id := num(s.ID)
		w.ID = &id
	}
	return json.Marshal(w)
}

// OnServer reports whether the suggestion exists in the server's library.
func (s SimilarArtist) OnServer() bool { return s.onServer }

// Upgrade fetches the full artist behind the suggestion.
func (s SimilarArtist) Upgrade(ctx context.Context, c Client) (*Artist, error) {
	if !s.onServer {
		return nil, &NotFoundError{Entity: "artist", ID: strconv.Quote(s.Name)}
	}
	return GetArtist(ctx, c, s.ID)
}
