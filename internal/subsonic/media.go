package subsonic

import "context"

// Media is implemented by every entity that may reference cover art.
type Media interface {
	HasCoverArt() bool
	CoverID() (string, bool)
	CoverArt(ctx context.Context, c Client, size *int) ([]byte, error)
	CoverArtURL(c Client, size *int) (string, error)
}

var (
	_ Media = Artist{}
	_ Media = SimilarArtist{}
	_ Media = Album{}
	_ Media = Song{}
)

// cover is the cover art reference shared by entities through embedding.
type cover struct {
	id string
}

func (cv cover) HasCoverArt() bool { return cv.id != "" }

func (cv cover) CoverID() (string, bool) { return cv.id, cv.id != "" }

// CoverArt downloads the image, optionally scaled to size pixels.
func (cv cover) CoverArt(ctx context.Context, c Client, size *int) ([]byte, error) {
	if cv.id == "" {
		return nil, ErrNoCoverArt
	}

	b, err := c.InvokeBytes(ctx, "getCoverArt", With("id", cv.id).Arg("size", size))
	if err != nil {
		return nil, transportErr("getCoverArt", err)
	}
	return b, nil
}

// CoverArtURL returns an addressable URL for the image without fetching it.
func (cv cover) CoverArtURL(c Client, size *int) (string, error) {
	if cv.id == "" {
		return "", ErrNoCoverArt
	}

	u, err := c.BuildURL("getCoverArt", With("id", cv.id).Arg("size", size))
	if err != nil {
		return "", transportErr("getCoverArt", err)
	}
	return u, nil
}
