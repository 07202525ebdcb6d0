package subsonic_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/sonix/internal/subsonic"
	tu "github.com/desertthunder/sonix/internal/testing"
)

const rawArtist = `{
	"id" : "1",
	"name" : "Misteur Valaire",
	"coverArt" : "ar-1",
	"albumCount" : 1,
	"album" : [ {
		"id" : "1",
		"name" : "Bellevue",
		"artist" : "Misteur Valaire",
		"artistId" : "1",
		"coverArt" : "al-1",
		"songCount" : 9,
		"duration" : 1920,
		"playCount" : 2223,
		"created" : "2017-03-12T11:07:25.000Z",
		"genre" : "(255)"
	} ]
}`

const rawArtistShallow = `{"id":"1","name":"Misteur Valaire","coverArt":"ar-1","albumCount":1}`

func parseArtist(t *testing.T, raw string) subsonic.Artist {
	t.Helper()
	var a subsonic.Artist
	require.NoError(t, json.Unmarshal([]byte(raw), &a))
	return a
}

func TestArtist(t *testing.T) {
	ctx := context.Background()

	t.Run("Parse", func(t *testing.T) {
		a := parseArtist(t, rawArtist)

		assert.Equal(t, uint64(1), a.ID)
		assert.Equal(t, "Misteur Valaire", a.Name)
		assert.Equal(t, uint64(1), a.AlbumCount)

		cover, ok := a.CoverID()
		assert.True(t, ok)
		assert.Equal(t, "ar-1", cover)
	})

	t.Run("Parse Deep", func(t *testing.T) {
		client := tu.NewFakeClient()
		a := parseArtist(t, rawArtist)

		albums, err := a.Albums(ctx, client)
		require.NoError(t, err)
		require.Len(t, albums, 1)
		assert.Equal(t, uint64(1), albums[0].ID)
		assert.Equal(t, "Bellevue", albums[0].Name)
		assert.Equal(t, uint64(9), albums[0].SongCount)
		assert.Equal(t, uint64(1), albums[0].ArtistID)
		assert.Equal(t, uint64(1920), albums[0].Duration)
		assert.Equal(t, 2017, albums[0].Created.Year())
		assert.Empty(t, client.Calls())
	})

	t.Run("Numeric And String IDs Agree", func(t *testing.T) {
		fromString := parseArtist(t, `{"id":"1","name":"A","albumCount":"3"}`)
		fromNumber := parseArtist(t, `{"id":1,"name":"A","albumCount":3}`)

		assert.Equal(t, fromString, fromNumber)
		assert.Equal(t, uint64(1), fromNumber.ID)
		assert.Equal(t, uint64(3), fromNumber.AlbumCount)
	})

	t.Run("Malformed Fields", func(t *testing.T) {
		tt := []struct {
			name  string
			raw   string
			field string
			text  string
		}{
			{name: "non numeric id", raw: `{"id":"abc","name":"A","albumCount":1}`, field: "id", text: "abc"},
			{name: "negative id", raw: `{"id":-4,"name":"A","albumCount":1}`, field: "id", text: "-4"},
			{name: "fractional count", raw: `{"id":"1","name":"A","albumCount":1.5}`, field: "albumCount", text: "1.5"},
			{name: "boolean count", raw: `{"id":"1","name":"A","albumCount":true}`, field: "albumCount", text: "true"},
			{name: "empty id", raw: `{"id":"","name":"A","albumCount":1}`, field: "id", text: ""},
			{name: "missing id", raw: `{"name":"A","albumCount":1}`, field: "id", text: ""},
			{name: "null count", raw: `{"id":"1","name":"A","albumCount":null}`, field: "albumCount", text: ""},
			{name: "nested album id", raw: `{"id":"1","name":"A","albumCount":1,"album":[{"id":"x1","songCount":2}]}`, field: "id", text: "x1"},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				var a subsonic.Artist
				err := json.Unmarshal([]byte(tc.raw), &a)

				var malformed *subsonic.MalformedError
				require.ErrorAs(t, err, &malformed)
				assert.Equal(t, tc.field, malformed.Field)
				assert.Equal(t, tc.text, malformed.Raw)
				assert.Zero(t, a.ID)
			})
		}
	})

	t.Run("Round Trip Is Idempotent", func(t *testing.T) {
		for _, raw := range []string{rawArtist, rawArtistShallow, `{"id":7,"name":"B","albumCount":0,"album":[]}`} {
			first := parseArtist(t, raw)

			out, err := json.Marshal(first)
			require.NoError(t, err)

			second := parseArtist(t, string(out))
			assert.Equal(t, first, second)
		}
	})

	t.Run("Albums Without Follow Up When Complete", func(t *testing.T) {
		client := tu.NewFakeClient()
		a := parseArtist(t, rawArtist)

		albums, err := a.Albums(ctx, client)
		require.NoError(t, err)
		assert.Len(t, albums, 1)
		assert.Equal(t, 0, client.CallCount("getArtist"))
	})

	t.Run("Albums Refetched When Partial", func(t *testing.T) {
		client := tu.NewFakeClient()
		client.Responses["getArtist"] = tu.OKEnvelope("artist", rawArtist)
		a := parseArtist(t, rawArtistShallow)

		albums, err := a.Albums(ctx, client)
		require.NoError(t, err)
		require.Len(t, albums, 1)
		assert.Equal(t, "Bellevue", albums[0].Name)
		assert.Equal(t, uint64(9), albums[0].SongCount)

		calls := client.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "getArtist", calls[0].Op)
		id, _ := calls[0].Query.Get("id")
		assert.Equal(t, "1", id)
	})

	t.Run("Albums Refetch Propagates Errors", func(t *testing.T) {
		tt := []struct {
			name  string
			setup func(*tu.FakeClient)
			check func(*testing.T, error)
		}{
			{
				name: "not found",
				setup: func(c *tu.FakeClient) {
					c.Responses["getArtist"] = tu.FailedEnvelope(70, "Artist not found")
				},
				check: func(t *testing.T, err error) {
					assert.ErrorIs(t, err, subsonic.ErrNotFound)
					var apiErr *subsonic.APIError
					assert.ErrorAs(t, err, &apiErr)
				},
			},
			{
				name: "api error",
				setup: func(c *tu.FakeClient) {
					c.Responses["getArtist"] = tu.FailedEnvelope(50, "Not authorized")
				},
				check: func(t *testing.T, err error) {
					var apiErr *subsonic.APIError
					require.ErrorAs(t, err, &apiErr)
					assert.Equal(t, subsonic.CodeNotAuthorized, apiErr.Code)
					assert.NotErrorIs(t, err, subsonic.ErrNotFound)
				},
			},
			{
				name: "transport",
				setup: func(c *tu.FakeClient) {
					c.Err = errors.New("connection refused")
				},
				check: func(t *testing.T, err error) {
					var tErr *subsonic.TransportError
					require.ErrorAs(t, err, &tErr)
					assert.Equal(t, "getArtist", tErr.Op)
				},
			},
			{
				name: "malformed",
				setup: func(c *tu.FakeClient) {
					c.Responses["getArtist"] = tu.OKEnvelope("artist", `{"id":"one","name":"A","albumCount":1}`)
				},
				check: func(t *testing.T, err error) {
					var malformed *subsonic.MalformedError
					assert.ErrorAs(t, err, &malformed)
				},
			},
			{
				name: "unrecognized",
				setup: func(c *tu.FakeClient) {
					c.Responses["getArtist"] = tu.OKEnvelope("", "")
				},
				check: func(t *testing.T, err error) {
					assert.ErrorIs(t, err, subsonic.ErrUnrecognized)
				},
			},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				client := tu.NewFakeClient()
				tc.setup(client)
				a := parseArtist(t, rawArtistShallow)

				albums, err := a.Albums(ctx, client)
				require.Error(t, err)
				assert.Nil(t, albums)
				tc.check(t, err)
			})
		}
	})

	t.Run("Info", func(t *testing.T) {
		client := tu.NewFakeClient()
		client.Responses["getArtistInfo2"] = tu.OKEnvelope("artistInfo2", `{
			"biography":"Montreal electro-swing band.",
			"musicBrainzId":"b1b2",
			"lastFmUrl":"https://www.last.fm/music/Misteur+Valaire",
			"smallImageUrl":"s.jpg","mediumImageUrl":"m.jpg","largeImageUrl":"l.jpg",
			"similarArtist":[
				{"id":"2","name":"Caravan Palace","coverArt":"ar-2","albumCount":"3"},
				{"name":"Parov Stelar"}
			]}`)
		a := parseArtist(t, rawArtist)
		count := 5
		include := true

		info, err := a.Info(ctx, client, &count, &include)
		require.NoError(t, err)
		assert.Equal(t, "b1b2", info.MusicBrainzID)
		assert.Equal(t, subsonic.ImageURLs{Small: "s.jpg", Medium: "m.jpg", Large: "l.jpg"}, info.ImageURLs)
		require.Len(t, info.SimilarArtists, 2)
		assert.True(t, info.SimilarArtists[0].OnServer())
		assert.Equal(t, uint64(3), info.SimilarArtists[0].AlbumCount)
		assert.False(t, info.SimilarArtists[1].OnServer())

		calls := client.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"id", "count", "includeNotPresent"}, calls[0].Query.Keys())
	})

	t.Run("Info Omits Unset Arguments", func(t *testing.T) {
		client := tu.NewFakeClient()
		client.Responses["getArtistInfo2"] = tu.OKEnvelope("artistInfo2", `{}`)
		a := parseArtist(t, rawArtist)

		info, err := a.Info(ctx, client, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, info.SimilarArtists)
		assert.Equal(t, []string{"id"}, client.Calls()[0].Query.Keys())
	})

	t.Run("Top Songs", func(t *testing.T) {
		client := tu.NewFakeClient()
		client.Responses["getTopSongs"] = tu.OKEnvelope("topSongs", `{"song":{"id":"10","title":"Ave Maria","track":"3"}}`)
		a := parseArtist(t, rawArtist)

		songs, err := a.TopSongs(ctx, client, nil)
		require.NoError(t, err)
		require.Len(t, songs, 1)
		assert.Equal(t, uint64(10), songs[0].ID)
		assert.Equal(t, uint64(3), songs[0].Track)

		name, _ := client.Calls()[0].Query.Get("artist")
		assert.Equal(t, "Misteur Valaire", name)
	})

	t.Run("Cover Art", func(t *testing.T) {
		client := tu.NewFakeClient()
		client.Bytes["getCoverArt"] = []byte{0xff, 0xd8, 0xff}
		a := parseArtist(t, rawArtist)
		size := 300

		img, err := a.CoverArt(ctx, client, &size)
		require.NoError(t, err)
		assert.NotEmpty(t, img)

		u, err := a.CoverArtURL(client, nil)
		require.NoError(t, err)
		assert.Equal(t, "http://fake.local/rest/getCoverArt?id=ar-1", u)
	})

	t.Run("No Cover Art", func(t *testing.T) {
		client := tu.NewFakeClient()
		a := parseArtist(t, `{"id":"4","name":"Unknown","albumCount":0}`)

		assert.False(t, a.HasCoverArt())
		_, err := a.CoverArt(ctx, client, nil)
		assert.ErrorIs(t, err, subsonic.ErrNoCoverArt)
		_, err = a.CoverArtURL(client, nil)
		assert.ErrorIs(t, err, subsonic.ErrNoCoverArt)
		assert.Empty(t, client.Calls())
	})
}

func TestSimilarArtist(t *testing.T) {
	ctx := context.Background()

	parse := func(t *testing.T, raw string) subsonic.SimilarArtist {
		t.Helper()
		var s subsonic.SimilarArtist
		require.NoError(t, json.Unmarshal([]byte(raw), &s))
		return s
	}

	t.Run("Upgrade", func(t *testing.T) {
		client := tu.NewFakeClient()
		client.Responses["getArtist"] = tu.OKEnvelope("artist", rawArtist)
		s := parse(t, `{"id":"1","name":"Misteur Valaire","coverArt":"ar-1","albumCount":"1"}`)

		a, err := s.Upgrade(ctx, client)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), a.ID)
		assert.Equal(t, 1, client.CallCount("getArtist"))
	})

	t.Run("Upgrade Not Found On Server", func(t *testing.T) {
		client := tu.NewFakeClient()
		client.Responses["getArtist"] = tu.FailedEnvelope(70, "Artist not found")
		s := parse(t, `{"id":"99","name":"Gone","albumCount":0}`)

		_, err := s.Upgrade(ctx, client)
		var nf *subsonic.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "artist", nf.Entity)
		assert.Equal(t, "99", nf.ID)
	})

	t.Run("Upgrade Without ID Skips Round Trip", func(t *testing.T) {
		client := tu.NewFakeClient()
		s := parse(t, `{"name":"Parov Stelar"}`)

		_, err := s.Upgrade(ctx, client)
		assert.ErrorIs(t, err, subsonic.ErrNotFound)
		assert.Empty(t, client.Calls())
	})

	t.Run("Malformed ID", func(t *testing.T) {
		var s subsonic.SimilarArtist
		err := json.Unmarshal([]byte(`{"id":"x","name":"A"}`), &s)
		var malformed *subsonic.MalformedError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "id", malformed.Field)
	})

	t.Run("Round Trip", func(t *testing.T) {
		for _, raw := range []string{`{"id":"2","name":"Caravan Palace","albumCount":3}`, `{"name":"Parov Stelar"}`} {
			first := parse(t, raw)
			out, err := json.Marshal(first)
			require.NoError(t, err)
			assert.Equal(t, first, parse(t, string(out)))
		}
	})
}

func TestGetArtists(t *testing.T) {
	client := tu.NewFakeClient()
	client.Responses["getArtists"] = tu.OKEnvelope("artists", `{
		"ignoredArticles":"The El La",
		"index":[
			{"name":"C","artist":{"id":"2","name":"Caravan Palace","albumCount":3}},
			{"name":"M","artist":[{"id":1,"name":"Misteur Valaire","albumCount":"1"}]}
		]}`)
	folder := uint64(4)

	idx, err := subsonic.GetArtists(context.Background(), client, &folder)
	require.NoError(t, err)
	require.Len(t, idx, 2)
	assert.Equal(t, "C", idx[0].Name)
	require.Len(t, idx[0].Artists, 1)
	assert.Equal(t, uint64(2), idx[0].Artists[0].ID)
	assert.Equal(t, "Misteur Valaire", idx[1].Artists[0].Name)

	f, ok := client.Calls()[0].Query.Get("musicFolderId")
	assert.True(t, ok)
	assert.Equal(t, "4", f)
}
