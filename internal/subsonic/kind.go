package subsonic

// PayloadKind identifies which payload field of a response envelope is populated.
//
// The declaration order is the resolution priority used by [Envelope.Resolve]:
// when a server populates more than one field, the earliest kind wins.
// Adding a server operation means adding one constant here and one key in payloadKeys.
type PayloadKind int

const (
	KindLicense PayloadKind = iota
	KindMusicFolders
	KindIndexes
	KindDirectory
	KindGenres
	KindArtists
	KindArtist
	KindAlbums
	KindAlbum
	KindSong
	KindVideos
	KindVideoInfo
	KindArtistInfo
	KindArtistInfo2
	KindAlbumInfo
	KindSimilarSongs
	KindSimilarSongs2
	KindTopSongs
	KindAlbumList
	KindAlbumList2
	KindRandomSongs
	KindSongsByGenre
	KindNowPlaying
	KindStarred
	KindStarred2
	KindSearchResult
	KindSearchResult2
	KindSearchResult3
	KindPlaylists
	KindPlaylist
	KindLyrics
	KindShares
	KindPodcasts
	KindNewestPodcasts
	KindJukeboxStatus
	KindJukeboxPlaylist
	KindInternetRadioStations
	KindChatMessages
	KindUser
	KindUsers
	KindBookmarks
	KindPlayQueue
	KindScanStatus

	numPayloadKinds
)

// payloadKeys maps each kind to its key inside "subsonic-response".
var payloadKeys = [numPayloadKinds]string{
	KindLicense:               "license",
	KindMusicFolders:          "musicFolders",
	KindIndexes:               "indexes",
	KindDirectory:             "directory",
	KindGenres:                "genres",
	KindArtists:               "artists",
	KindArtist:                "artist",
	KindAlbums:                "albums",
	KindAlbum:                 "album",
	KindSong:                  "song",
	KindVideos:                "videos",
	KindVideoInfo:             "videoInfo",
	KindArtistInfo:            "artistInfo",
	KindArtistInfo2:           "artistInfo2",
	KindAlbumInfo:             "albumInfo",
	KindSimilarSongs:          "similarSongs",
	KindSimilarSongs2:         "similarSongs2",
	KindTopSongs:              "topSongs",
	KindAlbumList:             "albumList",
	KindAlbumList2:            "albumList2",
	KindRandomSongs:           "randomSongs",
	KindSongsByGenre:          "songsByGenre",
	KindNowPlaying:            "nowPlaying",
	KindStarred:               "starred",
	KindStarred2:              "starred2",
	KindSearchResult:          "searchResult",
	KindSearchResult2:         "searchResult2",
	KindSearchResult3:         "searchResult3",
	KindPlaylists:             "playlists",
	KindPlaylist:              "playlist",
	KindLyrics:                "lyrics",
	KindShares:                "shares",
	KindPodcasts:              "podcasts",
	KindNewestPodcasts:        "newestPodcasts",
	KindJukeboxStatus:         "jukeboxStatus",
	KindJukeboxPlaylist:       "jukeboxPlaylist",
	KindInternetRadioStations: "internetRadioStations",
	KindChatMessages:          "chatMessages",
	KindUser:                  "user",
	KindUsers:                 "users",
	KindBookmarks:             "bookmarks",
	KindPlayQueue:             "playQueue",
	KindScanStatus:            "scanStatus",
}

// String returns the wire key of the kind.
func (k PayloadKind) String() string {
	if k < 0 || k >= numPayloadKinds {
		return "unknown"
	}
	return payloadKeys[k]
}

// PayloadKinds returns every known kind in resolution priority order.
func PayloadKinds() []PayloadKind {
	kinds := make([]PayloadKind, 0, numPayloadKinds)
	for k := range numPayloadKinds {
		kinds = append(kinds, k)
	}
	return kinds
}

// KindForKey looks up the kind whose wire key is key.
func KindForKey(key string) (PayloadKind, bool) {
	for k, name := range payloadKeys {
		if name == key {
			return PayloadKind(k), true
		}
	}
	return 0, false
}
