package ytmusic

// Thumbnail represents an image/thumbnail from YouTube Music.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Artist represents an artist reference in YouTube Music responses.
type Artist struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// Album represents an album reference in YouTube Music responses.
type Album struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// SearchResult is a single entry of an unfiltered search.
//
// Which fields are set depends on ResultType: songs and videos carry VideoID, albums, artists and playlists carry BrowseID.
type SearchResult struct {
	Category        string      `json:"category"`
	ResultType      string      `json:"resultType"`
	Title           string      `json:"title,omitempty"`
	VideoID         string      `json:"videoId,omitempty"`
	BrowseID        string      `json:"browseId,omitempty"`
	Artists         []Artist    `json:"artists,omitempty"`
	Album           *Album      `json:"album,omitempty"`
	Duration        string      `json:"duration,omitempty"`
	DurationSeconds int         `json:"duration_seconds,omitempty"`
	Thumbnails      []Thumbnail `json:"thumbnails"`
}

// LibraryPlaylist is a playlist in the user's library.
type LibraryPlaylist struct {
	PlaylistID  string      `json:"playlistId"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Count       int         `json:"count,omitempty"`
	Thumbnails  []Thumbnail `json:"thumbnails"`
}

// Track is a song or video inside a playlist.
type Track struct {
	VideoID         string      `json:"videoId"`
	Title           string      `json:"title"`
	Artists         []Artist    `json:"artists"`
	Album           *Album      `json:"album"`
	Duration        string      `json:"duration,omitempty"`
	DurationSeconds int         `json:"duration_seconds,omitempty"`
	SetVideoID      string      `json:"setVideoId,omitempty"` // For playlist operations
	IsAvailable     bool        `json:"isAvailable"`
	Thumbnails      []Thumbnail `json:"thumbnails"`
}

// Playlist is a playlist with (a prefix of) its tracks.
type Playlist struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Privacy    string  `json:"privacy,omitempty"`
	TrackCount int     `json:"trackCount"`
	Tracks     []Track `json:"tracks"`
}
