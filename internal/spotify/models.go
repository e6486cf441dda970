package spotify

// ResultLimit is the size of the result window shown by the search box.
const ResultLimit = 5

// Track is a search hit reduced to what the result box shows and what playback
// needs.
type Track struct {
	Name   string
	Artist string // primary artist only
	URI    string
}

// Label renders a track the way the result box lists it.
func (t Track) Label() string {
	if t.Artist == "" {
		return t.Name
	}
	return t.Name + " by " + t.Artist
}

// Playback is the last known state of the remote player. An empty TrackName
// means nothing is loaded.
type Playback struct {
	IsPlaying bool
	TrackName string
}
