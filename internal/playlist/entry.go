package playlist

// entry is one raw track record from a playlist file.
type entry struct {
	title    string
	artist   string
	album    string
	location string
	fromTags bool // resolve missing fields from the audio file
	hint     bool // title and artist are a fallback for the tags
}
