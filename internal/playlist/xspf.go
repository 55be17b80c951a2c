package playlist

import (
	"encoding/xml"
	"errors"
	"io"
)

var errMissingTrackList = errors.New("missing trackList element")

type xspfDocument struct {
	XMLName   xml.Name       `xml:"playlist"`
	Title     string         `xml:"title"`
	TrackList *xspfTrackList `xml:"trackList"`
}

type xspfTrackList struct {
	Tracks []xspfTrack `xml:"track"`
}

type xspfTrack struct {
	Title    string `xml:"title"`
	Creator  string `xml:"creator"`
	Album    string `xml:"album"`
	Location string `xml:"location"`
}

func parseXSPF(r io.Reader) ([]entry, error) {
	var doc xspfDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	if doc.TrackList == nil {
		return nil, errMissingTrackList
	}

	entries := make([]entry, 0, len(doc.TrackList.Tracks))
	for _, t := range doc.TrackList.Tracks {
		e := entry{
			title:    t.Title,
			artist:   t.Creator,
			album:    t.Album,
			location: t.Location,
		}
		e.fromTags = e.title == "" || e.artist == ""
		entries = append(entries, e)
	}
	return entries, nil
}
