package playlist

import (
	"bufio"
	"io"
	"strings"
)

const extinfPrefix = "#EXTINF:"

func parseM3U(r io.Reader) ([]entry, error) {
	var (
		entries []entry
		pending entry
	)

	scanner := bufio.NewScanner(r)
	for lineNo := 0; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 0 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, extinfPrefix):
			pending = parseExtinf(strings.TrimPrefix(line, extinfPrefix))
		case strings.HasPrefix(line, "#"):
			continue
		default:
			pending.location = line
			pending.fromTags = true
			pending.hint = true
			entries = append(entries, pending)
			pending = entry{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// parseExtinf reads "<duration>,<artist> - <title>".
func parseExtinf(info string) entry {
	_, display, ok := strings.Cut(info, ",")
	if !ok {
		return entry{}
	}

	artist, title, ok := strings.Cut(display, " - ")
	if !ok {
		return entry{title: strings.TrimSpace(display)}
	}
	return entry{artist: strings.TrimSpace(artist), title: strings.TrimSpace(title)}
}
