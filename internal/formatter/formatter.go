// package formatter renders sync plans in various formats (CSV, JSON, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/shared"
)

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatText, FormatMarkdown, FormatCSV, FormatJSON}

// ParseFormat resolves a format name. "txt" and "md" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, name)
	}
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatCSV:
		return ".csv"
	case FormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}

// PlanToCSV converts a plan to CSV format with columns: Action, ID, Artist, Title, Album, Reason
//
// Additions and removals come first, followed by one "skip" row per warning.
func PlanToCSV(plan *models.Plan) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Action", "ID", "Artist", "Title", "Album", "Reason"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	var records [][]string
	for _, e := range plan.ToAdd {
		records = append(records, []string{models.ActionAdd, e.ID, e.Track.Artist, e.Track.Title, e.Track.Album, ""})
	}
	for _, e := range plan.ToRemove {
		records = append(records, []string{models.ActionRemove, e.ID, e.Track.Artist, e.Track.Title, e.Track.Album, ""})
	}
	for _, w := range plan.Warnings {
		records = append(records, []string{"skip", "", w.Track.Artist, w.Track.Title, w.Track.Album, w.Kind.String() + ": " + w.Reason})
	}

	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// PlanToMarkdown converts a plan to Markdown format with one section per operation kind
func PlanToMarkdown(name string, plan *models.Plan) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", name))
	buf.WriteString(fmt.Sprintf("**Add**: %d\n", len(plan.ToAdd)))
	buf.WriteString(fmt.Sprintf("**Remove**: %d\n", len(plan.ToRemove)))
	buf.WriteString(fmt.Sprintf("**Skipped**: %d\n\n", len(plan.Warnings)))

	if plan.Empty() && len(plan.Warnings) == 0 {
		buf.WriteString("Up to date.\n")
		return buf.Bytes(), nil
	}

	if len(plan.ToAdd) > 0 {
		buf.WriteString("## Add\n\n")
		for i, e := range plan.ToAdd {
			buf.WriteString(fmt.Sprintf("%d. %s%s\n", i+1, e.DisplayName, albumPart(e.Track)))
		}
		buf.WriteString("\n")
	}

	if len(plan.ToRemove) > 0 {
		buf.WriteString("## Remove\n\n")
		for i, e := range plan.ToRemove {
			buf.WriteString(fmt.Sprintf("%d. %s%s\n", i+1, e.DisplayName, albumPart(e.Track)))
		}
		buf.WriteString("\n")
	}

	if len(plan.Warnings) > 0 {
		buf.WriteString("## Skipped\n\n")
		for _, w := range plan.Warnings {
			buf.WriteString(fmt.Sprintf("- %s (%s: %s)\n", warningName(w), w.Kind, w.Reason))
		}
	}

	return buf.Bytes(), nil
}

// PlanToText converts a plan to plain text format
func PlanToText(name string, plan *models.Plan) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", name))
	if plan.Empty() {
		buf.WriteString("Up to date.\n")
	}

	for _, e := range plan.ToAdd {
		buf.WriteString(fmt.Sprintf("+ %s\n", e.DisplayName))
	}
	for _, e := range plan.ToRemove {
		buf.WriteString(fmt.Sprintf("- %s\n", e.DisplayName))
	}
	for _, w := range plan.Warnings {
		buf.WriteString(fmt.Sprintf("! %s (%s: %s)\n", warningName(w), w.Kind, w.Reason))
	}

	return buf.Bytes(), nil
}

type jsonEntry struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album,omitempty"`
}

type jsonWarning struct {
	Kind   string `json:"kind"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Source string `json:"source,omitempty"`
	Reason string `json:"reason"`
}

type jsonPlan struct {
	Playlist string        `json:"playlist"`
	ToAdd    []jsonEntry   `json:"to_add"`
	ToRemove []jsonEntry   `json:"to_remove"`
	Warnings []jsonWarning `json:"warnings"`
}

// PlanToJSON generates an indented JSON representation of a plan
func PlanToJSON(name string, plan *models.Plan) ([]byte, error) {
	out := jsonPlan{
		Playlist: name,
		ToAdd:    toJSONEntries(plan.ToAdd),
		ToRemove: toJSONEntries(plan.ToRemove),
		Warnings: make([]jsonWarning, len(plan.Warnings)),
	}
	for i, w := range plan.Warnings {
		out.Warnings[i] = jsonWarning{
			Kind:   w.Kind.String(),
			Title:  w.Track.Title,
			Artist: w.Track.Artist,
			Source: w.Track.SourcePath,
			Reason: w.Reason,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan: %w", err)
	}
	return append(data, '\n'), nil
}

// Render converts a plan to the given format.
func Render(format Format, name string, plan *models.Plan) ([]byte, error) {
	switch format {
	case FormatText:
		return PlanToText(name, plan)
	case FormatMarkdown:
		return PlanToMarkdown(name, plan)
	case FormatCSV:
		return PlanToCSV(plan)
	case FormatJSON:
		return PlanToJSON(name, plan)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// WritePlan renders a plan to w.
func WritePlan(w io.Writer, format Format, name string, plan *models.Plan) error {
	data, err := Render(format, name, plan)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	return nil
}

// WritePlanFile renders a plan to a file.
//
// Defaults to {name}_plan{ext} as the filename.
func WritePlanFile(path string, format Format, name string, plan *models.Plan) (string, error) {
	if path == "" {
		path = name + "_plan" + format.Extension()
	}

	data, err := Render(format, name, plan)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write plan file: %w", err)
	}
	return path, nil
}

func toJSONEntries(entries []models.PlanEntry) []jsonEntry {
	out := make([]jsonEntry, len(entries))
	for i, e := range entries {
		out[i] = jsonEntry{
			ID:          e.ID,
			DisplayName: e.DisplayName,
			Title:       e.Track.Title,
			Artist:      e.Track.Artist,
			Album:       e.Track.Album,
		}
	}
	return out
}

func albumPart(t models.TrackRef) string {
	if t.Album == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", t.Album)
}

func warningName(w models.Warning) string {
	if w.Track.Title == "" && w.Track.Artist == "" && w.Track.SourcePath != "" {
		return w.Track.SourcePath
	}
	return w.Track.DisplayName()
}
