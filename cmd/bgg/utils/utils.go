package utils

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"bggclient/lib/platforms/bgg/xmlapi"

	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func formatRange(r xmlapi.Range, unit string) string {
	if r.Min == r.Max {
		return fmt.Sprintf("%d%s", r.Min, unit)
	}
	return fmt.Sprintf("%d-%d%s", r.Min, r.Max, unit)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// RenderRecord prints the fields of a record followed by its links, extra
// rows are appended to the field table.
func RenderRecord(record xmlapi.Record, extra ...table.Row) {
	t := NewTable()
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"ID", record.ID},
		{"Name", record.PrimaryName},
		{"Year", record.YearPublished},
		{"Players", formatRange(record.Players, "")},
		{"Playtime", formatRange(record.Playtime, " min")},
		{"Min age", record.MinAge},
		{"Rating", fmt.Sprintf("%.2f (%d ratings)", record.Rating, record.UsersRated)},
		{"Weight", fmt.Sprintf("%.2f (%d votes)", record.Weight, record.NumWeights)},
		{"Owners", record.Owners},
		{"Trading / wanting / wishing", fmt.Sprintf("%d / %d / %d", record.Trading, record.Wanting, record.Wishing)},
		{"Comments", record.NumComments},
		{"Thumbnail", orNone(record.ThumbnailURL)},
		{"Image", orNone(record.ImageURL)},
	})
	t.AppendRows(extra)
	t.Render()

	if len(record.Links) == 0 {
		return
	}
	links := NewTable()
	links.AppendHeader(table.Row{"Type", "ID", "Value"})
	for _, link := range record.Links {
		links.AppendRow(table.Row{link.Type, link.ID, link.Value})
	}
	links.Render()
}

// FormatStatuses renders a status map as "name=value" pairs sorted by name,
// statuses that are 0 are left out.
func FormatStatuses(statuses map[string]int64) string {
	names := make([]string, 0, len(statuses))
	for name, value := range statuses {
		if value != 0 {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	pairs := make([]string, len(names))
	for i, name := range names {
		pairs[i] = fmt.Sprintf("%s=%d", name, statuses[name])
	}
	return strings.Join(pairs, " ")
}
