package deck

import "strings"

// BulletMarker prefixes every point in a body placeholder.
const BulletMarker = "• "

// SlideRecord is the generated content for one content slide.
type SlideRecord struct {
	Title  string   `json:"title" yaml:"title"`
	Points []string `json:"points" yaml:"points"`
}

// BodyText renders points as bullet lines: "• a\n• b".
func BodyText(points []string) string {
	return BulletMarker + strings.Join(points, "\n"+BulletMarker)
}

// Clean trims titles and points, drops blank points, and drops records left
// without a title or without points. The returned slice never aliases the
// input's point slices.
func Clean(records []SlideRecord) []SlideRecord {
	out := make([]SlideRecord, 0, len(records))
	for _, r := range records {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}
		points := make([]string, 0, len(r.Points))
		for _, p := range r.Points {
			if p = strings.TrimSpace(p); p != "" {
				points = append(points, p)
			}
		}
		if len(points) == 0 {
			continue
		}
		out = append(out, SlideRecord{Title: title, Points: points})
	}
	return out
}
