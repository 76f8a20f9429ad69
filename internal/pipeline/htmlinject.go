package pipeline

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
)

// Sentinel errors for marker substitution.
var (
	ErrMarkerNotFound     = errors.New("marker not found in template")
	ErrEmptyMarker        = errors.New("marker cannot be empty")
	ErrOverlappingMarkers = errors.New("markers overlap in template")
)

// Substitution replaces the first occurrence of Marker with Replacement.
// Name identifies the asset in error messages.
type Substitution struct {
	Name        string
	Marker      string
	Replacement string
}

// Substituter defines the contract for applying substitutions to a template.
type Substituter interface {
	Substitute(ctx context.Context, htmlContent string, subs []Substitution) (string, error)
}

// MarkerSubstitution implements Substituter with first-occurrence matching
// against the unmodified template.
type MarkerSubstitution struct{}

// match is a marker located in the template.
type match struct {
	start, end int
	sub        Substitution
}

// Substitute applies subs to htmlContent in one pass. Every marker is looked
// up in the original template; the first missing marker aborts with
// ErrMarkerNotFound and no partial result.
func (m *MarkerSubstitution) Substitute(ctx context.Context, htmlContent string, subs []Substitution) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if len(subs) == 0 {
		return htmlContent, nil
	}

	matches := make([]match, 0, len(subs))
	for _, s := range subs {
		start, err := FindMarker(htmlContent, s.Marker)
		if err != nil {
			return "", fmt.Errorf("asset %q: %w", s.Name, err)
		}
		matches = append(matches, match{start: start, end: start + len(s.Marker), sub: s})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].start < matches[j].start })
	for i := 1; i < len(matches); i++ {
		if matches[i].start < matches[i-1].end {
			return "", fmt.Errorf("%w: %q and %q", ErrOverlappingMarkers, matches[i-1].sub.Name, matches[i].sub.Name)
		}
	}

	size := len(htmlContent)
	for _, mt := range matches {
		size += len(mt.sub.Replacement) - len(mt.sub.Marker)
	}

	var b strings.Builder
	b.Grow(size)
	prev := 0
	for _, mt := range matches {
		b.WriteString(htmlContent[prev:mt.start])
		b.WriteString(mt.sub.Replacement)
		prev = mt.end
	}
	b.WriteString(htmlContent[prev:])

	return b.String(), nil
}

// FindMarker returns the byte offset of the first occurrence of marker.
func FindMarker(htmlContent, marker string) (int, error) {
	if marker == "" {
		return 0, ErrEmptyMarker
	}
	idx := strings.Index(htmlContent, marker)
	if idx == -1 {
		return 0, fmt.Errorf("%w: %s", ErrMarkerNotFound, marker)
	}
	return idx, nil
}

// CountMarker reports how many non-overlapping times marker occurs.
func CountMarker(htmlContent, marker string) int {
	if marker == "" {
		return 0
	}
	return strings.Count(htmlContent, marker)
}

// InlineScript wraps payload in a bare <script> element. The payload is
// embedded verbatim.
func InlineScript(payload string) string {
	return "<script>" + payload + "</script>"
}

// ExternalScript returns a <script> element loading src.
func ExternalScript(src string) string {
	return `<script src="` + html.EscapeString(src) + `"></script>`
}
