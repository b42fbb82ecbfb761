package matcher

import (
	"regexp"

	"addressjp-api/internal/metrics"
	"addressjp-api/internal/models"

	"github.com/rs/zerolog"
)

// Catalog is the view of a division registry the matcher needs.
type Catalog interface {
	Kind() models.Kind
	NamePattern() *regexp.Regexp
	FindByName(name string, parent *int) []models.Division
}

// Match is a division found in a piece of text. Start and End are byte
// offsets of the matched name.
type Match struct {
	Division   models.Division
	Text       string
	Start      int
	End        int
	Candidates int
}

// Ambiguous reports whether more than one division carried the matched name
// within the requested scope.
func (m Match) Ambiguous() bool {
	return m.Candidates > 1
}

// Matcher finds the first known division name within a string.
type Matcher struct {
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// New creates a new matcher
func New(logger zerolog.Logger, m *metrics.Metrics) *Matcher {
	return &Matcher{logger: logger, metrics: m}
}

// Match searches text for the first name known to catalog and resolves it to a
// division. With a non-nil parent only that parent's divisions qualify; a name
// found in the text without a qualifying division is not a match. When several
// divisions qualify the first in source order is returned and the match is
// flagged as ambiguous.
func (m *Matcher) Match(text string, catalog Catalog, parent *int) (Match, bool) {
	pattern := catalog.NamePattern()
	if pattern == nil {
		return Match{}, false
	}

	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return Match{}, false
	}
	name := text[loc[0]:loc[1]]

	candidates := catalog.FindByName(name, parent)
	if len(candidates) == 0 {
		m.logger.Debug().
			Stringer("kind", catalog.Kind()).
			Str("name", name).
			Interface("parent", parent).
			Msg("name matched outside the requested scope")
		return Match{}, false
	}

	match := Match{
		Division:   candidates[0],
		Text:       name,
		Start:      loc[0],
		End:        loc[1],
		Candidates: len(candidates),
	}

	if match.Ambiguous() {
		m.metrics.IncrementAmbiguous(catalog.Kind().String())
		m.logger.Warn().
			Stringer("kind", catalog.Kind()).
			Str("name", name).
			Interface("parent", parent).
			Int("candidates", len(candidates)).
			Int("chosen_id", match.Division.ID).
			Msg("ambiguous division name")
	}

	return match, true
}
