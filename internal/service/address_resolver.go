package service

import (
	"errors"
	"fmt"
	"strings"

	"addressjp-api/internal/matcher"
	"addressjp-api/internal/metrics"
	"addressjp-api/internal/models"
	"addressjp-api/internal/registry"

	"github.com/rs/zerolog"
)

// ErrInvalidInput is returned when the address to parse is empty.
var ErrInvalidInput = errors.New("service: address cannot be empty")

// AddressResolver splits a free-form address into its administrative divisions.
type AddressResolver struct {
	prefectures *registry.Registry
	cities      *registry.Registry
	matcher     *matcher.Matcher
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewAddressResolver creates a resolver over the prefecture and city registries of dir
func NewAddressResolver(dir *registry.Directory, m *matcher.Matcher, logger zerolog.Logger, mt *metrics.Metrics) (*AddressResolver, error) {
	prefectures, ok := dir.Registry(models.KindPrefecture)
	if !ok {
		return nil, fmt.Errorf("service: no %s registry", models.KindPrefecture)
	}
	cities, ok := dir.Registry(models.KindCity)
	if !ok {
		return nil, fmt.Errorf("service: no %s registry", models.KindCity)
	}

	return &AddressResolver{
		prefectures: prefectures,
		cities:      cities,
		matcher:     m,
		logger:      logger,
		metrics:     mt,
	}, nil
}

// resolution carries the state shared by the resolution stages of one call.
type resolution struct {
	text    string
	address *models.Address
}

type stage struct {
	level models.Level
	run   func(*resolution)
}

func (r *AddressResolver) stages() []stage {
	return []stage{
		{models.LevelPrefecture, r.resolvePrefecture},
		{models.LevelCity, r.resolveCity},
		// County, town and detail extraction are not implemented yet; their
		// levels are always reported as unresolved.
		{models.LevelCounty, notImplemented},
		{models.LevelTown, notImplemented},
		{models.LevelDetail, notImplemented},
	}
}

// Resolve parses text into an Address. Divisions that cannot be found are left
// unresolved; only empty input is an error.
func (r *AddressResolver) Resolve(text string) (*models.Address, error) {
	if strings.TrimSpace(text) == "" {
		r.metrics.IncrementInvalidInput()
		return nil, ErrInvalidInput
	}

	res := &resolution{
		text:    text,
		address: &models.Address{Input: text, Unresolved: []models.Level{}},
	}

	for _, s := range r.stages() {
		s.run(res)
		resolved := res.address.Resolved(s.level)
		if !resolved {
			res.address.Unresolved = append(res.address.Unresolved, s.level)
		}
		r.metrics.ObserveResolution(string(s.level), resolved)
	}

	r.logger.Debug().
		Str("input", text).
		Interface("unresolved", res.address.Unresolved).
		Msg("address resolved")

	return res.address, nil
}

func (r *AddressResolver) resolvePrefecture(res *resolution) {
	match, ok := r.matcher.Match(res.text, r.prefectures, nil)
	if !ok {
		return
	}
	res.note(match)
	prefecture := match.Division
	res.address.Prefecture = &prefecture
}

// resolveCity searches for a city of the resolved prefecture, or any city when
// no prefecture was found.
func (r *AddressResolver) resolveCity(res *resolution) {
	var scope *int
	if res.address.Prefecture != nil {
		id := res.address.Prefecture.ID
		scope = &id
	}

	match, ok := r.matcher.Match(res.text, r.cities, scope)
	if !ok {
		return
	}
	res.note(match)
	city := match.Division
	res.address.City = &city
}

func notImplemented(*resolution) {}

func (res *resolution) note(match matcher.Match) {
	if !match.Ambiguous() {
		return
	}
	res.address.Warnings = append(res.address.Warnings, fmt.Sprintf(
		"%s name %q matched %d divisions; using id %d",
		match.Division.Kind, match.Text, match.Candidates, match.Division.ID,
	))
}
