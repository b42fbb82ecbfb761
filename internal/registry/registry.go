package registry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"addressjp-api/internal/masterdata"
	"addressjp-api/internal/models"

	"github.com/spf13/cast"
)

var (
	errMissing   = errors.New("missing")
	errNotNumber = errors.New("not an integer")
)

// Loader supplies the raw records for a data source key.
type Loader interface {
	Load(ctx context.Context, key string) ([]masterdata.Record, error)
}

// Registry is an immutable, typed view over every division of one kind.
type Registry struct {
	cfg       KindConfig
	divisions []models.Division
	byID      map[int]int
	byName    map[string][]int
	pattern   *regexp.Regexp
}

// New loads the records for cfg and builds a registry from them.
func New(ctx context.Context, loader Loader, cfg KindConfig) (*Registry, error) {
	records, err := loader.Load(ctx, cfg.DataSourceKey)
	if err != nil {
		if cfg.Optional && errors.Is(err, masterdata.ErrNotFound) {
			return FromRecords(cfg, nil)
		}
		return nil, fmt.Errorf("registry: failed to load %s: %w", cfg.Kind, err)
	}
	return FromRecords(cfg, records)
}

// FromRecords converts raw records into a registry, keeping their order.
func FromRecords(cfg KindConfig, records []masterdata.Record) (*Registry, error) {
	r := &Registry{
		cfg:       cfg,
		divisions: make([]models.Division, 0, len(records)),
		byID:      make(map[int]int, len(records)),
		byName:    make(map[string][]int),
	}

	for i, record := range records {
		d, err := toDivision(cfg, i, record)
		if err != nil {
			return nil, err
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, &InvalidRecordError{Kind: cfg.Kind, Index: i, Field: "id", Err: fmt.Errorf("duplicate id %d", d.ID)}
		}
		r.byID[d.ID] = len(r.divisions)
		r.byName[d.Name] = append(r.byName[d.Name], len(r.divisions))
		r.divisions = append(r.divisions, d)
	}

	r.pattern = buildPattern(r.divisions)
	return r, nil
}

// Kind returns the division kind held by the registry.
func (r *Registry) Kind() models.Kind {
	return r.cfg.Kind
}

// Config returns the configuration the registry was built from.
func (r *Registry) Config() KindConfig {
	return r.cfg
}

// Len returns the number of divisions.
func (r *Registry) Len() int {
	return len(r.divisions)
}

// All returns every division in source order.
func (r *Registry) All() []models.Division {
	out := make([]models.Division, len(r.divisions))
	copy(out, r.divisions)
	return out
}

// FindByID returns the division with the given id.
func (r *Registry) FindByID(id int) (models.Division, bool) {
	i, ok := r.byID[id]
	if !ok {
		return models.Division{}, false
	}
	return r.divisions[i], true
}

// FindByName returns every division named name, in source order. When parent is
// non-nil only divisions belonging to that parent are returned. Names may repeat
// across parents; choosing between them is left to the caller.
func (r *Registry) FindByName(name string, parent *int) []models.Division {
	var out []models.Division
	for _, i := range r.byName[name] {
		d := r.divisions[i]
		if parent != nil && !d.HasParent(*parent) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Children returns the divisions owned by parentID, in source order.
func (r *Registry) Children(parentID int) []models.Division {
	var out []models.Division
	for _, d := range r.divisions {
		if d.HasParent(parentID) {
			out = append(out, d)
		}
	}
	return out
}

// NamePattern returns an alternation over every known name, longest names
// first so that a name is never shadowed by a shorter one it contains.
// It is nil when the registry is empty.
func (r *Registry) NamePattern() *regexp.Regexp {
	return r.pattern
}

// Names returns the distinct names in the order used by NamePattern.
func (r *Registry) Names() []string {
	return sortedNames(r.divisions)
}

func sortedNames(divisions []models.Division) []string {
	seen := make(map[string]bool, len(divisions))
	names := make([]string, 0, len(divisions))
	for _, d := range divisions {
		if !seen[d.Name] {
			seen[d.Name] = true
			names = append(names, d.Name)
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return utf8.RuneCountInString(names[i]) > utf8.RuneCountInString(names[j])
	})
	return names
}

func buildPattern(divisions []models.Division) *regexp.Regexp {
	names := sortedNames(divisions)
	if len(names) == 0 {
		return nil
	}
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = regexp.QuoteMeta(name)
	}
	return regexp.MustCompile("(?:" + strings.Join(quoted, "|") + ")")
}

func toDivision(cfg KindConfig, index int, record masterdata.Record) (models.Division, error) {
	invalid := func(field string, err error) error {
		return &InvalidRecordError{Kind: cfg.Kind, Index: index, Field: field, Err: err}
	}

	rawID, ok := record["id"]
	if !ok || rawID == nil {
		return models.Division{}, invalid("id", errMissing)
	}
	id, err := toInt(rawID)
	if err != nil {
		return models.Division{}, invalid("id", err)
	}

	name, err := cast.ToStringE(record["name"])
	if err != nil {
		return models.Division{}, invalid("name", err)
	}
	if name = strings.TrimSpace(name); name == "" {
		return models.Division{}, invalid("name", errMissing)
	}

	d := models.Division{ID: id, Name: name, Kind: cfg.Kind}
	if cfg.TopLevel() {
		return d, nil
	}

	field, rawParent := parentValue(cfg, record)
	if rawParent == nil {
		return models.Division{}, invalid(cfg.ParentField, errMissing)
	}
	parentID, err := toInt(rawParent)
	if err != nil {
		return models.Division{}, invalid(field, err)
	}
	d.ParentID = &parentID
	return d, nil
}

func parentValue(cfg KindConfig, record masterdata.Record) (string, any) {
	if cfg.ParentField != "" {
		if v, ok := record[cfg.ParentField]; ok && v != nil {
			return cfg.ParentField, v
		}
	}
	return "parent_id", record["parent_id"]
}

// toInt accepts integers, integral floats (JSON numbers) and decimal strings.
func toInt(v any) (int, error) {
	switch t := v.(type) {
	case nil, bool:
		return 0, errNotNumber
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errNotNumber, t)
		}
		return n, nil
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("%w: %v", errNotNumber, t)
		}
	case float32:
		if float64(t) != math.Trunc(float64(t)) {
			return 0, fmt.Errorf("%w: %v", errNotNumber, t)
		}
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errNotNumber, err)
	}
	return n, nil
}
