package registry

import "addressjp-api/internal/models"

// KindConfig describes where the records of one division kind come from and
// which kind owns them.
type KindConfig struct {
	Kind          models.Kind
	DataSourceKey string
	// ParentKind is zero for the top-level kind.
	ParentKind models.Kind
	// ParentField names the raw field holding the parent id. The generic
	// "parent_id" field is always accepted as well.
	ParentField string
	// Optional kinds resolve to an empty registry when the source has no data for them.
	Optional bool
}

// TopLevel reports whether divisions of this kind have no parent.
func (c KindConfig) TopLevel() bool {
	return c.ParentKind == 0
}

var (
	Prefectures = KindConfig{
		Kind:          models.KindPrefecture,
		DataSourceKey: "prefectures",
	}
	Cities = KindConfig{
		Kind:          models.KindCity,
		DataSourceKey: "cities",
		ParentKind:    models.KindPrefecture,
		ParentField:   "prefecture_id",
	}
	Counties = KindConfig{
		Kind:          models.KindCounty,
		DataSourceKey: "counties",
		ParentKind:    models.KindPrefecture,
		ParentField:   "prefecture_id",
		Optional:      true,
	}
	Towns = KindConfig{
		Kind:          models.KindTown,
		DataSourceKey: "towns",
		ParentKind:    models.KindPrefecture,
		ParentField:   "prefecture_id",
		Optional:      true,
	}
)

// DefaultKinds returns the configuration of every known division kind.
func DefaultKinds() []KindConfig {
	return []KindConfig{Prefectures, Cities, Counties, Towns}
}
