package models

// Level is a step of address resolution, ordered from the widest area down.
type Level string

const (
	LevelPrefecture Level = "prefecture"
	LevelCity       Level = "city"
	LevelCounty     Level = "county"
	LevelTown       Level = "town"
	LevelDetail     Level = "detail"
)

// Levels lists every resolution level in the order they are attempted.
var Levels = []Level{LevelPrefecture, LevelCity, LevelCounty, LevelTown, LevelDetail}

// Address is the result of parsing a free-form Japanese address. Fields that
// could not be resolved are nil and their level is listed in Unresolved.
type Address struct {
	Input      string    `json:"input"`
	Prefecture *Division `json:"prefecture"`
	City       *Division `json:"city"`
	County     *Division `json:"county"`
	Town       *Division `json:"town"`
	Detail     *string   `json:"detail"`
	Unresolved []Level   `json:"unresolved"`
	Warnings   []string  `json:"warnings,omitempty"`
}

// Resolved reports whether the given level holds a value.
func (a *Address) Resolved(level Level) bool {
	switch level {
	case LevelPrefecture:
		return a.Prefecture != nil
	case LevelCity:
		return a.City != nil
	case LevelCounty:
		return a.County != nil
	case LevelTown:
		return a.Town != nil
	case LevelDetail:
		return a.Detail != nil
	}
	return false
}
