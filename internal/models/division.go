package models

import (
	"fmt"
	"strings"
)

// Kind identifies one level of the Japanese administrative hierarchy.
type Kind int

const (
	KindPrefecture Kind = iota + 1
	KindCity
	KindCounty
	KindTown
)

var kindNames = map[Kind]string{
	KindPrefecture: "prefecture",
	KindCity:       "city",
	KindCounty:     "county",
	KindTown:       "town",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind maps a kind name to its Kind. "village" is accepted as an alias of town.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prefecture", "prefectures":
		return KindPrefecture, nil
	case "city", "cities":
		return KindCity, nil
	case "county", "counties":
		return KindCounty, nil
	case "town", "towns", "village", "villages":
		return KindTown, nil
	}
	return 0, fmt.Errorf("models: unknown division kind %q", s)
}

// Division is a single administrative unit: a prefecture, city, county or town.
type Division struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ParentID *int   `json:"parent_id,omitempty"`
	Kind     Kind   `json:"kind"`
}

// HasParent reports whether the division belongs to the given parent id.
func (d Division) HasParent(parentID int) bool {
	return d.ParentID != nil && *d.ParentID == parentID
}
