package service

import (
	"errors"
	"fmt"

	"addressjp-api/internal/models"
	"addressjp-api/internal/registry"
)

// ErrDivisionNotFound is returned when a division id is unknown.
var ErrDivisionNotFound = errors.New("service: division not found")

// DivisionService exposes the reference divisions and their hierarchy.
type DivisionService struct {
	directory *registry.Directory
}

// NewDivisionService creates a new division service
func NewDivisionService(dir *registry.Directory) *DivisionService {
	return &DivisionService{directory: dir}
}

// ListPrefectures returns every prefecture in source order.
func (s *DivisionService) ListPrefectures() []models.Division {
	prefectures, ok := s.directory.Registry(models.KindPrefecture)
	if !ok {
		return []models.Division{}
	}
	return prefectures.All()
}

// ListChildren returns the divisions of kind belonging to the given prefecture.
func (s *DivisionService) ListChildren(prefectureID int, kind models.Kind) ([]models.Division, error) {
	prefectures, ok := s.directory.Registry(models.KindPrefecture)
	if !ok {
		return nil, fmt.Errorf("service: no %s registry: %w", models.KindPrefecture, ErrDivisionNotFound)
	}
	prefecture, ok := prefectures.FindByID(prefectureID)
	if !ok {
		return nil, fmt.Errorf("service: prefecture %d: %w", prefectureID, ErrDivisionNotFound)
	}

	children := s.directory.Children(prefecture, kind)
	if children == nil {
		children = []models.Division{}
	}
	return children, nil
}
