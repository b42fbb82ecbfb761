package registry

import (
	"context"
	"fmt"
	"sync"

	"addressjp-api/internal/models"

	"golang.org/x/sync/errgroup"
)

// Directory groups the registries of every configured kind and follows
// parent/child links between them.
type Directory struct {
	registries map[models.Kind]*Registry
}

// NewDirectory builds a registry for each config. Kinds are loaded concurrently;
// the first failure aborts construction.
func NewDirectory(ctx context.Context, loader Loader, cfgs ...KindConfig) (*Directory, error) {
	if len(cfgs) == 0 {
		cfgs = DefaultKinds()
	}

	var mu sync.Mutex
	registries := make(map[models.Kind]*Registry, len(cfgs))

	g, gctx := errgroup.WithContext(ctx)
	for _, cfg := range cfgs {
		g.Go(func() error {
			r, err := New(gctx, loader, cfg)
			if err != nil {
				return err
			}
			mu.Lock()
			registries[cfg.Kind] = r
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range registries {
		if r.cfg.TopLevel() {
			continue
		}
		if _, ok := registries[r.cfg.ParentKind]; !ok {
			return nil, fmt.Errorf("registry: %s requires parent kind %s", r.cfg.Kind, r.cfg.ParentKind)
		}
	}

	return &Directory{registries: registries}, nil
}

// NewDirectoryFromRegistries assembles a directory from already built registries.
func NewDirectoryFromRegistries(registries ...*Registry) *Directory {
	d := &Directory{registries: make(map[models.Kind]*Registry, len(registries))}
	for _, r := range registries {
		d.registries[r.Kind()] = r
	}
	return d
}

// Registry returns the registry for kind.
func (d *Directory) Registry(kind models.Kind) (*Registry, bool) {
	r, ok := d.registries[kind]
	return r, ok
}

// Parent returns the division owning div.
func (d *Directory) Parent(div models.Division) (models.Division, bool) {
	r, ok := d.registries[div.Kind]
	if !ok || r.cfg.TopLevel() || div.ParentID == nil {
		return models.Division{}, false
	}
	parents, ok := d.registries[r.cfg.ParentKind]
	if !ok {
		return models.Division{}, false
	}
	return parents.FindByID(*div.ParentID)
}

// Children returns the divisions of kind owned by parent.
func (d *Directory) Children(parent models.Division, kind models.Kind) []models.Division {
	r, ok := d.registries[kind]
	if !ok || r.cfg.ParentKind != parent.Kind {
		return nil
	}
	return r.Children(parent.ID)
}
