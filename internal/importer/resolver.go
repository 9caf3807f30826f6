package importer

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/harborlabs/medcatalog-backend/pkg/db/models"
	pkgerrors "github.com/harborlabs/medcatalog-backend/pkg/errors"
	"gorm.io/gorm"
)

// Resolver performs get-or-create resolution of the reference entities a
// product row points at. The caches are scoped to one pipeline run: entities
// are immutable once created, so entries never need invalidation, but a
// Resolver must not be shared across concurrent runs.
//
// Creation goes through conflict-tolerant inserts followed by a re-read, so
// two resolutions racing on the same natural key converge on one stored row.
type Resolver struct {
	repo *Repository

	vendors       map[string]uuid.UUID
	manufacturers map[string]struct{}
}

// NewResolver builds a resolver with empty run-scoped caches.
func NewResolver(repo *Repository) *Resolver {
	return &Resolver{
		repo:          repo,
		vendors:       make(map[string]uuid.UUID),
		manufacturers: make(map[string]struct{}),
	}
}

// ResolveVendor returns the vendor id for a site source, creating the
// vendor on first encounter. The vendor name is the trimmed site source.
func (r *Resolver) ResolveVendor(ctx context.Context, siteSource string) (uuid.UUID, error) {
	name := strings.TrimSpace(siteSource)
	if name == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "site source is required to resolve a vendor")
	}
	if id, ok := r.vendors[name]; ok {
		return id, nil
	}

	vendor, err := r.repo.FindVendorByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up vendor")
	}
	if vendor == nil {
		created := &models.Vendor{
			ID:         uuid.New(),
			Name:       name,
			SiteSource: strings.TrimSpace(siteSource),
		}
		if err := r.repo.CreateVendorIfAbsent(ctx, created); err != nil {
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating vendor")
		}
		vendor, err = r.repo.FindVendorByName(ctx, name)
		if err != nil {
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "re-reading vendor after insert")
		}
	}

	r.vendors[name] = vendor.ID
	return vendor.ID, nil
}

// ResolveManufacturer ensures a manufacturer row exists for the id and
// returns the id unchanged. The name is written only on first creation.
func (r *Resolver) ResolveManufacturer(ctx context.Context, manufacturerID, name string) (string, error) {
	id := strings.TrimSpace(manufacturerID)
	if id == "" {
		return "", nil
	}
	if _, ok := r.manufacturers[id]; ok {
		return id, nil
	}

	_, err := r.repo.FindManufacturerByID(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		manufacturer := &models.Manufacturer{
			ManufacturerID: id,
			Name:           strings.TrimSpace(name),
		}
		if err := r.repo.CreateManufacturerIfAbsent(ctx, manufacturer); err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating manufacturer")
		}
	default:
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up manufacturer")
	}

	r.manufacturers[id] = struct{}{}
	return id, nil
}
