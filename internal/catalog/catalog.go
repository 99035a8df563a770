// Package catalog holds the immutable listing dataset served by the site.
package catalog

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"dari/internal/domain"
)

const BrandName = "Dari"

// Dataset is built once and never mutated. Accessors return deep copies of
// the listings so callers cannot alter it.
type Dataset struct {
	listings []domain.Listing
	byID     map[string]int
	version  string
}

// New validates every listing and rejects the whole set if any record is
// malformed, naming each offending record.
func New(listings []domain.Listing) (*Dataset, error) {
	var problems []string
	byID := make(map[string]int, len(listings))
	for i, l := range listings {
		if err := domain.Validate(l); err != nil {
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				problems = append(problems, fmt.Sprintf("listing %d (%s): %s", i, l.ID, strings.TrimPrefix(ve.Error(), "validation failed: ")))
				continue
			}
			return nil, err
		}
		if prev, dup := byID[l.ID]; dup {
			problems = append(problems, fmt.Sprintf("listing %d (%s): duplicate id, first seen at %d", i, l.ID, prev))
			continue
		}
		byID[l.ID] = i
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(problems, "; "))
	}

	owned := make([]domain.Listing, len(listings))
	for i, l := range listings {
		owned[i] = cloneListing(l)
	}
	v, err := version(owned)
	if err != nil {
		return nil, err
	}
	return &Dataset{listings: owned, byID: byID, version: v}, nil
}

// Load reads from src and builds a Dataset.
func Load(ctx context.Context, src domain.ListingSource) (*Dataset, error) {
	ls, err := src.LoadListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}
	return New(ls)
}

// Version identifies the dataset content; equal content gives equal versions.
func (d *Dataset) Version() string { return d.version }

func (d *Dataset) Len() int { return len(d.listings) }

// All returns every listing in source order.
func (d *Dataset) All() []domain.Listing {
	return cloneListings(d.listings)
}

// Head returns up to n listings from the front of the dataset.
func (d *Dataset) Head(n int) []domain.Listing {
	if n > len(d.listings) {
		n = len(d.listings)
	}
	if n < 0 {
		n = 0
	}
	return cloneListings(d.listings[:n])
}

func (d *Dataset) Get(id string) (domain.Listing, bool) {
	i, ok := d.byID[id]
	if !ok {
		return domain.Listing{}, false
	}
	return cloneListing(d.listings[i]), true
}

// Resolve maps ids back to listings, ordered by dataset position. Unknown ids are
// dropped.
func (d *Dataset) Resolve(ids []string) []domain.Listing {
	pos := make([]int, 0, len(ids))
	for _, id := range ids {
		if i, ok := d.byID[id]; ok {
			pos = append(pos, i)
		}
	}
	sort.Ints(pos)
	out := make([]domain.Listing, 0, len(pos))
	for _, i := range pos {
		out = append(out, cloneListing(d.listings[i]))
	}
	return out
}

// LoadListings lets a Dataset act as a source, e.g. for the seeder.
func (d *Dataset) LoadListings(context.Context) ([]domain.Listing, error) {
	return d.All(), nil
}

func version(ls []domain.Listing) (string, error) {
	b, err := json.Marshal(ls)
	if err != nil {
		return "", fmt.Errorf("hash dataset: %w", err)
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:]), nil
}

func cloneListings(in []domain.Listing) []domain.Listing {
	out := make([]domain.Listing, len(in))
	for i, l := range in {
		out[i] = cloneListing(l)
	}
	return out
}

// cloneListing deep-copies the slices of l. Features is never nil afterwards,
// so a listing without features has one form whatever source it came from.
func cloneListing(l domain.Listing) domain.Listing {
	l.Images = append(make([]string, 0, len(l.Images)), l.Images...)
	l.Features = append(make([]string, 0, len(l.Features)), l.Features...)
	return l
}
