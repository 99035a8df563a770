package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"dari/internal/adapters/observability"
	"dari/internal/catalog"
	"dari/internal/contact"
	"dari/internal/domain"
)

type QueryService struct {
	ds       *catalog.Dataset
	cache    domain.Cache
	cacheTTL time.Duration
	group    singleflight.Group
}

func NewQueryService(ds *catalog.Dataset, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{ds: ds, cache: c, cacheTTL: ttl}
}

func (s *QueryService) Dataset() *catalog.Dataset { return s.ds }

// Browse returns the listings matching c. Results are memoized per
// (dataset version, criteria); the cache stores ids, which are resolved against
// the live dataset so a stale entry can never surface foreign records.
func (s *QueryService) Browse(ctx context.Context, c domain.Criteria) []domain.Listing {
	key := filterKey(s.ds.Version(), c)

	var ids []string
	if s.cache != nil {
		ok, err := s.cache.Get(ctx, key, &ids)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("filter cache read failed")
		}
		if ok && err == nil {
			return s.ds.Resolve(ids)
		}
	}

	// callers sharing one scan each resolve their own copies
	v, _, _ := s.group.Do(key, func() (any, error) {
		out := domain.Filter(s.ds.All(), c)
		observability.ObserveFilter(len(out))
		ids := listingIDs(out)
		if s.cache != nil {
			if err := s.cache.Set(ctx, key, ids, int(s.cacheTTL.Seconds())); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("filter cache write failed")
			}
		}
		return ids, nil
	})
	return s.ds.Resolve(v.([]string))
}

// Featured is the landing page teaser.
func (s *QueryService) Featured(n int) []domain.Listing { return s.ds.Head(n) }

func (s *QueryService) Listing(id string) (domain.Listing, error) {
	l, ok := s.ds.Get(id)
	if !ok {
		return domain.Listing{}, fmt.Errorf("listing %q: %w", id, domain.ErrNotFound)
	}
	return l, nil
}

// ContactLink is the detail view's chat link for a listing.
func (s *QueryService) ContactLink(id string) (string, error) {
	l, err := s.Listing(id)
	if err != nil {
		return "", err
	}
	return contact.WhatsAppLink(l.Agent.Phone, contact.ListingMessage(l.Agent.Name, l.Title)), nil
}

// ContactLinkWithMessage uses message verbatim; an empty message gets the
// default greeting.
func (s *QueryService) ContactLinkWithMessage(id, message string) (string, error) {
	l, err := s.Listing(id)
	if err != nil {
		return "", err
	}
	return contact.WhatsAppLink(l.Agent.Phone, message), nil
}

func filterKey(version string, c domain.Criteria) string {
	return fmt.Sprintf("filter:%s:%s:%s:%s", version, c.Status, c.City, c.Type)
}

func listingIDs(ls []domain.Listing) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}
