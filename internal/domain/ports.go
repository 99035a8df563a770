package domain

import "context"

// ListingSource supplies the dataset once, at startup.
type ListingSource interface {
	LoadListings(ctx context.Context) ([]Listing, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Intake is the external collaborator behind every simulated submission.
type Intake interface {
	Submit(ctx context.Context, s Submission) error
}
