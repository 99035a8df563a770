package catalog

import (
	"context"

	"dari/internal/domain"
)

// Builtin is the launch dataset: one or two listings per city.
type Builtin struct{}

func (Builtin) LoadListings(context.Context) ([]domain.Listing, error) {
	return builtinListings(), nil
}

func builtinListings() []domain.Listing {
	return []domain.Listing{
		{
			ID:         "NAI-APT-001",
			Title:      "2BR Modern Apartment - Kileleshwa",
			City:       "Nairobi",
			Country:    "Kenya",
			Type:       domain.CategoryApartments,
			Status:     domain.StatusRent,
			PriceUSD:   900,
			LocalPrice: "KES 120,000/mo",
			Beds:       2,
			Baths:      2,
			Size:       "110 sqm",
			Images: []string{
				"https://images.unsplash.com/photo-1600585154526-990dced4db0d?q=80&w=1600&auto=format&fit=crop",
				"https://images.unsplash.com/photo-1505692794403-34d4982f88aa?q=80&w=1600&auto=format&fit=crop",
			},
			Agent:    domain.Agent{Name: "Amani Estates", Phone: "+254700000000", Verified: true},
			Features: []string{"Backup power", "Parking", "Gym", "Elevator"},
		},
		{
			ID:         "KGL-HSE-002",
			Title:      "3BR Townhouse - Kibagabaga",
			City:       "Kigali",
			Country:    "Rwanda",
			Type:       domain.CategoryHouses,
			Status:     domain.StatusBuy,
			PriceUSD:   185000,
			LocalPrice: "RWF 240,000,000",
			Beds:       3,
			Baths:      3,
			Size:       "260 sqm",
			Images: []string{
				"https://images.unsplash.com/photo-1502005229762-cf1b2da7c52f?q=80&w=1600&auto=format&fit=crop",
				"https://images.unsplash.com/photo-1616594039964-ae9021a400a0?q=80&w=1600&auto=format&fit=crop",
			},
			Agent:    domain.Agent{Name: "Kwetu Developers", Phone: "+250788000000", Verified: true},
			Features: []string{"Title verified", "Garden", "City view"},
		},
		{
			ID:         "KLA-LND-003",
			Title:      "Half-Acre Plot - Kira",
			City:       "Kampala",
			Country:    "Uganda",
			Type:       domain.CategoryLand,
			Status:     domain.StatusBuy,
			PriceUSD:   42000,
			LocalPrice: "UGX 160,000,000",
			Size:       "0.50 acre",
			Images: []string{
				"https://images.unsplash.com/photo-1500530855697-b586d89ba3ee?q=80&w=1600&auto=format&fit=crop",
				"https://images.unsplash.com/photo-1500382017468-9049fed747ef?q=80&w=1600&auto=format&fit=crop",
			},
			Agent:    domain.Agent{Name: "Pearl Land Co.", Phone: "+256770000000"},
			Features: []string{"Ready for development", "Access road"},
		},
		{
			ID:         "NAI-COM-004",
			Title:      "Retail Space - Westlands (120 sqm)",
			City:       "Nairobi",
			Country:    "Kenya",
			Type:       domain.CategoryCommercial,
			Status:     domain.StatusRent,
			PriceUSD:   1600,
			LocalPrice: "KES 220,000/mo",
			Baths:      1,
			Size:       "120 sqm",
			Images: []string{
				"https://images.unsplash.com/photo-1558002038-1055907df827?q=80&w=1600&auto=format&fit=crop",
				"https://images.unsplash.com/photo-1524758631624-e2822e304c36?q=80&w=1600&auto=format&fit=crop",
			},
			Agent:    domain.Agent{Name: "Arcadia Realtors", Phone: "+254711111111", Verified: true},
			Features: []string{"High foot traffic", "Parking", "Security"},
		},
	}
}
