package domain

type Status string

const (
	StatusRent Status = "Rent"
	StatusBuy  Status = "Buy"
)

type Category string

const (
	CategoryApartments Category = "Apartments"
	CategoryHouses     Category = "Houses"
	CategoryLand       Category = "Land"
	CategoryCommercial Category = "Commercial"
)

// All is the wildcard accepted by every criteria field.
const All = "All"

var (
	Statuses   = []Status{StatusRent, StatusBuy}
	Categories = []Category{CategoryApartments, CategoryHouses, CategoryLand, CategoryCommercial}
	Cities     = []string{"Nairobi", "Kigali", "Kampala"}
)

type Agent struct {
	Name     string `json:"name" yaml:"name" validate:"required"`
	Phone    string `json:"phone" yaml:"phone" validate:"required"`
	Verified bool   `json:"verified" yaml:"verified"`
}

type Listing struct {
	ID         string   `json:"id" yaml:"id" validate:"required"`
	Title      string   `json:"title" yaml:"title" validate:"required"`
	City       string   `json:"city" yaml:"city" validate:"required,city"`
	Country    string   `json:"country" yaml:"country" validate:"required"`
	Type       Category `json:"type" yaml:"type" validate:"required,category"`
	Status     Status   `json:"status" yaml:"status" validate:"required,status"`
	PriceUSD   float64  `json:"priceUSD" yaml:"priceUSD" validate:"gte=0"`
	LocalPrice string   `json:"localPrice" yaml:"localPrice"`
	Beds       int      `json:"beds" yaml:"beds" validate:"gte=0"`
	Baths      int      `json:"baths" yaml:"baths" validate:"gte=0"`
	Size       string   `json:"size" yaml:"size"`
	Images     []string `json:"images" yaml:"images" validate:"min=1,dive,url,startswith=http"`
	Agent      Agent    `json:"agent" yaml:"agent"`
	Features   []string `json:"features" yaml:"features"`
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

func ValidCity(c string) bool {
	for _, v := range Cities {
		if v == c {
			return true
		}
	}
	return false
}
