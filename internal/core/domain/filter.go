package domain

// SortKey is the requested ordering of a product listing.
type SortKey string

const (
	SortPopularity SortKey = "popularity"
	SortPriceLow   SortKey = "price-low"
	SortPriceHigh  SortKey = "price-high"
	SortRating     SortKey = "rating"
	SortNewest     SortKey = "newest"
)

// selectorAll is sent by list selectors to drop a constraint.
const selectorAll = "all"

// A FilterState narrows the catalog view. Empty fields mean no constraint.
type FilterState struct {
	Category   string
	Gender     string
	PriceRange string
	Rating     string
	SortBy     SortKey
}

// Normalize maps the "all" selector value of every field to unset.
func (fs FilterState) Normalize() FilterState {
	unset := func(v string) string {
		if v == selectorAll {
			return ""
		}
		return v
	}
	fs.Category = unset(fs.Category)
	fs.Gender = unset(fs.Gender)
	fs.PriceRange = unset(fs.PriceRange)
	fs.Rating = unset(fs.Rating)
	fs.SortBy = SortKey(unset(string(fs.SortBy)))
	return fs
}
