package domain

// Currency of every catalog price. Prices are whole rupees.
const Currency = "INR"

type (
	Product struct {
		ID            string
		Name          string
		Price         int64
		OriginalPrice int64
		Rating        float64
		ReviewCount   int
		ShopName      string
		Location      string
		Images        []string
		Sizes         []string
		Colors        []string
		Category      string
		Gender        string
		InStock       bool
	}

	Shop struct {
		ID           string
		Name         string
		Location     string
		Rating       float64
		ReviewCount  int
		Categories   []string
		IsOpen       bool
		DeliveryTime string
		Image        string
		PinCodes     []string
	}

	Location struct {
		PinCode string
		Area    string
		City    string
	}
)

// Discounted reports whether the product carries an original price
// above its current price.
func (p Product) Discounted() bool {
	return p.OriginalPrice > p.Price
}

// DiscountPercent returns the discount rounded down to a whole percent.
func (p Product) DiscountPercent() int {
	if !p.Discounted() {
		return 0
	}
	return int((p.OriginalPrice - p.Price) * 100 / p.OriginalPrice)
}

// Savings is OriginalPrice-Price for discounted products, zero otherwise.
func (p Product) Savings() int64 {
	if !p.Discounted() {
		return 0
	}
	return p.OriginalPrice - p.Price
}

type Catalog struct {
	Products  []Product
	Shops     []Shop
	Locations []Location
}

// Product looks the product up by id.
func (c Catalog) Product(id string) (Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Price implements a price lookup over the current catalog state.
func (c Catalog) Price(id string) (int64, bool) {
	p, ok := c.Product(id)
	if !ok {
		return 0, false
	}
	return p.Price, true
}
