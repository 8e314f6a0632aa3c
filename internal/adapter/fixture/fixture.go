// Package fixture loads the storefront catalog from YAML.
package fixture

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/niksmo/local-market/internal/core/domain"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var demoCatalog []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

type (
	catalogDoc struct {
		Products  []productDoc  `yaml:"products"`
		Shops     []shopDoc     `yaml:"shops"`
		Locations []locationDoc `yaml:"locations"`
	}

	productDoc struct {
		ID            string   `yaml:"id"`
		Name          string   `yaml:"name"`
		Price         int64    `yaml:"price"`
		OriginalPrice int64    `yaml:"original_price"`
		Rating        float64  `yaml:"rating"`
		ReviewCount   int      `yaml:"review_count"`
		ShopName      string   `yaml:"shop_name"`
		Location      string   `yaml:"location"`
		Images        []string `yaml:"images"`
		Sizes         []string `yaml:"sizes"`
		Colors        []string `yaml:"colors"`
		Category      string   `yaml:"category"`
		Gender        string   `yaml:"gender"`
		InStock       bool     `yaml:"in_stock"`
	}

	shopDoc struct {
		ID           string   `yaml:"id"`
		Name         string   `yaml:"name"`
		Location     string   `yaml:"location"`
		Rating       float64  `yaml:"rating"`
		ReviewCount  int      `yaml:"review_count"`
		Categories   []string `yaml:"categories"`
		IsOpen       bool     `yaml:"is_open"`
		DeliveryTime string   `yaml:"delivery_time"`
		Image        string   `yaml:"image"`
		PinCodes     []string `yaml:"pin_codes"`
	}

	locationDoc struct {
		PinCode string `yaml:"pin_code"`
		Area    string `yaml:"area"`
		City    string `yaml:"city"`
	}
)

// Demo returns the built-in demo catalog.
func Demo() (domain.Catalog, error) {
	return Parse(demoCatalog)
}

// Open reads the catalog at path, or the demo catalog when path is empty.
func Open(path string) (domain.Catalog, error) {
	const op = "fixture.Open"

	if path == "" {
		return Demo()
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %s: %w", op, path, err)
	}
	return c, nil
}

func Load(r io.Reader) (domain.Catalog, error) {
	const op = "fixture.Load"

	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog. Unknown keys, duplicate product ids and
// negative prices are rejected.
func Parse(data []byte) (domain.Catalog, error) {
	const op = "fixture.Parse"

	var doc catalogDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return domain.Catalog{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidCatalog, err)
	}

	if err := doc.validate(); err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidCatalog, err)
	}
	return doc.toDomain(), nil
}

func (d catalogDoc) validate() error {
	seen := make(map[string]struct{}, len(d.Products))
	for i, p := range d.Products {
		if p.ID == "" {
			return fmt.Errorf("product #%d: empty id", i)
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("product %q: duplicate id", p.ID)
		}
		seen[p.ID] = struct{}{}

		if p.Price < 0 || p.OriginalPrice < 0 {
			return fmt.Errorf("product %q: negative price", p.ID)
		}
		if p.Rating < 0 || p.Rating > 5 {
			return fmt.Errorf("product %q: rating out of range", p.ID)
		}
	}
	return nil
}

func (d catalogDoc) toDomain() domain.Catalog {
	c := domain.Catalog{
		Products:  make([]domain.Product, 0, len(d.Products)),
		Shops:     make([]domain.Shop, 0, len(d.Shops)),
		Locations: make([]domain.Location, 0, len(d.Locations)),
	}
	for _, p := range d.Products {
		c.Products = append(c.Products, domain.Product{
			ID:            p.ID,
			Name:          p.Name,
			Price:         p.Price,
			OriginalPrice: p.OriginalPrice,
			Rating:        p.Rating,
			ReviewCount:   p.ReviewCount,
			ShopName:      p.ShopName,
			Location:      p.Location,
			Images:        p.Images,
			Sizes:         p.Sizes,
			Colors:        p.Colors,
			Category:      p.Category,
			Gender:        p.Gender,
			InStock:       p.InStock,
		})
	}
	for _, s := range d.Shops {
		c.Shops = append(c.Shops, domain.Shop{
			ID:           s.ID,
			Name:         s.Name,
			Location:     s.Location,
			Rating:       s.Rating,
			ReviewCount:  s.ReviewCount,
			Categories:   s.Categories,
			IsOpen:       s.IsOpen,
			DeliveryTime: s.DeliveryTime,
			Image:        s.Image,
			PinCodes:     s.PinCodes,
		})
	}
	for _, l := range d.Locations {
		c.Locations = append(c.Locations, domain.Location(l))
	}
	return c
}
