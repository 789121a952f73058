// Package catalog loads the products offered on the storefront.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var (
	slugPattern       = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	descriptionPolicy = newDescriptionPolicy()
)

// Product is one item offered on the storefront.
type Product struct {
	Slug        string
	Name        string
	Price       decimal.Decimal
	Description template.HTML
}

// QuantityInputID is the id of the product's quantity field.
func (p Product) QuantityInputID() string { return "quantity-" + p.Slug }

// ButtonID is the id of the product's add-to-cart button.
func (p Product) ButtonID() string { return "add-to-cart-" + p.Slug }

// PriceLabel renders the unit price with two decimals.
func (p Product) PriceLabel() string { return "$" + p.Price.StringFixed(2) }

// Catalog is an ordered, slug-addressable product list.
type Catalog struct {
	products []Product
	bySlug   map[string]int
}

type fileFormat struct {
	Products []productEntry `yaml:"products"`
}

type productEntry struct {
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Description string `yaml:"description"`
}

// Load reads the catalog at path, or the built-in catalog when path is blank.
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Parse(defaultCatalog)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML catalog document.
func Parse(raw []byte) (*Catalog, error) {
	var doc fileFormat
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Products) == 0 {
		return nil, fmt.Errorf("catalog has no products")
	}

	c := &Catalog{
		products: make([]Product, 0, len(doc.Products)),
		bySlug:   make(map[string]int, len(doc.Products)),
	}
	names := make(map[string]struct{}, len(doc.Products))
	for i, entry := range doc.Products {
		slug := strings.TrimSpace(entry.Slug)
		if !slugPattern.MatchString(slug) {
			return nil, fmt.Errorf("product %d: invalid slug %q", i, entry.Slug)
		}
		if _, dup := c.bySlug[slug]; dup {
			return nil, fmt.Errorf("product %d: duplicate slug %q", i, slug)
		}
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("product %q: name is required", slug)
		}
		if _, dup := names[name]; dup {
			return nil, fmt.Errorf("product %q: duplicate name %q", slug, name)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(entry.Price))
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("product %q: invalid price %q", slug, entry.Price)
		}
		description, err := renderDescription(entry.Description)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", slug, err)
		}

		names[name] = struct{}{}
		c.bySlug[slug] = len(c.products)
		c.products = append(c.products, Product{
			Slug:        slug,
			Name:        name,
			Price:       price,
			Description: description,
		})
	}
	return c, nil
}

// Products returns the products in file order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Lookup finds a product by slug.
func (c *Catalog) Lookup(slug string) (Product, bool) {
	idx, ok := c.bySlug[slug]
	if !ok {
		return Product{}, false
	}
	return c.products[idx], true
}

func renderDescription(markdown string) (template.HTML, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render description: %w", err)
	}
	return template.HTML(strings.TrimSpace(descriptionPolicy.Sanitize(buf.String()))), nil
}

func newDescriptionPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	return policy
}
