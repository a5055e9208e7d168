package menu

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gourmet/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed menu.yaml
var defaultMenu []byte

// document is the on-disk layout of a menu file
type document struct {
	Items []itemRecord `yaml:"items"`
}

type itemRecord struct {
	ID              string           `yaml:"id"`
	Name            string           `yaml:"name"`
	Description     string           `yaml:"description"`
	Price           float64          `yaml:"price"`
	Image           string           `yaml:"image"`
	Category        string           `yaml:"category"`
	Tags            []string         `yaml:"tags"`
	Popular         bool             `yaml:"popular"`
	Ingredients     []string         `yaml:"ingredients"`
	Allergens       []string         `yaml:"allergens"`
	NutritionalInfo *nutritionRecord `yaml:"nutritional_info"`
}

type nutritionRecord struct {
	Calories int      `yaml:"calories"`
	Protein  *float64 `yaml:"protein"`
	Carbs    *float64 `yaml:"carbs"`
	Fat      *float64 `yaml:"fat"`
}

func (r itemRecord) toMenuItem() models.MenuItem {
	item := models.MenuItem{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       decimal.NewFromFloat(r.Price),
		Image:       r.Image,
		Category:    models.MenuCategory(r.Category),
		Tags:        r.Tags,
		Popular:     r.Popular,
		Ingredients: r.Ingredients,
		Allergens:   r.Allergens,
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	if item.Ingredients == nil {
		item.Ingredients = []string{}
	}
	if r.NutritionalInfo != nil {
		item.NutritionalInfo = &models.NutritionalInfo{
			Calories: r.NutritionalInfo.Calories,
			Protein:  r.NutritionalInfo.Protein,
			Carbs:    r.NutritionalInfo.Carbs,
			Fat:      r.NutritionalInfo.Fat,
		}
	}
	return item
}

// Load decodes a YAML menu document and builds a catalog from it.
func Load(r io.Reader) (*Catalog, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode menu: %w", err)
	}

	items := make([]models.MenuItem, 0, len(doc.Items))
	for _, rec := range doc.Items {
		items = append(items, rec.toMenuItem())
	}
	return New(items)
}

// LoadFile reads a menu from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open menu file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Default returns the built-in GourmetAI menu.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultMenu))
	if err != nil {
		panic(fmt.Sprintf("embedded menu is invalid: %v", err))
	}
	return c
}
