package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Category string

const (
	CategoryJolly        Category = "jolly"
	CategoryHealth       Category = "health"
	CategoryMentalHealth Category = "mental_health"
)

// CategoryOrder fixes the display sequence of an assessment: warm-up
// questions first, mental health last.
var CategoryOrder = []Category{CategoryJolly, CategoryHealth, CategoryMentalHealth}

func IsValidCategory(c Category) bool {
	switch c {
	case CategoryJolly, CategoryHealth, CategoryMentalHealth:
		return true
	}
	return false
}

type CategoryInfo struct {
	Key         Category `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

var categoryNames = map[Category]string{
	CategoryJolly:        "Jolly Questions",
	CategoryHealth:       "Health Questions",
	CategoryMentalHealth: "Mental Health Questions",
}

var categoryDescriptions = map[Category]string{
	CategoryJolly:        "Light, fun questions to make you comfortable",
	CategoryHealth:       "Questions about your general health and well-being",
	CategoryMentalHealth: "Questions about your mental and emotional state",
}

func GetCategoryInfo(c Category) CategoryInfo {
	return CategoryInfo{
		Key:         c,
		Name:        categoryNames[c],
		Description: categoryDescriptions[c],
	}
}

func AllCategoriesInfo() []CategoryInfo {
	infos := make([]CategoryInfo, len(CategoryOrder))
	for i, c := range CategoryOrder {
		infos[i] = GetCategoryInfo(c)
	}
	return infos
}

// Question is immutable once issued to a session. IDs are stable across
// catalog versions.
type Question struct {
	ID       string   `yaml:"id" json:"id"`
	Category Category `yaml:"category" json:"category"`
	Text     string   `yaml:"text" json:"text"`
	Options  []string `yaml:"options" json:"options"`
}

type Catalog struct {
	Questions []Question `yaml:"questions" json:"questions"`
}

// LoadCatalog reads the bundled questions file, the last offline fallback
// when neither the remote provider nor the cache can serve.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog YAML: %w", err)
	}

	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// Validate enforces the catalog contract: unique stable ids, a known
// category and at least two options per question.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Questions))
	for _, q := range c.Questions {
		if q.ID == "" {
			return fmt.Errorf("catalog question %q has no id", q.Text)
		}
		if seen[q.ID] {
			return fmt.Errorf("catalog question id %q is duplicated", q.ID)
		}
		seen[q.ID] = true
		if !IsValidCategory(q.Category) {
			return fmt.Errorf("catalog question %q has invalid category %q", q.ID, q.Category)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("catalog question %q needs at least 2 options, has %d", q.ID, len(q.Options))
		}
	}
	return nil
}

// FilterByCategory returns the ordered subset for one category.
func (c *Catalog) FilterByCategory(category Category) []Question {
	out := make([]Question, 0, len(c.Questions))
	for _, q := range c.Questions {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out
}
