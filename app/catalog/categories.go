package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var defaultCategoryNames = map[string]string{
	"_fantasy":            "Fantasy",
	"_romance":            "Romance",
	"_romantasy":          "Romantasy",
	"_sci_fi":             "Science Fiction",
	"_mystery":            "Mystery, Thriller & Suspense",
	"_thriller":           "Thrillers",
	"_horror":             "Horror",
	"_historical_fiction": "Historical Fiction",
	"_literary_fiction":   "Literary Fiction",
	"_ya":                 "Teen & Young Adult",
	"_childrens":          "Children's Books",
	"_nonfiction":         "Nonfiction",
	"_biography":          "Biographies & Memoirs",
	"_self_help":          "Self-Help",
}

type categoriesFile struct {
	Categories map[string]string `yaml:"categories"`
}

// Categories maps filename category keys to display names.
type Categories struct {
	names map[string]string
}

func DefaultCategories() *Categories {
	names := make(map[string]string, len(defaultCategoryNames))
	for k, v := range defaultCategoryNames {
		names[k] = v
	}
	return &Categories{names: names}
}

// LoadCategories merges the YAML file at path over the built-in table.
// An empty path or a missing file yields the built-in table.
func LoadCategories(path string) (*Categories, error) {
	c := DefaultCategories()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		slog.Debug("Categories file not found, using built-in table", "path", path)
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read categories file: %w", err)
	}

	var file categoriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse categories YAML: %w", err)
	}

	for key, name := range file.Categories {
		key = strings.TrimSpace(key)
		name = strings.TrimSpace(name)
		if key == "" || name == "" {
			return nil, fmt.Errorf("invalid category entry %q: key and name are required", key)
		}
		c.names[key] = name
	}

	slog.Debug("Categories loaded", "path", path, "count", len(c.names))
	return c, nil
}

// Name returns the display name for key, or key itself when unmapped.
func (c *Categories) Name(key string) string {
	if name, ok := c.names[key]; ok {
		return name
	}
	return key
}

func (c *Categories) Len() int {
	return len(c.names)
}
