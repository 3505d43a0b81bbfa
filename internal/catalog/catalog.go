package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/themobileprof/vocalis/pkg/models"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalidCatalog is returned when catalog data violates its invariants
var ErrInvalidCatalog = errors.New("invalid catalog")

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// Catalog is the static intent catalog plus the lookup tables used by
// extraction and dispatch. It is read-only once built.
type Catalog struct {
	intents    []models.Intent
	exemplars  map[models.Intent][]string
	contacts   map[string]string
	apps       map[string]string
	categories []string
	aliases    map[string]string
}

// file mirrors the YAML layout
type file struct {
	Intents []struct {
		Name      string   `yaml:"name"`
		Exemplars []string `yaml:"exemplars"`
	} `yaml:"intents"`
	Contacts map[string]string `yaml:"contacts"`
	Apps     map[string]string `yaml:"apps"`
	News     struct {
		Categories []string          `yaml:"categories"`
		Aliases    map[string]string `yaml:"aliases"`
	} `yaml:"news"`
}

// Default returns the embedded catalog
func Default() (*Catalog, error) {
	return Parse(defaultYAML)
}

// MustDefault returns the embedded catalog and panics if it is invalid
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog from a YAML file. An empty path yields the embedded default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML data and validates it
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		exemplars: make(map[models.Intent][]string, len(f.Intents)),
		contacts:  make(map[string]string, len(f.Contacts)),
		apps:      make(map[string]string, len(f.Apps)),
		aliases:   make(map[string]string, len(f.News.Aliases)),
	}

	for _, in := range f.Intents {
		name := models.Intent(strings.TrimSpace(in.Name))
		c.intents = append(c.intents, name)
		c.exemplars[name] = append(c.exemplars[name], in.Exemplars...)
	}
	for k, v := range f.Contacts {
		c.contacts[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	for k, v := range f.Apps {
		c.apps[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	for _, cat := range f.News.Categories {
		c.categories = append(c.categories, strings.ToLower(strings.TrimSpace(cat)))
	}
	for k, v := range f.News.Aliases {
		c.aliases[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the catalog invariants
func (c *Catalog) Validate() error {
	if len(c.intents) == 0 {
		return fmt.Errorf("%w: no intents declared", ErrInvalidCatalog)
	}

	seen := make(map[models.Intent]bool, len(c.intents))
	for _, name := range c.intents {
		if name == "" {
			return fmt.Errorf("%w: intent with empty name", ErrInvalidCatalog)
		}
		if name == models.IntentGeneralQuery {
			return fmt.Errorf("%w: %s is reserved for the fallback", ErrInvalidCatalog, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate intent %s", ErrInvalidCatalog, name)
		}
		seen[name] = true

		if len(c.exemplars[name]) == 0 {
			return fmt.Errorf("%w: intent %s has no exemplars", ErrInvalidCatalog, name)
		}
		for _, ex := range c.exemplars[name] {
			if strings.TrimSpace(ex) == "" {
				return fmt.Errorf("%w: intent %s has an empty exemplar", ErrInvalidCatalog, name)
			}
		}
	}

	for _, target := range c.aliases {
		if !slices.Contains(c.categories, target) {
			return fmt.Errorf("%w: category alias points to unknown category %q", ErrInvalidCatalog, target)
		}
	}
	return nil
}

// Intents returns intent names in declaration order
func (c *Catalog) Intents() []models.Intent {
	return slices.Clone(c.intents)
}

// Exemplars returns the exemplar phrases of an intent
func (c *Catalog) Exemplars(intent models.Intent) []string {
	return slices.Clone(c.exemplars[intent])
}

// Has reports whether the intent is declared
func (c *Catalog) Has(intent models.Intent) bool {
	_, ok := c.exemplars[intent]
	return ok
}

// ContactNumber resolves a contact name to a phone number. The second
// return value is false when the contact is unknown or its number is not
// a valid 10-digit number.
func (c *Catalog) ContactNumber(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if phonePattern.MatchString(name) {
		return name, true
	}
	number, ok := c.contacts[name]
	if !ok || !phonePattern.MatchString(number) {
		return "", false
	}
	return number, true
}

// AppExecutable maps a spoken application name to its executable.
// Unknown names are returned unchanged.
func (c *Catalog) AppExecutable(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if exe, ok := c.apps[name]; ok {
		return exe
	}
	return name
}

// Category resolves a word to a canonical news category
func (c *Catalog) Category(word string) (string, bool) {
	word = strings.ToLower(strings.TrimSpace(word))
	if slices.Contains(c.categories, word) {
		return word, true
	}
	if target, ok := c.aliases[word]; ok {
		return target, true
	}
	return "", false
}

// Categories returns the canonical news categories
func (c *Catalog) Categories() []string {
	return slices.Clone(c.categories)
}
