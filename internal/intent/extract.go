package intent

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/themobileprof/vocalis/internal/catalog"
	"github.com/themobileprof/vocalis/pkg/models"
)

// ErrUnknownIntent is returned when extraction is requested for an intent
// the catalog does not declare
var ErrUnknownIntent = errors.New("unknown intent")

// rule is one ordered extraction pattern. Named groups in re are copied
// into the slots of the same name unless fill is set, in which case fill
// decides what to store and reports whether the match was usable.
type rule struct {
	slots []string
	re    *regexp.Regexp
	// all tries every match in order until one is usable
	all  bool
	fill func(x *Extractor, groups map[string]string, raw string, out models.Entities) bool
}

// ruleSet is the extraction program for one intent
type ruleSet struct {
	rules  []rule
	finish func(x *Extractor, out models.Entities)
}

// Extractor fills intent-specific slots from the raw utterance.
// It is read-only after construction and safe for concurrent use.
type Extractor struct {
	catalog *catalog.Catalog
	rules   map[models.Intent]ruleSet
}

// NewExtractor binds the rule table to a catalog. Every intent with rules
// must be declared by the catalog.
func NewExtractor(cat *catalog.Catalog) (*Extractor, error) {
	rules := buildRules()
	for in := range rules {
		if !cat.Has(in) {
			return nil, fmt.Errorf("%w: extraction rules exist for undeclared intent %s", catalog.ErrInvalidCatalog, in)
		}
	}
	return &Extractor{catalog: cat, rules: rules}, nil
}

// Extract runs the intent's rules against the raw utterance. A slot that
// no rule matches is simply absent from the result.
func (x *Extractor) Extract(raw string, intent models.Intent) (models.Entities, error) {
	out := models.Entities{}
	if intent == models.IntentGeneralQuery {
		return out, nil
	}
	if !x.catalog.Has(intent) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIntent, intent)
	}

	set, ok := x.rules[intent]
	if !ok {
		return out, nil
	}

	for _, r := range set.rules {
		if filled(out, r.slots) {
			continue
		}
		x.apply(r, raw, out)
	}
	if set.finish != nil {
		set.finish(x, out)
	}
	return out, nil
}

func (x *Extractor) apply(r rule, raw string, out models.Entities) {
	limit := 1
	if r.all {
		limit = -1
	}
	for _, m := range r.re.FindAllStringSubmatch(raw, limit) {
		groups := namedGroups(r.re, m)
		if r.fill != nil {
			if r.fill(x, groups, raw, out) {
				return
			}
			continue
		}
		for _, slot := range r.slots {
			setString(out, slot, groups[slot])
		}
		return
	}
}

func filled(out models.Entities, slots []string) bool {
	for _, s := range slots {
		if !out.Has(s) {
			return false
		}
	}
	return true
}

func namedGroups(re *regexp.Regexp, match []string) map[string]string {
	groups := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(match) {
			groups[name] = match[i]
		}
	}
	return groups
}

// setString stores a cleaned value unless it is empty or the slot is taken
func setString(out models.Entities, slot, value string) bool {
	if out.Has(slot) {
		return false
	}
	value = cleanSlot(value)
	if value == "" {
		return false
	}
	out[slot] = value
	return true
}

// setInt stores a parsed non-negative integer unless the slot is taken
func setInt(out models.Entities, slot, digits string) bool {
	if out.Has(slot) || digits == "" {
		return false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return false
	}
	out[slot] = n
	return true
}

var trailingPlease = regexp.MustCompile(`(?i)\s*\bplease$`)

// cleanSlot trims whitespace and quotes, then strips trailing punctuation
// and a trailing "please" until nothing changes
func cleanSlot(s string) string {
	for {
		prev := s
		s = strings.TrimSpace(s)
		s = strings.TrimRight(s, "?.!,")
		s = trailingPlease.ReplaceAllString(s, "")
		s = strings.Trim(s, `"“”`)
		if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
			s = s[1 : len(s)-1]
		}
		if s == prev {
			return s
		}
	}
}
