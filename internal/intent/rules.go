package intent

import (
	"regexp"
	"strings"

	"github.com/themobileprof/vocalis/pkg/models"
)

// tail ends a lazy capture: optional punctuation, then a question mark,
// a trailing "please", or the end of input
const tail = `\s*[,.!]?\s*(?:\?|\bplease\b|$)`

func re(pattern string) *regexp.Regexp {
	return regexp.MustCompile(pattern)
}

// buildRules returns the extraction table. Rules within an intent run in
// order and the first usable match wins for each slot.
func buildRules() map[models.Intent]ruleSet {
	return map[models.Intent]ruleSet{
		models.IntentWeather: {rules: []rule{
			{
				slots: []string{models.SlotCity},
				re:    re(`(?i)\b(?:weather|forecast|temperature)\b.*?\b(?:in|for|of)\s+(?P<city>\p{L}[\p{L}\s]*?)` + tail),
			},
		}},

		models.IntentOpenWebsite: {rules: []rule{
			{
				slots: []string{models.SlotWebsite},
				re:    re(`(?i)\b(?:open|go\s+to|visit|browse|navigate\s+to)\s+(?:the\s+)?(?:website\s+)?(?P<website>[a-z0-9.-]+\.[a-z]{2,})\b`),
			},
		}},

		models.IntentWebSearch: {rules: []rule{
			{
				slots: []string{models.SlotQuery},
				re:    re(`(?i)\b(?:search(?:\s+the\s+web)?|google|look\s+up|look|find)\s+(?:information\s+about|about|for)\s+(?P<query>.+?)` + tail),
			},
			{
				slots: []string{models.SlotQuery},
				re:    re(`(?i)\b(?:search|google|look\s+up)\s+(?:(?:for|on|about)\s+)?"(?P<query>[^"]+)"`),
			},
			{
				slots: []string{models.SlotQuery},
				re:    re(`(?i)\b(?:find|get|show\s+me)\s+(?:information|results|details|data)\s+(?:about|for|on)\s+(?P<query>.+?)` + tail),
			},
			{
				slots: []string{models.SlotQuery},
				re:    re(`(?i)\b(?:can\s+you|please|hey|could\s+you)\s+(?:search|find|google)\s+(?:(?:for|about)\s+)?(?P<query>.+?)` + tail),
			},
			{
				slots: []string{models.SlotQuery},
				re:    re(`(?i)\b(?:search|google|find|look\s+up)(?:\s+(?:for|about))?\s+(?P<query>.+)`),
			},
		}},

		models.IntentWhatsApp: {rules: []rule{
			{
				slots: []string{models.SlotContact},
				re:    re(`(?i)\b(?:send|text|message|whatsapp)\s+(?:a\s+)?(?:whatsapp\s+)?(?:message\s+)?(?:to\s+)?(?P<contact>[a-z][a-z\s]*?)(?:\s+(?:saying|that\s+says|with\s+message|with\s+text)\b|` + tail + `)`),
			},
			{
				slots: []string{models.SlotMessage},
				re:    re(`(?i)\b(?:saying|that\s+says|with\s+message|with\s+text)\s+"?(?P<message>[^"]+?)"?` + tail),
			},
		}},

		models.IntentNews: {
			rules: []rule{
				{
					slots: []string{models.SlotCategory},
					re:    re(`(?i)\b(?:news|headlines|updates)\s+(?:(?:about|on|regarding)\s+)?(?:the\s+)?(?P<category>[a-z]+)`),
					all:   true,
					fill:  fillCategory,
				},
				{
					slots: []string{models.SlotCategory},
					re:    re(`(?i)\b(?P<category>[a-z]+)\s+(?:news|headlines|updates)\b`),
					all:   true,
					fill:  fillCategory,
				},
			},
			finish: func(_ *Extractor, out models.Entities) {
				if !out.Has(models.SlotCategory) {
					out[models.SlotCategory] = "general"
				}
			},
		},

		models.IntentWikipedia: {rules: []rule{
			{
				slots: []string{models.SlotQuery},
				re:    re(`(?i)\b(?:wikipedia|wiki)\s+(?:(?:for|about|on)\s+)?(?P<query>.+?)` + tail),
			},
			{
				slots: []string{models.SlotQuery},
				re:    re(`(?i)\b(?:search|look\s+up|information\s+about)\s+(?:for\s+)?(?P<query>.+?)(?:\s+(?:on|in)\s+wiki(?:pedia)?)?` + tail),
			},
			{
				slots: []string{models.SlotQuery},
				re:    re(`(?i)\b(?:who|what)\s+(?:is|was|are|were)\s+(?P<query>.+?)(?:\s+according\s+to\s+wiki(?:pedia)?)?` + tail),
			},
		}},

		models.IntentAppControl: {rules: []rule{
			{
				slots: []string{models.SlotAppName},
				re:    re(`(?i)\b(?:open|launch|start|run)\s+(?:the\s+)?(?:(?:application|app)\s+)?(?P<app_name>[a-z][a-z\s]*?)(?:\s+(?:application|app))?` + tail),
				fill: func(x *Extractor, g map[string]string, _ string, out models.Entities) bool {
					name := strings.ToLower(cleanSlot(g[models.SlotAppName]))
					return setString(out, models.SlotAppName, x.catalog.AppExecutable(name))
				},
			},
		}},

		models.IntentSystemControl: {rules: []rule{
			{
				slots: []string{models.SlotBrightness, models.SlotVolume},
				re:    re(`(?i)\b(?:set|change|adjust)\s+(?:the\s+)?(?:brightness|volume)\b.*?\bto\s+(?P<level>\d+)\s*(?:%|percent\b)`),
				fill: func(_ *Extractor, g map[string]string, raw string, out models.Entities) bool {
					slot := models.SlotVolume
					if strings.Contains(strings.ToLower(raw), "brightness") {
						slot = models.SlotBrightness
					}
					return setInt(out, slot, g["level"])
				},
			},
		}},

		models.IntentSetReminder: {
			rules: []rule{
				{
					slots: []string{models.SlotTitle, models.SlotMinutes},
					re:    re(`(?i)\bremind(?:er)?(?:\s+me)?(?:\s+(?:to|about))?\s+(?P<title>.+?)(?:\s+in\s+(?P<minutes>\d+)\s+minutes?)?` + tail),
					fill: func(_ *Extractor, g map[string]string, _ string, out models.Entities) bool {
						if !setString(out, models.SlotTitle, g[models.SlotTitle]) {
							return false
						}
						setInt(out, models.SlotMinutes, g[models.SlotMinutes])
						return true
					},
				},
			},
			finish: func(_ *Extractor, out models.Entities) {
				if out.Has(models.SlotTitle) && !out.Has(models.SlotMinutes) {
					out[models.SlotMinutes] = 5
				}
			},
		},

		models.IntentFileExplorer: {rules: []rule{
			{
				slots: []string{models.SlotPath},
				re:    re(`(?i)\b(?:open|show|launch)\s+(?:the\s+|my\s+)?(?:file\s+explorer|file\s+manager|files|documents)(?:\s+(?:in|at|for))?\s+(?P<path>.+?)` + tail),
			},
		}},
	}
}

// fillCategory accepts a word only if it names a known news category
func fillCategory(x *Extractor, g map[string]string, _ string, out models.Entities) bool {
	cat, ok := x.catalog.Category(g[models.SlotCategory])
	if !ok {
		return false
	}
	return setString(out, models.SlotCategory, cat)
}
