package dispatch

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/themobileprof/vocalis/internal/catalog"
	"github.com/themobileprof/vocalis/pkg/models"
)

const (
	defaultReminderTitle   = "reminder"
	defaultReminderMinutes = 5
	defaultNewsCategory    = "general"
	searchURL              = "https://www.google.com/search?q="
)

// Planner turns NLP results into actions. It performs no side effects.
type Planner struct {
	catalog *catalog.Catalog
}

// NewPlanner creates a planner resolving contacts through the catalog
func NewPlanner(cat *catalog.Catalog) *Planner {
	return &Planner{catalog: cat}
}

// Plan decides what to do with a result. When the winning intent is
// missing the entity its action needs, the input falls through to chat.
func (p *Planner) Plan(res *models.NLPResult) models.Action {
	if res == nil || strings.TrimSpace(res.Input) == "" {
		return models.Action{Kind: models.ActionChat, Reply: "I didn't hear anything. Please try again."}
	}
	e := res.Entities

	switch res.Intent {
	case models.IntentOpenWebsite:
		if site, ok := e.GetString(models.SlotWebsite); ok {
			u := site
			if !strings.Contains(u, "://") {
				u = "https://" + u
			}
			return action(models.ActionOpenURL, "Opening "+site, "url", u)
		}

	case models.IntentWikipedia:
		if q, ok := e.GetString(models.SlotQuery); ok {
			return action(models.ActionWikipedia, "Searching Wikipedia for "+q, "query", q)
		}

	case models.IntentWebSearch:
		if q, ok := e.GetString(models.SlotQuery); ok {
			return action(models.ActionWebSearch, "Searching the web for "+q,
				"query", q, "url", searchURL+url.QueryEscape(q))
		}

	case models.IntentWeather:
		if city, ok := e.GetString(models.SlotCity); ok {
			return action(models.ActionWeather, "Getting the weather for "+city, "city", city)
		}

	case models.IntentNews:
		cat, ok := e.GetString(models.SlotCategory)
		if !ok {
			cat = defaultNewsCategory
		}
		return action(models.ActionNews, fmt.Sprintf("Fetching the latest %s news", cat), "category", cat)

	case models.IntentSystemInfo:
		return action(models.ActionSystemInfo, "Getting your system information")

	case models.IntentWhatsApp:
		if contact, ok := e.GetString(models.SlotContact); ok {
			return p.planMessage(contact, e)
		}

	case models.IntentEmergency:
		return action(models.ActionSOS, "Sending an emergency alert")

	case models.IntentAppControl:
		if app, ok := e.GetString(models.SlotAppName); ok {
			return action(models.ActionLaunchApp, "Opening "+app, "app", app)
		}

	case models.IntentSystemControl:
		return planSystemControl(e)

	case models.IntentFileExplorer:
		if path, ok := e.GetString(models.SlotPath); ok {
			return action(models.ActionOpenFileExplorer, "Opening file explorer at "+path, "path", path)
		}
		return action(models.ActionOpenFileExplorer, "Opening file explorer")

	case models.IntentInternetSpeed:
		return action(models.ActionSpeedTest, "Checking your internet speed")

	case models.IntentSetReminder:
		title, ok := e.GetString(models.SlotTitle)
		if !ok {
			title = defaultReminderTitle
		}
		minutes, ok := e.GetInt(models.SlotMinutes)
		if !ok {
			minutes = defaultReminderMinutes
		}
		return action(models.ActionReminder,
			fmt.Sprintf("I'll remind you about %s in %d %s", title, minutes, plural(minutes, "minute")),
			"title", title, "minutes", strconv.Itoa(minutes))
	}

	return action(models.ActionChat, "", "input", res.Input)
}

func (p *Planner) planMessage(contact string, e models.Entities) models.Action {
	number, ok := p.catalog.ContactNumber(contact)
	if !ok {
		return action(models.ActionChat, "Invalid contact name or number.", "contact", contact)
	}

	a := action(models.ActionSendMessage, "Sending message to "+contact, "contact", contact, "number", number)
	msg, ok := e.GetString(models.SlotMessage)
	if !ok {
		a.NeedsInput = true
		a.Prompt = "What message would you like to send?"
		a.Reply = a.Prompt
		return a
	}
	a.Params["message"] = msg
	return a
}

func planSystemControl(e models.Entities) models.Action {
	for _, c := range []struct {
		slot string
		kind models.ActionKind
		name string
	}{
		{models.SlotBrightness, models.ActionSetBrightness, "Brightness"},
		{models.SlotVolume, models.ActionSetVolume, "Volume"},
	} {
		level, ok := e.GetInt(c.slot)
		if !ok {
			continue
		}
		if level < 0 || level > 100 {
			return action(models.ActionChat, c.name+" level should be between 0 and 100", c.slot, strconv.Itoa(level))
		}
		return action(c.kind, fmt.Sprintf("Setting %s to %d%%", strings.ToLower(c.name), level), "level", strconv.Itoa(level))
	}
	return action(models.ActionSystemInfo, "Getting your system status")
}

// action builds an Action from alternating key/value params
func action(kind models.ActionKind, reply string, kv ...string) models.Action {
	a := models.Action{Kind: kind, Reply: reply}
	if len(kv) > 0 {
		a.Params = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			a.Params[kv[i]] = kv[i+1]
		}
	}
	return a
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
