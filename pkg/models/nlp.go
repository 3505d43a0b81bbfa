package models

import "time"

// Intent names an action category the assistant can perform
type Intent string

// Supported intents, in the order they are declared in the default catalog
const (
	IntentWebSearch     Intent = "web_search"
	IntentOpenWebsite   Intent = "open_website"
	IntentWeather       Intent = "weather"
	IntentNews          Intent = "news"
	IntentSystemInfo    Intent = "system_info"
	IntentWhatsApp      Intent = "whatsapp"
	IntentWikipedia     Intent = "wikipedia"
	IntentEmergency     Intent = "emergency"
	IntentAppControl    Intent = "app_control"
	IntentSystemControl Intent = "system_control"
	IntentFileExplorer  Intent = "file_explorer"
	IntentInternetSpeed Intent = "internet_speed"
	IntentSetReminder   Intent = "set_reminder"

	// IntentGeneralQuery is the fallback when no intent scores above the threshold.
	// It never appears in a catalog.
	IntentGeneralQuery Intent = "general_query"
)

func (i Intent) String() string {
	return string(i)
}

// Slot names produced by the entity extractor
const (
	SlotCity       = "city"
	SlotWebsite    = "website"
	SlotQuery      = "query"
	SlotContact    = "contact"
	SlotMessage    = "message"
	SlotCategory   = "category"
	SlotAppName    = "app_name"
	SlotBrightness = "brightness"
	SlotVolume     = "volume"
	SlotTitle      = "title"
	SlotMinutes    = "minutes"
	SlotPath       = "path"
)

// Classification is the outcome of intent scoring
type Classification struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// IntentScore is the similarity of an utterance to one intent
type IntentScore struct {
	Intent Intent  `json:"intent"`
	Score  float64 `json:"score"`
}

// Entities holds extracted slot values. Values are either string or int;
// a missing key means the slot was not extracted.
type Entities map[string]any

// GetString returns a string slot and whether it was present
func (e Entities) GetString(key string) (string, bool) {
	v, ok := e[key].(string)
	return v, ok
}

// GetInt returns an integer slot and whether it was present
func (e Entities) GetInt(key string) (int, bool) {
	v, ok := e[key].(int)
	return v, ok
}

// Has reports whether the slot was extracted
func (e Entities) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// NLPResult is the complete output for one utterance
type NLPResult struct {
	Input      string   `json:"input"`
	Intent     Intent   `json:"intent"`
	Confidence float64  `json:"confidence"`
	Entities   Entities `json:"entities"`
}

// ActionKind identifies what the host should do with a result
type ActionKind string

const (
	ActionOpenURL          ActionKind = "open_url"
	ActionWebSearch        ActionKind = "web_search"
	ActionWikipedia        ActionKind = "wikipedia_summary"
	ActionWeather          ActionKind = "weather"
	ActionNews             ActionKind = "news"
	ActionSystemInfo       ActionKind = "system_info"
	ActionSOS              ActionKind = "sos"
	ActionSpeedTest        ActionKind = "speed_test"
	ActionSendMessage      ActionKind = "send_message"
	ActionLaunchApp        ActionKind = "launch_app"
	ActionSetBrightness    ActionKind = "set_brightness"
	ActionSetVolume        ActionKind = "set_volume"
	ActionOpenFileExplorer ActionKind = "open_file_explorer"
	ActionReminder         ActionKind = "reminder"
	ActionChat             ActionKind = "chat"
)

// Action is a planned response to an NLP result. Executing it is up to the host.
type Action struct {
	Kind       ActionKind        `json:"kind"`
	Params     map[string]string `json:"params,omitempty"`
	Reply      string            `json:"reply"`
	NeedsInput bool              `json:"needs_input,omitempty"`
	Prompt     string            `json:"prompt,omitempty"`
}

// HistoryEntry is a stored interaction
type HistoryEntry struct {
	ID         int64      `json:"id"`
	SessionID  string     `json:"session_id"`
	Input      string     `json:"input"`
	Intent     Intent     `json:"intent"`
	Confidence float64    `json:"confidence"`
	Entities   Entities   `json:"entities"`
	Action     ActionKind `json:"action"`
	Reply      string     `json:"reply"`
	CreatedAt  time.Time  `json:"created_at"`
}
