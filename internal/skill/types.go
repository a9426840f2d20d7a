package skill

import (
	"encoding/json"
)

// Request types delivered by the voice platform.
const (
	LaunchRequest       = "LaunchRequest"
	IntentRequest       = "IntentRequest"
	SessionEndedRequest = "SessionEndedRequest"
)

// Protocol version written into every response.
const ResponseVersion = "1.0"

// Session attribute keys.
const (
	AttrRecipe      = "recipe"
	AttrIngredients = "ingredients"
)

// Request is the event posted by the voice platform for one turn.
type Request struct {
	Version string      `json:"version"`
	Session Session     `json:"session"`
	Body    RequestBody `json:"request"`
}

// Session carries the conversation identity and the attribute bag echoed back by the platform.
type Session struct {
	New         bool        `json:"new"`
	SessionID   string      `json:"sessionId"`
	Application Application `json:"application"`
	User        User        `json:"user"`
	Attributes  Attributes  `json:"attributes,omitempty"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type User struct {
	UserID string `json:"userId"`
}

// RequestBody describes what happened on this turn.
type RequestBody struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp,omitempty"`
	Locale    string `json:"locale,omitempty"`
	Intent    Intent `json:"intent"`
	Reason    string `json:"reason,omitempty"`
}

// Intent is the recognised user intent together with its slots.
type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

// SlotValue returns the value of the named slot and whether it was filled.
func (i Intent) SlotValue(name string) (string, bool) {
	slot, ok := i.Slots[name]
	if !ok || slot.Value == "" {
		return "", false
	}
	return slot.Value, true
}

// Slot is a named parameter extracted from the user's utterance.
type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// UnmarshalJSON accepts any slot shape. Fields that are not strings are left empty,
// so a malformed slot reads as unfilled instead of failing the whole event.
func (s *Slot) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = Slot{}
		return nil
	}

	var out Slot
	if v, ok := raw["name"]; ok {
		_ = json.Unmarshal(v, &out.Name)
	}
	if v, ok := raw["value"]; ok {
		if err := json.Unmarshal(v, &out.Value); err != nil {
			out.Value = ""
		}
	}
	*s = out
	return nil
}

// Attributes is the per-session key/value bag the platform echoes back on the next turn.
type Attributes map[string]any

// String returns the string stored under key.
func (a Attributes) String(key string) (string, bool) {
	v, ok := a[key].(string)
	return v, ok
}

// Strings returns the list of strings stored under key. Lists decoded from JSON
// arrive as []any and are converted; non-string elements make the lookup fail.
func (a Attributes) Strings(key string) ([]string, bool) {
	switch v := a[key].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// Response is the document returned to the platform.
type Response struct {
	Version           string       `json:"version"`
	SessionAttributes Attributes   `json:"sessionAttributes"`
	Body              ResponseBody `json:"response"`
}

type ResponseBody struct {
	OutputSpeech     OutputSpeech `json:"outputSpeech"`
	Card             Card         `json:"card"`
	ShouldEndSession bool         `json:"shouldEndSession"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Card struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Text returns the spoken text of the response.
func (r Response) Text() string {
	return r.Body.OutputSpeech.Text
}

// EndsSession reports whether the platform should close the session.
func (r Response) EndsSession() bool {
	return r.Body.ShouldEndSession
}
