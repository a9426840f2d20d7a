package skill

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatement_WireFormat(t *testing.T) {
	resp := Statement("Recipe Buddy", "Hello", false, nil)

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"version": "1.0",
		"sessionAttributes": {},
		"response": {
			"outputSpeech": {"type": "PlainText", "text": "Hello"},
			"card": {"type": "Simple", "title": "Recipe Buddy", "content": "Hello"},
			"shouldEndSession": false
		}
	}`, string(b))
}

func TestStatement_KeepsAttributes(t *testing.T) {
	attrs := Attributes{AttrRecipe: "Soup"}
	resp := Statement("t", "b", true, attrs)
	assert.Equal(t, attrs, resp.SessionAttributes)
	assert.True(t, resp.EndsSession())
}

func TestRequest_Decode(t *testing.T) {
	event := `{
		"version": "1.0",
		"session": {
			"new": true,
			"sessionId": "amzn1.echo-api.session.1",
			"application": {"applicationId": "amzn1.ask.skill.1"},
			"user": {"userId": "amzn1.ask.account.1"},
			"attributes": {"recipe": "Soup", "ingredients": ["salt", "water"]}
		},
		"request": {
			"type": "IntentRequest",
			"requestId": "amzn1.echo-api.request.1",
			"timestamp": "2019-03-01T10:00:00Z",
			"locale": "en-US",
			"intent": {"name": "getPriceIntent", "slots": {"food": {"name": "food", "value": "chicken"}}}
		}
	}`

	var req Request
	require.NoError(t, json.Unmarshal([]byte(event), &req))

	assert.True(t, req.Session.New)
	assert.Equal(t, "amzn1.ask.skill.1", req.Session.Application.ApplicationID)
	assert.Equal(t, IntentRequest, req.Body.Type)
	assert.Equal(t, "en-US", req.Body.Locale)

	food, ok := req.Body.Intent.SlotValue(FoodSlot)
	assert.True(t, ok)
	assert.Equal(t, "chicken", food)

	recipe, ok := req.Session.Attributes.String(AttrRecipe)
	assert.True(t, ok)
	assert.Equal(t, "Soup", recipe)

	ingredients, ok := req.Session.Attributes.Strings(AttrIngredients)
	assert.True(t, ok)
	assert.Equal(t, []string{"salt", "water"}, ingredients)
}

func TestSlot_TolerantDecode(t *testing.T) {
	tests := []struct {
		name  string
		slots string
		want  string
		ok    bool
	}{
		{"filled", `{"food": {"name": "food", "value": "rice"}}`, "rice", true},
		{"no value", `{"food": {"name": "food"}}`, "", false},
		{"null value", `{"food": {"name": "food", "value": null}}`, "", false},
		{"numeric value", `{"food": {"name": "food", "value": 42}}`, "", false},
		{"slot is a string", `{"food": "rice"}`, "", false},
		{"slot is null", `{"food": null}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var intent Intent
			require.NoError(t, json.Unmarshal([]byte(`{"name": "getPriceIntent", "slots": `+tt.slots+`}`), &intent))
			got, ok := intent.SlotValue(FoodSlot)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAttributes_Accessors(t *testing.T) {
	attrs := Attributes{
		"title":  "Soup",
		"number": 3,
		"list":   []any{"a", "b"},
		"mixed":  []any{"a", 1},
		"typed":  []string{"x"},
	}

	_, ok := attrs.String("number")
	assert.False(t, ok)
	_, ok = attrs.String("missing")
	assert.False(t, ok)

	list, ok := attrs.Strings("list")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, list)

	typed, ok := attrs.Strings("typed")
	assert.True(t, ok)
	assert.Equal(t, []string{"x"}, typed)

	_, ok = attrs.Strings("mixed")
	assert.False(t, ok)
	_, ok = attrs.Strings("title")
	assert.False(t, ok)

	var nilAttrs Attributes
	_, ok = nilAttrs.String("title")
	assert.False(t, ok)
}

func TestParseIntent(t *testing.T) {
	assert.Equal(t, IntentFindRecipe, ParseIntent("getPriceIntent"))
	assert.Equal(t, IntentListIngredients, ParseIntent("getIngredientsIntent"))
	assert.Equal(t, IntentCancel, ParseIntent("AMAZON.CancelIntent"))
	assert.Equal(t, IntentStop, ParseIntent("AMAZON.StopIntent"))
	assert.Equal(t, IntentHelp, ParseIntent("AMAZON.HelpIntent"))
	assert.Equal(t, IntentFallback, ParseIntent("AMAZON.FallbackIntent"))
	assert.Equal(t, IntentNavigateHome, ParseIntent("AMAZON.NavigateHomeIntent"))
	assert.Equal(t, IntentUnknown, ParseIntent("amazon.stopintent"))
	assert.Equal(t, "unknown", IntentUnknown.String())
	assert.Equal(t, "find_recipe", IntentFindRecipe.String())
}
