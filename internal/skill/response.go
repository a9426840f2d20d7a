package skill

const (
	speechTypePlainText = "PlainText"
	cardTypeSimple      = "Simple"
)

// Statement builds a response that speaks body and shows it on a card titled title.
// A nil attribute bag is replaced by an empty one so it serialises as {}.
func Statement(title, body string, endSession bool, attrs Attributes) Response {
	if attrs == nil {
		attrs = Attributes{}
	}
	return Response{
		Version:           ResponseVersion,
		SessionAttributes: attrs,
		Body: ResponseBody{
			OutputSpeech:     OutputSpeech{Type: speechTypePlainText, Text: body},
			Card:             Card{Type: cardTypeSimple, Title: title, Content: body},
			ShouldEndSession: endSession,
		},
	}
}
