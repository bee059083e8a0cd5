package emotion

import "github.com/crimson-sun/pagepulse/internal/model"

// Canonical labels, in the order they are offered to the model.
const (
	Happy      model.Emotion = "happy"
	Excited    model.Emotion = "excited"
	Sad        model.Emotion = "sad"
	Angry      model.Emotion = "angry"
	Frustrated model.Emotion = "frustrated"
	Love       model.Emotion = "love"
	Worried    model.Emotion = "worried"
	Surprised  model.Emotion = "surprised"
	Calm       model.Emotion = "calm"
	Trusting   model.Emotion = "trusting"
)

// Default is substituted for any label outside the canonical set.
const Default = Calm

// DefaultLabels returns the built-in label set with its palette.
func DefaultLabels() []Label {
	return []Label{
		{Name: Happy, Desc: "joy, contentment, delight or cheerfulness", Background: "#FFF9C4", Border: "#F5D000"},
		{Name: Excited, Desc: "enthusiasm, eagerness, thrill or anticipation", Background: "#FFF4B3", Border: "#F59E0B"},
		{Name: Sad, Desc: "sorrow, grief, disappointment or loss", Background: "#DBEAFE", Border: "#3B82F6"},
		{Name: Angry, Desc: "rage, outrage, hostility or indignation", Background: "#FEE2E2", Border: "#EF4444"},
		{Name: Frustrated, Desc: "annoyance, exasperation or being blocked", Background: "#FFE4D6", Border: "#EA580C"},
		{Name: Love, Desc: "affection, warmth, care or romance", Background: "#FCE7F3", Border: "#EC4899"},
		{Name: Worried, Desc: "fear, anxiety, concern or unease", Background: "#EDE9FE", Border: "#8B5CF6"},
		{Name: Surprised, Desc: "astonishment, shock or the unexpected", Background: "#FED7AA", Border: "#F97316"},
		{Name: Calm, Desc: "neutral, factual, peaceful or composed", Background: "#F3F4F6", Border: "#9CA3AF"},
		{Name: Trusting, Desc: "confidence, reliance, reassurance or safety", Background: "#D1FAE5", Border: "#10B981"},
	}
}

// synonyms maps labels seen in model output onto the canonical set.
var synonyms = map[string]model.Emotion{
	"joy":          Happy,
	"joyful":       Happy,
	"happiness":    Happy,
	"excitement":   Excited,
	"anticipation": Excited,
	"sadness":      Sad,
	"anger":        Angry,
	"frustration":  Frustrated,
	"disgust":      Frustrated,
	"fear":         Worried,
	"anxious":      Worried,
	"anxiety":      Worried,
	"surprise":     Surprised,
	"neutral":      Calm,
	"trust":        Trusting,
}
