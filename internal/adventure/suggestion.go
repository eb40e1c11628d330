package adventure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/daily-adventure/internal/common"
	"github.com/i474232898/daily-adventure/internal/llm"
	"github.com/i474232898/daily-adventure/internal/weather"
)

var (
	// ErrInvalidReply is returned when the model's reply does not match ReplyShape.
	ErrInvalidReply = errors.New("invalid model reply")

	// ErrDuplicateSuggestion is returned when a suggestion is too close to one
	// already in the history.
	ErrDuplicateSuggestion = errors.New("suggestion repeats a previous adventure")
)

var validate = validator.New()

// ReplyShape is the structure the model must answer with.
var ReplyShape = &llm.Shape{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Shape{
		"condition":   {Type: llm.TypeString, Description: "Current weather condition"},
		"temperature": {Type: llm.TypeInteger, Description: "Current temperature in °F"},
		"suggestion":  {Type: llm.TypeString, Description: "The adventure suggestion, citing the event link when an event is used"},
		"location":    {Type: llm.TypeString, Description: "The location the adventure is for"},
	},
	Required: []string{"condition", "temperature", "suggestion", "location"},
}

// Reply is the model's raw structured answer.
type Reply struct {
	Condition   string   `json:"condition" validate:"required"`
	Temperature *float64 `json:"temperature" validate:"required"`
	Suggestion  string   `json:"suggestion" validate:"required,min=20"`
	Location    string   `json:"location" validate:"required"`
}

// Suggestion is a validated adventure suggestion. Condition, temperature and
// location come from the weather snapshot rather than the model.
type Suggestion struct {
	Condition   string `json:"condition"`
	Temperature int    `json:"temperature"`
	Text        string `json:"suggestion"`
	Location    string `json:"location"`
}

// NewSuggestion validates reply and normalizes it against snap.
func NewSuggestion(reply Reply, snap weather.Snapshot) (Suggestion, error) {
	reply.Suggestion = strings.TrimSpace(reply.Suggestion)
	reply.Condition = strings.TrimSpace(reply.Condition)
	reply.Location = strings.TrimSpace(reply.Location)

	if err := validate.Struct(reply); err != nil {
		return Suggestion{}, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}

	return Suggestion{
		Condition:   string(snap.Condition),
		Temperature: snap.TemperatureF,
		Text:        reply.Suggestion,
		Location:    snap.Location,
	}, nil
}

// CheckNovelty fails with ErrDuplicateSuggestion when text is at least
// threshold-similar to any history entry. A threshold <= 0 only rejects
// exact repeats.
func CheckNovelty(text string, history []HistoryEntry, threshold float64) error {
	normalized := strings.Join(common.Tokens(text), " ")
	for _, h := range history {
		if normalized == strings.Join(common.Tokens(h.Suggestion), " ") {
			return fmt.Errorf("%w: identical to the adventure from %s", ErrDuplicateSuggestion, h.Date)
		}
		if threshold <= 0 {
			continue
		}
		if sim := common.Jaccard(text, h.Suggestion); sim >= threshold {
			return fmt.Errorf("%w: %.0f%% similar to the adventure from %s", ErrDuplicateSuggestion, sim*100, h.Date)
		}
	}
	return nil
}

// citesEvent reports whether text mentions any scraped event by title or link.
func citesEvent(text string, refs []eventRef) bool {
	var needles []string
	for _, e := range refs {
		needles = append(needles, e.title, e.link)
	}
	return common.HasAny(text, needles...)
}

type eventRef struct {
	title string
	link  string
}
