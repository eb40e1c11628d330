package events

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/daily-adventure/internal/llm"
)

var validate = validator.New()

// Event is a single extracted event listing.
type Event struct {
	Title string `json:"title" validate:"required"`
	Date  string `json:"date" validate:"required"`
	Link  string `json:"link" validate:"required"`
}

// Extraction is the structured result of scraping one source.
type Extraction struct {
	Events []Event `json:"events" validate:"dive"`
}

// Batch is the events scraped from one source during a run.
type Batch struct {
	SourceURL string  `json:"sourceUrl"`
	Events    []Event `json:"events"`
}

// EventsShape is the expected extraction shape for event listings.
var EventsShape = &llm.Shape{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Shape{
		"events": {
			Type: llm.TypeArray,
			Items: &llm.Shape{
				Type: llm.TypeObject,
				Properties: map[string]*llm.Shape{
					"title": {Type: llm.TypeString, Description: "Event title"},
					"date":  {Type: llm.TypeString, Description: "Event date as written on the page"},
					"link":  {Type: llm.TypeString, Description: "Absolute URL of the event page"},
				},
				Required: []string{"title", "date", "link"},
			},
		},
	},
	Required: []string{"events"},
}

// Source is a page to scrape for events and the prompt used to extract them.
// Schema is the shape requested from the model. Replies are always decoded as
// an Extraction, so EventsShape is the only supported value; nil means
// EventsShape. It cannot be set from a rules file.
type Source struct {
	URL    string     `yaml:"url" validate:"required,url"`
	Prompt string     `yaml:"prompt" validate:"required"`
	Schema *llm.Shape `yaml:"-"`
}

// Rules maps an exact location name to the sources scraped for it.
type Rules map[string][]Source

// DefaultRules is the built-in location table.
var DefaultRules = Rules{
	"Boston": {
		{
			URL:    "https://www.boston.gov/events",
			Prompt: "Extract today's and upcoming public events in Boston with their title, date and a link to the event page.",
		},
		{
			URL:    "https://www.meetboston.com/events/",
			Prompt: "Extract events happening in Boston this week with their title, date and a link to the event page.",
		},
	},
}

// Select returns the sources for location, matched exactly. Unknown
// locations yield an empty, non-nil slice.
func (r Rules) Select(location string) []Source {
	configured := r[location]
	out := make([]Source, 0, len(configured))
	for _, src := range configured {
		if src.Schema == nil {
			src.Schema = EventsShape
		}
		out = append(out, src)
	}
	return out
}

// SelectSources selects sources from DefaultRules.
func SelectSources(location string) []Source {
	return DefaultRules.Select(location)
}

// Merge returns a new table with other's sources appended after r's.
func (r Rules) Merge(other Rules) Rules {
	out := make(Rules, len(r)+len(other))
	for loc, srcs := range r {
		out[loc] = append([]Source(nil), srcs...)
	}
	for loc, srcs := range other {
		out[loc] = append(out[loc], srcs...)
	}
	return out
}

type rulesFile struct {
	Locations []struct {
		Name    string   `yaml:"name"`
		Sources []Source `yaml:"sources"`
	} `yaml:"locations"`
}

// LoadRules reads a YAML rule table:
//
//	locations:
//	  - name: Boston
//	    sources:
//	      - url: https://example.com/events
//	        prompt: Extract upcoming events
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading event sources: %w", err)
	}

	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("loading event sources: %w", err)
	}

	rules := make(Rules, len(f.Locations))
	for i, loc := range f.Locations {
		name := strings.TrimSpace(loc.Name)
		if name == "" {
			return nil, fmt.Errorf("loading event sources: location %d name is required", i)
		}
		for j, src := range loc.Sources {
			if err := validate.Struct(src); err != nil {
				return nil, fmt.Errorf("loading event sources: %s source %d: %w", name, j, err)
			}
		}
		rules[name] = append(rules[name], loc.Sources...)
	}
	return rules, nil
}
