package adventure

import (
	"fmt"
	"strings"

	"github.com/i474232898/daily-adventure/internal/events"
	"github.com/i474232898/daily-adventure/internal/llm"
	"github.com/i474232898/daily-adventure/internal/weather"
)

const instructions = `You are a helpful adventure assistant that uses accurate weather information to suggest the best adventure for the user.

Your primary function is to provide a fun adventure suggestion based on the weather for specific locations. When responding:
- Keep responses concise but informative
- Always include a fun adventure suggestion
- When local events are listed, prefer suggesting one of them and cite its source link
- When no events are listed, base the suggestion on the weather and previous adventures
- Always ensure the adventure suggestion is different than previous suggestions

Respond with the current condition, the current temperature in °F, your suggestion and the location.`

// BuildPrompt assembles the model prompt from the run's weather, history and
// scraped events. Output is deterministic for a given input.
func BuildPrompt(snap weather.Snapshot, history []HistoryEntry, batches []events.Batch) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: weatherContext(snap)},
		{Role: llm.RoleSystem, Content: historyContext(history)},
		{Role: llm.RoleSystem, Content: eventsContext(batches)},
		{Role: llm.RoleUser, Content: instructions + "\n\nGenerate a fun adventure for " + snap.Location + "."},
	}
}

func weatherContext(snap weather.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The weather in %s is %s with a temperature of %d°F (high %d°F, low %d°F).",
		snap.Location, snap.Condition, snap.TemperatureF, snap.HighF, snap.LowF)
	if len(snap.Hourly) > 0 {
		parts := make([]string, len(snap.Hourly))
		for i, h := range snap.Hourly {
			parts[i] = fmt.Sprintf("%s %d°F", h.Time, h.TemperatureF)
		}
		b.WriteString(" Through the day: " + strings.Join(parts, ", ") + ".")
	}
	return b.String()
}

func historyContext(history []HistoryEntry) string {
	if len(history) == 0 {
		return "There are no previous adventures."
	}
	var b strings.Builder
	b.WriteString("The previous adventures are:")
	for _, h := range history {
		fmt.Fprintf(&b, "\n- %s: %s", h.Date, h.Suggestion)
	}
	return b.String()
}

func eventsContext(batches []events.Batch) string {
	var b strings.Builder
	for _, batch := range batches {
		if len(batch.Events) == 0 {
			continue
		}
		if b.Len() == 0 {
			b.WriteString("Local events:")
		}
		fmt.Fprintf(&b, "\nFrom %s:", batch.SourceURL)
		for _, e := range batch.Events {
			fmt.Fprintf(&b, "\n- %s (%s): %s", e.Title, e.Date, e.Link)
		}
	}
	if b.Len() == 0 {
		return "No local events are available."
	}
	return b.String()
}

func eventRefs(batches []events.Batch) []eventRef {
	var refs []eventRef
	for _, batch := range batches {
		for _, e := range batch.Events {
			refs = append(refs, eventRef{title: e.Title, link: e.Link})
		}
	}
	return refs
}
