package pipeline

import (
	"fmt"
	"strings"
)

// InitialContext is the sentinel carried context for the first chunk.
const InitialContext = "No previous context. This is the first chunk."

const (
	carriedEntitiesMax = 10
	carriedFactsMax    = 10
)

// FormatSummaryContext derives the carried context fed into the next chunk's
// summarization call. It is a pure function of its input and is bounded to
// the first 10 entities and first 10 facts so the carried text stays small
// no matter how large the summary grows; themes and the prose summary are
// included in full.
func FormatSummaryContext(s Summary) string {
	entities := s.Entities
	if len(entities) > carriedEntitiesMax {
		entities = entities[:carriedEntitiesMax]
	}
	entityParts := make([]string, 0, len(entities))
	for _, e := range entities {
		entityParts = append(entityParts, fmt.Sprintf("%s (%s)", e.Name, e.Type))
	}

	facts := s.KeyFacts
	if len(facts) > carriedFactsMax {
		facts = facts[:carriedFactsMax]
	}
	factParts := make([]string, 0, len(facts))
	for _, f := range facts {
		factParts = append(factParts, f.Fact)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SUMMARY: %s\n", s.Summary)
	fmt.Fprintf(&b, "KEY ENTITIES: %s\n", strings.Join(entityParts, "; "))
	fmt.Fprintf(&b, "KEY FACTS: %s\n", strings.Join(factParts, "; "))
	fmt.Fprintf(&b, "THEMES: %s", strings.Join(s.Themes, ", "))
	return b.String()
}
