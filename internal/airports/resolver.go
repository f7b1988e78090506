package airports

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/dharmasatrya/flexiflight/internal/llm"
	"github.com/dharmasatrya/flexiflight/internal/models"
)

// ErrUnresolved marks a city or airport reference that no resolution stage
// could turn into IATA codes. It is a per-field outcome, not a fatal error:
// the parameter builder aborts only the affected query variant.
var ErrUnresolved = errors.New("airports: could not resolve")

// strategy attempts one resolution stage. ok=false means "try the next
// stage", never a hard failure.
type strategy func(ctx context.Context, name string) (codes string, ok bool)

// Resolver turns free-text city or airport references into comma-joined
// uppercase IATA codes. Stages are tried in order: exact table lookup,
// fuzzy containment against the table, then the text-interpretation service.
type Resolver struct {
	table      []cityAirports
	exact      map[string]string
	completer  llm.Completer
	strategies []strategy
}

func NewResolver(completer llm.Completer) *Resolver {
	exact := make(map[string]string, len(commonAirports))
	for _, entry := range commonAirports {
		if !models.IsIATAList(entry.codes) {
			panic(fmt.Sprintf("airports: malformed table entry for %q: %q", entry.city, entry.codes))
		}
		exact[strings.ToLower(entry.city)] = entry.codes
	}

	r := &Resolver{
		table:     commonAirports,
		exact:     exact,
		completer: completer,
	}
	r.strategies = []strategy{
		r.lookupExact,
		r.lookupFuzzy,
		r.lookupLLM,
	}
	return r
}

// Resolve returns the comma-joined IATA codes for name, or ErrUnresolved.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty name", ErrUnresolved)
	}

	for _, try := range r.strategies {
		if codes, ok := try(ctx, trimmed); ok {
			return codes, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnresolved, trimmed)
}

// ResolveMany resolves each name independently and comma-joins the results.
// It fails as a whole if any single resolution fails.
func (r *Resolver) ResolveMany(ctx context.Context, names []string) (string, error) {
	codes := make([]string, 0, len(names))
	for _, name := range names {
		resolved, err := r.Resolve(ctx, name)
		if err != nil {
			return "", err
		}
		codes = append(codes, resolved)
	}
	if len(codes) == 0 {
		return "", fmt.Errorf("%w: no names given", ErrUnresolved)
	}
	return strings.Join(codes, ","), nil
}

func (r *Resolver) lookupExact(_ context.Context, name string) (string, bool) {
	codes, ok := r.exact[strings.ToLower(name)]
	return codes, ok
}

// lookupFuzzy matches when the input contains a table city or vice versa.
// The first matching entry in table order wins; the table order is fixed, so
// the tie-break is deterministic rather than "best".
func (r *Resolver) lookupFuzzy(_ context.Context, name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, entry := range r.table {
		city := strings.ToLower(entry.city)
		if strings.Contains(lower, city) || strings.Contains(city, lower) {
			return entry.codes, true
		}
	}
	return "", false
}

func (r *Resolver) lookupLLM(ctx context.Context, name string) (string, bool) {
	prompt := fmt.Sprintf(`Convert this city or airport name to IATA code(s).
If the city has multiple major airports, return them all separated by commas.
City/Airport: %s

Return ONLY IATA codes (uppercase, separated by comma if multiple), nothing else.
Examples:
- "Paris" -> CDG,ORY
- "New York" -> JFK,LGA,EWR
- "LAX" -> LAX
- "Tokyo" -> NRT,HND
- "London" -> LHR,LGW,STN,LCY,LTN

If you cannot determine a valid IATA code, return "UNKNOWN".`, name)

	response, err := r.completer.Complete(ctx, llm.Request{
		Messages: []llm.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		log.Printf("airports: llm fallback for %q failed: %v", name, err)
		return "", false
	}

	codes := strings.ToUpper(strings.TrimSpace(response))
	if codes == "" || codes == "UNKNOWN" {
		return "", false
	}

	parts := strings.Split(codes, ",")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if !models.IsIATACode(part) {
			log.Printf("airports: llm returned invalid code %q for %q", part, name)
			return "", false
		}
		parts[i] = part
	}
	return strings.Join(parts, ","), true
}
