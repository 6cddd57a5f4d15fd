package council

import (
	"fmt"
	"sort"
	"strings"

	"council-backend/internal/shared/util"
)

// maxRationaleLen bounds rationale text carried into conflict reports.
const maxRationaleLen = 280

// Synthesizer converts a consensus outcome plus the individual evaluations
// into the final response. Synthesis is fully deterministic: no randomness,
// no clock reads, ordering fixed by urgency then registration order.
type Synthesizer struct {
	Settings Settings
}

// NewSynthesizer constructs a Synthesizer with the given settings.
func NewSynthesizer(settings Settings) *Synthesizer {
	return &Synthesizer{Settings: settings}
}

// Synthesize builds the RecommendationResponse for one request. Exactly one
// of options and conflict report is populated.
func (s *Synthesizer) Synthesize(outcome ConsensusOutcome, evaluations map[string]DomainEvaluation, snap *RegistrySnapshot, situation Situation) RecommendationResponse {
	switch outcome.Classification {
	case ClassificationBlocked:
		return s.synthesizeBlocked(outcome, evaluations)
	case ClassificationContested:
		return s.synthesizeContested(outcome, evaluations, snap)
	default:
		return s.synthesizeOptions(outcome, evaluations, snap)
	}
}

// synthesizeBlocked centers the response on the safety rationale and offers
// no option that could bypass it.
func (s *Synthesizer) synthesizeBlocked(outcome ConsensusOutcome, evaluations map[string]DomainEvaluation) RecommendationResponse {
	rationale := "the safety domain raised a concern it could not articulate"
	if eval, ok := evaluations[DomainSafety]; ok {
		rationale = util.Truncate(eval.Rationale, maxRationaleLen)
	}
	return RecommendationResponse{
		Classification: ClassificationBlocked,
		ConflictReport: &ConflictReport{
			Summary:    "Safety hold: " + rationale,
			Rationales: map[string]string{DomainSafety: rationale},
		},
	}
}

// synthesizeContested discloses every dissenting domain's rationale rather
// than forcing a single answer. When nobody formally dissents (an all-neutral
// split), every domain's rationale is disclosed instead.
func (s *Synthesizer) synthesizeContested(outcome ConsensusOutcome, evaluations map[string]DomainEvaluation, snap *RegistrySnapshot) RecommendationResponse {
	disclose := outcome.Dissenting
	if len(disclose) == 0 {
		disclose = snap.Domains()
	}
	rationales := make(map[string]string, len(disclose))
	for _, domainID := range disclose {
		if eval, ok := evaluations[domainID]; ok {
			rationales[domainID] = util.Truncate(eval.Rationale, maxRationaleLen)
		}
	}
	return RecommendationResponse{
		Classification: outcome.Classification,
		ConflictReport: &ConflictReport{
			Summary:    "The council is split and will not force a single answer. " + outcome.Reasoning + ".",
			Rationales: rationales,
		},
	}
}

type optionCandidate struct {
	text    string
	verb    string
	domain  string
	urgency float64
	pos     int
	rank    int
}

// synthesizeOptions builds 2–4 options from the supporting domains' proposed
// actions, highest urgency first, one option per distinct primary verb.
// Alternatives rank behind actions and fill in when actions are missing or
// collide on a verb.
func (s *Synthesizer) synthesizeOptions(outcome ConsensusOutcome, evaluations map[string]DomainEvaluation, snap *RegistrySnapshot) RecommendationResponse {
	order := snap.Domains()
	majoritySign := 1.0
	if outcome.WeightedScore < 0 {
		majoritySign = -1.0
	}

	candidates := make([]optionCandidate, 0, len(order))
	for pos, domainID := range order {
		eval, ok := evaluations[domainID]
		if !ok {
			continue
		}
		value := s.Settings.StanceValue(eval.Stance)
		if value == 0 || value*majoritySign < 0 {
			continue
		}
		if text := strings.TrimSpace(eval.Action); text != "" {
			candidates = append(candidates, optionCandidate{
				text:    text,
				verb:    primaryVerb(text),
				domain:  domainID,
				urgency: eval.Urgency,
				pos:     pos,
			})
		}
		for _, alt := range eval.Alternatives {
			text := strings.TrimSpace(alt)
			if text == "" {
				continue
			}
			candidates = append(candidates, optionCandidate{
				text:    text,
				verb:    primaryVerb(text),
				domain:  domainID,
				urgency: eval.Urgency,
				pos:     pos,
				rank:    1,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].rank != candidates[j].rank {
			return candidates[i].rank < candidates[j].rank
		}
		if candidates[i].urgency != candidates[j].urgency {
			return candidates[i].urgency > candidates[j].urgency
		}
		return candidates[i].pos < candidates[j].pos
	})

	// One option per primary action verb; later candidates with the same
	// verb fold their domain tag into the existing option.
	options := make([]Option, 0, len(candidates))
	byVerb := make(map[string]int, len(candidates))
	for _, cand := range candidates {
		if idx, exists := byVerb[cand.verb]; exists {
			options[idx].Domains = appendDomain(options[idx].Domains, cand.domain)
			continue
		}
		byVerb[cand.verb] = len(options)
		options = append(options, Option{
			Text:    cand.text,
			Verb:    cand.verb,
			Domains: []string{cand.domain},
		})
	}

	maxOptions := s.Settings.MaxOptions
	if maxOptions < 1 || maxOptions > 4 {
		maxOptions = 4
	}
	if len(options) > maxOptions {
		options = options[:maxOptions]
	}

	// The council always offers a real choice. When fewer than two distinct
	// actions survive, reflective alternatives keep the decision with the
	// user. The floor outranks the option cap.
	for len(options) < 2 {
		fallback := Option{
			Text:    fmt.Sprintf("Pause before acting and check how the choice sits with you (%s)", outcome.Reasoning),
			Verb:    "pause",
			Domains: supportingDomainIDs(order, evaluations, s.Settings, majoritySign),
		}
		if _, taken := byVerb[fallback.Verb]; taken {
			fallback.Text = fmt.Sprintf("Revisit the decision after a short break (%s)", outcome.Reasoning)
			fallback.Verb = "revisit"
		}
		if _, taken := byVerb[fallback.Verb]; taken {
			break
		}
		byVerb[fallback.Verb] = len(options)
		options = append(options, fallback)
	}

	return RecommendationResponse{
		Classification: outcome.Classification,
		Options:        options,
	}
}

func supportingDomainIDs(order []string, evaluations map[string]DomainEvaluation, settings Settings, majoritySign float64) []string {
	out := make([]string, 0, len(order))
	for _, domainID := range order {
		eval, ok := evaluations[domainID]
		if !ok {
			continue
		}
		if value := settings.StanceValue(eval.Stance); value != 0 && value*majoritySign > 0 {
			out = append(out, domainID)
		}
	}
	if len(out) == 0 {
		return order
	}
	return out
}

func appendDomain(domains []string, domainID string) []string {
	for _, d := range domains {
		if d == domainID {
			return domains
		}
	}
	return append(domains, domainID)
}

func primaryVerb(action string) string {
	fields := strings.Fields(strings.ToLower(action))
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], ".,!?:;")
}
