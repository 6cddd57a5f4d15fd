package council

import (
	"encoding/json"
	"strings"
	"testing"
)

func synthInputs(t *testing.T, evaluators ...Evaluator) (*Engine, *RegistrySnapshot, map[string]DomainEvaluation) {
	t.Helper()
	engine := NewEngine(DefaultSettings())
	snap := buildSnapshot(t, evaluators...)
	return engine, snap, collectAll(t, engine, snap)
}

func TestSynthesizeBlockedCentersSafetyRationale(t *testing.T) {
	engine, snap, evaluations := synthInputs(t,
		stubEvaluator(DomainMind, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Urgency: 0.5, Rationale: "yes", Action: "Clear one commitment"}),
		stubEvaluator(DomainSafety, DomainEvaluation{Stance: StanceSafetyBlock, Confidence: 1, Urgency: 1, Rationale: "crisis indicators present", Action: "Reach a crisis line"}),
	)
	outcome := engine.Aggregate(evaluations, snap)

	resp := NewSynthesizer(DefaultSettings()).Synthesize(outcome, evaluations, snap, NewSituation("test", nil))

	if resp.Classification != ClassificationBlocked {
		t.Fatalf("classification = %q, want blocked", resp.Classification)
	}
	if len(resp.Options) != 0 {
		t.Fatalf("blocked response must carry no options, got %v", resp.Options)
	}
	if resp.ConflictReport == nil {
		t.Fatalf("blocked response must carry a conflict report")
	}
	if !strings.HasPrefix(resp.ConflictReport.Summary, "Safety hold: ") {
		t.Fatalf("summary = %q, want safety hold prefix", resp.ConflictReport.Summary)
	}
	if _, ok := resp.ConflictReport.Rationales[DomainSafety]; !ok {
		t.Fatalf("rationales must include the safety domain")
	}
}

func TestSynthesizeContestedDisclosesDissent(t *testing.T) {
	engine, snap, evaluations := synthInputs(t,
		stubEvaluator(DomainMind, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Rationale: "headspace is fine"}),
		stubEvaluator(DomainRest, DomainEvaluation{Stance: StanceDisagree, Confidence: 1, Rationale: "sleep debt is high"}),
		stubEvaluator(DomainPurpose, DomainEvaluation{Stance: StanceNeutral, Confidence: 1, Rationale: "no strong pull"}),
	)
	outcome := engine.Aggregate(evaluations, snap)
	if outcome.Classification != ClassificationContested {
		t.Fatalf("setup: classification = %q, want contested", outcome.Classification)
	}

	resp := NewSynthesizer(DefaultSettings()).Synthesize(outcome, evaluations, snap, NewSituation("test", nil))

	if resp.ConflictReport == nil {
		t.Fatalf("contested response must carry a conflict report")
	}
	if got := resp.ConflictReport.Rationales[DomainRest]; got != "sleep debt is high" {
		t.Fatalf("rest rationale = %q", got)
	}
	if _, ok := resp.ConflictReport.Rationales[DomainMind]; ok {
		t.Fatalf("non-dissenting domains must not appear in the report")
	}
}

func TestSynthesizeContestedAllNeutralDisclosesEveryone(t *testing.T) {
	engine, snap, evaluations := synthInputs(t,
		stubEvaluator(DomainMind, DomainEvaluation{Stance: StanceNeutral, Confidence: 1, Rationale: "no view"}),
		stubEvaluator(DomainBody, DomainEvaluation{Stance: StanceNeutral, Confidence: 1, Rationale: "no view"}),
	)
	outcome := engine.Aggregate(evaluations, snap)

	resp := NewSynthesizer(DefaultSettings()).Synthesize(outcome, evaluations, snap, NewSituation("test", nil))

	if len(resp.ConflictReport.Rationales) != 2 {
		t.Fatalf("rationales = %v, want every domain", resp.ConflictReport.Rationales)
	}
}

func TestSynthesizeOptionsDistinctVerbsOrderedByUrgency(t *testing.T) {
	engine, snap, evaluations := synthInputs(t,
		stubEvaluator(DomainMind, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Urgency: 0.3, Rationale: "yes", Action: "Clear one commitment from today"}),
		stubEvaluator(DomainBody, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Urgency: 0.9, Rationale: "yes", Action: "Move for ten minutes"}),
		stubEvaluator(DomainRest, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Urgency: 0.6, Rationale: "yes", Action: "Sleep on it tonight"}),
		stubEvaluator(DomainFuel, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Urgency: 0.9, Rationale: "yes", Action: "Move the decision to after lunch"}),
	)
	outcome := engine.Aggregate(evaluations, snap)

	resp := NewSynthesizer(DefaultSettings()).Synthesize(outcome, evaluations, snap, NewSituation("test", nil))

	if len(resp.Options) != 3 {
		t.Fatalf("options = %d, want 3 after verb dedupe", len(resp.Options))
	}
	if resp.Options[0].Verb != "move" {
		t.Fatalf("first option verb = %q, want highest urgency first", resp.Options[0].Verb)
	}
	// Body and fuel share the verb; fuel folds into body's option.
	if len(resp.Options[0].Domains) != 2 {
		t.Fatalf("merged option domains = %v, want two", resp.Options[0].Domains)
	}
	seen := map[string]bool{}
	for _, opt := range resp.Options {
		if seen[opt.Verb] {
			t.Fatalf("duplicate primary verb %q", opt.Verb)
		}
		seen[opt.Verb] = true
		if len(opt.Domains) == 0 {
			t.Fatalf("option %q has no domain tags", opt.Text)
		}
	}
}

func TestSynthesizeOptionsCappedAtMaxOptions(t *testing.T) {
	settings := DefaultSettings()
	settings.MaxOptions = 2
	engine, snap, evaluations := synthInputs(t,
		stubEvaluator(DomainMind, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Urgency: 0.9, Rationale: "yes", Action: "Clear one commitment"}),
		stubEvaluator(DomainBody, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Urgency: 0.8, Rationale: "yes", Action: "Move for ten minutes"}),
		stubEvaluator(DomainRest, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Urgency: 0.7, Rationale: "yes", Action: "Sleep on it"}),
	)
	outcome := engine.Aggregate(evaluations, snap)

	resp := NewSynthesizer(settings).Synthesize(outcome, evaluations, snap, NewSituation("test", nil))

	if len(resp.Options) != 2 {
		t.Fatalf("options = %d, want max_options cap of 2", len(resp.Options))
	}
}

func TestSynthesizeAddsFallbackWhenOneOption(t *testing.T) {
	engine, snap, evaluations := synthInputs(t,
		stubEvaluator(DomainMind, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Urgency: 0.5, Rationale: "yes", Action: "Clear one commitment"}),
		stubEvaluator(DomainBody, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Urgency: 0.5, Rationale: "yes"}),
		stubEvaluator(DomainRest, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Urgency: 0.5, Rationale: "yes"}),
	)
	outcome := engine.Aggregate(evaluations, snap)

	resp := NewSynthesizer(DefaultSettings()).Synthesize(outcome, evaluations, snap, NewSituation("test", nil))

	if len(resp.Options) != 2 {
		t.Fatalf("options = %d, want a fallback added", len(resp.Options))
	}
	if resp.Options[1].Verb != "pause" {
		t.Fatalf("fallback verb = %q, want pause", resp.Options[1].Verb)
	}
}

func TestSynthesizeFloorHoldsWithoutActions(t *testing.T) {
	evaluators := make([]Evaluator, 0, 7)
	for _, id := range []string{DomainMind, DomainBody, DomainFuel, DomainRest, DomainBelong, DomainSafety, DomainPurpose} {
		evaluators = append(evaluators, stubEvaluator(id, DomainEvaluation{Stance: StanceStrongAgree, Confidence: 1, Rationale: "in favor"}))
	}
	engine, snap, evaluations := synthInputs(t, evaluators...)
	outcome := engine.Aggregate(evaluations, snap)
	if outcome.Classification != ClassificationConsensus {
		t.Fatalf("setup: classification = %q, want consensus", outcome.Classification)
	}

	resp := NewSynthesizer(DefaultSettings()).Synthesize(outcome, evaluations, snap, NewSituation("test", nil))

	if len(resp.Options) < 2 {
		t.Fatalf("options = %d, want at least 2 even without proposed actions", len(resp.Options))
	}
	if resp.Options[0].Verb == resp.Options[1].Verb {
		t.Fatalf("floor options share verb %q", resp.Options[0].Verb)
	}
}

func TestSynthesizeUsesAlternativesAsSecondaryOptions(t *testing.T) {
	engine, snap, evaluations := synthInputs(t,
		stubEvaluator(DomainMind, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Urgency: 0.5, Rationale: "yes", Action: "Clear one commitment"}),
		stubEvaluator(DomainBody, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Urgency: 0.8, Rationale: "yes",
			Alternatives: []string{"Stretch for five minutes"}}),
		stubEvaluator(DomainRest, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Urgency: 0.5, Rationale: "yes"}),
	)
	outcome := engine.Aggregate(evaluations, snap)

	resp := NewSynthesizer(DefaultSettings()).Synthesize(outcome, evaluations, snap, NewSituation("test", nil))

	if len(resp.Options) != 2 {
		t.Fatalf("options = %d, want 2", len(resp.Options))
	}
	// Actions outrank alternatives regardless of urgency.
	if resp.Options[0].Text != "Clear one commitment" {
		t.Fatalf("first option = %q, want the proposed action", resp.Options[0].Text)
	}
	if resp.Options[1].Text != "Stretch for five minutes" {
		t.Fatalf("second option = %q, want the alternative", resp.Options[1].Text)
	}
	if len(resp.Options[1].Domains) != 1 || resp.Options[1].Domains[0] != DomainBody {
		t.Fatalf("alternative option domains = %v, want [body]", resp.Options[1].Domains)
	}
}

func TestSynthesizeFallbackAvoidsVerbCollision(t *testing.T) {
	engine, snap, evaluations := synthInputs(t,
		stubEvaluator(DomainMind, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Urgency: 0.5, Rationale: "yes", Action: "Pause before adding anything new"}),
		stubEvaluator(DomainBody, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Urgency: 0.5, Rationale: "yes"}),
		stubEvaluator(DomainRest, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Urgency: 0.5, Rationale: "yes"}),
	)
	outcome := engine.Aggregate(evaluations, snap)

	resp := NewSynthesizer(DefaultSettings()).Synthesize(outcome, evaluations, snap, NewSituation("test", nil))

	if len(resp.Options) != 2 {
		t.Fatalf("options = %d, want 2", len(resp.Options))
	}
	if resp.Options[0].Verb == resp.Options[1].Verb {
		t.Fatalf("fallback reused primary verb %q", resp.Options[0].Verb)
	}
}

func TestSynthesizeIsByteIdentical(t *testing.T) {
	engine, snap, evaluations := synthInputs(t,
		stubEvaluator(DomainMind, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Urgency: 0.3, Rationale: "yes", Action: "Clear one commitment"}),
		stubEvaluator(DomainBody, DomainEvaluation{Stance: StanceAgree, Confidence: 1, Urgency: 0.9, Rationale: "yes", Action: "Move for ten minutes"}),
		stubEvaluator(DomainRest, DomainEvaluation{Stance: StanceDisagree, Confidence: 1, Urgency: 0.6, Rationale: "sleep first"}),
	)
	outcome := engine.Aggregate(evaluations, snap)
	synthesizer := NewSynthesizer(DefaultSettings())
	situation := NewSituation("test", nil)

	first, err := json.Marshal(synthesizer.Synthesize(outcome, evaluations, snap, situation))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(synthesizer.Synthesize(outcome, evaluations, snap, situation))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Fatalf("synthesis is not deterministic:\n%s\n%s", first, second)
	}
}
