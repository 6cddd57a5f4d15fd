package council

import (
	"context"
	"testing"
)

func TestRegistryRejectsDuplicateDomain(t *testing.T) {
	registry := NewRegistry()
	eval := stubEvaluator(DomainMind, DomainEvaluation{Stance: StanceNeutral, Confidence: 1, Rationale: "no view"})

	if err := registry.Register(eval, 1.0); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := registry.Register(eval, 1.0); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestRegistryRejectsNegativeWeight(t *testing.T) {
	registry := NewRegistry()
	eval := stubEvaluator(DomainMind, DomainEvaluation{Stance: StanceNeutral, Confidence: 1, Rationale: "no view"})

	if err := registry.Register(eval, -0.5); err == nil {
		t.Fatalf("expected negative weight to fail")
	}
}

func TestRegistryPreservesRegistrationOrder(t *testing.T) {
	registry := NewRegistry()
	for _, id := range []string{DomainSafety, DomainMind, DomainBody} {
		if err := registry.Register(stubEvaluator(id, DomainEvaluation{Stance: StanceNeutral, Confidence: 1, Rationale: "no view"}), 1.0); err != nil {
			t.Fatal(err)
		}
	}

	got := registry.Snapshot().Domains()
	want := []string{DomainSafety, DomainMind, DomainBody}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSnapshotUnaffectedByLaterChanges(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(stubEvaluator(DomainMind, DomainEvaluation{Stance: StanceNeutral, Confidence: 1, Rationale: "no view"}), 1.0); err != nil {
		t.Fatal(err)
	}

	snap := registry.Snapshot()

	if err := registry.SetWeight(DomainMind, 0.25); err != nil {
		t.Fatal(err)
	}
	if err := registry.Register(stubEvaluator(DomainBody, DomainEvaluation{Stance: StanceNeutral, Confidence: 1, Rationale: "no view"}), 1.0); err != nil {
		t.Fatal(err)
	}

	if snap.Len() != 1 {
		t.Fatalf("snapshot len = %d, want the pre-change view", snap.Len())
	}
	if w := snap.Weight(DomainMind); w != 1.0 {
		t.Fatalf("snapshot weight = %v, want pre-change 1.0", w)
	}
	if registry.Snapshot().Len() != 2 {
		t.Fatalf("fresh snapshot must see the new registration")
	}
}

func TestSetWeightUnknownDomain(t *testing.T) {
	registry := NewRegistry()
	if err := registry.SetWeight("ghost", 1.0); err == nil {
		t.Fatalf("expected unknown domain to fail")
	}
}

func TestEvaluatorFuncAdapter(t *testing.T) {
	called := false
	eval := EvaluatorFunc{
		ID: DomainPurpose,
		Fn: func(ctx context.Context, situation Situation) (DomainEvaluation, error) {
			called = true
			return DomainEvaluation{DomainID: DomainPurpose, Stance: StanceAgree, Confidence: 1, Rationale: "aligned"}, nil
		},
	}

	if eval.DomainID() != DomainPurpose {
		t.Fatalf("domain id = %q", eval.DomainID())
	}
	if _, err := eval.Evaluate(context.Background(), NewSituation("test", nil)); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatalf("wrapped function was not invoked")
	}
}
