package main

// Run a council consultation from the command line:
//   go run ./cmd/councildemo -input "Should I take on another project this week?" -signal stress_level=0.9

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"council-backend/internal/council"
	"council-backend/internal/domains"
)

type signalFlags map[string]council.SignalValue

func (s signalFlags) String() string {
	parts := make([]string, 0, len(s))
	for k := range s {
		parts = append(parts, k)
	}
	return strings.Join(parts, ",")
}

func (s signalFlags) Set(value string) error {
	name, raw, ok := strings.Cut(value, "=")
	if !ok || name == "" {
		return fmt.Errorf("signal must be name=value, got %q", value)
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		s[name] = council.NumberSignal(n)
		return nil
	}
	s[name] = council.LabelSignal(raw)
	return nil
}

func main() {
	input := flag.String("input", "", "situation to put before the council")
	configPath := flag.String("config", "", "optional council settings YAML")
	signals := signalFlags{}
	flag.Var(signals, "signal", "signal as name=value, repeatable")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: councildemo -input \"...\" [-signal name=value]...")
		os.Exit(2)
	}

	settings := council.DefaultSettings()
	if *configPath != "" {
		loaded, err := council.LoadSettings(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load settings failed: %v\n", err)
			os.Exit(1)
		}
		settings = loaded
	}

	registry := council.NewRegistry()
	if err := domains.RegisterAll(registry, settings); err != nil {
		fmt.Fprintf(os.Stderr, "register domains failed: %v\n", err)
		os.Exit(1)
	}

	cncl := council.New(registry, settings)
	situation := council.NewSituation(*input, signals)

	result, err := cncl.GetRecommendation(context.Background(), situation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "consultation failed: %v\n", err)
		os.Exit(1)
	}

	out := map[string]any{
		"situationId":    situation.ID,
		"classification": result.Response.Classification,
		"weightedScore":  result.Outcome.WeightedScore,
		"vetoed":         result.Outcome.Vetoed,
		"dissenting":     result.Outcome.Dissenting,
		"evaluations":    result.Evaluations,
		"response":       result.Response,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "encode failed: %v\n", err)
		os.Exit(1)
	}
}
