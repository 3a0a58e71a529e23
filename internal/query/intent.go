// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"regexp"
	"strings"
)

// Intent classifies what relation a question asks about. The zero
// value means no intent was detected and the compiled query runs
// unfiltered.
type Intent string

const (
	IntentMechanism        Intent = "mechanism_of_action"
	IntentIndication       Intent = "indication"
	IntentContraindication Intent = "contraindication"
	IntentAdverseEffect    Intent = "adverse_effect"
	IntentDose             Intent = "dose"
	IntentDrugTarget       Intent = "drug_target"
)

// intentRules pair an intent with the cue phrases signalling it.
// Order matters: the first match wins.
var intentRules = []struct {
	intent Intent
	cue    *regexp.Regexp
}{
	{IntentMechanism, regexp.MustCompile(`(?i)\bmechanism of action\b|\bacts by\b|\binhibit(s|ing)?\b|\bstimulate(s|ing)?\b`)},
	{IntentIndication, regexp.MustCompile(`(?i)\bindication(s)?\b|\bused for\b|\btreat(s|ment)? of\b`)},
	{IntentContraindication, regexp.MustCompile(`(?i)\bcontraindication(s)?\b|\bcontraindicated\b|\bavoid in\b`)},
	{IntentAdverseEffect, regexp.MustCompile(`(?i)\bside effect(s)?\b|\badverse\b|\btoxicit(y|ies)\b`)},
	{IntentDose, regexp.MustCompile(`(?i)\bdose|dosage|dosing\b`)},
	{IntentDrugTarget, regexp.MustCompile(`(?i)\btarget(s)?\b|\bbinds?\b|\breceptor\b|\benzyme\b`)},
}

var whatQuestion = regexp.MustCompile(`(?i)^\s*what\b`)

// detectIntent infers which relation a question asks about. Bare
// "what ..." questions default to mechanism of action; empty means
// unknown.
func detectIntent(text string) Intent {
	for _, rule := range intentRules {
		if rule.cue.MatchString(text) {
			return rule.intent
		}
	}
	if whatQuestion.MatchString(strings.TrimSpace(text)) {
		return IntentMechanism
	}
	return ""
}

// relationKeywords maps each intent to the fragments a relation name
// must contain to satisfy the filtered branch of a compiled query.
var relationKeywords = map[Intent][]string{
	IntentMechanism:        {"mechanism", "inhibit", "stimulate", "act"},
	IntentIndication:       {"indicat", "treat", "use"},
	IntentContraindication: {"contraindicat", "avoid"},
	IntentAdverseEffect:    {"adverse", "side_effect", "toxic", "caus"},
	IntentDose:             {"dose", "dosag", "dosing"},
	IntentDrugTarget:       {"target", "bind", "receptor"},
}
