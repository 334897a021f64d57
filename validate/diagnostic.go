// Package validate checks a loaded content database for referential
// integrity and campaign-level consistency. It never mutates the
// database; every finding becomes a Diagnostic the tools can render as
// text or JSON.
package validate

import "sort"

// Severity orders diagnostics by how much they matter. Errors make a
// campaign unshippable, warnings are probable author mistakes, info is
// advisory.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// MarshalJSON emits the lowercase name rather than the numeric level.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Kind classifies a diagnostic for filtering and tooling.
type Kind string

const (
	KindMissingItem      Kind = "missing_item"
	KindMissingSpell     Kind = "missing_spell"
	KindMissingMonster   Kind = "missing_monster"
	KindMissingClass     Kind = "missing_class"
	KindMissingRace      Kind = "missing_race"
	KindMissingNpc       Kind = "missing_npc"
	KindMissingDialogue  Kind = "missing_dialogue"
	KindMissingMap       Kind = "missing_map"
	KindMissingCharacter Kind = "missing_character"

	KindBrokenVisualRef             Kind = "broken_visual_ref"
	KindDisconnectedMap             Kind = "disconnected_map"
	KindDuplicateID                 Kind = "duplicate_id"
	KindEmptyRequired               Kind = "empty_required"
	KindSchemaField                 Kind = "schema_field"
	KindUnknownField                Kind = "unknown_field"
	KindStructureInvalid            Kind = "structure_invalid"
	KindEventMetadataMissing        Kind = "event_metadata_missing"
	KindQuestReferenceInvalid       Kind = "quest_reference_invalid"
	KindDialogueChoiceTargetInvalid Kind = "dialogue_choice_target_invalid"
	KindUnknownVariant              Kind = "unknown_variant"
	KindInvalidStartingPosition     Kind = "invalid_starting_position"
	KindInvalidStartingInnkeeper    Kind = "invalid_starting_innkeeper"
	KindTooManyStartingPartyMembers Kind = "too_many_starting_party_members"
)

// Diagnostic is one validation finding.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Kind     Kind     `json:"kind"`
	// Context names the entity the finding is about ("item 3",
	// "map 2 event (4,1)").
	Context string `json:"context"`
	Message string `json:"message"`
	// Suggestions lists up to three likely intended IDs for broken
	// references.
	Suggestions []string `json:"suggestions,omitempty"`
}

// sortDiagnostics orders findings deterministically: errors first, then
// by kind, context, and message. The message tiebreak covers entities
// that produce several findings under one context. Two runs over the
// same database always print identically.
func sortDiagnostics(ds []Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		if ds[i].Severity != ds[j].Severity {
			return ds[i].Severity > ds[j].Severity
		}
		if ds[i].Kind != ds[j].Kind {
			return ds[i].Kind < ds[j].Kind
		}
		if ds[i].Context != ds[j].Context {
			return ds[i].Context < ds[j].Context
		}
		return ds[i].Message < ds[j].Message
	})
}

// CountBySeverity tallies errors, warnings, and infos.
func CountBySeverity(ds []Diagnostic) (errors, warnings, infos int) {
	for _, d := range ds {
		switch d.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		default:
			infos++
		}
	}
	return
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
