package combat

import (
	"github.com/antares-rpg/antares/content"
	"github.com/antares-rpg/antares/engine/state"
)

// SpellFailReason classifies why a cast is not allowed.
type SpellFailReason string

const (
	FailUnconscious   SpellFailReason = "unconscious"
	FailSilenced      SpellFailReason = "silenced"
	FailWrongClass    SpellFailReason = "wrong_class"
	FailLevelTooLow   SpellFailReason = "level_too_low"
	FailNotEnoughSP   SpellFailReason = "not_enough_sp"
	FailNotEnoughGems SpellFailReason = "not_enough_gems"
	FailCombatOnly    SpellFailReason = "combat_only"
	FailNotInCombat   SpellFailReason = "not_in_combat"
	FailOutdoorOnly   SpellFailReason = "outdoor_only"
	FailIndoorOnly    SpellFailReason = "indoor_only"
)

// SpellError explains a refused cast in player-facing terms.
type SpellError struct {
	Reason SpellFailReason
	Spell  string
}

func (e *SpellError) Error() string {
	switch e.Reason {
	case FailUnconscious:
		return "the caster cannot act"
	case FailSilenced:
		return "the caster is silenced"
	case FailWrongClass:
		return "this class cannot cast " + e.Spell
	case FailLevelTooLow:
		return "the caster's level is too low for " + e.Spell
	case FailNotEnoughSP:
		return "not enough spell points"
	case FailNotEnoughGems:
		return "not enough gems"
	case FailCombatOnly:
		return e.Spell + " can only be cast in combat"
	case FailNotInCombat:
		return e.Spell + " cannot be cast in combat"
	case FailOutdoorOnly:
		return e.Spell + " can only be cast outdoors"
	case FailIndoorOnly:
		return e.Spell + " can only be cast indoors"
	}
	return "cannot cast " + e.Spell
}

// CanCast decides whether the caster may cast the spell right now. It
// is pure: no state changes, the first failing check wins. gems is the
// party's shared pool.
func CanCast(caster *state.Character, class content.Class, spell content.Spell, gems int, inCombat, outdoors bool) error {
	fail := func(reason SpellFailReason) error {
		return &SpellError{Reason: reason, Spell: spell.Name}
	}
	if !caster.CanAct() {
		return fail(FailUnconscious)
	}
	if caster.Conditions.IsSilenced() {
		return fail(FailSilenced)
	}
	if !class.IsCaster() || class.SpellSchool != spell.School {
		return fail(FailWrongClass)
	}
	if caster.Level < spell.Level+class.SpellLevelOffset {
		return fail(FailLevelTooLow)
	}
	if caster.SP.Current < spell.SPCost {
		return fail(FailNotEnoughSP)
	}
	if gems < spell.GemCost {
		return fail(FailNotEnoughGems)
	}
	switch spell.Context {
	case content.ContextCombatOnly:
		if !inCombat {
			return fail(FailCombatOnly)
		}
	case content.ContextNonCombat:
		if inCombat {
			return fail(FailNotInCombat)
		}
	case content.ContextOutdoor:
		if !outdoors {
			return fail(FailOutdoorOnly)
		}
	case content.ContextIndoor:
		if outdoors {
			return fail(FailIndoorOnly)
		}
	}
	return nil
}

// Cast checks the prerequisites and deducts the spell's costs: SP from
// the caster, gems from the party pool. Effect application is the
// caller's move (damage through Combat, healing through the party).
func Cast(caster *state.Character, class content.Class, spell content.Spell, party *state.Party, inCombat, outdoors bool) error {
	if err := CanCast(caster, class, spell, party.Gems, inCombat, outdoors); err != nil {
		return err
	}
	caster.SP.Modify(-spell.SPCost)
	party.SpendGems(spell.GemCost)
	return nil
}
