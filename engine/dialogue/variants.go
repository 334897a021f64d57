package dialogue

import (
	"github.com/antares-rpg/antares/content"
	"github.com/antares-rpg/antares/engine/state"
	"github.com/antares-rpg/antares/types"
)

// evalCondition dispatches one tagged condition against the game state.
// The second result is false for unknown types.
func evalCondition(gs *state.GameState, cond content.DialogueCondition) (holds, known bool) {
	switch cond.Type {
	case "has_item":
		return gs.Party.HasItem(types.ItemID(paramInt(cond.Params, "item"))), true
	case "has_gold":
		return gs.Party.Gold >= paramInt(cond.Params, "amount"), true
	case "flag_set":
		return gs.Flag(paramString(cond.Params, "flag")), true
	case "flag_not":
		return !gs.Flag(paramString(cond.Params, "flag")), true
	case "quest_active":
		return gs.IsQuestActive(types.QuestID(paramInt(cond.Params, "quest"))), true
	case "quest_completed":
		return gs.IsQuestCompleted(types.QuestID(paramInt(cond.Params, "quest"))), true
	case "min_level":
		return gs.Party.HighestLevel() >= paramInt(cond.Params, "level"), true
	}
	return false, false
}

// applyAction dispatches one tagged action. The first result requests
// ending the dialogue; the second is false for unknown types.
func applyAction(gs *state.GameState, act content.DialogueAction) (end, known bool) {
	switch act.Type {
	case "give_item":
		gs.Party.GiveItem(types.ItemID(paramInt(act.Params, "item")))
		return false, true
	case "take_item":
		gs.Party.TakeItem(types.ItemID(paramInt(act.Params, "item")))
		return false, true
	case "give_gold":
		gs.Party.Gold += paramInt(act.Params, "amount")
		return false, true
	case "take_gold":
		gs.Party.SpendGold(paramInt(act.Params, "amount"))
		return false, true
	case "set_flag":
		value := true
		if v, ok := act.Params["value"].(bool); ok {
			value = v
		}
		gs.SetFlag(paramString(act.Params, "flag"), value)
		return false, true
	case "start_quest":
		gs.StartQuest(types.QuestID(paramInt(act.Params, "quest")))
		return false, true
	case "advance_quest":
		gs.AdvanceQuest(types.QuestID(paramInt(act.Params, "quest")), paramInt(act.Params, "objective"))
		return false, true
	case "complete_quest":
		gs.CompleteQuest(types.QuestID(paramInt(act.Params, "quest")))
		return false, true
	case "give_experience":
		gs.Party.AwardExperience(paramInt(act.Params, "amount"))
		return false, true
	case "heal":
		amount := paramInt(act.Params, "amount")
		for _, m := range gs.Party.Members {
			m.Heal(amount)
		}
		return false, true
	case "end_dialogue":
		return true, true
	}
	return false, false
}

// paramInt reads an integer parameter; numbers arrive as int from the
// loader and as float64 after a JSON round trip.
func paramInt(params map[string]any, key string) int {
	switch v := params[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func paramString(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}
