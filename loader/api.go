package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// rawEntry holds one collected definition before compilation: a numeric
// or string ID plus the raw Lua table it was declared with.
type rawEntry struct {
	numID int
	strID string
	table *lua.LTable
}

// collector gathers raw Lua tables as the data files execute. Nothing is
// validated here; compilation happens after every file has run so that
// forward references between files are fine.
type collector struct {
	campaign *lua.LTable
	config   *lua.LTable

	items      []rawEntry
	spells     []rawEntry
	monsters   []rawEntry
	creatures  []rawEntry
	quests     []rawEntry
	dialogues  []rawEntry
	maps       []rawEntry
	classes    []rawEntry
	races      []rawEntry
	npcs       []rawEntry
	characters []rawEntry

	// baseMapCount is how many leading entries of maps came from the
	// base data directory rather than the campaign itself.
	baseMapCount int
}

func newCollector() *collector {
	return &collector{}
}

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerConditionHelpers(L)
	registerActionHelpers(L)

	// dice(count, sides) or dice(count, sides, bonus)
	L.SetGlobal("dice", L.NewFunction(func(L *lua.LState) int {
		count := L.CheckNumber(1)
		sides := L.CheckNumber(2)
		bonus := L.OptNumber(3, 0)
		tbl := L.NewTable()
		tbl.RawSetString("count", count)
		tbl.RawSetString("sides", sides)
		tbl.RawSetString("bonus", bonus)
		L.Push(tbl)
		return 1
	}))
}

// numConstructor returns a curried constructor for numerically keyed
// entities: Item(3) { ... }.
func numConstructor(L *lua.LState, dst *[]rawEntry) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := int(L.CheckNumber(1))
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			*dst = append(*dst, rawEntry{numID: id, table: tbl})
			return 0
		}))
		return 1
	})
}

// strConstructor returns a curried constructor for string-keyed
// entities: Class "knight" { ... }.
func strConstructor(L *lua.LState, dst *[]rawEntry) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			*dst = append(*dst, rawEntry{strID: id, table: tbl})
			return 0
		}))
		return 1
	})
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Campaign { id = "...", ... } and Config { ... } take the table
	// directly; everything else is curried on its ID.
	L.SetGlobal("Campaign", L.NewFunction(func(L *lua.LState) int {
		coll.campaign = L.CheckTable(1)
		return 0
	}))
	L.SetGlobal("Config", L.NewFunction(func(L *lua.LState) int {
		coll.config = L.CheckTable(1)
		return 0
	}))

	L.SetGlobal("Item", numConstructor(L, &coll.items))
	L.SetGlobal("Spell", numConstructor(L, &coll.spells))
	L.SetGlobal("Monster", numConstructor(L, &coll.monsters))
	L.SetGlobal("Creature", numConstructor(L, &coll.creatures))
	L.SetGlobal("Quest", numConstructor(L, &coll.quests))
	L.SetGlobal("Dialogue", numConstructor(L, &coll.dialogues))
	L.SetGlobal("Map", numConstructor(L, &coll.maps))

	L.SetGlobal("Class", strConstructor(L, &coll.classes))
	L.SetGlobal("Race", strConstructor(L, &coll.races))
	L.SetGlobal("Npc", strConstructor(L, &coll.npcs))
	L.SetGlobal("Character", strConstructor(L, &coll.characters))
}

// variantTable builds a tagged {type = ..., params...} table.
func variantTable(L *lua.LState, typ string, params map[string]lua.LValue) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("type", lua.LString(typ))
	for k, v := range params {
		tbl.RawSetString(k, v)
	}
	return tbl
}

func registerConditionHelpers(L *lua.LState) {
	// HasItem(id)
	L.SetGlobal("HasItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckNumber(1)
		L.Push(variantTable(L, "has_item", map[string]lua.LValue{"item": item}))
		return 1
	}))

	// HasGold(amount)
	L.SetGlobal("HasGold", L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckNumber(1)
		L.Push(variantTable(L, "has_gold", map[string]lua.LValue{"amount": amount}))
		return 1
	}))

	// FlagSet("flag")
	L.SetGlobal("FlagSet", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		L.Push(variantTable(L, "flag_set", map[string]lua.LValue{"flag": lua.LString(flag)}))
		return 1
	}))

	// FlagNot("flag")
	L.SetGlobal("FlagNot", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		L.Push(variantTable(L, "flag_not", map[string]lua.LValue{"flag": lua.LString(flag)}))
		return 1
	}))

	// QuestActive(id)
	L.SetGlobal("QuestActive", L.NewFunction(func(L *lua.LState) int {
		quest := L.CheckNumber(1)
		L.Push(variantTable(L, "quest_active", map[string]lua.LValue{"quest": quest}))
		return 1
	}))

	// QuestCompleted(id)
	L.SetGlobal("QuestCompleted", L.NewFunction(func(L *lua.LState) int {
		quest := L.CheckNumber(1)
		L.Push(variantTable(L, "quest_completed", map[string]lua.LValue{"quest": quest}))
		return 1
	}))

	// MinLevel(n): true when any party member is at least level n.
	L.SetGlobal("MinLevel", L.NewFunction(func(L *lua.LState) int {
		level := L.CheckNumber(1)
		L.Push(variantTable(L, "min_level", map[string]lua.LValue{"level": level}))
		return 1
	}))
}

func registerActionHelpers(L *lua.LState) {
	// GiveItem(id)
	L.SetGlobal("GiveItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckNumber(1)
		L.Push(variantTable(L, "give_item", map[string]lua.LValue{"item": item}))
		return 1
	}))

	// TakeItem(id)
	L.SetGlobal("TakeItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckNumber(1)
		L.Push(variantTable(L, "take_item", map[string]lua.LValue{"item": item}))
		return 1
	}))

	// GiveGold(amount)
	L.SetGlobal("GiveGold", L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckNumber(1)
		L.Push(variantTable(L, "give_gold", map[string]lua.LValue{"amount": amount}))
		return 1
	}))

	// TakeGold(amount)
	L.SetGlobal("TakeGold", L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckNumber(1)
		L.Push(variantTable(L, "take_gold", map[string]lua.LValue{"amount": amount}))
		return 1
	}))

	// SetFlag("flag", value)
	L.SetGlobal("SetFlag", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		value := L.CheckBool(2)
		L.Push(variantTable(L, "set_flag", map[string]lua.LValue{
			"flag": lua.LString(flag), "value": lua.LBool(value),
		}))
		return 1
	}))

	// StartQuest(id)
	L.SetGlobal("StartQuest", L.NewFunction(func(L *lua.LState) int {
		quest := L.CheckNumber(1)
		L.Push(variantTable(L, "start_quest", map[string]lua.LValue{"quest": quest}))
		return 1
	}))

	// AdvanceQuest(id)
	L.SetGlobal("AdvanceQuest", L.NewFunction(func(L *lua.LState) int {
		quest := L.CheckNumber(1)
		L.Push(variantTable(L, "advance_quest", map[string]lua.LValue{"quest": quest}))
		return 1
	}))

	// CompleteQuest(id)
	L.SetGlobal("CompleteQuest", L.NewFunction(func(L *lua.LState) int {
		quest := L.CheckNumber(1)
		L.Push(variantTable(L, "complete_quest", map[string]lua.LValue{"quest": quest}))
		return 1
	}))

	// GiveExperience(amount)
	L.SetGlobal("GiveExperience", L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckNumber(1)
		L.Push(variantTable(L, "give_experience", map[string]lua.LValue{"amount": amount}))
		return 1
	}))

	// Heal(amount): heals the whole party.
	L.SetGlobal("Heal", L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckNumber(1)
		L.Push(variantTable(L, "heal", map[string]lua.LValue{"amount": amount}))
		return 1
	}))

	// EndDialogue()
	L.SetGlobal("EndDialogue", L.NewFunction(func(L *lua.LState) int {
		L.Push(variantTable(L, "end_dialogue", nil))
		return 1
	}))
}
