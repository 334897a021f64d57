package validate

import (
	"fmt"

	"github.com/antares-rpg/antares/content"
	"github.com/antares-rpg/antares/types"
	"github.com/antares-rpg/antares/world"
)

// Known dialogue condition types.
var knownConditionTypes = map[string]bool{
	"has_item": true, "has_gold": true, "flag_set": true, "flag_not": true,
	"quest_active": true, "quest_completed": true, "min_level": true,
}

// Known dialogue action types.
var knownActionTypes = map[string]bool{
	"give_item": true, "take_item": true, "give_gold": true, "take_gold": true,
	"set_flag": true, "start_quest": true, "advance_quest": true,
	"complete_quest": true, "give_experience": true, "heal": true,
	"end_dialogue": true,
}

// Validate checks every cross-reference and campaign-level rule in the
// database and returns the findings sorted by severity, kind, and
// context. The database is not modified.
func Validate(db *content.Database) []Diagnostic {
	c := &checker{db: db}
	c.checkCampaign()
	c.checkItems()
	c.checkMonsters()
	c.checkNpcs()
	c.checkCharacters()
	c.checkQuests()
	c.checkDialogues()
	c.checkMaps()
	c.checkReachability()
	c.checkSchemaIssues()
	sortDiagnostics(c.ds)
	return c.ds
}

type checker struct {
	db *content.Database
	ds []Diagnostic
}

func (c *checker) add(sev Severity, kind Kind, context, format string, args ...any) {
	c.ds = append(c.ds, Diagnostic{
		Severity: sev,
		Kind:     kind,
		Context:  context,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (c *checker) addSuggested(sev Severity, kind Kind, context string, suggestions []string, format string, args ...any) {
	c.ds = append(c.ds, Diagnostic{
		Severity:    sev,
		Kind:        kind,
		Context:     context,
		Message:     fmt.Sprintf(format, args...),
		Suggestions: suggestions,
	})
}

// Suggestion sources per registry.

func (c *checker) itemIDs() []int {
	ids := c.db.Items.IDs()
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

func (c *checker) monsterIDs() []int {
	ids := c.db.Monsters.IDs()
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

func (c *checker) mapIDs() []int {
	ids := c.db.Maps.IDs()
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

func (c *checker) dialogueIDs() []int {
	ids := c.db.Dialogues.IDs()
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

func (c *checker) questIDs() []int {
	ids := c.db.Quests.IDs()
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

func (c *checker) creatureIDs() []int {
	ids := c.db.Creatures.IDs()
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

func (c *checker) checkCampaign() {
	camp := &c.db.Campaign

	if camp.Config.MaxPartySize <= 0 {
		c.add(SeverityError, KindStructureInvalid, "campaign",
			"max_party_size %d is invalid", camp.Config.MaxPartySize)
	}

	m, ok := c.db.Maps.Get(camp.StartingMap)
	if !ok {
		c.addSuggested(SeverityError, KindMissingMap, "campaign",
			suggestInts(int(camp.StartingMap), c.mapIDs()),
			"starting map %d does not exist", camp.StartingMap)
	} else {
		pos := camp.StartingPosition
		if !m.InBounds(pos) {
			c.add(SeverityError, KindInvalidStartingPosition, "campaign",
				"starting position (%d,%d) is outside map %d", pos.X, pos.Y, camp.StartingMap)
		} else if m.IsBlocked(pos) {
			c.add(SeverityError, KindInvalidStartingPosition, "campaign",
				"starting position (%d,%d) on map %d is blocked", pos.X, pos.Y, camp.StartingMap)
		}
	}

	if camp.StartingInnkeeper != "" {
		npc, ok := c.db.Npcs.Get(camp.StartingInnkeeper)
		if !ok {
			c.addSuggested(SeverityError, KindInvalidStartingInnkeeper, "campaign",
				suggestStrings(camp.StartingInnkeeper, c.db.Npcs.IDs()),
				"starting innkeeper %q does not exist", camp.StartingInnkeeper)
		} else if !npc.IsInnkeeper {
			c.add(SeverityError, KindInvalidStartingInnkeeper, "campaign",
				"npc %q is not an innkeeper", camp.StartingInnkeeper)
		}
	}

	starting := 0
	c.db.Characters.All(func(_ types.CharacterDefID, ch content.CharacterDef) bool {
		if ch.StartsInParty {
			starting++
		}
		return true
	})
	if max := camp.Config.MaxPartySize; max > 0 && starting > max {
		c.add(SeverityError, KindTooManyStartingPartyMembers, "campaign",
			"%d characters start in the party, the limit is %d", starting, max)
	}
}

func (c *checker) checkItems() {
	c.db.Items.All(func(id types.ItemID, it content.Item) bool {
		context := fmt.Sprintf("item %d", id)
		if it.Name == "" {
			c.add(SeverityWarning, KindEmptyRequired, context, "name is empty")
		}
		for _, class := range it.AllowedClasses {
			if !c.db.Classes.Has(class) {
				c.addSuggested(SeverityError, KindMissingClass, context,
					suggestStrings(class, c.db.Classes.IDs()),
					"allowed class %q does not exist", class)
			}
		}
		if it.SpellID != 0 && !c.db.Spells.Has(it.SpellID) {
			c.add(SeverityError, KindMissingSpell, context,
				"references spell %d which does not exist", it.SpellID)
		}
		return true
	})
}

func (c *checker) checkMonsters() {
	c.db.Monsters.All(func(id types.MonsterID, mo content.Monster) bool {
		context := fmt.Sprintf("monster %d", id)
		if mo.Name == "" {
			c.add(SeverityWarning, KindEmptyRequired, context, "name is empty")
		}
		if mo.HP.Base <= 0 {
			c.add(SeverityWarning, KindStructureInvalid, context, "has no hit points")
		}
		for _, entry := range mo.Loot.Items {
			if !c.db.Items.Has(entry.ItemID) {
				c.addSuggested(SeverityError, KindMissingItem, context,
					suggestInts(int(entry.ItemID), c.itemIDs()),
					"loot references item %d which does not exist", entry.ItemID)
			}
		}
		if mo.VisualID != nil && !c.db.Creatures.Has(*mo.VisualID) {
			c.addSuggested(SeverityWarning, KindBrokenVisualRef, context,
				suggestInts(int(*mo.VisualID), c.creatureIDs()),
				"visual references creature %d which does not exist", *mo.VisualID)
		}
		return true
	})
}

func (c *checker) checkNpcs() {
	c.db.Npcs.All(func(id types.NpcID, n content.NPC) bool {
		context := fmt.Sprintf("npc %q", id)
		if n.Name == "" {
			c.add(SeverityWarning, KindEmptyRequired, context, "name is empty")
		}
		if n.DialogueID != nil && !c.db.Dialogues.Has(*n.DialogueID) {
			c.addSuggested(SeverityError, KindMissingDialogue, context,
				suggestInts(int(*n.DialogueID), c.dialogueIDs()),
				"dialogue %d does not exist", *n.DialogueID)
		}
		if n.CreatureID != nil && !c.db.Creatures.Has(*n.CreatureID) {
			c.addSuggested(SeverityWarning, KindBrokenVisualRef, context,
				suggestInts(int(*n.CreatureID), c.creatureIDs()),
				"creature %d does not exist", *n.CreatureID)
		}
		for _, q := range n.QuestIDs {
			if !c.db.Quests.Has(q) {
				c.addSuggested(SeverityError, KindQuestReferenceInvalid, context,
					suggestInts(int(q), c.questIDs()),
					"quest %d does not exist", q)
			}
		}
		return true
	})
}

func (c *checker) checkCharacters() {
	c.db.Characters.All(func(id types.CharacterDefID, ch content.CharacterDef) bool {
		context := fmt.Sprintf("character %q", id)
		if !c.db.Races.Has(ch.RaceID) {
			c.addSuggested(SeverityError, KindMissingRace, context,
				suggestStrings(ch.RaceID, c.db.Races.IDs()),
				"race %q does not exist", ch.RaceID)
		}
		if !c.db.Classes.Has(ch.ClassID) {
			c.addSuggested(SeverityError, KindMissingClass, context,
				suggestStrings(ch.ClassID, c.db.Classes.IDs()),
				"class %q does not exist", ch.ClassID)
		}
		for _, it := range ch.Inventory {
			if !c.db.Items.Has(it) {
				c.addSuggested(SeverityError, KindMissingItem, context,
					suggestInts(int(it), c.itemIDs()),
					"inventory item %d does not exist", it)
			}
		}
		return true
	})
}

func (c *checker) checkQuests() {
	c.db.Quests.All(func(id types.QuestID, q content.Quest) bool {
		context := fmt.Sprintf("quest %d", id)
		if len(q.Objectives) == 0 {
			c.add(SeverityWarning, KindEmptyRequired, context, "has no objectives")
		}
		for i, obj := range q.Objectives {
			objContext := fmt.Sprintf("%s objective %d", context, i+1)
			switch obj.Kind {
			case content.ObjectiveKillMonster:
				if !c.db.Monsters.Has(obj.MonsterID) {
					c.addSuggested(SeverityError, KindMissingMonster, objContext,
						suggestInts(int(obj.MonsterID), c.monsterIDs()),
						"monster %d does not exist", obj.MonsterID)
				}
			case content.ObjectiveCollectItem:
				if !c.db.Items.Has(obj.ItemID) {
					c.addSuggested(SeverityError, KindMissingItem, objContext,
						suggestInts(int(obj.ItemID), c.itemIDs()),
						"item %d does not exist", obj.ItemID)
				}
			case content.ObjectiveVisitMap:
				if !c.db.Maps.Has(obj.MapID) {
					c.addSuggested(SeverityError, KindMissingMap, objContext,
						suggestInts(int(obj.MapID), c.mapIDs()),
						"map %d does not exist", obj.MapID)
				}
			case content.ObjectiveTalkToNpc:
				if !c.db.Npcs.Has(obj.NpcID) {
					c.addSuggested(SeverityError, KindMissingNpc, objContext,
						suggestStrings(obj.NpcID, c.db.Npcs.IDs()),
						"npc %q does not exist", obj.NpcID)
				}
			case content.ObjectiveFinishDialogue:
				if !c.db.Dialogues.Has(obj.DialogueID) {
					c.addSuggested(SeverityError, KindMissingDialogue, objContext,
						suggestInts(int(obj.DialogueID), c.dialogueIDs()),
						"dialogue %d does not exist", obj.DialogueID)
				}
			default:
				c.add(SeverityWarning, KindUnknownVariant, objContext,
					"unknown objective kind %q", obj.Kind)
			}
		}
		for _, it := range q.Reward.Items {
			if !c.db.Items.Has(it) {
				c.addSuggested(SeverityError, KindMissingItem, context,
					suggestInts(int(it), c.itemIDs()),
					"reward item %d does not exist", it)
			}
		}
		for _, p := range q.Prerequisites {
			if p == id {
				c.add(SeverityError, KindQuestReferenceInvalid, context,
					"lists itself as a prerequisite")
			} else if !c.db.Quests.Has(p) {
				c.addSuggested(SeverityError, KindQuestReferenceInvalid, context,
					suggestInts(int(p), c.questIDs()),
					"prerequisite quest %d does not exist", p)
			}
		}
		return true
	})
}

func (c *checker) checkDialogues() {
	c.db.Dialogues.All(func(id types.DialogueID, d content.DialogueTree) bool {
		context := fmt.Sprintf("dialogue %d", id)
		for _, problem := range d.Validate() {
			kind := KindStructureInvalid
			if isChoiceTargetProblem(problem) {
				kind = KindDialogueChoiceTargetInvalid
			}
			c.add(SeverityError, kind, context, "%s", problem)
		}
		if d.AssociatedQuest != nil && !c.db.Quests.Has(*d.AssociatedQuest) {
			c.addSuggested(SeverityError, KindQuestReferenceInvalid, context,
				suggestInts(int(*d.AssociatedQuest), c.questIDs()),
				"associated quest %d does not exist", *d.AssociatedQuest)
		}
		for _, node := range d.Nodes {
			nodeContext := fmt.Sprintf("%s node %d", context, node.ID)
			c.checkVariants(nodeContext, node.Conditions, node.Actions)
			for _, choice := range node.Choices {
				c.checkVariants(nodeContext, choice.Conditions, choice.Actions)
			}
		}
		return true
	})
}

func isChoiceTargetProblem(problem string) bool {
	const prefix = "choice target node missing"
	return len(problem) >= len(prefix) && problem[:len(prefix)] == prefix
}

// checkVariants validates tagged condition and action lists: unknown
// types warn, broken item and quest references error.
func (c *checker) checkVariants(context string, conds []content.DialogueCondition, actions []content.DialogueAction) {
	for _, cond := range conds {
		if !knownConditionTypes[cond.Type] {
			c.add(SeverityWarning, KindUnknownVariant, context,
				"unknown condition type %q", cond.Type)
			continue
		}
		c.checkVariantRefs(context, cond.Type, cond.Params)
	}
	for _, act := range actions {
		if !knownActionTypes[act.Type] {
			c.add(SeverityWarning, KindUnknownVariant, context,
				"unknown action type %q", act.Type)
			continue
		}
		c.checkVariantRefs(context, act.Type, act.Params)
	}
}

func (c *checker) checkVariantRefs(context, typ string, params map[string]any) {
	switch typ {
	case "has_item", "give_item", "take_item":
		if item, ok := asInt(params["item"]); ok {
			if !c.db.Items.Has(types.ItemID(item)) {
				c.addSuggested(SeverityError, KindMissingItem, context,
					suggestInts(item, c.itemIDs()),
					"%s references item %d which does not exist", typ, item)
			}
		}
	case "quest_active", "quest_completed", "start_quest", "advance_quest", "complete_quest":
		if quest, ok := asInt(params["quest"]); ok {
			if !c.db.Quests.Has(types.QuestID(quest)) {
				c.addSuggested(SeverityError, KindQuestReferenceInvalid, context,
					suggestInts(quest, c.questIDs()),
					"%s references quest %d which does not exist", typ, quest)
			}
		}
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func (c *checker) checkMaps() {
	c.db.Maps.All(func(id types.MapID, m *world.Map) bool {
		context := fmt.Sprintf("map %d", id)
		for _, problem := range m.CheckInvariants() {
			c.add(SeverityError, KindStructureInvalid, context, "%s", problem)
		}
		for _, p := range m.Placements {
			pContext := fmt.Sprintf("%s npc (%d,%d)", context, p.Position.X, p.Position.Y)
			if !c.db.Npcs.Has(p.NpcID) {
				c.addSuggested(SeverityError, KindMissingNpc, pContext,
					suggestStrings(p.NpcID, c.db.Npcs.IDs()),
					"npc %q does not exist", p.NpcID)
			}
			if p.DialogueOverride != nil && !c.db.Dialogues.Has(*p.DialogueOverride) {
				c.addSuggested(SeverityError, KindMissingDialogue, pContext,
					suggestInts(int(*p.DialogueOverride), c.dialogueIDs()),
					"dialogue override %d does not exist", *p.DialogueOverride)
			}
		}
		for pos, event := range m.Events {
			c.checkEvent(fmt.Sprintf("%s event (%d,%d)", context, pos.X, pos.Y), event)
		}
		for i, group := range m.Encounters.Groups {
			for _, mid := range group {
				if !c.db.Monsters.Has(mid) {
					c.addSuggested(SeverityError, KindMissingMonster,
						fmt.Sprintf("%s encounter group %d", context, i+1),
						suggestInts(int(mid), c.monsterIDs()),
						"monster %d does not exist", mid)
				}
			}
		}
		return true
	})
}

func (c *checker) checkEvent(context string, e world.MapEvent) {
	if e.Name == "" || e.Description == "" {
		c.add(SeverityWarning, KindEventMetadataMissing, context,
			"name and description are required on every event")
	}
	switch e.Kind {
	case world.EventEncounter:
		if len(e.MonsterGroup) == 0 {
			c.add(SeverityWarning, KindEmptyRequired, context, "encounter has no monsters")
		}
		for _, id := range e.MonsterGroup {
			if !c.db.Monsters.Has(id) {
				c.addSuggested(SeverityError, KindMissingMonster, context,
					suggestInts(int(id), c.monsterIDs()),
					"monster %d does not exist", id)
			}
		}
	case world.EventTreasure:
		for _, id := range e.Loot {
			if !c.db.Items.Has(id) {
				c.addSuggested(SeverityError, KindMissingItem, context,
					suggestInts(int(id), c.itemIDs()),
					"loot item %d does not exist", id)
			}
		}
	case world.EventTeleport:
		target, ok := c.db.Maps.Get(e.TargetMap)
		if !ok {
			c.addSuggested(SeverityError, KindMissingMap, context,
				suggestInts(int(e.TargetMap), c.mapIDs()),
				"teleport target map %d does not exist", e.TargetMap)
		} else if !target.InBounds(e.Destination) {
			c.add(SeverityError, KindStructureInvalid, context,
				"teleport destination (%d,%d) is outside map %d",
				e.Destination.X, e.Destination.Y, e.TargetMap)
		}
	case world.EventNpcDialogue:
		if !c.db.Npcs.Has(e.NpcID) {
			c.addSuggested(SeverityError, KindMissingNpc, context,
				suggestStrings(e.NpcID, c.db.Npcs.IDs()),
				"npc %q does not exist", e.NpcID)
		}
	case world.EventEnterInn:
		npc, ok := c.db.Npcs.Get(e.NpcID)
		if !ok {
			c.addSuggested(SeverityError, KindMissingNpc, context,
				suggestStrings(e.NpcID, c.db.Npcs.IDs()),
				"npc %q does not exist", e.NpcID)
		} else if !npc.IsInnkeeper {
			c.add(SeverityWarning, KindStructureInvalid, context,
				"npc %q is not an innkeeper", e.NpcID)
		}
	case world.EventRecruitableCharacter:
		if !c.db.Characters.Has(e.CharacterID) {
			c.addSuggested(SeverityError, KindMissingCharacter, context,
				suggestStrings(e.CharacterID, c.db.Characters.IDs()),
				"character %q does not exist", e.CharacterID)
		}
		if e.DialogueID != nil && !c.db.Dialogues.Has(*e.DialogueID) {
			c.addSuggested(SeverityError, KindMissingDialogue, context,
				suggestInts(int(*e.DialogueID), c.dialogueIDs()),
				"dialogue %d does not exist", *e.DialogueID)
		}
	}
}

// checkReachability walks teleport edges from the starting map and
// warns about maps the party can never reach.
func (c *checker) checkReachability() {
	start := c.db.Campaign.StartingMap
	if !c.db.Maps.Has(start) {
		return
	}
	reachable := map[types.MapID]bool{start: true}
	queue := []types.MapID{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		m, ok := c.db.Maps.Get(id)
		if !ok {
			continue
		}
		for _, t := range m.Teleports() {
			if !reachable[t.TargetMap] && c.db.Maps.Has(t.TargetMap) {
				reachable[t.TargetMap] = true
				queue = append(queue, t.TargetMap)
			}
		}
	}
	for _, id := range c.db.Maps.IDs() {
		if !reachable[id] {
			c.add(SeverityWarning, KindDisconnectedMap,
				fmt.Sprintf("map %d", id),
				"not reachable from starting map %d", start)
		}
	}
}

// checkSchemaIssues surfaces legacy fields the loader tolerated.
func (c *checker) checkSchemaIssues() {
	for _, issue := range c.db.SchemaIssues {
		c.add(SeverityError, KindSchemaField, issue.Context,
			"legacy field %q: %s", issue.Field, issue.Message)
	}
}
