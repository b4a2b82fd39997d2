package modmeta

import (
	"regexp"
	"sync"
)

// catalogEntry maps one mod API call to the workshop category it implies.
type catalogEntry struct {
	call     string
	category string
}

// apiCallCatalog covers the registration surface of the mod API. Scanning
// for these calls recovers meaningful tags even from mods whose metadata
// block is missing or mangled. Order fixes the category order of the
// inferred tag list.
var apiCallCatalog = []catalogEntry{
	{"addItem", "Items"},
	{"addItemVariant", "Items"},
	{"registerItemEffect", "Items"},
	{"removeItem", "Items"},
	{"addRecipe", "Crafting"},
	{"addCraftingStation", "Crafting"},
	{"addSmeltingRecipe", "Crafting"},
	{"addCharacter", "Characters"},
	{"setCharacterPortrait", "Characters"},
	{"addCharacterTrait", "Characters"},
	{"addCombatSkill", "Combat"},
	{"registerCombatEvent", "Combat"},
	{"addWeaponType", "Combat"},
	{"addCultivationMethod", "Cultivation"},
	{"addBreakthrough", "Cultivation"},
	{"addTribulation", "Cultivation"},
	{"setSpiritRootAffinity", "Cultivation"},
	{"addEvent", "Events"},
	{"scheduleEvent", "Events"},
	{"onSeasonChange", "Events"},
	{"onFestival", "Events"},
	{"addQuest", "Quests"},
	{"addQuestStage", "Quests"},
	{"registerQuestReward", "Quests"},
	{"playSound", "Audio"},
	{"addMusicTrack", "Audio"},
	{"setBattleMusic", "Audio"},
	{"addPanel", "UI"},
	{"addMenuEntry", "UI"},
	{"registerHudWidget", "UI"},
	{"addSkill", "Skills"},
	{"addPassive", "Skills"},
	{"addSect", "Sects"},
	{"setSectRelations", "Sects"},
	{"addElixirRecipe", "Alchemy"},
	{"registerCauldron", "Alchemy"},
	{"addFormation", "Formations"},
	{"addArtifact", "Artifacts"},
	{"setArtifactGrade", "Artifacts"},
	{"spawnNpc", "NPCs"},
	{"addNpcSchedule", "NPCs"},
	{"addDialogue", "Dialogue"},
	{"addDialogueNode", "Dialogue"},
	{"addMapRegion", "Maps"},
	{"addLandmark", "Maps"},
	{"setWeatherPattern", "Weather"},
	{"addWeatherEffect", "Weather"},
	{"addMerchant", "Trade"},
	{"setMarketPrices", "Trade"},
	{"addCropType", "Farming"},
	{"addLivestock", "Farming"},
	{"registerSaveHook", "Saves"},
	{"addTranslation", "Localization"},
	{"registerLocale", "Localization"},
}

var (
	callPatternsOnce sync.Once
	callPatterns     []*regexp.Regexp
)

// Compiled lazily; the catalog is fixed so one compile pass serves all
// scans.
func compiledCallPatterns() []*regexp.Regexp {
	callPatternsOnce.Do(func() {
		callPatterns = make([]*regexp.Regexp, len(apiCallCatalog))
		for i, entry := range apiCallCatalog {
			callPatterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(entry.call) + `\s*\(`)
		}
	})
	return callPatterns
}

// InferTags scans mod.js text for mod API calls and returns the implied
// categories, deduplicated, in catalog order. The scan is pure: the same
// text always yields the same list, so re-running it over a previously
// tagged mod adds nothing new.
func InferTags(text string) []string {
	patterns := compiledCallPatterns()
	seen := make(map[string]bool)
	var tags []string
	for i, entry := range apiCallCatalog {
		if seen[entry.category] {
			continue
		}
		if patterns[i].MatchString(text) {
			seen[entry.category] = true
			tags = append(tags, entry.category)
		}
	}
	return tags
}
