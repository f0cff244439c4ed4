package main

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// npcListKeys maps the catalog's per-emotion NPC lists to their emotion.
var npcListKeys = [...]struct {
	key     string
	emotion Emotion
}{
	{"loves", Loves},
	{"likes", Likes},
	{"dislikes", Dislikes},
	{"hates", Hates},
}

// parseCatalogJSON reads a JSON catalog:
//
//	{"npcs": [{"name": "Guide", "biomes": ["Likes Forest", "Dislikes Ocean"],
//	           "likes": ["Clothier"], "hates": ["Painter"]}]}
//
// Biome preferences may also be objects: {"emotion": "Likes", "biome": "Forest"}.
func parseCatalogJSON(dataJSON string) (*Catalog, error) {
	if !gjson.Valid(dataJSON) {
		return nil, fmt.Errorf("%w: catalog is not valid JSON", ErrInvalidInput)
	}
	if err := validateCatalogJSON([]byte(dataJSON)); err != nil {
		return nil, err
	}

	var (
		npcs []NPC
		perr error
	)
	gjson.Get(dataJSON, "npcs").ForEach(func(_, v gjson.Result) bool {
		npc, err := parseNPC(v)
		if err != nil {
			perr = fmt.Errorf("%w: npc #%d: %w", ErrInvalidInput, len(npcs)+1, err)
			return false
		}
		npcs = append(npcs, npc)
		return true
	})
	if perr != nil {
		return nil, perr
	}
	return NewCatalog(npcs)
}

func parseNPC(v gjson.Result) (NPC, error) {
	npc := NPC{Name: v.Get("name").String()}

	kind, ok := parseNPCKind(v.Get("kind").String())
	if !ok {
		return npc, fmt.Errorf("%s: unknown kind %q", npc.Name, v.Get("kind").String())
	}
	npc.Kind = kind

	var err error
	v.Get("biomes").ForEach(func(_, b gjson.Result) bool {
		var p Preference
		if p, err = parseBiomePref(b); err != nil {
			return false
		}
		npc.BiomePrefs = append(npc.BiomePrefs, p)
		return true
	})
	if err != nil {
		return npc, fmt.Errorf("%s: %w", npc.Name, err)
	}

	for _, l := range npcListKeys {
		for _, name := range readStringSlice(v.Get(l.key)) {
			npc.NPCPrefs = append(npc.NPCPrefs, Preference{Emotion: l.emotion, Subject: name})
		}
	}
	if npc.Kind == KindInert && (len(npc.BiomePrefs) > 0 || len(npc.NPCPrefs) > 0) {
		return npc, fmt.Errorf("%s: inert npcs cannot hold preferences", npc.Name)
	}
	return npc, nil
}

func parseBiomePref(b gjson.Result) (Preference, error) {
	if b.Type == gjson.String {
		return parsePreference(b.String())
	}
	e := parseEmotion(b.Get("emotion").String())
	if e == EmotionNone {
		return Preference{}, fmt.Errorf("unknown emotion %q", b.Get("emotion").String())
	}
	return Preference{Emotion: e, Subject: b.Get("biome").String()}, nil
}

func readStringSlice(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}
	var out []string
	v.ForEach(func(_, item gjson.Result) bool {
		out = append(out, item.String())
		return true
	})
	return out
}
