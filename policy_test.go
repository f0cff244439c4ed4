package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRejects(t *testing.T) {
	cat := mustCatalog(t, npc("A"), npc("B"), npc("C"), npc("D"), pet("Cat"))

	cases := map[string]Policy{
		"house sizes inverted":   {MinHouseSize: 3, MaxHouseSize: 2},
		"negative village size":  {MaxVillageHouses: -1},
		"max happiness too high": {MaxHappiness: 1.6},
		"pylon threshold":        {PylonThreshold: -0.1},
		"duplicate biome":        {Biomes: []string{"Forest", "Forest"}},
		"unknown pinned npc":     {BiomePins: map[string]string{"Z": "Forest"}},
		"unknown pinned biome":   {BiomePins: map[string]string{"A": "Moon"}},
		"zero ceiling":           {Ceilings: map[string]float64{"A": 0}},
		"unknown ceiling npc":    {Ceilings: map[string]float64{"Z": 0.9}},
		"unknown exclusion":      {Excluded: []string{"Z"}},
		"unknown unrestricted":   {Unrestricted: []string{"Z"}},
		"unknown group member":   {Groups: [][]string{{"A", "Z"}}},
		"excluded group member":  {Groups: [][]string{{"A", "B"}}, Excluded: []string{"B"}},
		"inert group member":     {Groups: [][]string{{"A", "Cat"}}},
		"merged group too big":   {Groups: [][]string{{"A", "B"}, {"B", "C"}}, MaxHouseSize: 2},
		"conflicting group pins": {Groups: [][]string{{"A", "B"}}, BiomePins: map[string]string{"A": "Forest", "B": "Snow"}},
		"everything excluded":    {Excluded: []string{"A", "B", "C", "D"}},
	}
	for name, pol := range cases {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, pol.Validate(cat), ErrInvalidInput)
		})
	}
}

func TestValidateRangeMessages(t *testing.T) {
	cat := mustCatalog(t, npc("A"))

	err := Policy{MaxHappiness: 1.6}.Validate(cat)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorContains(t, err, "outside [0, 1.50] (0 disables)")

	err = Policy{PylonThreshold: -0.1}.Validate(cat)
	assert.ErrorContains(t, err, "outside [0, 1.50] (0 disables)")

	err = Policy{Ceilings: map[string]float64{"A": 0}}.Validate(cat)
	assert.ErrorContains(t, err, "(0, 1.50]")

	require.NoError(t, Policy{MaxHappiness: 0, PylonThreshold: 0}.Validate(cat))
}

func TestValidateAccepts(t *testing.T) {
	cat := mustCatalog(t, npc("A"), npc("B"), npc("C"), pet("Cat"))

	for name, pol := range map[string]Policy{
		"zero value":        {},
		"inert group":       {Groups: [][]string{{"A", "Cat"}}, IncludeInert: true},
		"merged group fits": {Groups: [][]string{{"A", "B"}, {"B", "C"}}, MaxHouseSize: 3},
		"agreeing pins":     {Groups: [][]string{{"A", "B"}}, BiomePins: map[string]string{"A": "Snow", "B": "Snow"}},
		"custom biomes":     {Biomes: []string{"Moon"}, BiomePins: map[string]string{"A": "Moon"}},
	} {
		assert.NoError(t, pol.Validate(cat), name)
	}
}

func TestMergeGroups(t *testing.T) {
	cat := mustCatalog(t, npc("A"), npc("B"), npc("C"), npc("D"), npc("E"))
	merged := mergeGroups(cat, [][]string{{"A", "B"}, {"D", "E"}, {"C", "B"}})

	var sizes []int
	for _, m := range merged {
		sizes = append(sizes, len(m))
	}
	assert.ElementsMatch(t, []int{3, 2}, sizes)
}

func TestPlaceableOrder(t *testing.T) {
	cat := mustCatalog(t, pet("Cat"), npc("A"), npc("B"), pet("Dog"), npc("C"))

	assert.Equal(t, []int{1, 2, 4}, placeable(cat, Policy{}))
	assert.Equal(t, []int{1, 4, 0, 3}, placeable(cat, Policy{IncludeInert: true, Excluded: []string{"B"}}))
}

func TestLoadPolicy(t *testing.T) {
	pol, err := LoadPolicy(filepath.Join("testdata", "policy.yaml"))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"Painter": "Jungle"}, pol.BiomePins)
	assert.Equal(t, [][]string{{"Merchant", "Nurse"}}, pol.Groups)
	assert.Equal(t, map[string]float64{"Guide": 1.0}, pol.Ceilings)
	assert.Equal(t, 2, pol.MaxHouseSize)
	assert.Equal(t, 2, pol.MaxVillageHouses)
	assert.Equal(t, []string{"Forest", "Hallow", "Jungle", "Desert"}, pol.Biomes)
	assert.False(t, pol.RequireAllBiomes)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("groups: {not: a list}"), 0o644))
	_, err = LoadPolicy(bad)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDefaultPolicyFitsBundledCatalog(t *testing.T) {
	cat, err := LoadCatalog(filepath.Join("data", "npcs.json"))
	require.NoError(t, err)
	require.NoError(t, DefaultPolicy().Validate(cat))
}
