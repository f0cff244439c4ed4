package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWikiMatchesJSON(t *testing.T) {
	wiki, err := LoadCatalog(filepath.Join("testdata", "small.wiki"))
	require.NoError(t, err)
	js, err := LoadCatalog(filepath.Join("testdata", "small.json"))
	require.NoError(t, err)

	require.Equal(t, 4, wiki.Len())
	for i, n := range wiki.NPCs {
		assert.Equal(t, js.NPCs[i], n)
	}
}

func TestParseWikiRow(t *testing.T) {
	row := []string{
		"{{item|Painter|class=mirror}}",
		"Likes Jungle",
		"None",
		"",
		"{{item|Guide|class=mirror}}{{item|Nurse}}",
		"Dryad, Party Girl",
		"none",
	}
	n, err := parseWikiRow(row)
	require.NoError(t, err)
	assert.Equal(t, "Painter", n.Name)
	assert.Equal(t, []Preference{{Likes, "Jungle"}}, n.BiomePrefs)
	assert.Equal(t, []Preference{
		{Likes, "Guide"},
		{Likes, "Nurse"},
		{Dislikes, "Dryad"},
		{Dislikes, "Party Girl"},
	}, n.NPCPrefs)
}

func TestParseCatalogWikiRejects(t *testing.T) {
	_, err := parseCatalogWiki("|<small>{{item|Guide}}</small>\n|<small>Likes Forest</small>\n")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = parseCatalogWiki("|Guide\n|Adores Forest\n|None\n|None\n|None\n|None\n|None\n")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = parseCatalogWiki("{|\n|}\n")
	require.ErrorIs(t, err, ErrInvalidInput, "a table without rows is an empty catalog")
}

func TestWikiCell(t *testing.T) {
	assert.Equal(t, "Likes Forest", wikiCell("|<small>Likes Forest</small>"))
	assert.Equal(t, []string{"Clothier", "Zoologist"},
		wikiNames("{{item|Clothier|class=mirror}}{{item|Zoologist|class=mirror}}"))
	assert.Nil(t, wikiNames("None"))
}
