package main

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"
)

// Wiki happiness tables list one NPC per row, one cell per line:
//
//	|<small>{{item|Guide|class=mirror}}</small>
//	|<small>Likes Forest</small>
//	|<small>Dislikes Ocean</small>
//	|<small>None</small>                                    loves
//	|<small>{{item|Clothier|class=mirror}}{{item|Zoologist|class=mirror}}</small>  likes
//	|<small>{{item|Steampunker|class=mirror}}</small>        dislikes
//	|<small>{{item|Painter|class=mirror}}</small>            hates
//	|-
const wikiRowCells = 7

var (
	wikiItemRe  = regexp.MustCompile(`\{\{item\|([^|}]+)`)
	wikiSmallRe = regexp.MustCompile(`</?small>`)
)

// parseCatalogWiki reads the wiki table format shown above. Table markup
// lines ({|, |}, !, |-) and blank lines separate rows and are skipped.
func parseCatalogWiki(data string) (*Catalog, error) {
	var cells []string
	sc := bufio.NewScanner(strings.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "|-") || strings.HasPrefix(line, "{|") ||
			strings.HasPrefix(line, "|}") || strings.HasPrefix(line, "!") {
			continue
		}
		cells = append(cells, wikiCell(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan wiki table: %w", err)
	}
	if len(cells)%wikiRowCells != 0 {
		return nil, fmt.Errorf("%w: wiki table has %d cells, want a multiple of %d", ErrInvalidInput, len(cells), wikiRowCells)
	}

	npcs := make([]NPC, 0, len(cells)/wikiRowCells)
	for r := 0; r < len(cells); r += wikiRowCells {
		npc, err := parseWikiRow(cells[r : r+wikiRowCells])
		if err != nil {
			return nil, fmt.Errorf("%w: wiki row %d: %w", ErrInvalidInput, r/wikiRowCells+1, err)
		}
		npcs = append(npcs, npc)
	}
	return NewCatalog(npcs)
}

func parseWikiRow(row []string) (NPC, error) {
	names := wikiNames(row[0])
	if len(names) == 0 {
		return NPC{}, fmt.Errorf("no npc name in %q", row[0])
	}
	npc := NPC{Name: names[0]}

	for _, cell := range row[1:3] {
		if cell == "" || strings.EqualFold(cell, "none") {
			continue
		}
		p, err := parsePreference(cell)
		if err != nil {
			return npc, fmt.Errorf("%s: %w", npc.Name, err)
		}
		npc.BiomePrefs = append(npc.BiomePrefs, p)
	}

	for k, l := range npcListKeys {
		for _, name := range wikiNames(row[3+k]) {
			npc.NPCPrefs = append(npc.NPCPrefs, Preference{Emotion: l.emotion, Subject: name})
		}
	}
	return npc, nil
}

// wikiCell strips the leading cell marker and <small> wrappers.
func wikiCell(line string) string {
	line = strings.TrimPrefix(line, "|")
	return strings.TrimSpace(wikiSmallRe.ReplaceAllString(line, ""))
}

// wikiNames extracts NPC names from {{item|Name|...}} templates, falling back
// to a comma separated plain list.
func wikiNames(cell string) []string {
	if cell == "" || strings.EqualFold(cell, "none") {
		return nil
	}
	var out []string
	for _, m := range wikiItemRe.FindAllStringSubmatch(cell, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	if len(out) > 0 {
		return out
	}
	for _, s := range strings.Split(cell, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
