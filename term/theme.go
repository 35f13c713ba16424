package term

import (
	"sort"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/unictris/game"
)

// Cell is what a theme draws for one half of a playfield cell.
type Cell struct {
	Glyph rune
	Style tcell.Style
}

// Theme styles the playfield. Every playfield cell is two terminal
// columns wide and drawn with the same Cell twice.
type Theme struct {
	Name  string
	Empty Cell
	Kinds [game.NumKinds]Cell
	Ghost Cell
	Flash Cell
}

// Cell returns the cell for a settled or falling piece of kind.
func (t Theme) Cell(kind game.Kind) Cell {
	return t.Kinds[kind]
}

var (
	plain  = tcell.StyleDefault
	border = plain.Foreground(tcell.ColorWhite)
	flash  = Cell{Glyph: ' ', Style: plain.Background(tcell.ColorWhite)}
)

func on(bg tcell.Color) tcell.Style {
	return plain.Background(bg)
}

var themes = map[string]Theme{
	"glyph": {
		Name:  "glyph",
		Empty: Cell{Glyph: ' ', Style: plain},
		Kinds: [game.NumKinds]Cell{
			{'●', on(tcell.ColorNavy)},
			{'◎', on(tcell.ColorOlive).Foreground(tcell.ColorNavy)},
			{'□', on(tcell.ColorGreen)},
			{'◦', on(tcell.ColorPurple)},
			{'○', on(tcell.ColorMaroon)},
			{'◼', on(tcell.ColorTeal)},
			{'◉', on(tcell.ColorRed)},
		},
		Ghost: Cell{Glyph: '·', Style: plain.Foreground(tcell.ColorGray)},
		Flash: flash,
	},
	"runes": {
		Name:  "runes",
		Empty: Cell{Glyph: ' ', Style: plain},
		Kinds: [game.NumKinds]Cell{
			{'ᚠ', on(tcell.ColorRed)},
			{'ᚢ', on(tcell.ColorRed)},
			{'ᚥ', on(tcell.ColorRed)},
			{'ᚦ', on(tcell.ColorRed)},
			{'ᚼ', on(tcell.ColorRed)},
			{'ᚭ', on(tcell.ColorRed)},
			{'ᛒ', on(tcell.ColorRed)},
		},
		Ghost: Cell{Glyph: '᛫', Style: plain.Foreground(tcell.ColorMaroon)},
		Flash: flash,
	},
	"blocks": {
		Name:  "blocks",
		Empty: Cell{Glyph: ' ', Style: plain},
		Kinds: [game.NumKinds]Cell{
			{' ', on(tcell.ColorNavy)},
			{' ', on(tcell.ColorOlive)},
			{' ', on(tcell.ColorGreen)},
			{' ', on(tcell.ColorPurple)},
			{' ', on(tcell.ColorMaroon)},
			{' ', on(tcell.ColorTeal)},
			{' ', on(tcell.ColorRed)},
		},
		Ghost: Cell{Glyph: '░', Style: plain.Foreground(tcell.ColorGray)},
		Flash: flash,
	},
}

// DefaultTheme is the theme used when none is configured.
const DefaultTheme = "glyph"

// LookupTheme returns the theme called name.
func LookupTheme(name string) (Theme, bool) {
	t, ok := themes[name]
	return t, ok
}

// ThemeNames lists the available themes in lexical order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
