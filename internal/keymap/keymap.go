// Package keymap defines the per-mode key binding tables: the compiled-in
// defaults and the merge operation that layers user overrides on top of them.
package keymap

// Keymap maps key names (in macro syntax, e.g. "d" or "<c-w>") to editor
// command names, per mode.
type Keymap struct {
	Normal map[string]string `yaml:"normal"`
	Insert map[string]string `yaml:"insert"`
}

// Default returns the compiled-in key binding table. The result is a fresh
// copy; callers may mutate it freely.
func Default() Keymap {
	return Keymap{
		Normal: map[string]string{
			"h":       "move_char_left",
			"l":       "move_char_right",
			"<left>":  "move_char_left",
			"<right>": "move_char_right",
			"<up>":    "move_line_up",
			"<down>":  "move_line_down",
			"<del>":   "delete_char_forward",
			"0":       "goto_line_start",
			"$":       "goto_line_end",
			"<home>":  "goto_line_start",
			"<end>":   "goto_line_end",
			"w":       "move_next_word_start",
			"x":       "delete_char_forward",
			"d":       "delete_selection",
			"c":       "change_selection",
			"i":       "insert_mode",
			"a":       "append_mode",
			"A":       "insert_at_line_end",
			"o":       "open_below",
			";":       "collapse_selection",
			"%":       "select_all",
			":":       "command_mode",
			"<esc>":   "normal_mode",
		},
		Insert: map[string]string{
			"<esc>": "normal_mode",
		},
	}
}

// Merge layers overrides onto base, override wins on key collision. Both maps
// are left untouched; the merged table is returned.
func Merge(base, overrides Keymap) Keymap {
	return Keymap{
		Normal: mergeMode(base.Normal, overrides.Normal),
		Insert: mergeMode(base.Insert, overrides.Insert),
	}
}

func mergeMode(base, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overrides))
	for key, command := range base {
		merged[key] = command
	}
	for key, command := range overrides {
		merged[key] = command
	}
	return merged
}
