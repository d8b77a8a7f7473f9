package story

import (
	"charm.land/bubbles/v2/key"
)

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Aside  key.Binding
	Coffee key.Binding
	Close  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "l", "space"),
			key.WithHelp("→", "Next scene"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "Previous"),
		),
		Aside: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "Aside"),
		),
		Coffee: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Look for coffee"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "enter", "backspace"),
			key.WithHelp("Esc", "Close"),
		),
	}
}
