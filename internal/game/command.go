// Package game provides the main game loop and input handling.
package game

import "github.com/gdamore/tcell/v2"

// Command is a player input mapped from a key press.
type Command int

const (
	CommandNone Command = iota
	CommandQuit
	// CommandConfirm starts the battle from the menu, or plays again after it ends.
	CommandConfirm
	CommandAttack
	CommandSpecial
	CommandPotion
	CommandNextEnemy
)

// String returns a human-readable command name.
func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandQuit:
		return "quit"
	case CommandConfirm:
		return "confirm"
	case CommandAttack:
		return "attack"
	case CommandSpecial:
		return "special"
	case CommandPotion:
		return "potion"
	case CommandNextEnemy:
		return "next_enemy"
	default:
		return "unknown"
	}
}

// commandForKey maps a key press to a command.
func commandForKey(key tcell.Key, r rune) Command {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return CommandQuit
	case tcell.KeyEnter:
		return CommandConfirm
	case tcell.KeyTab:
		return CommandNextEnemy
	case tcell.KeyRune:
		switch r {
		case 'q', 'Q':
			return CommandQuit
		case ' ':
			return CommandConfirm
		case 'a', 'A', '1':
			return CommandAttack
		case 's', 'S', '2':
			return CommandSpecial
		case 'p', 'P', '3':
			return CommandPotion
		case 'n', 'N', '4':
			return CommandNextEnemy
		}
	}
	return CommandNone
}
