package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type keyAction int

const (
	keyInsert keyAction = iota
	keyDerive
	keySimplify
	keyCalculate
)

var keypadLayout = [][]string{
	{"Deriv", "Simplify", "sin(", "cos(", "tan("},
	{"log(", "ln(", "sqrt(", "x", "π"},
	{"7", "8", "9", "/", "("},
	{"4", "5", "6", "*", ")"},
	{"1", "2", "3", "-", "^"},
	{"0", ".", "exp(", "+", "="},
}

// keypad is the on-screen button grid and its cursor.
type keypad struct {
	row, col int
}

// move shifts the cursor, wrapping at the edges.
func (k *keypad) move(dr, dc int) {
	rows := len(keypadLayout)
	k.row = (k.row + dr + rows) % rows
	cols := len(keypadLayout[k.row])
	k.col = (k.col + dc + cols) % cols
}

func (k keypad) selected() string { return keypadLayout[k.row][k.col] }

// press returns what the key does and, for insert keys, the text to insert.
func press(label string) (keyAction, string) {
	switch label {
	case "Deriv":
		return keyDerive, ""
	case "Simplify":
		return keySimplify, ""
	case "=":
		return keyCalculate, ""
	case "^":
		return keyInsert, "**"
	}
	return keyInsert, label
}

func (k keypad) View(focused bool) string {
	rows := make([]string, 0, len(keypadLayout))
	for i, row := range keypadLayout {
		cells := make([]string, 0, len(row))
		for j, label := range row {
			style := KeyStyle
			switch action, _ := press(label); {
			case focused && i == k.row && j == k.col:
				style = KeySelectedStyle
			case action == keyCalculate:
				style = KeyCalculateStyle
			case action != keyInsert:
				style = KeyActionStyle
			}
			cells = append(cells, style.Render(label))
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
