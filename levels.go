package main

import (
	"fmt"
	"os"
	"strings"
)

// Levels is a collection of Sokoban boards parsed from an XSB file. Lines
// starting with ';' separate levels, as do blank lines.
type Levels struct {
	boards []*Board
	texts  []string
}

func ParseLevels(contents string) (*Levels, error) {
	levels := &Levels{}
	var current strings.Builder

	flush := func() error {
		if current.Len() == 0 {
			return nil
		}
		text := strings.TrimRight(current.String(), "\n")
		board, err := ParseBoard(text)
		if err != nil {
			return fmt.Errorf("level %d: %w", len(levels.boards)+1, err)
		}
		levels.boards = append(levels.boards, board)
		levels.texts = append(levels.texts, text)
		current.Reset()
		return nil
	}

	for _, line := range strings.Split(contents, "\n") {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), ";") || strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return levels, nil
}

func LoadLevels(path string) (*Levels, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading levels file: %w", err)
	}
	return ParseLevels(string(contents))
}

// Get returns the nth level (0-indexed).
func (l *Levels) Get(index int) *Board {
	return l.boards[index]
}

// Text returns the XSB source of the nth level (0-indexed).
func (l *Levels) Text(index int) string {
	return l.texts[index]
}

func (l *Levels) Len() int {
	return len(l.boards)
}
