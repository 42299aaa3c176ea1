package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const level1 = `####
# .#
#  ###
#*@  #
#  $ #
#  ###
####`

const level2 = `######
#    #
# #@ #
# $* #
# .* #
#    #
######`

const level3 = `  ####
###  ####
#     $ #
# #  #$ #
# . .#@ #
#########`

func TestParseLevelsBasic(t *testing.T) {
	contents := fmt.Sprintf("; 1\n\n%s\n\n; 2\n\n%s\n\n; 3\n\n%s\n", level1, level2, level3)
	levels, err := ParseLevels(contents)
	if err != nil {
		t.Fatalf("failed to parse levels: %v", err)
	}
	if levels.Len() != 3 {
		t.Fatalf("expected 3 levels, got %d", levels.Len())
	}
	if levels.Get(0).BoxCount() != 2 {
		t.Fatalf("level 1 should have 2 boxes")
	}
	if levels.Get(2).PlayerStart() != (Pos{X: 6, Y: 4}) {
		t.Fatalf("level 3 player start wrong: %v", levels.Get(2).PlayerStart())
	}
	if levels.Text(0) != level1 {
		t.Fatalf("level text not preserved")
	}
}

func TestParseLevelsInvalidLevel(t *testing.T) {
	contents := "; 1\n\n####\n# .#\n#@@  #\n####\n"
	if _, err := ParseLevels(contents); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

func TestLoadLevelsMissingFile(t *testing.T) {
	if _, err := LoadLevels("nonexistent_file.xsb"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadLevelsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.xsb")
	contents := fmt.Sprintf("; 1\n\n%s\n", level1)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	levels, err := LoadLevels(path)
	if err != nil {
		t.Fatalf("failed to load levels: %v", err)
	}
	if levels.Len() != 1 {
		t.Fatalf("expected 1 level, got %d", levels.Len())
	}
}
