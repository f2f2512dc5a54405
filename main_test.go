package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestPickVMFileLocations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Main.vm", "Sys.vm", "Main.jack", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "Nested.vm"), 0755); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	got := pickVMFileLocations(entries, dir)
	want := []string{filepath.Join(dir, "Main.vm"), filepath.Join(dir, "Sys.vm")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("pickVMFileLocations() = %v; want %v", got, want)
	}
}

func TestWriteHack(t *testing.T) {
	loc := filepath.Join(t.TempDir(), "Prog.hack")
	if err := writeHack(loc, []byte("@256\nD=A\n@SP\nM=D\n")); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(loc)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"0000000100000000", "1110110000010000", "0000000000000000", "1110001100001000"}
	if got := strings.Fields(string(b)); !reflect.DeepEqual(got, want) {
		t.Errorf("Prog.hack = %v; want %v", got, want)
	}

	if err := writeHack(loc, []byte("@undefined\n")); err == nil {
		t.Errorf("writeHack accepted an undefined symbol")
	}
}
