package process

import (
	"context"
	"errors"
	"os"
	"testing"

	gopsprocess "github.com/shirou/gopsutil/v3/process"
)

func TestFindByName(t *testing.T) {
	self, err := gopsprocess.NewProcess(int32(os.Getpid()))
	if err != nil {
		t.Fatal(err)
	}

	name, err := self.Name()
	if err != nil {
		t.Fatal(err)
	}

	pid, err := FindByName(context.Background(), name)
	if err != nil {
		t.Fatal(err)
	}

	found, err := gopsprocess.NewProcess(int32(pid))
	if err != nil {
		t.Fatal(err)
	}

	foundName, err := found.Name()
	if err != nil {
		t.Fatal(err)
	}

	if trimExe(foundName) != trimExe(name) {
		t.Fatalf("expected process named %q - got %q", name, foundName)
	}
}

func TestFindByName_NotFound(t *testing.T) {
	_, err := FindByName(context.Background(), "tskit-no-such-process-7f3a")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected %v - got %v", ErrNotFound, err)
	}
}

func TestFindByName_EmptyName(t *testing.T) {
	_, err := FindByName(context.Background(), " ")
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestTrimExe(t *testing.T) {
	tests := map[string]string{
		"game.exe":  "game",
		"GAME.EXE":  "GAME",
		"game":      "game",
		".exe":      ".exe",
		" game.exe": "game",
	}

	for in, expected := range tests {
		if got := trimExe(in); got != expected {
			t.Fatalf("%q: expected %q - got %q", in, expected, got)
		}
	}
}
