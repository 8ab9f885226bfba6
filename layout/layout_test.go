package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()

	target, err := table.Target("timescale")
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(TimescaleTarget(), target); diff != "" {
		t.Fatalf("unexpected target (-want +got):\n%s", diff)
	}

	err = target.Validate()
	if err != nil {
		t.Fatal(err)
	}
}

func TestTable_SetContext(t *testing.T) {
	patched := TimescaleTarget()
	patched.FieldOffset = 0x2d4

	table := DefaultTable().AddTargetInContext("timescale", patched, "1.12")

	if got := table.Contexts(); !cmp.Equal(got, []string{"1.12", DefaultContext}) {
		t.Fatalf("unexpected contexts: %v", got)
	}

	target := table.SetContext("1.12").TargetOrExit("timescale")
	if target.FieldOffset != 0x2d4 {
		t.Fatalf("expected field offset 0x2d4 - got 0x%x", target.FieldOffset)
	}

	_, err := table.SetContext("nope").Target("timescale")
	if err == nil {
		t.Fatal("expected an error for an unknown context")
	}

	_, err = table.SetContext(DefaultContext).Target("nope")
	if err == nil {
		t.Fatal("expected an error for an unknown target")
	}
}

func TestTarget_Validate(t *testing.T) {
	tests := map[string]Target{
		"empty signature": {
			DisplacementOffset: 3,
			InstructionLength:  7,
		},
		"short instruction": {
			Signature:          TimescaleSignature,
			DisplacementOffset: 3,
			InstructionLength:  6,
		},
		"instruction longer than signature": {
			Signature:          "48 8b 05 ?? ?? ?? ??",
			DisplacementOffset: 3,
			InstructionLength:  8,
		},
	}

	for name, target := range tests {
		t.Run(name, func(t *testing.T) {
			if err := target.Validate(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
