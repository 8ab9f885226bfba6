package input_test

import (
	"fmt"

	"gitlab.com/stephen-fox/tskit/input"
)

func ExampleParse() {
	combos, issues := input.Parse("F1, LThumbPress+XA, ctrl+nope")

	for _, combo := range combos {
		fmt.Printf("%s %s %#x\n", combo.Source, combo.Text, combo.Codes)
	}

	for _, issue := range issues {
		fmt.Println(issue)
	}

	// Output:
	// keyboard f1 [0x70]
	// controller lthumbpress+xa [0x40 0x1000]
	// keyboard ctrl+nope [0x11]
	// combo "ctrl+nope": unrecognized token "nope"
}
