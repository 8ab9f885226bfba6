package override

import (
	"sync"
	"testing"

	"gitlab.com/stephen-fox/tskit/input"
)

const (
	vkF1 = 0x70
	vkF2 = 0x71
	vkF3 = 0x72
	vkF4 = 0x73

	buttonLThumb = 0x0040
	buttonA      = 0x1000
)

type fakeKeyboard struct {
	mu   sync.Mutex
	down map[uint16]bool
}

func (o *fakeKeyboard) IsKeyDown(code uint16) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.down[code]
}

func (o *fakeKeyboard) set(code uint16, isDown bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.down == nil {
		o.down = make(map[uint16]bool)
	}

	o.down[code] = isDown
}

type fakeController struct {
	state input.GamepadState
}

func (o *fakeController) State(slot int) (input.GamepadState, bool) {
	return o.state, slot == 0
}

type recordingWriter struct {
	values []float32
}

func (o *recordingWriter) WriteValue(value float32) error {
	o.values = append(o.values, value)
	return nil
}

func (o *recordingWriter) take() []float32 {
	v := o.values
	o.values = nil
	return v
}

func mustCombos(t *testing.T, text string) []input.Combo {
	t.Helper()

	combos, issues := input.Parse(text)
	if len(issues) > 0 {
		t.Fatalf("unexpected issues parsing %q - %v", text, issues)
	}

	return combos
}

func newTestSession(t *testing.T, mode Mode) *Session {
	t.Helper()

	s, err := NewSession(SessionConfig{
		Mode: mode,
		Bindings: []Binding{
			{Name: "F1", Value: 0.1, Combos: mustCombos(t, "f1, lthumbpress+xa")},
			{Name: "F2", Value: 0.3, Combos: mustCombos(t, "f2, lthumbpress+xb")},
			{Name: "F3", Value: 0.8, Combos: mustCombos(t, "f3, lthumbpress+xx")},
		},
		Reset: Binding{Name: "Normal", Value: 1.0, Combos: mustCombos(t, "f4, lthumbpress+xy")},
	})
	if err != nil {
		t.Fatal(err)
	}

	return s
}
