package override

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gitlab.com/stephen-fox/tskit/input"
)

func tick(t *testing.T, s *Session, devices input.Devices, w *recordingWriter) []float32 {
	t.Helper()

	err := s.Tick(devices, w)
	if err != nil {
		t.Fatal(err)
	}

	return w.take()
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		mode Mode
		ok   bool
	}{
		{in: "toggle", mode: Toggle, ok: true},
		{in: " Hold ", mode: Hold, ok: true},
		{in: "HOLD", mode: Hold, ok: true},
		{in: "press", mode: Toggle, ok: false},
		{in: "", mode: Toggle, ok: false},
	}

	for _, test := range tests {
		mode, ok := ParseMode(test.in)
		if mode != test.mode || ok != test.ok {
			t.Fatalf("%q: expected %s, %t - got %s, %t", test.in, test.mode, test.ok, mode, ok)
		}
	}
}

func TestNewSession_DuplicateName(t *testing.T) {
	_, err := NewSession(SessionConfig{
		Bindings: []Binding{{Name: "F1"}, {Name: "F1"}},
		Reset:    Binding{Name: "Normal"},
	})
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestSession_Toggle(t *testing.T) {
	kb := &fakeKeyboard{}
	devices := input.Devices{Keyboard: kb}
	w := &recordingWriter{}
	s := newTestSession(t, Toggle)

	if v := tick(t, s, devices, w); len(v) != 0 {
		t.Fatalf("expected no writes - got %v", v)
	}

	kb.set(vkF1, true)
	if v := tick(t, s, devices, w); !cmp.Equal(v, []float32{0.1}) {
		t.Fatalf("expected [0.1] - got %v", v)
	}

	kb.set(vkF1, false)
	if v := tick(t, s, devices, w); len(v) != 0 {
		t.Fatalf("expected value to persist without writes - got %v", v)
	}

	kb.set(vkF4, true)
	if v := tick(t, s, devices, w); !cmp.Equal(v, []float32{1.0}) {
		t.Fatalf("expected [1] - got %v", v)
	}
}

func TestSession_Toggle_KeyboardFiresOncePerPress(t *testing.T) {
	kb := &fakeKeyboard{}
	devices := input.Devices{Keyboard: kb}
	w := &recordingWriter{}
	s := newTestSession(t, Toggle)

	kb.set(vkF2, true)
	if v := tick(t, s, devices, w); !cmp.Equal(v, []float32{0.3}) {
		t.Fatalf("expected [0.3] - got %v", v)
	}

	for i := 0; i < 5; i++ {
		if v := tick(t, s, devices, w); len(v) != 0 {
			t.Fatalf("tick %d: expected no writes while held - got %v", i, v)
		}
	}

	kb.set(vkF2, false)
	tick(t, s, devices, w)

	kb.set(vkF2, true)
	if v := tick(t, s, devices, w); !cmp.Equal(v, []float32{0.3}) {
		t.Fatalf("expected second press to fire - got %v", v)
	}
}

func TestSession_Toggle_ResetWinsTie(t *testing.T) {
	kb := &fakeKeyboard{}
	devices := input.Devices{Keyboard: kb}
	w := &recordingWriter{}
	s := newTestSession(t, Toggle)

	kb.set(vkF1, true)
	kb.set(vkF4, true)

	v := tick(t, s, devices, w)
	if !cmp.Equal(v, []float32{0.1, 1.0}) {
		t.Fatalf("expected [0.1 1] - got %v", v)
	}
}

func TestSession_Toggle_ControllerIsLevelTriggered(t *testing.T) {
	pad := &fakeController{}
	devices := input.Devices{Controller: pad}
	w := &recordingWriter{}
	s := newTestSession(t, Toggle)

	pad.state = input.GamepadState{Buttons: buttonLThumb | buttonA, RightTrigger: 20}
	if v := tick(t, s, devices, w); len(v) != 0 {
		t.Fatalf("expected trigger below threshold to write nothing - got %v", v)
	}

	pad.state.RightTrigger = 255
	for i := 0; i < 3; i++ {
		if v := tick(t, s, devices, w); !cmp.Equal(v, []float32{0.1}) {
			t.Fatalf("tick %d: expected [0.1] - got %v", i, v)
		}
	}
}

func TestSession_Hold(t *testing.T) {
	kb := &fakeKeyboard{}
	devices := input.Devices{Keyboard: kb}
	w := &recordingWriter{}
	s := newTestSession(t, Hold)

	kb.set(vkF2, true)
	for i := 0; i < 3; i++ {
		if v := tick(t, s, devices, w); !cmp.Equal(v, []float32{0.3}) {
			t.Fatalf("tick %d: expected [0.3] - got %v", i, v)
		}

		if !s.Held("F2") {
			t.Fatalf("tick %d: expected F2 to be held", i)
		}
	}

	kb.set(vkF2, false)
	if v := tick(t, s, devices, w); !cmp.Equal(v, []float32{1.0}) {
		t.Fatalf("expected release to write [1] - got %v", v)
	}

	if s.Held("F2") {
		t.Fatal("expected F2 to be released")
	}

	if v := tick(t, s, devices, w); len(v) != 0 {
		t.Fatalf("expected no writes when idle - got %v", v)
	}
}

func TestSession_Hold_ResetNeverSetsFlag(t *testing.T) {
	kb := &fakeKeyboard{}
	devices := input.Devices{Keyboard: kb}
	w := &recordingWriter{}
	s := newTestSession(t, Hold)

	kb.set(vkF4, true)
	if v := tick(t, s, devices, w); !cmp.Equal(v, []float32{1.0}) {
		t.Fatalf("expected [1] - got %v", v)
	}

	if s.Held("Normal") {
		t.Fatal("reset binding should never be held")
	}

	kb.set(vkF4, false)
	if v := tick(t, s, devices, w); len(v) != 0 {
		t.Fatalf("expected no writes after reset release - got %v", v)
	}
}

func TestSession_Toggle_NeverSetsFlag(t *testing.T) {
	kb := &fakeKeyboard{}
	devices := input.Devices{Keyboard: kb}
	s := newTestSession(t, Toggle)

	kb.set(vkF3, true)
	tick(t, s, devices, &recordingWriter{})

	if s.Held("F3") {
		t.Fatal("toggle mode should not set held flags")
	}
}

type failingWriter struct {
	calls int
}

func (o *failingWriter) WriteValue(float32) error {
	o.calls++
	return errors.New("write failed")
}

func TestSession_Tick_WriteErrorsDoNotStopTick(t *testing.T) {
	kb := &fakeKeyboard{}
	devices := input.Devices{Keyboard: kb}
	s := newTestSession(t, Toggle)

	kb.set(vkF1, true)
	kb.set(vkF4, true)

	w := &failingWriter{}
	err := s.Tick(devices, w)
	if err == nil {
		t.Fatal("expected an error")
	}

	if w.calls != 2 {
		t.Fatalf("expected 2 write attempts - got %d", w.calls)
	}
}
