package input

// Windows virtual-key codes, keyed by the names accepted in combo text.
var keyboardCodes = map[string]uint16{
	"lmouse":      0x01,
	"rmouse":      0x02,
	"mmouse":      0x04,
	"mouse4":      0x05,
	"mouse5":      0x06,
	"backspace":   0x08,
	"tab":         0x09,
	"enter":       0x0d,
	"shift":       0x10,
	"ctrl":        0x11,
	"alt":         0x12,
	"pause":       0x13,
	"capslock":    0x14,
	"esc":         0x1b,
	"escape":      0x1b,
	"space":       0x20,
	"pageup":      0x21,
	"pagedown":    0x22,
	"end":         0x23,
	"home":        0x24,
	"left":        0x25,
	"up":          0x26,
	"right":       0x27,
	"down":        0x28,
	"printscreen": 0x2c,
	"insert":      0x2d,
	"delete":      0x2e,

	"0": 0x30, "1": 0x31, "2": 0x32, "3": 0x33, "4": 0x34,
	"5": 0x35, "6": 0x36, "7": 0x37, "8": 0x38, "9": 0x39,

	"a": 0x41, "b": 0x42, "c": 0x43, "d": 0x44, "e": 0x45, "f": 0x46,
	"g": 0x47, "h": 0x48, "i": 0x49, "j": 0x4a, "k": 0x4b, "l": 0x4c,
	"m": 0x4d, "n": 0x4e, "o": 0x4f, "p": 0x50, "q": 0x51, "r": 0x52,
	"s": 0x53, "t": 0x54, "u": 0x55, "v": 0x56, "w": 0x57, "x": 0x58,
	"y": 0x59, "z": 0x5a,

	"lwin": 0x5b,
	"rwin": 0x5c,

	"numpad0": 0x60, "numpad1": 0x61, "numpad2": 0x62, "numpad3": 0x63,
	"numpad4": 0x64, "numpad5": 0x65, "numpad6": 0x66, "numpad7": 0x67,
	"numpad8": 0x68, "numpad9": 0x69,

	"multiply": 0x6a,
	"add":      0x6b,
	"subtract": 0x6d,
	"decimal":  0x6e,
	"divide":   0x6f,

	"f1": 0x70, "f2": 0x71, "f3": 0x72, "f4": 0x73, "f5": 0x74, "f6": 0x75,
	"f7": 0x76, "f8": 0x77, "f9": 0x78, "f10": 0x79, "f11": 0x7a, "f12": 0x7b,
	"f13": 0x7c, "f14": 0x7d, "f15": 0x7e, "f16": 0x7f, "f17": 0x80, "f18": 0x81,
	"f19": 0x82, "f20": 0x83, "f21": 0x84, "f22": 0x85, "f23": 0x86, "f24": 0x87,

	"numlock":    0x90,
	"scrolllock": 0x91,

	"lshift": 0xa0,
	"rshift": 0xa1,
	"lctrl":  0xa2,
	"rctrl":  0xa3,
	"lalt":   0xa4,
	"ralt":   0xa5,

	";":  0xba,
	"=":  0xbb,
	"-":  0xbd,
	".":  0xbe,
	"/":  0xbf,
	"`":  0xc0,
	"[":  0xdb,
	"\\": 0xdc,
	"]":  0xdd,
	"'":  0xde,
}

// XInput gamepad button bits, keyed by the names accepted in combo text.
var controllerButtons = map[string]uint16{
	"dpadup":      0x0001,
	"dpaddown":    0x0002,
	"dpadleft":    0x0004,
	"dpadright":   0x0008,
	"start":       0x0010,
	"select":      0x0020,
	"back":        0x0020,
	"lthumbpress": 0x0040,
	"rthumbpress": 0x0080,
	"lshoulder":   0x0100,
	"rshoulder":   0x0200,
	"xa":          0x1000,
	"xb":          0x2000,
	"xx":          0x4000,
	"xy":          0x8000,
}

// KeyCode returns the virtual-key code for a keyboard token name.
func KeyCode(name string) (uint16, bool) {
	code, hasIt := keyboardCodes[name]
	return code, hasIt
}

// ButtonBit returns the button bit for a controller token name.
func ButtonBit(name string) (uint16, bool) {
	bit, hasIt := controllerButtons[name]
	return bit, hasIt
}
