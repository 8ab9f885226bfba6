// Package config loads key bindings, layout overrides, and worker
// timing from an INI file.
//
// Values that fail to parse fall back to their defaults. Every key
// that is read produces a Diagnostic, so callers can report exactly
// which values were used.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gitlab.com/stephen-fox/tskit/input"
	"gitlab.com/stephen-fox/tskit/layout"
	"gitlab.com/stephen-fox/tskit/override"
	"gitlab.com/stephen-fox/tskit/pattern"
)

const (
	// DefaultFileName is the name of the configuration file.
	DefaultFileName = "timescale_keybinds.ini"

	TimescaleSection = "Timescale"
	LayoutSection    = "Layout"
	WorkerSection    = "Worker"

	DefaultTickInterval    = 10 * time.Millisecond
	DefaultResolveInterval = 100 * time.Millisecond
	DefaultResolveMaxPolls = 6000
)

var (
	// DefaultExitFn is invoked by functions and methods ending in
	// the "OrExit" suffix when an error occurs.
	DefaultExitFn = func(err error) {
		log.Fatalln(err)
	}
)

// Outcome describes what happened to a configuration value.
type Outcome int

const (
	// Parsed means the value was present and valid.
	Parsed Outcome = iota

	// UsedDefault means the value was missing or malformed,
	// and the default was used instead.
	UsedDefault

	// Unrecognized means the value was well-formed, but is not
	// one of the accepted choices. The default was used instead.
	Unrecognized
)

func (o Outcome) String() string {
	switch o {
	case Parsed:
		return "parsed"
	case UsedDefault:
		return "used default"
	case Unrecognized:
		return "unrecognized"
	default:
		return fmt.Sprintf("unknown outcome (%d)", int(o))
	}
}

// Diagnostic records the outcome of reading one key.
type Diagnostic struct {
	// Key is "<Section>.<Key>".
	Key     string
	Raw     string
	Outcome Outcome

	// Err is non-nil if the value was malformed.
	Err error
}

func (o Diagnostic) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s = %q: %s - %s", o.Key, o.Raw, o.Outcome, o.Err)
	}

	return fmt.Sprintf("%s = %q: %s", o.Key, o.Raw, o.Outcome)
}

// Binding is a named value and the combo text that selects it.
type Binding struct {
	Name  string
	Value float32
	Keys  string
}

// Worker holds the worker's timing.
type Worker struct {
	TickInterval    time.Duration
	ResolveInterval time.Duration
	ResolveMaxPolls int
}

// Config is a loaded configuration file.
type Config struct {
	Mode     override.Mode
	Bindings []Binding
	Normal   Binding

	// LayoutContext is the layout.Table context Target was taken from.
	LayoutContext string
	Target        layout.Target

	Worker Worker

	// WroteDefaults is true if the file did not exist and
	// the defaults were written to it.
	WroteDefaults bool

	Diagnostics []Diagnostic
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Mode: override.Toggle,
		Bindings: []Binding{
			{Name: "F1", Value: 0.1, Keys: "f1, lthumbpress+xa"},
			{Name: "F2", Value: 0.3, Keys: "f2, lthumbpress+xb"},
			{Name: "F3", Value: 0.8, Keys: "f3, lthumbpress+xx"},
		},
		Normal:        Binding{Name: "Normal", Value: 1.0, Keys: "f4, lthumbpress+xy"},
		LayoutContext: layout.DefaultContext,
		Target:        layout.TimescaleTarget(),
		Worker: Worker{
			TickInterval:    DefaultTickInterval,
			ResolveInterval: DefaultResolveInterval,
			ResolveMaxPolls: DefaultResolveMaxPolls,
		},
	}
}

// Session parses each binding's combo text and returns the resulting
// override.SessionConfig. Problems with combo text are returned as
// issues, keyed by binding name.
func (o Config) Session() (override.SessionConfig, map[string][]input.Issue) {
	issues := make(map[string][]input.Issue)

	convert := func(b Binding) override.Binding {
		combos, comboIssues := input.Parse(b.Keys)
		if len(comboIssues) > 0 {
			issues[b.Name] = comboIssues
		}

		return override.Binding{
			Name:   b.Name,
			Value:  b.Value,
			Combos: combos,
		}
	}

	session := override.SessionConfig{
		Mode:  o.Mode,
		Reset: convert(o.Normal),
	}

	for _, b := range o.Bindings {
		session.Bindings = append(session.Bindings, convert(b))
	}

	return session, issues
}

// LoadOrExit calls Load and calls DefaultExitFn if an error occurs.
func LoadOrExit(filePath string) Config {
	config, err := Load(filePath)
	if err != nil {
		DefaultExitFn(err)
	}
	return config
}

// Load reads the configuration file at filePath. If the file does
// not exist, the defaults are written to it first.
func Load(filePath string) (Config, error) {
	wroteDefaults := false

	_, err := os.Stat(filePath)
	if errors.Is(err, os.ErrNotExist) {
		err = WriteDefaults(filePath)
		if err != nil {
			return Config{}, err
		}

		wroteDefaults = true
	} else if err != nil {
		return Config{}, fmt.Errorf("failed to stat config file - %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filePath)
	v.SetConfigType("ini")

	err = v.ReadInConfig()
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file '%s' - %w", filePath, err)
	}

	config := fromViper(v)
	config.WroteDefaults = wroteDefaults

	return config, nil
}

func fromViper(v *viper.Viper) Config {
	config := Defaults()
	r := &reader{v: v}

	r.mode(TimescaleSection, "Action_Type", &config.Mode)

	for i := range config.Bindings {
		r.binding(&config.Bindings[i])
	}

	r.binding(&config.Normal)

	r.layout(&config)

	r.duration(WorkerSection, "Tick_Interval_Ms", &config.Worker.TickInterval)
	r.duration(WorkerSection, "Resolve_Interval_Ms", &config.Worker.ResolveInterval)
	r.nonNegativeInt(WorkerSection, "Resolve_Max_Polls", &config.Worker.ResolveMaxPolls)

	config.Diagnostics = r.diagnostics

	return config
}

type reader struct {
	v           *viper.Viper
	diagnostics []Diagnostic
}

// lookup returns the raw value of a key. The second return value is
// false if the key is not set.
func (o *reader) lookup(section string, key string) (string, bool) {
	viperKey := strings.ToLower(section + "." + key)

	if !o.v.IsSet(viperKey) {
		return "", false
	}

	return strings.TrimSpace(o.v.GetString(viperKey)), true
}

func (o *reader) record(section string, key string, raw string, outcome Outcome, err error) {
	o.diagnostics = append(o.diagnostics, Diagnostic{
		Key:     section + "." + key,
		Raw:     raw,
		Outcome: outcome,
		Err:     err,
	})
}

// required reads a key from a section that is always persisted.
// A missing key is recorded as UsedDefault.
func (o *reader) required(section string, key string) (string, bool) {
	raw, isSet := o.lookup(section, key)
	if !isSet {
		o.record(section, key, "", UsedDefault, nil)
	}

	return raw, isSet
}

func (o *reader) mode(section string, key string, mode *override.Mode) {
	raw, isSet := o.required(section, key)
	if !isSet {
		return
	}

	parsed, ok := override.ParseMode(raw)
	if !ok {
		o.record(section, key, raw, Unrecognized, nil)
		return
	}

	*mode = parsed
	o.record(section, key, raw, Parsed, nil)
}

func (o *reader) binding(b *Binding) {
	valueKey := b.Name + "_Value"

	raw, isSet := o.required(TimescaleSection, valueKey)
	if isSet {
		value, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			o.record(TimescaleSection, valueKey, raw, UsedDefault, err)
		} else {
			b.Value = float32(value)
			o.record(TimescaleSection, valueKey, raw, Parsed, nil)
		}
	}

	keysKey := b.Name + "_Keys"

	raw, isSet = o.required(TimescaleSection, keysKey)
	if isSet {
		b.Keys = raw
		o.record(TimescaleSection, keysKey, raw, Parsed, nil)
	}
}

func (o *reader) layout(config *Config) {
	table := layout.DefaultTable()

	raw, isSet := o.lookup(LayoutSection, "Context")
	if isSet {
		target, err := table.SetContext(raw).Target(layout.TimescaleName)
		if err != nil {
			o.record(LayoutSection, "Context", raw, Unrecognized, nil)
		} else {
			config.LayoutContext = raw
			config.Target = target
			o.record(LayoutSection, "Context", raw, Parsed, nil)
		}
	}

	raw, isSet = o.lookup(LayoutSection, "Signature")
	if isSet {
		_, err := pattern.ParseSignature(raw)
		if err != nil {
			o.record(LayoutSection, "Signature", raw, UsedDefault, err)
		} else {
			config.Target.Signature = raw
			o.record(LayoutSection, "Signature", raw, Parsed, nil)
		}
	}

	dispOffset := config.Target.DisplacementOffset
	instLen := config.Target.InstructionLength
	fieldOffset := int(config.Target.FieldOffset)

	o.nonNegativeInt(LayoutSection, "Displacement_Offset", &dispOffset)
	o.nonNegativeInt(LayoutSection, "Instruction_Length", &instLen)
	o.nonNegativeInt(LayoutSection, "Field_Offset", &fieldOffset)

	candidate := config.Target
	candidate.DisplacementOffset = dispOffset
	candidate.InstructionLength = instLen
	candidate.FieldOffset = uintptr(fieldOffset)

	err := candidate.Validate()
	if err != nil {
		o.record(LayoutSection, "*", "", UsedDefault,
			fmt.Errorf("layout overrides are inconsistent - %w", err))
		return
	}

	config.Target = candidate
}

// nonNegativeInt reads an optional integer written in decimal,
// or in hex with a "0x" prefix.
func (o *reader) nonNegativeInt(section string, key string, dst *int) {
	raw, isSet := o.lookup(section, key)
	if !isSet {
		return
	}

	i, err := strconv.ParseInt(raw, 0, 64)
	if err == nil && i < 0 {
		err = fmt.Errorf("value cannot be negative")
	}

	if err != nil {
		o.record(section, key, raw, UsedDefault, err)
		return
	}

	*dst = int(i)
	o.record(section, key, raw, Parsed, nil)
}

// duration reads an optional, positive number of milliseconds.
func (o *reader) duration(section string, key string, dst *time.Duration) {
	raw, isSet := o.lookup(section, key)
	if !isSet {
		return
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err == nil && ms <= 0 {
		err = fmt.Errorf("value must be greater than zero")
	}

	if err != nil {
		o.record(section, key, raw, UsedDefault, err)
		return
	}

	*dst = time.Duration(ms) * time.Millisecond
	o.record(section, key, raw, Parsed, nil)
}
