package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// defaultKeys returns the persisted keys of the Timescale section,
// in file order, with their default literals.
func defaultKeys() [][2]string {
	config := Defaults()

	keys := [][2]string{
		{"Action_Type", config.Mode.String()},
	}

	all := append(append([]Binding{}, config.Bindings...), config.Normal)

	for _, b := range all {
		keys = append(keys, [2]string{b.Name + "_Value", formatValue(b.Value)})
	}

	for _, b := range all {
		keys = append(keys, [2]string{b.Name + "_Keys", b.Keys})
	}

	return keys
}

// formatValue formats a value with at least one decimal place,
// so that 1 is written as "1.0".
func formatValue(v float32) string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 32)

	if strings.Contains(s, ".") {
		return s
	}

	return s + ".0"
}

// DefaultsFile returns the default configuration as an *ini.File.
func DefaultsFile() (*ini.File, error) {
	file := ini.Empty()

	section, err := file.NewSection(TimescaleSection)
	if err != nil {
		return nil, fmt.Errorf("failed to create section - %w", err)
	}

	for _, kv := range defaultKeys() {
		_, err := section.NewKey(kv[0], kv[1])
		if err != nil {
			return nil, fmt.Errorf("failed to create key '%s' - %w", kv[0], err)
		}
	}

	return file, nil
}

// WriteDefaultsOrExit calls WriteDefaults and calls DefaultExitFn
// if an error occurs.
func WriteDefaultsOrExit(filePath string) {
	err := WriteDefaults(filePath)
	if err != nil {
		DefaultExitFn(err)
	}
}

// WriteDefaults writes the default configuration to filePath,
// replacing any existing file. Keys are written one per line as
// "Key = value".
func WriteDefaults(filePath string) error {
	file, err := DefaultsFile()
	if err != nil {
		return err
	}

	ini.PrettyFormat = false
	ini.PrettyEqual = true

	err = file.SaveTo(filePath)
	if err != nil {
		return fmt.Errorf("failed to write default config to '%s' - %w", filePath, err)
	}

	return nil
}
