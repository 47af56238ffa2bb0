package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// setFlag acumula -set key=value en un mapa de inputs.
type setFlag struct {
	values map[string]float64
}

func (s *setFlag) String() string {
	if s == nil || len(s.values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strconv.FormatFloat(s.values[k], 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// Set acepta "key=value"; el valor admite separadores "_" y un "%" final opcional.
func (s *setFlag) Set(arg string) error {
	key, raw, ok := strings.Cut(arg, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", arg)
	}
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "%")
	raw = strings.ReplaceAll(raw, "_", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("%s: %q is not a number", key, raw)
	}
	if s.values == nil {
		s.values = make(map[string]float64)
	}
	s.values[key] = v
	return nil
}
