package registry

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Params holds the numeric parameters of one effect. Reads are tracked so
// that keys no factory asked for can be reported.
type Params struct {
	Num  map[string]float64
	seen map[string]bool
}

// NewParams wraps a key/value map.
func NewParams(num map[string]float64) Params {
	if num == nil {
		num = map[string]float64{}
	}
	return Params{Num: num, seen: map[string]bool{}}
}

// ParseParams parses a comma-separated list of key=value pairs.
func ParseParams(s string) (Params, error) {
	num := map[string]float64{}
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		key, val, ok := strings.Cut(field, "=")
		if !ok {
			return Params{}, fmt.Errorf("registry: parameter %q is not key=value", field)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return Params{}, fmt.Errorf("registry: parameter %q: %w", key, err)
		}
		num[strings.TrimSpace(key)] = v
	}
	return NewParams(num), nil
}

// GetNum returns the value of key, or def if missing or invalid.
func (p Params) GetNum(key string, def float64) float64 {
	if p.seen != nil {
		p.seen[key] = true
	}
	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// GetInt returns the value of key rounded to the nearest integer.
func (p Params) GetInt(key string, def int) int {
	return int(math.Round(p.GetNum(key, float64(def))))
}

// Unused returns the keys never read, sorted.
func (p Params) Unused() []string {
	var keys []string
	for k := range p.Num {
		if !p.seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
