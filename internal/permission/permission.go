// Package permission implements the bit-flag authorization model of the admin bot.
package permission

import (
	"strconv"
	"strings"
)

// Flags is a set of capabilities. The zero value grants nothing.
type Flags uint32

const (
	None       Flags = 0
	UserAdmin  Flags = 1 << 0
	PinCreate  Flags = 1 << 1
	PinQuery   Flags = 1 << 2
	Statistics Flags = 1 << 3
	Locate     Flags = 1 << 4
)

// names lists every capability in declared bit order.
var names = []struct {
	flag Flags
	name string
}{
	{UserAdmin, "UserAdmin"},
	{PinCreate, "PinCreate"},
	{PinQuery, "PinQuery"},
	{Statistics, "Statistics"},
	{Locate, "Locate"},
}

// Evaluate reports whether every bit of required is also set in granted.
// A required set of None is always satisfied.
func Evaluate(granted, required Flags) bool {
	return required&^granted == 0
}

func (f Flags) Has(required Flags) bool {
	return Evaluate(f, required)
}

func (f Flags) Add(other Flags) Flags {
	return f | other
}

func (f Flags) Remove(other Flags) Flags {
	return f &^ other
}

// String renders the set as comma separated names, "None" for the empty set.
// Bits without a name are appended as their numeric value.
func (f Flags) String() string {
	if f == None {
		return "None"
	}

	var parts []string
	rest := f
	for _, n := range names {
		if f&n.flag != 0 {
			parts = append(parts, n.name)
			rest &^= n.flag
		}
	}
	if rest != 0 {
		parts = append(parts, strconv.FormatUint(uint64(rest), 10))
	}
	return strings.Join(parts, ", ")
}

// All returns each single capability in declared bit order.
func All() []Flags {
	all := make([]Flags, 0, len(names))
	for _, n := range names {
		all = append(all, n.flag)
	}
	return all
}

// Parse resolves a single capability name, ignoring case. None is not a
// capability and is rejected.
func Parse(name string) (Flags, bool) {
	trimmed := strings.TrimSpace(name)
	for _, n := range names {
		if strings.EqualFold(n.name, trimmed) {
			return n.flag, true
		}
	}
	return None, false
}

// Held returns the capabilities of All that are set in f.
func (f Flags) Held() []Flags {
	return f.filter(true)
}

// Missing returns the capabilities of All that are not set in f.
func (f Flags) Missing() []Flags {
	return f.filter(false)
}

func (f Flags) filter(held bool) []Flags {
	var out []Flags
	for _, flag := range All() {
		if f.Has(flag) == held {
			out = append(out, flag)
		}
	}
	return out
}
