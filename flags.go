package showerplot

import (
	"strings"
)

// StringArrayFlags is a flag.Value collecting every occurrence of a
// repeatable string flag. Values given on the command line replace the
// defaults rather than extending them.
type StringArrayFlags struct {
	Array   []string
	beenSet bool
}

func (f *StringArrayFlags) Set(value string) error {
	if !f.beenSet {
		f.beenSet = true
		f.Array = nil
	}

	f.Array = append(f.Array, value)
	return nil
}

func (f *StringArrayFlags) String() string {
	if f == nil {
		return ""
	}
	return strings.Join(f.Array, ",")
}
