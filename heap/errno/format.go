package errno

import "fmt"

// Format renders "<prefix>: <meaning> (os error <code>)", or
// "<prefix>: (os error <code>)" when the code has no known meaning.
func Format(prefix string, c Code) string {
	if m, ok := c.Meaning(); ok {
		return fmt.Sprintf("%s: %s (os error %d)", prefix, m, int32(c))
	}
	return fmt.Sprintf("%s: (os error %d)", prefix, int32(c))
}
