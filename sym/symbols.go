// Package sym defines canonical symbols used as stable markers in logs and
// CLI output across legostore subsystems.
package sym

// Subsystem markers.
const (
	DB     = "⛁" // storage engine / database operations
	List   = "≣" // LegoList operations
	Lego   = "▦" // Lego document operations
	Stamp  = "✶" // provenance stamps
	Pncs   = "⌘" // shared Pncs code references
	Iter   = "⇉" // streaming iterators
	Filter = "⧩" // hierarchy filter
	Cache  = "◍" // memoization cache
)
