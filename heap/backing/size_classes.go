package backing

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/joshuapare/kheap/internal/format"
)

// SizeClassConfig defines the free-list size class strategy.
// Different configurations trade search time against fragmentation.
type SizeClassConfig struct {
	// Name for this configuration (for stats and the CLI)
	Name string

	// Linear classes. A raw malloc of n bytes is a block of n plus one
	// header word, so a 100 KiB heap mostly sees blocks of 16 to 512 bytes.
	SmallMin       int // Smallest block: one granule
	SmallMax       int // Start of the first geometric class
	SmallIncrement int // Width of each linear class, a granule multiple

	// Geometric classes up to MediumMax; anything larger uses the large list.
	MediumMax    int
	GrowthFactor float64
}

// Predefined configurations.
var (
	// FineGrained gives every block size up to 256 its own list, so small
	// typed values never share a class. 31 linear + 11 geometric classes.
	ConfigFineGrained = SizeClassConfig{
		Name:           "FineGrained",
		SmallMin:       8,
		SmallMax:       256,
		SmallIncrement: 8,
		MediumMax:      16384,
		GrowthFactor:   1.5,
	}

	// Balanced pairs adjacent word counts below 512 bytes. 32 linear + 9
	// geometric classes.
	ConfigBalanced = SizeClassConfig{
		Name:           "Balanced",
		SmallMin:       8,
		SmallMax:       512,
		SmallIncrement: 16,
		MediumMax:      16384,
		GrowthFactor:   1.5,
	}

	// Coarse keeps 21 lists; each class min-heap holds more blocks. 16 linear
	// + 5 power-of-two classes.
	ConfigCoarse = SizeClassConfig{
		Name:           "Coarse",
		SmallMin:       8,
		SmallMax:       512,
		SmallIncrement: 32,
		MediumMax:      16384,
		GrowthFactor:   2.0,
	}

	DefaultConfig = ConfigBalanced
)

// ErrBadConfig indicates a size class configuration that cannot build a table.
var ErrBadConfig = errors.New("backing: invalid size class config")

// Validate checks that the configuration describes a usable table.
func (c SizeClassConfig) Validate() error {
	switch {
	case c.SmallMin <= 0:
		return fmt.Errorf("%w: SmallMin must be positive", ErrBadConfig)
	case c.SmallIncrement <= 0:
		return fmt.Errorf("%w: SmallIncrement must be positive", ErrBadConfig)
	case c.SmallMax < c.SmallMin:
		return fmt.Errorf("%w: SmallMax < SmallMin", ErrBadConfig)
	case c.MediumMax < c.SmallMax:
		return fmt.Errorf("%w: MediumMax < SmallMax", ErrBadConfig)
	case c.MediumMax > c.SmallMax && c.GrowthFactor <= 1:
		return fmt.Errorf("%w: GrowthFactor must be > 1", ErrBadConfig)
	}
	return nil
}

// ConfigByName looks up a predefined configuration, case-sensitively.
func ConfigByName(name string) (SizeClassConfig, bool) {
	for _, c := range []SizeClassConfig{ConfigFineGrained, ConfigBalanced, ConfigCoarse} {
		if c.Name == name {
			return c, true
		}
	}
	return SizeClassConfig{}, false
}

// sizeClassTable maps a block size to the free list that holds it.
// bounds[i] is the largest block size in class i; blocks above the last
// bound live on the large list.
type sizeClassTable struct {
	config SizeClassConfig
	bounds []uintptr
}

// newSizeClassTable lays out the classes for config. Blocks are whole
// granules, so every class starts on a granule multiple: SmallMin up to
// SmallMax in SmallIncrement steps, then classes whose start grows by
// GrowthFactor until MediumMax is covered.
func newSizeClassTable(config SizeClassConfig) *sizeClassTable {
	t := &sizeClassTable{config: config}

	start := uintptr(config.SmallMin)
	for start < uintptr(config.SmallMax) {
		next := start + uintptr(config.SmallIncrement)
		t.bounds = append(t.bounds, next-1)
		start = next
	}

	start = uintptr(config.SmallMax)
	for start < uintptr(config.MediumMax) {
		next := format.AlignGranule(uintptr(math.Ceil(float64(start) * config.GrowthFactor)))
		if next <= start {
			next = start + format.Granule
		}
		t.bounds = append(t.bounds, next-1)
		start = next
	}
	return t
}

// classOf returns the class for a block of size bytes, or NumClasses when
// the block belongs on the large list.
func (t *sizeClassTable) classOf(size uintptr) int {
	return sort.Search(len(t.bounds), func(i int) bool { return t.bounds[i] >= size })
}

func (t *sizeClassTable) String() string { return t.config.Name }

// NumClasses returns the number of size classes, not counting the large list.
func (t *sizeClassTable) NumClasses() int { return len(t.bounds) }

// Boundaries returns the upper bound of every size class the config produces.
func Boundaries(config SizeClassConfig) []uintptr {
	t := newSizeClassTable(config)
	return slices.Clone(t.bounds)
}
