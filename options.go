package arena

import "errors"

// Options is the configuration of the allocation layer.
type Options struct {
	// ScratchSize is the capacity of a scratch region in bytes.
	ScratchSize int

	// MaxPendingFrees is the out-of-order free slack of the scratch arena.
	MaxPendingFrees int

	// Virtual memory sizes for VMemArena.
	ReservedSize int
	CommitSize   int
}

// DefaultOptions
var DefaultOptions = Options{
	ScratchSize:     DefaultScratchSize,
	MaxPendingFrees: DefaultMaxPendingFrees,
	ReservedSize:    DefaultReservedSize,
	CommitSize:      DefaultCommitSize,
}

func checkOptions(options Options) error {
	if options.ScratchSize < 0 {
		return errors.New("arena/options: invalid scratch size")
	}
	if options.MaxPendingFrees < 0 {
		return errors.New("arena/options: invalid pending free slack")
	}
	if options.CommitSize > options.ReservedSize {
		return errors.New("arena/options: commit size exceeds reserved size")
	}
	return nil
}

// NewScratchWithOptions returns a scratch region configured by options.
func NewScratchWithOptions(options Options) (*Scratch, error) {
	if err := checkOptions(options); err != nil {
		return nil, err
	}
	s := NewScratch(options.ScratchSize)
	s.slack = options.MaxPendingFrees
	return s, nil
}

// NewVMemArenaWithOptions returns a lazy VMemArena configured by options.
func NewVMemArenaWithOptions(options Options) (*VMemArena, error) {
	if err := checkOptions(options); err != nil {
		return nil, err
	}
	return NewVMemArena(options.ReservedSize, options.CommitSize), nil
}
