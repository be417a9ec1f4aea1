package channels

import (
	"fmt"
	"sync"
)

// Size is the number of channels in each array.
const Size = 32

// Bus holds the raw channel values shared between the HTTP exchange and
// the owning process. Each array has its own lock, so element reads and
// writes are linearizable and whole-array copies are consistent per array.
type Bus struct {
	numInMu sync.RWMutex
	numIn   [Size]float64

	boolInMu sync.RWMutex
	boolIn   [Size]bool

	numOutMu sync.RWMutex
	numOut   [Size]float64

	boolOutMu sync.RWMutex
	boolOut   [Size]bool
}

// Snapshot is a copy of all four arrays. Each array is internally consistent;
// the four were not necessarily captured at the same instant.
type Snapshot struct {
	NumericIn  [Size]float64 `json:"numeric_in"`
	BooleanIn  [Size]bool    `json:"boolean_in"`
	NumericOut [Size]float64 `json:"numeric_out"`
	BooleanOut [Size]bool    `json:"boolean_out"`
}

// NewBus returns a bus with every channel at 0 or false.
func NewBus() *Bus {
	return &Bus{}
}

func checkIndex(i int) error {
	if i < 0 || i >= Size {
		return fmt.Errorf("index %d not in [0,%d): %w", i, Size, ErrOutOfRange)
	}
	return nil
}

func readFloat(mu *sync.RWMutex, arr *[Size]float64, i int) (float64, error) {
	if err := checkIndex(i); err != nil {
		return 0, err
	}
	mu.RLock()
	defer mu.RUnlock()
	return arr[i], nil
}

func writeFloat(mu *sync.RWMutex, arr *[Size]float64, i int, v float64) error {
	if err := checkIndex(i); err != nil {
		return err
	}
	mu.Lock()
	arr[i] = v
	mu.Unlock()
	return nil
}

func readBool(mu *sync.RWMutex, arr *[Size]bool, i int) (bool, error) {
	if err := checkIndex(i); err != nil {
		return false, err
	}
	mu.RLock()
	defer mu.RUnlock()
	return arr[i], nil
}

func writeBool(mu *sync.RWMutex, arr *[Size]bool, i int, v bool) error {
	if err := checkIndex(i); err != nil {
		return err
	}
	mu.Lock()
	arr[i] = v
	mu.Unlock()
	return nil
}

// ReadNumericIn returns numeric input i.
func (b *Bus) ReadNumericIn(i int) (float64, error) {
	return readFloat(&b.numInMu, &b.numIn, i)
}

// ReadBooleanIn returns boolean input i.
func (b *Bus) ReadBooleanIn(i int) (bool, error) {
	return readBool(&b.boolInMu, &b.boolIn, i)
}

// ReadNumericOut returns numeric output i.
func (b *Bus) ReadNumericOut(i int) (float64, error) {
	return readFloat(&b.numOutMu, &b.numOut, i)
}

// ReadBooleanOut returns boolean output i.
func (b *Bus) ReadBooleanOut(i int) (bool, error) {
	return readBool(&b.boolOutMu, &b.boolOut, i)
}

// WriteNumericIn overwrites numeric input i.
func (b *Bus) WriteNumericIn(i int, v float64) error {
	return writeFloat(&b.numInMu, &b.numIn, i, v)
}

// WriteBooleanIn overwrites boolean input i.
func (b *Bus) WriteBooleanIn(i int, v bool) error {
	return writeBool(&b.boolInMu, &b.boolIn, i, v)
}

// WriteNumericOut overwrites numeric output i.
func (b *Bus) WriteNumericOut(i int, v float64) error {
	return writeFloat(&b.numOutMu, &b.numOut, i, v)
}

// WriteBooleanOut overwrites boolean output i.
func (b *Bus) WriteBooleanOut(i int, v bool) error {
	return writeBool(&b.boolOutMu, &b.boolOut, i, v)
}

// StoreInputs overwrites both input arrays. Used once per inbound exchange.
func (b *Bus) StoreInputs(nums [Size]float64, bools [Size]bool) {
	b.numInMu.Lock()
	b.numIn = nums
	b.numInMu.Unlock()

	b.boolInMu.Lock()
	b.boolIn = bools
	b.boolInMu.Unlock()
}

// Inputs returns copies of the input arrays as slices, the shape sensors refresh from.
func (b *Bus) Inputs() ([]float64, []bool) {
	b.numInMu.RLock()
	nums := b.numIn
	b.numInMu.RUnlock()

	b.boolInMu.RLock()
	bools := b.boolIn
	b.boolInMu.RUnlock()

	return nums[:], bools[:]
}

// Outputs returns copies of the output arrays.
func (b *Bus) Outputs() ([Size]float64, [Size]bool) {
	b.numOutMu.RLock()
	nums := b.numOut
	b.numOutMu.RUnlock()

	b.boolOutMu.RLock()
	bools := b.boolOut
	b.boolOutMu.RUnlock()

	return nums, bools
}

// Snapshot copies all four arrays, one array lock at a time.
func (b *Bus) Snapshot() Snapshot {
	var s Snapshot

	b.numInMu.RLock()
	s.NumericIn = b.numIn
	b.numInMu.RUnlock()

	b.boolInMu.RLock()
	s.BooleanIn = b.boolIn
	b.boolInMu.RUnlock()

	s.NumericOut, s.BooleanOut = b.Outputs()
	return s
}
