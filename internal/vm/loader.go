package vm

// loader.go loads object code into the machine's memory.

import (
	"errors"
	"fmt"
)

// ObjectCode holds a contiguous sequence of words and the address at which they should be loaded.
type ObjectCode struct {
	Orig Word
	Code []Word
}

// ErrObjectLoader is the sentinel wrapped by loader errors.
var ErrObjectLoader = errors.New("loader error")

// Loader copies object code into a machine's memory, starting at the object's origin address.
type Loader struct {
	vm *LC3
}

// NewLoader creates a loader that writes into vm's memory.
func NewLoader(vm *LC3) *Loader {
	return &Loader{vm: vm}
}

// Load stores obj.Code into memory starting at obj.Orig and returns the number of words written.
func (l *Loader) Load(obj ObjectCode) (uint16, error) {
	if len(obj.Code) == 0 {
		return 0, fmt.Errorf("%w: object has no code", ErrObjectLoader)
	}

	addr := obj.Orig

	for i, word := range obj.Code {
		if int(obj.Orig)+i >= AddrSpace {
			return uint16(i), fmt.Errorf("%w: object overruns address space", ErrObjectLoader)
		}

		l.vm.Mem.Write(addr, word)
		addr++
	}

	return uint16(len(obj.Code)), nil
}
