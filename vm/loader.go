package vm

import (
	"encoding/binary"
	goIO "io"
	"os"

	"github.com/pkg/errors"
)

// LoadFile reads an image from path and places it in memory. See LoadImage.
func (vm *VM) LoadFile(path string) (origin Word, n int, err error) {
	image, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, &LoadError{Path: path, Err: errors.Wrap(err, "read")}
	}
	origin, n, err = vm.loadBytes(image)
	if err != nil {
		return 0, 0, &LoadError{Path: path, Err: err}
	}
	vm.log.WithField("path", path).Infof("Size: %0.2f KB", float32(len(image))/1024)
	return origin, n, nil
}

// LoadImage copies a big-endian image into memory. The first word is the
// origin; the words after it are stored from the origin upward. Words that
// would run past the top of memory are dropped, as is a trailing odd byte.
// It returns the origin and the number of words stored.
func (vm *VM) LoadImage(r goIO.Reader) (origin Word, n int, err error) {
	image, err := goIO.ReadAll(r)
	if err != nil {
		return 0, 0, &LoadError{Err: errors.Wrap(err, "read")}
	}
	origin, n, err = vm.loadBytes(image)
	if err != nil {
		return 0, 0, &LoadError{Err: err}
	}
	return origin, n, nil
}

func (vm *VM) loadBytes(image []byte) (Word, int, error) {
	if len(image) < 2 {
		return 0, 0, errors.Wrapf(ErrShortImage, "%d bytes", len(image))
	}

	origin := Word(binary.BigEndian.Uint16(image))
	max_read := MemorySize - int(origin)

	n := 0
	for j := 2; j+1 < len(image) && n < max_read; j += 2 {
		vm.memory.Write(origin+Word(n), Word(binary.BigEndian.Uint16(image[j:])))
		n++
	}

	vm.log.WithField("origin", origin).Debugf("loaded %d words", n)

	return origin, n, nil
}
