//go:build linux

// Package devmem is a bus over physical memory mapped into a Linux process,
// so the GPIO and UART drivers can run in user space on a Pi.
package devmem

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Region is a window of physical addresses and where it starts in the mapped
// file.  For /dev/mem the file offset is the physical address; /dev/gpiomem
// holds the GPIO block alone, at offset 0.
type Region struct {
	Phys   uintptr
	Size   uintptr
	Offset int64
}

type window struct {
	phys uintptr
	mem  []byte
}

// Bus maps its regions on Open.  Accesses outside every region panic.
type Bus struct {
	f       *os.File
	windows []window
	nops    uint64
}

// Open maps regions of path read-write.
func Open(path string, regions ...Region) (*Bus, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	b := &Bus{f: f}
	page := int64(os.Getpagesize())
	for _, r := range regions {
		if r.Offset%page != 0 {
			b.Close()
			return nil, fmt.Errorf("%s: offset %#x is not page aligned", path, r.Offset)
		}
		size := (int64(r.Size) + page - 1) / page * page
		mem, err := unix.Mmap(int(f.Fd()), r.Offset, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("mapping %s at %#x: %w", path, r.Offset, err)
		}
		b.windows = append(b.windows, window{phys: r.Phys, mem: mem})
	}
	return b, nil
}

func (b *Bus) word(addr uintptr) *uint32 {
	if addr%4 != 0 {
		panic(fmt.Sprintf("devmem: unaligned access at %#x", addr))
	}
	for _, w := range b.windows {
		if addr >= w.phys && addr+4 <= w.phys+uintptr(len(w.mem)) {
			return (*uint32)(unsafe.Pointer(&w.mem[addr-w.phys]))
		}
	}
	panic(fmt.Sprintf("devmem: address %#x is not mapped", addr))
}

// Read32 and Write32 use atomic loads and stores, which the compiler will
// neither elide nor merge.
func (b *Bus) Read32(addr uintptr) uint32 {
	return atomic.LoadUint32(b.word(addr))
}

func (b *Bus) Write32(addr uintptr, value uint32) {
	atomic.StoreUint32(b.word(addr), value)
}

// Nop burns at least one cycle.
func (b *Bus) Nop() {
	atomic.AddUint64(&b.nops, 1)
}

// Close unmaps every region.
func (b *Bus) Close() error {
	var first error
	for _, w := range b.windows {
		if err := unix.Munmap(w.mem); err != nil && first == nil {
			first = err
		}
	}
	b.windows = nil
	if err := b.f.Close(); err != nil && first == nil {
		first = err
	}
	return first
}
