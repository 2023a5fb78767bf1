//go:build opencl

package device

import (
	"testing"
	"unsafe"

	"github.com/achilleasa/gopencl/v1.2/cl"
)

func TestBufferAllocate(t *testing.T) {
	dev := createTestDevice(t)
	defer dev.Close()

	buf := dev.Buffer("test")
	defer buf.Release()
	err := buf.Allocate(128, cl.MEM_READ_WRITE)
	if err != nil {
		t.Fatal(err)
	}

	expSize := 128
	if buf.Size() != expSize {
		t.Fatalf("expected buffer size to be %d; got %d", expSize, buf.Size())
	}

	buf.Release()
	if buf.Size() != 0 || buf.Handle() != nil {
		t.Fatal("expected released buffer to have no handle and zero size")
	}
}

func TestBufferAllocateErrors(t *testing.T) {
	uninitialized := &Device{Name: "test"}
	if err := uninitialized.Buffer("test").Allocate(16, cl.MEM_READ_WRITE); err != ErrNotInitialized {
		t.Fatalf("expected ErrNotInitialized; got %v", err)
	}

	dev := createTestDevice(t)
	defer dev.Close()

	buf := dev.Buffer("test")
	if err := buf.Allocate(0, cl.MEM_READ_WRITE); err == nil {
		t.Fatal("expected an error when allocating an empty buffer")
	}
}

func TestBufferAllocateToFitData(t *testing.T) {
	dev := createTestDevice(t)
	defer dev.Close()

	data := make([]float64, 128)

	buf := dev.Buffer("test")
	defer buf.Release()
	err := buf.AllocateToFitData(data, cl.MEM_READ_WRITE)
	if err != nil {
		t.Fatal(err)
	}

	expSize := len(data) * int(unsafe.Sizeof(data[0]))
	if buf.Size() != expSize {
		t.Fatalf("expected buffer size to be %d; got %d", expSize, buf.Size())
	}
}

func TestBufferWriteAndReadData(t *testing.T) {
	dev := createTestDevice(t)
	defer dev.Close()

	data := []uint32{1, 2, 3, 4, 5, 6, 7, 8}

	buf := dev.Buffer("test")
	defer buf.Release()
	if err := buf.AllocateAndWriteData(data, cl.MEM_READ_WRITE); err != nil {
		t.Fatal(err)
	}

	// Overwrite the tail and read back with a destination offset
	if err := buf.WriteData([]uint32{70, 80}, 24); err != nil {
		t.Fatal(err)
	}
	if err := buf.WriteData(data, 4); err == nil {
		t.Fatal("expected an error when writing past the end of the buffer")
	}

	out := make([]uint32, 10)
	if err := buf.ReadData(0, 8, 32, out); err != nil {
		t.Fatal(err)
	}

	exp := []uint32{0, 0, 1, 2, 3, 4, 5, 6, 70, 80}
	for i := range exp {
		if out[i] != exp[i] {
			t.Fatalf("[item %d] expected %d; got %d", i, exp[i], out[i])
		}
	}

	if err := buf.ReadData(0, 16, 32, out); err == nil {
		t.Fatal("expected an error when reading past the end of the host buffer")
	}
}
