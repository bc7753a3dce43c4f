package buffer

import (
	"sync"
	"testing"

	"github.com/gogpu/pixio/pixel"
)

func TestPool_GetPut(t *testing.T) {
	p := NewPool(2)

	b, err := p.Get(4, 4, pixel.RGBA8, pixel.LittleEndian)
	if err != nil {
		t.Fatal(err)
	}
	b.Row(0)[0] = 0xFF
	p.Put(b)
	if p.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", p.Len())
	}

	again, err := p.Get(4, 4, pixel.RGBA8, pixel.BigEndian)
	if err != nil {
		t.Fatal(err)
	}
	if again != b {
		t.Error("pool did not reuse buffer")
	}
	if again.Row(0)[0] != 0 {
		t.Error("reused buffer was not cleared")
	}
	if again.Endian() != pixel.BigEndian {
		t.Error("reused buffer kept stale endianness")
	}
}

func TestPool_Buckets(t *testing.T) {
	p := NewPool(1)

	a, _ := p.Get(4, 4, pixel.RGBA8, pixel.LittleEndian)
	b, _ := p.Get(4, 4, pixel.RGBA8, pixel.LittleEndian)
	p.Put(a)
	p.Put(b) // bucket full, discarded
	p.Put(nil)
	if p.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", p.Len())
	}

	other, _ := p.Get(4, 4, pixel.RGBA8, pixel.LittleEndian, WithAlignment(64))
	if other == a {
		t.Error("pool mixed alignments")
	}
	gray, _ := p.Get(4, 4, pixel.Gray8, pixel.LittleEndian)
	if gray == a {
		t.Error("pool mixed formats")
	}
}

func TestPool_Concurrent(t *testing.T) {
	p := NewPool(0)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				b, err := p.Get(8, 8, pixel.Gray16, pixel.LittleEndian)
				if err != nil {
					t.Error(err)
					return
				}
				p.Put(b)
			}
		}()
	}
	wg.Wait()
}
