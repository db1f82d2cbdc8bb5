package ring

import "testing"

func BenchmarkWriteReadBlock(b *testing.B) {
	const blockFrames = 256

	r, err := New[float64](4 * blockFrames)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		first, second, err := r.BeginWrite(blockFrames, false)
		if err != nil {
			b.Fatal(err)
		}
		for i := range first {
			first[i] = float64(i)
		}
		for i := range second {
			second[i] = float64(i)
		}
		r.EndWriteAll()

		rf, rs := r.BeginRead(blockFrames, false)
		_ = rf
		_ = rs
		r.EndReadAll()
	}
}

func BenchmarkConcurrentStream(b *testing.B) {
	const blockFrames = 256

	r, err := New[float64](8 * blockFrames)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	go func() {
		for {
			first, _, err := r.BeginWrite(blockFrames, false)
			if err != nil {
				return
			}
			for i := range first {
				first[i] = float64(i)
			}
			r.EndWriteAll()
		}
	}()

	read := 0
	for read < b.N {
		first, second := r.BeginRead(blockFrames, true)
		read += len(first) + len(second)
		if first != nil {
			r.EndReadAll()
		}
	}

	b.StopTimer()
	r.Close()
}
