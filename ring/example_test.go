package ring_test

import (
	"fmt"

	"github.com/yukie-nobuharu/synthizer/ring"
)

// A decoder goroutine fills the ring while the audio side drains it without
// ever blocking.
func Example() {
	r, err := ring.New[float64](8)
	if err != nil {
		panic(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		first, second, err := r.BeginWrite(5, false)
		if err != nil {
			return
		}
		for i := range first {
			first[i] = float64(i + 1)
		}
		for i := range second {
			second[i] = float64(len(first) + i + 1)
		}
		r.EndWriteAll()
	}()
	<-done

	first, second := r.BeginRead(5, false)
	for _, v := range first {
		fmt.Println(v)
	}
	for _, v := range second {
		fmt.Println(v)
	}
	r.EndReadAll()

	// Output:
	// 1
	// 2
	// 3
	// 4
	// 5
}

func ExampleRing_BeginRead_empty() {
	r, err := ring.New[float64](8)
	if err != nil {
		panic(err)
	}

	// An empty ring is not an error; the consumer just tries again later.
	first, second := r.BeginRead(4, false)
	fmt.Println(first == nil, second == nil)

	// Output:
	// true true
}
