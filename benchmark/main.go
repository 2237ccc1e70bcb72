package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	arena "github.com/arenakit/arena"
)

var previousPause time.Duration

func gcPause() time.Duration {
	runtime.GC()
	var stats debug.GCStats
	debug.ReadGCStats(&stats)
	pause := stats.PauseTotal - previousPause
	previousPause = stats.PauseTotal
	return pause
}

func main() {
	policy := ""
	blocks := 0
	repeat := 0
	blockSize := 0
	flag.StringVar(&policy, "policy", "temp", "allocation policy to bench.")
	flag.IntVar(&blocks, "blocks", 100000, "number of live blocks per round")
	flag.IntVar(&repeat, "repeat", 50, "number of repetitions")
	flag.IntVar(&blockSize, "block-size", 100, "size of a single block in bytes")
	flag.Parse()

	debug.SetGCPercent(10)
	fmt.Println("Policy:            ", policy)
	fmt.Println("Number of blocks:  ", blocks)
	fmt.Println("Number of repeats: ", repeat)
	fmt.Println("Block size:        ", blockSize)

	var benchFunc func(blocks, blockSize int)

	switch policy {
	case "default":
		benchFunc = defaultPolicy
	case "temp":
		benchFunc = tempPolicy
	case "vmem":
		benchFunc = vmemPolicy
	case "make":
		benchFunc = plainMake
	default:
		fmt.Printf("unknown policy: %s", policy)
		os.Exit(1)
	}

	benchFunc(blocks, blockSize)
	fmt.Println("GC pause for startup: ", gcPause())
	for i := 0; i < repeat; i++ {
		benchFunc(blocks, blockSize)
	}

	fmt.Printf("GC pause for %s: %s\n", policy, gcPause())
}

func plainMake(blocks, blockSize int) {
	keep := make([][]byte, blocks)
	for i := range keep {
		keep[i] = make([]byte, blockSize)
	}
}

func defaultPolicy(blocks, blockSize int) {
	var alloc arena.DefaultAllocator[byte]
	keep := make([]*byte, blocks)
	for i := range keep {
		keep[i] = alloc.Allocate(blockSize)
	}
	for i := len(keep) - 1; i >= 0; i-- {
		alloc.Free(keep[i], blockSize)
	}
}

func tempPolicy(blocks, blockSize int) {
	scratch := arena.NewScratch(blocks * blockSize)
	defer scratch.Release()
	alloc := arena.NewTempAllocator[byte](scratch)

	keep := make([]*byte, blocks)
	for i := range keep {
		keep[i] = alloc.Allocate(blockSize)
	}
	scratch.Reset()
}

func vmemPolicy(blocks, blockSize int) {
	alloc := arena.NewVMemAllocator[byte](0, 0)
	defer alloc.Release()

	keep := make([]*byte, blocks)
	for i := range keep {
		keep[i] = alloc.Allocate(blockSize)
	}
	for i := len(keep) - 1; i >= 0; i-- {
		alloc.Free(keep[i], blockSize)
	}
}
