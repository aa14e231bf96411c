package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"rowdedup"
	"rowdedup/costmodel"
	"rowdedup/orderedset"
)

func main() {
	var (
		n       = flag.Int("n", 10000, "number of 8-byte keys to insert (with duplicates)")
		memKiB  = flag.Int("mem-kib", 4, "in-memory budget, in KiB, before a spill is forced")
		seed    = flag.Int64("seed", 1, "random seed for the generated key stream")
		estOnly = flag.Bool("estimate-only", false, "print the planner cost estimate and exit, without running a Deduper")
	)
	flag.Parse()

	const width = 8
	memBudget := int64(*memKiB) * 1024

	costCfg := costmodel.Config{
		IOSize:       4096,
		SeekCost:     1.0,
		CompareTime:  1.0,
		NodeOverhead: orderedset.NodeOverhead,
	}

	if *estOnly {
		est := rowdedup.EstimateCost(int64(*n), width, memBudget, costCfg)
		fmt.Printf("estimated cost for n=%d width=%d mem=%d bytes: %.2f seek-equivalents\n", *n, width, memBudget, est)
		return
	}

	if err := run(*n, memBudget, *seed, costCfg); err != nil {
		fmt.Fprintln(os.Stderr, "rowdedup-demo:", err)
		os.Exit(1)
	}
}

// run mirrors the shape of the scenarios this package is tested against:
// build a Deduper over a bounded memory budget, insert a stream of
// duplicate-heavy 8-byte keys, extract the unique sorted result, and
// report the predicted cost, the unique count and the first few keys.
func run(n int, memBudget int64, seed int64, costCfg costmodel.Config) error {
	cmp := func(a, b []byte, _ any) int {
		av := binary.BigEndian.Uint64(a)
		bv := binary.BigEndian.Uint64(b)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	}

	dd, err := rowdedup.New(rowdedup.Config{
		Width:      8,
		MemBudget:  memBudget,
		Comparator: cmp,
		Temp:       rowdedup.TempConfig{Dir: os.TempDir()},
	})
	if err != nil {
		return fmt.Errorf("construct deduper: %w", err)
	}
	defer dd.Close()

	rng := rand.New(rand.NewSource(seed))
	buf := make([]byte, 8)
	distinct := n / 4
	if distinct == 0 {
		distinct = 1
	}
	for i := 0; i < n; i++ {
		binary.BigEndian.PutUint64(buf, uint64(rng.Intn(distinct)))
		if err := dd.Put(buf); err != nil {
			return fmt.Errorf("put: %w", err)
		}
	}

	est := rowdedup.EstimateCost(int64(n), 8, memBudget, costCfg)
	fmt.Printf("inserted %d keys (~%d distinct); predicted cost %.2f seek-equivalents\n", n, distinct, est)

	sink := rowdedup.NewMemoryStreamSink(8)
	if err := dd.ExtractInto(sink); err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	fmt.Printf("extracted %d unique keys\n", sink.Len())
	for i := 0; i < sink.Len() && i < 10; i++ {
		fmt.Printf("  %d\n", binary.BigEndian.Uint64(sink.At(i)))
	}
	if sink.Len() > 10 {
		fmt.Println("  ...")
	}
	return nil
}
