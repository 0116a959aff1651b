package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/justchen1369/acolyte-fight-sub000/internal/replay"
)

func main() {
	var (
		path     = flag.String("replay", "", "path to a .jsonl.zst replay, or a directory of them")
		fromTick = flag.Uint64("from_tick", 0, "start verifying from tick (inclusive, optional)")
		toTick   = flag.Uint64("to_tick", 0, "stop at tick (inclusive, optional)")
	)
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "missing -replay")
		os.Exit(2)
	}
	files, err := listReplays(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list replays:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no replays found in", *path)
		os.Exit(1)
	}

	failed := 0
	for _, file := range files {
		result, err := verifyFile(file, replay.VerifyOptions{FromTick: *fromTick, ToTick: *toTick})
		if err != nil {
			failed++
			var mismatch *replay.MismatchError
			if errors.As(err, &mismatch) {
				fmt.Fprintf(os.Stderr, "%s: diverged at tick %d\n", filepath.Base(file), mismatch.Tick)
			}
			fmt.Fprintf(os.Stderr, "%s: %v\n", filepath.Base(file), err)
			continue
		}
		fmt.Printf("%s: ok match=%s ticks=%d checked=%d winner=%q checksum=%s\n",
			filepath.Base(file), result.MatchID, result.Ticks, result.Checked, result.Winner, result.FinalChecksum)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func verifyFile(path string, opts replay.VerifyOptions) (replay.VerifyResult, error) {
	r, err := replay.Open(path)
	if err != nil {
		return replay.VerifyResult{}, err
	}
	defer r.Close()
	return replay.Verify(r, opts)
}

func listReplays(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	ents, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range ents {
		if e.IsDir() || !strings.HasSuffix(e.Name(), replay.Extension) {
			continue
		}
		out = append(out, filepath.Join(path, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
