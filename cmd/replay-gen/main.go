// replay-gen propagates a TLE with SGP4 and writes the position and attitude
// replay files the server feeds to ADCS telemetry. Paths ending in .zst are
// zstd-compressed.
//
// Usage:
//
//	replay-gen -tle iss.tle
//	replay-gen -tle iss.tle -start 2021-10-02T14:00:00Z -step 100ms -count 54000
//	replay-gen -tle iss.tle -position data/pos.bin.zst -attitude data/att.bin.zst
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"satellite_simulator/internal/orbit"
	"satellite_simulator/internal/replay"
)

type options struct {
	line1, line2 string
	start        time.Time
	step         time.Duration
	count        int
	positionPath string
	attitudePath string
}

func main() {
	tlePath := flag.String("tle", "", "file holding a two-line element set (a leading name line is allowed)")
	startStr := flag.String("start", "", "first sample time, RFC3339 (default: now)")
	step := flag.Duration("step", 100*time.Millisecond, "time between samples")
	count := flag.Int("count", 36000, "number of samples")
	posPath := flag.String("position", "position.bin", "output path for position records")
	attPath := flag.String("attitude", "attitude.bin", "output path for attitude records")
	flag.Parse()

	if *tlePath == "" {
		fmt.Fprintln(os.Stderr, "Error: -tle is required")
		flag.Usage()
		os.Exit(2)
	}

	f, err := os.Open(*tlePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening TLE: %v\n", err)
		os.Exit(1)
	}
	line1, line2, err := readTLE(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading TLE: %v\n", err)
		os.Exit(1)
	}

	start := time.Now().UTC().Truncate(time.Second)
	if *startStr != "" {
		if start, err = time.Parse(time.RFC3339, *startStr); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -start: %v\n", err)
			os.Exit(2)
		}
	}

	opts := options{
		line1: line1, line2: line2,
		start: start, step: *step, count: *count,
		positionPath: *posPath, attitudePath: *attPath,
	}
	if err := generate(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d records to %s and %s (%s to %s)\n",
		opts.count, opts.positionPath, opts.attitudePath,
		opts.start.Format(time.RFC3339), opts.start.Add(time.Duration(opts.count-1)*opts.step).Format(time.RFC3339))
}

// readTLE returns the two element lines, skipping blank lines and an
// optional title line.
func readTLE(r io.Reader) (string, string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r ")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "1 ") || strings.HasPrefix(line, "2 ") {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return "", "", err
	}
	if len(lines) < 2 {
		return "", "", errors.New("expected two element lines")
	}
	return lines[0], lines[1], nil
}

func generate(o options) error {
	g, err := orbit.NewGenerator(o.line1, o.line2)
	if err != nil {
		return err
	}
	pos, att, err := g.Generate(o.start, o.step, o.count)
	if err != nil {
		return err
	}
	if err := replay.WriteFile(o.positionPath, pos); err != nil {
		return fmt.Errorf("write positions: %w", err)
	}
	if err := replay.WriteFile(o.attitudePath, att); err != nil {
		return fmt.Errorf("write attitudes: %w", err)
	}
	return nil
}
