package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// blockMarker starts each acquisition block in the load-frame .dat
// export. The two lines after it carry the column headers and units;
// data rows follow.
const blockMarker = "Data Acquisition"

// Measurement is one acquisition block's channels.
type Measurement struct {
	Time         []float64
	Force        []float64
	Displacement []float64
}

func (m Measurement) Len() int { return len(m.Force) }

// ReadDat parses a load-frame .dat export. Files with an unloading
// loop carry two blocks: the hysteresis block first, then the main
// compression run. Non-numeric rows (status messages, repeated
// headers) are skipped.
func ReadDat(path string) ([]Measurement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var blocks []Measurement
	for i := 0; i < len(lines); i++ {
		if !strings.HasPrefix(lines[i], blockMarker) {
			continue
		}
		block, next, err := parseBlock(lines, i)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		blocks = append(blocks, block)
		i = next - 1
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%s: no %q block found", path, blockMarker)
	}
	return blocks, nil
}

// parseBlock reads one block starting at the marker line and returns
// the index of the line after the block.
func parseBlock(lines []string, marker int) (Measurement, int, error) {
	if marker+3 > len(lines) {
		return Measurement{}, len(lines), fmt.Errorf("truncated block at line %d", marker+1)
	}
	headers := strings.Fields(lines[marker+1])
	timeCol, forceCol, dispCol := -1, -1, -1
	for i, h := range headers {
		switch h {
		case "Time":
			timeCol = i
		case "Force":
			forceCol = i
		case "Displacement":
			dispCol = i
		}
	}
	if timeCol < 0 || forceCol < 0 || dispCol < 0 {
		return Measurement{}, len(lines), fmt.Errorf(
			"block at line %d is missing Time, Force or Displacement columns", marker+1)
	}

	var m Measurement
	i := marker + 3
	for ; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], blockMarker) {
			break
		}
		fields := strings.Fields(lines[i])
		if len(fields) <= timeCol || len(fields) <= forceCol || len(fields) <= dispCol {
			continue
		}
		t, errT := strconv.ParseFloat(fields[timeCol], 64)
		f, errF := strconv.ParseFloat(fields[forceCol], 64)
		d, errD := strconv.ParseFloat(fields[dispCol], 64)
		if errT != nil || errF != nil || errD != nil {
			continue
		}
		m.Time = append(m.Time, t)
		m.Force = append(m.Force, f)
		m.Displacement = append(m.Displacement, d)
	}
	if m.Len() == 0 {
		return Measurement{}, i, fmt.Errorf("block at line %d has no data rows", marker+1)
	}
	return m, i, nil
}
