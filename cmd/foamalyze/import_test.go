package main

import (
	"os"
	"path/filepath"
	"testing"
)

const singleBlock = `Test setup: foam compression
Operator: lab

Data Acquisition 2023-04-12 10:31:02
Time	Displacement	Force
s	mm	N
0.0	0.00	-5.2
0.1	-0.05	-110.0
status: crosshead moving
0.2	-0.10	-230.5
0.3	-0.15	-355.1
`

const twoBlocks = `Data Acquisition hysteresis run
Time	Displacement	Force
s	mm	N
0.0	-1.00	-700.0
0.1	-0.95	-500.0
Data Acquisition main run
Time	Displacement	Force
s	mm	N
0.0	0.00	-5.0
0.1	-0.10	-200.0
0.2	-0.20	-400.0
`

func writeDat(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.dat")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func TestReadDatSingleBlock(t *testing.T) {
	blocks, err := ReadDat(writeDat(t, singleBlock))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	m := blocks[0]
	if m.Len() != 4 {
		t.Fatalf("got %d rows, want 4 (status line skipped)", m.Len())
	}
	if m.Force[1] != -110.0 || m.Displacement[1] != -0.05 || m.Time[1] != 0.1 {
		t.Errorf("row 1 = (%v, %v, %v), columns mapped wrong",
			m.Time[1], m.Displacement[1], m.Force[1])
	}
}

func TestReadDatTwoBlocks(t *testing.T) {
	blocks, err := ReadDat(writeDat(t, twoBlocks))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Len() != 2 || blocks[1].Len() != 3 {
		t.Errorf("block sizes = %d/%d, want 2/3", blocks[0].Len(), blocks[1].Len())
	}
	if blocks[0].Force[0] != -700.0 {
		t.Errorf("hysteresis block force[0] = %v, want -700", blocks[0].Force[0])
	}
}

func TestReadDatErrors(t *testing.T) {
	if _, err := ReadDat(writeDat(t, "no marker here\n1 2 3\n")); err == nil {
		t.Error("expected error for missing marker")
	}
	missingCol := "Data Acquisition\nTime Displacement\ns mm\n0.0 0.1\n"
	if _, err := ReadDat(writeDat(t, missingCol)); err == nil {
		t.Error("expected error for missing force column")
	}
	if _, err := ReadDat(filepath.Join(t.TempDir(), "nope.dat")); err == nil {
		t.Error("expected error for missing file")
	}
}
