package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerator_Deterministic(t *testing.T) {
	a := New(42).Rows(100)
	b := New(42).Rows(100)

	if len(a) != 100 || len(b) != 100 {
		t.Fatalf("expected 100 rows, got %d and %d", len(a), len(b))
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("row %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}

	c := New(43).Rows(100)
	same := 0
	for i := range a {
		if a[i] == c[i] {
			same++
		}
	}
	if same == 100 {
		t.Error("different seeds produced identical output")
	}
}

func TestGenerator_FieldDomains(t *testing.T) {
	rows := New(1).Rows(2000)

	validOS := map[string]bool{OSLinux: true, OSWindows: true, OSMac: true}
	validNice := map[string]bool{"yes": true, "no": true, "sometimes": true}

	for i, r := range rows {
		if !validOS[r.OS] {
			t.Fatalf("row %d: unexpected os %q", i, r.OS)
		}
		if r.Age < 18 || r.Age > 75 {
			t.Fatalf("row %d: age %d out of range", i, r.Age)
		}
		if !validNice[r.Nice] {
			t.Fatalf("row %d: unexpected is_nice %q", i, r.Nice)
		}
		if r.Name == "" || r.Country == "" || r.State == "" || r.Reason == "" {
			t.Fatalf("row %d: empty field: %+v", i, r)
		}
	}
}

func TestGenerator_MacAlwaysInsane(t *testing.T) {
	rows := New(7).Rows(5000)

	mac := 0
	for _, r := range rows {
		if r.OS != OSMac {
			continue
		}
		mac++
		if r.Insane != "yes" && r.Insane != "for sure" {
			t.Fatalf("mac user is not insane: %+v", r)
		}
	}
	if mac == 0 {
		t.Fatal("no mac users generated")
	}
}

func TestGenerator_LinuxMostlyNice(t *testing.T) {
	rows := New(7).Rows(5000)

	for _, r := range rows {
		if r.OS == OSLinux && r.Nice != "yes" {
			t.Fatalf("linux user is not nice: %+v", r)
		}
	}
}

func TestGenerator_BrazilBias(t *testing.T) {
	rows := New(3).Rows(10000)

	brazil := 0
	for _, r := range rows {
		if r.Country == "brazil" {
			brazil++
		}
	}

	// Mac rows use 0.8, the rest 0.7, so the blended rate sits around 0.73.
	ratio := float64(brazil) / float64(len(rows))
	if ratio < 0.65 || ratio > 0.85 {
		t.Errorf("brazil ratio %f outside expected band", ratio)
	}
}

func TestGenerator_OSDistribution(t *testing.T) {
	rows := New(11).Rows(20000)

	counts := map[string]int{}
	for _, r := range rows {
		counts[r.OS]++
	}

	for os, want := range map[string]float64{OSLinux: 0.35, OSWindows: 0.35, OSMac: 0.30} {
		got := float64(counts[os]) / float64(len(rows))
		if got < want-0.05 || got > want+0.05 {
			t.Errorf("os %s: ratio %f, want ~%f", os, got, want)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	rows := New(1).Rows(10)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows, true); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	if len(records) != 11 {
		t.Fatalf("expected header + 10 rows, got %d records", len(records))
	}

	if strings.Join(records[0], ",") != strings.Join(Header(), ",") {
		t.Errorf("unexpected header: %v", records[0])
	}

	for i, rec := range records[1:] {
		if len(rec) != len(Header()) {
			t.Errorf("row %d: %d fields, want %d", i, len(rec), len(Header()))
		}
	}
}

func TestAppendCSV_HeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.csv")

	if err := AppendCSV(path, New(1).Rows(5)); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := AppendCSV(path, New(2).Rows(5)); err != nil {
		t.Fatalf("second append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if got := strings.Count(string(data), "name,country,state"); got != 1 {
		t.Errorf("header written %d times, want 1", got)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 11 {
		t.Errorf("expected 11 records, got %d", len(records))
	}
}

func TestAppendCSV_EmptyRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := AppendCSV(path, nil); err != nil {
		t.Fatalf("append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	// A fresh file still gets its header.
	if !strings.HasPrefix(string(data), "name,country,state") {
		t.Errorf("expected header, got %q", string(data))
	}
}

func TestGenerateParallel(t *testing.T) {
	ctx := context.Background()

	rows, err := GenerateParallel(ctx, 42, 1000, 4)
	if err != nil {
		t.Fatalf("GenerateParallel: %v", err)
	}
	if len(rows) != 1000 {
		t.Fatalf("expected 1000 rows, got %d", len(rows))
	}

	again, err := GenerateParallel(ctx, 42, 1000, 4)
	if err != nil {
		t.Fatalf("GenerateParallel: %v", err)
	}
	for i := range rows {
		if rows[i] != again[i] {
			t.Fatalf("row %d differs between runs", i)
		}
	}
}

func TestGenerateParallel_EdgeCases(t *testing.T) {
	ctx := context.Background()

	rows, err := GenerateParallel(ctx, 1, 0, 4)
	if err != nil {
		t.Fatalf("n=0: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("n=0: expected no rows, got %d", len(rows))
	}

	rows, err = GenerateParallel(ctx, 1, 10, 0)
	if err != nil {
		t.Fatalf("workers=0: %v", err)
	}
	if len(rows) != 10 {
		t.Errorf("workers=0: expected 10 rows, got %d", len(rows))
	}

	// More workers than rows collapses to one shard per row.
	rows, err = GenerateParallel(ctx, 1, 3, 16)
	if err != nil {
		t.Fatalf("workers>n: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("workers>n: expected 3 rows, got %d", len(rows))
	}
}

func TestGenerateParallel_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GenerateParallel(ctx, 1, 1_000_000, 2)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
