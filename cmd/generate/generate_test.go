package generate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/klytics/sheetxml/internal/formats/xlsx"
)

const testMapping = `{"from": 2, "struct": {"Main": {
	"Items": [{"Item": {"Name": {"col": 1}, "Qty": {"col": 2}}}]
}}}`

func writeFixture(t *testing.T) (dir, input, mappingPath string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("HOME", dir)
	viper.Reset()
	t.Cleanup(viper.Reset)

	input = filepath.Join(dir, "data.xlsx")
	rows := [][]string{{"Name", "Qty"}, {"pen", "2"}, {"pad", "5"}}
	if err := xlsx.WriteSheet(input, &xlsx.Sheet{Rows: rows}); err != nil {
		t.Fatalf("could not write workbook: %v", err)
	}

	mappingPath = filepath.Join(dir, "mapping.json")
	if err := os.WriteFile(mappingPath, []byte(testMapping), 0644); err != nil {
		t.Fatalf("could not write mapping: %v", err)
	}
	return dir, input, mappingPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateToStdout(t *testing.T) {
	_, input, mappingPath := writeFixture(t)

	out, err := runCommand(t, input, "--mapping", mappingPath, "--indent", "0")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.Contains(out, "<Item><Name>pen</Name><Qty>2</Qty></Item>") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("missing XML declaration:\n%s", out)
	}
}

func TestGenerateToFile(t *testing.T) {
	dir, input, mappingPath := writeFixture(t)
	output := filepath.Join(dir, "out.xml")

	out, err := runCommand(t, input, output, "--mapping", mappingPath)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.Contains(out, "Generated:") {
		t.Errorf("expected a summary line, got:\n%s", out)
	}
	if !strings.Contains(out, "2 row(s) used, 1 skipped") {
		t.Errorf("expected row counts in the summary, got:\n%s", out)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if !strings.Contains(string(data), "<Name>pad</Name>") {
		t.Errorf("unexpected file contents:\n%s", data)
	}
}

func TestGenerateRejectsNonXlsxInput(t *testing.T) {
	writeFixture(t)

	_, err := runCommand(t, "data.csv")
	if err == nil {
		t.Fatal("expected an error for a non-.xlsx input")
	}
	if !strings.Contains(err.Error(), ".xlsx") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGenerateMappingFromConfigDefault(t *testing.T) {
	dir, input, _ := writeFixture(t)

	// With no --mapping flag the configured default file name is used,
	// resolved relative to the working directory.
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })

	out, err := runCommand(t, input, "--indent", "0")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.Contains(out, "<Name>pen</Name>") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestGenerateMissingMapping(t *testing.T) {
	_, input, _ := writeFixture(t)

	_, err := runCommand(t, input, "--mapping", "absent.json")
	if err == nil {
		t.Fatal("expected an error for a missing mapping document")
	}
}
