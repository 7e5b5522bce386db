package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/porticus-lab/go-html-xml/internal/pdfxml"
)

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestExtract_Snapshot(t *testing.T) {
	stdout, _, err := run(t, "extract", "--snapshot", "testdata/page.yaml")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	doc, err := pdfxml.Unmarshal([]byte(stdout))
	if err != nil {
		t.Fatalf("output is not a layout document: %v\n%s", err, stdout)
	}
	if doc.XMLName.Local != "html2xml" {
		t.Errorf("root = %q", doc.XMLName.Local)
	}
	if n := len(doc.Pages[0].Texts); n != 3 {
		t.Errorf("got %d texts, want 3", n)
	}
}

func TestExtract_SnapshotToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xml")
	stdout, _, err := run(t, "extract", "--snapshot", "--root-tag", "rhtml", "-o", path, "testdata/page.yaml")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if stdout != "" {
		t.Errorf("unexpected stdout: %q", stdout)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`<!DOCTYPE rhtml SYSTEM "rhtml.dtd">`)) {
		t.Errorf("output is not rhtml:\n%s", data)
	}
}

func TestExtract_LegacyTruncation(t *testing.T) {
	stdout, _, err := run(t, "extract", "--snapshot", "--legacy-truncation", "testdata/page.yaml")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if strings.Contains(stdout, "second line") {
		t.Errorf("legacy output kept the second line:\n%s", stdout)
	}
}

func TestExtract_MissingArgument(t *testing.T) {
	if _, _, err := run(t, "extract"); err == nil {
		t.Fatal("expected usage error without an input")
	}
}

func TestExtract_DebugLogsToStderr(t *testing.T) {
	stdout, stderr, err := run(t, "extract", "--snapshot", "--debug", "testdata/page.yaml")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(stderr, "built text chunks") {
		t.Errorf("missing debug diagnostics on stderr: %s", stderr)
	}
	if strings.Contains(stdout, "built text chunks") {
		t.Error("diagnostics leaked into the XML output")
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.xml")
	if _, _, err := run(t, "extract", "--snapshot", "-o", good, "testdata/page.yaml"); err != nil {
		t.Fatal(err)
	}
	stdout, _, err := run(t, "inspect", good)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !strings.Contains(stdout, "page 1: 784x65, 2 fonts, 3 texts") {
		t.Errorf("unexpected summary:\n%s", stdout)
	}

	empty := filepath.Join(dir, "empty.xml")
	if err := os.WriteFile(empty, []byte(`<pdf2xml><page number="1"><text>12 34</text></page></pdf2xml>`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := run(t, "inspect", empty); !errors.Is(err, errNoText) {
		t.Errorf("inspect without text: %v, want errNoText", err)
	}
}

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"https://example.com":          true,
		"http://localhost:8080/a.html": true,
		"file:///tmp/page.html":        true,
		"page.html":                    false,
		"./dir/page.html":              false,
		"C:/pages/page.html":           false,
	}
	for in, want := range tests {
		if got := isURL(in); got != want {
			t.Errorf("isURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "html2xml.yaml")
	err := os.WriteFile(path, []byte("root_tag: rhtml\ntimeout: 5s\nsegmentation_timeout: 3s\nno_sandbox: true\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("HTML2XML_TIMEOUT", "7s")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RootTag != "rhtml" || !cfg.NoSandbox {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Timeout != 7*time.Second {
		t.Errorf("timeout = %v, want env value 7s", cfg.Timeout)
	}
	if cfg.SegmentationTimeout != 3*time.Second {
		t.Errorf("segmentation timeout = %v, want file value 3s", cfg.SegmentationTimeout)
	}
	if cfg.ViewportWidth != 1280 {
		t.Errorf("viewport width = %d, want default 1280", cfg.ViewportWidth)
	}

	cmd := newRootCmd()
	fs := cmd.PersistentFlags()
	if err := fs.Parse([]string{"--timeout", "9s", "--root-tag", "pdf2xml"}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.applyFlags(fs); err != nil {
		t.Fatal(err)
	}
	if cfg.Timeout != 9*time.Second || cfg.RootTag != "pdf2xml" {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.SegmentationTimeout != 3*time.Second {
		t.Errorf("unset flag overrode segmentation timeout: %v", cfg.SegmentationTimeout)
	}
}

func TestLoadConfig_ScaleFactorAndBodyLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "html2xml.yaml")
	if err := os.WriteFile(path, []byte("device_scale_factor: 1.5\nmax_body_bytes: 2048\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HTML2XML_DEVICE_SCALE_FACTOR", "2")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ScaleFactor != 2 {
		t.Errorf("scale factor = %v, want env value 2", cfg.ScaleFactor)
	}
	if cfg.MaxBodyBytes != 2048 {
		t.Errorf("max body bytes = %d, want file value 2048", cfg.MaxBodyBytes)
	}

	t.Setenv("HTML2XML_MAX_BODY_BYTES", "4096")
	if cfg, err = loadConfig(path); err != nil {
		t.Fatal(err)
	}
	if cfg.MaxBodyBytes != 4096 {
		t.Errorf("max body bytes = %d, want env value 4096", cfg.MaxBodyBytes)
	}

	root := newRootCmd()
	serve, _, err := root.Find([]string{"serve"})
	if err != nil {
		t.Fatal(err)
	}
	fs := serve.Flags()
	fs.AddFlagSet(root.PersistentFlags())
	if err := fs.Parse([]string{"--device-scale-factor", "3", "--max-body-bytes", "512"}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.applyFlags(fs); err != nil {
		t.Fatal(err)
	}
	if cfg.ScaleFactor != 3 || cfg.MaxBodyBytes != 512 {
		t.Errorf("flags not applied: scale %v, body %d", cfg.ScaleFactor, cfg.MaxBodyBytes)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
