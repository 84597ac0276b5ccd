package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/trackmap/pkg/buildinfo"
	"github.com/matzehuels/trackmap/pkg/cache"
	"github.com/matzehuels/trackmap/pkg/errors"
	"github.com/matzehuels/trackmap/pkg/geometry"
	"github.com/matzehuels/trackmap/pkg/payload"
)

const sectionArrayDoc = `[
	{"id": 10, "name": "North", "section_number": 1, "x": 0, "y": 0, "rows": [
		{"id": 11, "row_number": 1, "trackers": [
			{"id": 13, "title": "B", "position": 1},
			{"id": 12, "title": "A", "position": 0, "ext": {"stakeCount": 4}}
		]}
	]}
]`

// isolate points configuration and storage at a temporary directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TRACKMAP_CONFIG", filepath.Join(dir, "config.toml"))
	t.Setenv("TRACKMAP_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("TRACKMAP_CACHE", "none")
	t.Setenv("TRACKMAP_BACKEND", "file")
	t.Setenv("TRACKMAP_REMOTE_URL", "")
	t.Setenv("TRACKMAP_PROJECT", "")
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the CLI and returns stdout and stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "", "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "trackmap version "+buildinfo.Version) {
		t.Errorf("--version = %q", out)
	}
}

func TestInspect(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "field.json", sectionArrayDoc)

	out, _, err := run(t, "", "inspect", "--json", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	var got struct {
		Shape    string `json:"shape"`
		Sections int    `json:"sections"`
		Trackers int    `json:"trackers"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Shape != "section-array" || got.Sections != 1 || got.Trackers != 2 {
		t.Errorf("inspect = %+v", got)
	}

	out, _, err = run(t, "", "inspect", "--tree", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"section-array", "1 sections", "North", "Row 1", "A", "4 stakes"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect --tree missing %q:\n%s", want, out)
		}
	}
}

func TestInspectErrors(t *testing.T) {
	dir := isolate(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing file", []string{"inspect", filepath.Join(dir, "nope.json")}, errors.ErrCodeFileNotFound},
		{"malformed", []string{"inspect", writeFile(t, dir, "bad.json", `{"groups": [`)}, errors.ErrCodeInvalidFormat},
		{"scalar", []string{"inspect", writeFile(t, dir, "num.json", `7`)}, errors.ErrCodeInvalidShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "", tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "field.json", sectionArrayDoc)
	outPath := filepath.Join(dir, "canonical.json")

	if _, stderr, err := run(t, "", "convert", in, "-o", outPath); err != nil {
		t.Fatalf("convert: %v", err)
	} else if !strings.Contains(stderr, "Converted section-array layout") {
		t.Errorf("stderr = %q", stderr)
	}
	doc, shape, err := payload.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if shape != payload.ShapeCanonical {
		t.Errorf("shape = %v", shape)
	}
	tr := doc.Groups[0].Rows[0].Trackers
	if tr[0].Title != "A" || tr[1].Title != "B" {
		t.Errorf("trackers not ordered by position: %+v", tr)
	}

	stdout, _, err := run(t, `{"loose": [{"title": "x"}]}`, "convert", "-")
	if err != nil {
		t.Fatal(err)
	}
	loose := payload.MustParse(stdout).Loose
	if len(loose) != 1 || loose[0].ID == "" {
		t.Errorf("converted loose = %+v, want a generated id", loose)
	}
}

func TestContour(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "measure.json", `[
		{"kind": "row", "id": "b", "rect": {"left": 1000, "top": 560, "right": 1200, "bottom": 620}},
		{"kind": "item", "id": "i3", "parent": "b", "rect": {"left": 1010, "top": 570, "right": 1150, "bottom": 610}},
		{"kind": "row", "id": "a", "rect": {"left": 1000, "top": 500, "right": 1200, "bottom": 560}},
		{"kind": "item", "id": "i1", "parent": "a", "rect": {"left": 1010, "top": 510, "right": 1050, "bottom": 550}},
		{"kind": "item", "id": "i2", "parent": "a", "rect": {"left": 1060, "top": 510, "right": 1100, "bottom": 550}}
	]`)

	out, _, err := run(t, "", "contour", "--x", "1000", "--y", "500", path)
	if err != nil {
		t.Fatalf("contour: %v", err)
	}
	var c geometry.Contour
	if err := json.Unmarshal([]byte(out), &c); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if c.Width != 168 || c.Height != 120 || len(c.Rows) != 2 || c.Rows[0].RowID != "a" {
		t.Errorf("contour = %+v", c)
	}

	out, _, err = run(t, "", "contour", "--path", "--x", "1000", "--y", "500", path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != c.Path || !strings.HasPrefix(out, "M 0.5 0.5") {
		t.Errorf("--path = %q, want %q", out, c.Path)
	}

	if _, _, err := run(t, "", "contour", "--section", "north", path); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unmeasured section err = %v, want NOT_FOUND", err)
	}

	if _, _, err := run(t, "", "contour", writeFile(t, dir, "bad.json", `{}`)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("object input err = %v, want INVALID_FORMAT", err)
	}
}

func TestContourSection(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "measure.json", `[
		{"kind": "row", "id": "a", "parent": "north", "rect": {"left": 1000, "top": 500, "right": 1200, "bottom": 560}},
		{"kind": "item", "id": "i1", "parent": "a", "rect": {"left": 1010, "top": 510, "right": 1050, "bottom": 550}},
		{"kind": "row", "id": "z", "parent": "south", "rect": {"left": 0, "top": 0, "right": 100, "bottom": 60}},
		{"kind": "item", "id": "i9", "parent": "z", "rect": {"left": 10, "top": 10, "right": 50, "bottom": 50}}
	]`)

	out, _, err := run(t, "", "contour", "--section", "north", "--x", "1000", "--y", "500", path)
	if err != nil {
		t.Fatalf("contour: %v", err)
	}
	var c geometry.Contour
	if err := json.Unmarshal([]byte(out), &c); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(c.Rows) != 1 || c.Rows[0].RowID != "a" {
		t.Errorf("rows = %+v, want only the north row", c.Rows)
	}
}

func TestDiagram(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "field.json", sectionArrayDoc)

	out, _, err := run(t, "", "diagram", in)
	if err != nil {
		t.Fatalf("diagram: %v", err)
	}
	if !strings.HasPrefix(out, "digraph field {") || !strings.Contains(out, `"section:10" -> "row:11";`) {
		t.Errorf("diagram DOT:\n%s", out)
	}

	svgPath := filepath.Join(dir, "field.svg")
	if _, _, err := run(t, "", "diagram", "-d", in, "-o", svgPath); err != nil {
		t.Fatalf("diagram svg: %v", err)
	}
	svg, _ := os.ReadFile(svgPath)
	if !bytes.HasPrefix(bytes.TrimSpace(svg), []byte("<")) || !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("not an SVG: %.200s", svg)
	}

	_, _, err = run(t, "", "diagram", in, "-o", filepath.Join(dir, "field.png"))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("png err = %v, want UNSUPPORTED", err)
	}
}

func TestDiagramFormat(t *testing.T) {
	tests := []struct {
		flag, output, want string
		wantErr            bool
	}{
		{"", "", formatDOT, false},
		{"", "out.gv", formatDOT, false},
		{"", "out.SVG", formatSVG, false},
		{"dot", "out.svg", formatDOT, false},
		{"", "out.pdf", "", true},
	}
	for _, tt := range tests {
		got, err := diagramFormat(tt.flag, tt.output)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("diagramFormat(%q, %q) = %q, %v", tt.flag, tt.output, got, err)
		}
	}
}

func TestPushPull(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "field.json", sectionArrayDoc)

	out, _, err := run(t, "", "push", "-p", "p1", "--field", "main", "-w", in)
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if !strings.Contains(out, "Saved p1/main") {
		t.Errorf("push output = %q", out)
	}
	written, _, _ := payload.ReadFile(in)
	if written.Groups[0].RemoteID == 0 {
		t.Error("--write should record backend identities in the file")
	}

	if _, err := os.Stat(filepath.Join(dir, "data", "p1", "main.json")); err != nil {
		t.Errorf("file backend entry missing: %v", err)
	}

	pulled := filepath.Join(dir, "pulled.json")
	if _, _, err := run(t, "", "pull", "-p", "p1", "main", "-o", pulled); err != nil {
		t.Fatalf("pull: %v", err)
	}
	doc, _, err := payload.ReadFile(pulled)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Counts() != written.Counts() || doc.Groups[0].Name != "North" {
		t.Errorf("pulled = %+v", doc)
	}
	if doc.Groups[0].RemoteID == 0 {
		t.Error("pulled documents carry backend identities")
	}
}

func TestPushRequiresSectionAndProject(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "loose.json", `{"loose": [{"id": "a"}]}`)

	_, _, err := run(t, "", "push", "-p", "p1", in)
	if !errors.Is(err, errors.ErrCodeSectionRequired) {
		t.Errorf("err = %v, want SECTION_REQUIRED", err)
	}
	if got := errors.UserMessage(err); got != "at least one section is required before saving" {
		t.Errorf("UserMessage = %q", got)
	}

	if _, _, err := run(t, "", "push", in); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT without a project", err)
	}
}

func TestPullMissingField(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "", "pull", "-p", "p1", "ghost")
	if !errors.Is(err, errors.ErrCodeFieldNotFound) {
		t.Errorf("err = %v, want FIELD_NOT_FOUND", err)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := isolate(t)
	cacheDir := filepath.Join(dir, "cache")
	t.Setenv("TRACKMAP_CACHE", "file")
	t.Setenv("TRACKMAP_CACHE_DIR", cacheDir)

	out, _, err := run(t, "", "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != cacheDir {
		t.Errorf("cache path = %q, want %q", out, cacheDir)
	}

	fc, err := cache.NewFileCache(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b"} {
		_ = fc.Set(context.Background(), k, []byte(k), 0)
	}
	out, _, err = run(t, "", "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 2 cached entries") {
		t.Errorf("cache clear output = %q", out)
	}
	if _, hit, _ := fc.Get(context.Background(), "a"); hit {
		t.Error("entry survived cache clear")
	}

	out, _, err = run(t, "", "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("second clear output = %q", out)
	}
}

func TestConfigCommands(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "config.toml", "project = \"solar\"\n\n[remote]\ntoken = \"hunter2\"\n")

	out, _, err := run(t, "", "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != filepath.Join(dir, "config.toml") {
		t.Errorf("config path = %q", out)
	}

	out, _, err = run(t, "", "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `project = "solar"`) || strings.Contains(out, "hunter2") {
		t.Errorf("config show:\n%s", out)
	}

	writeFile(t, dir, "config.toml", "bogus = 1\n")
	if _, _, err := run(t, "", "config", "show"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown key err = %v", err)
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "", "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "trackmap") {
		t.Error("bash completion should mention the command name")
	}
	if _, _, err := run(t, "", "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}
