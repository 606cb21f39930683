package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const tree = `0 HEAD
1 CHAR UTF-8
0 @I1@ INDI
1 NAME John /Smith/
1 BIRT
2 DATE 1850
1 DEAT
2 DATE 1911
1 FAMS @F1@
0 @I2@ INDI
1 NAME Mary /Jones/
1 FAMS @F1@
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I2@
0 @S1@ SOUR
1 TITL Parish register
0 TRLR
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tree.ged")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCheck(t *testing.T) {
	out, _, err := run(t, "check", writeFile(t, tree))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"UTF-8", "Records: 6", "Individuals: 2", "ok"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestCheck_Malformed(t *testing.T) {
	path := writeFile(t, "0 HEAD\nbroken\n0 TRLR\n")

	_, _, err := run(t, "check", path)
	if err == nil || !strings.Contains(err.Error(), "--lenient") {
		t.Fatalf("expected malformed line error with hint, got %v", err)
	}

	out, stderr, err := run(t, "check", "--lenient", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "1 malformed line(s) skipped") || !strings.Contains(out, "line 2:") {
		t.Errorf("expected skipped line report, got:\n%s", out)
	}
	if !strings.Contains(stderr, "level=WARN") {
		t.Errorf("expected warning log, got %q", stderr)
	}
}

func TestCheck_Structural(t *testing.T) {
	path := writeFile(t, "0 HEAD\n2 CHAR UTF-8\n")
	_, _, err := run(t, "check", "--lenient", path)
	if err == nil || !strings.Contains(err.Error(), "structural") {
		t.Fatalf("expected structural error, got %v", err)
	}
}

func TestCheck_MissingFile(t *testing.T) {
	if _, _, err := run(t, "check", filepath.Join(t.TempDir(), "nope.ged")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestCheck_BadLogFormat(t *testing.T) {
	if _, _, err := run(t, "check", "--log-format", "xml", writeFile(t, tree)); err == nil {
		t.Fatal("expected error for unknown log format")
	}
}

func TestTree(t *testing.T) {
	path := writeFile(t, tree)

	out, _, err := run(t, "tree", path, "--xref", "F1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "0 @F1@ FAM\n  1 HUSB @I1@\n  1 WIFE @I2@\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}

	out, _, err = run(t, "tree", path, "--depth", "0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "NAME") {
		t.Errorf("expected depth 0 to hide substructures, got:\n%s", out)
	}
	if !strings.Contains(out, "0 TRLR") {
		t.Errorf("expected every record, got:\n%s", out)
	}
}

func TestShow(t *testing.T) {
	path := writeFile(t, tree)

	out, _, err := run(t, "show", path, "@I1@")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "# John Smith (1850-1911)") {
		t.Errorf("expected markdown report, got:\n%s", out)
	}

	out, _, err = run(t, "show", path, "S1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"title": "Parish register"`) {
		t.Errorf("expected JSON source, got:\n%s", out)
	}

	if _, _, err := run(t, "show", path, "X9"); err == nil {
		t.Error("expected error for unknown pointer")
	}
}

func TestFind(t *testing.T) {
	path := writeFile(t, tree)

	out, _, err := run(t, "find", path, "surname=smith")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "@I1@") || strings.Contains(out, "@I2@") {
		t.Errorf("expected only @I1@, got:\n%s", out)
	}
	if !strings.Contains(out, "(1850-1911)") || !strings.Contains(out, "1 match(es)") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, _, err := run(t, "find", path, "shoe_size=9"); err == nil {
		t.Error("expected error for unknown criteria key")
	}
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "--version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "gedtree dev") {
		t.Errorf("expected version banner, got %q", out)
	}
}
