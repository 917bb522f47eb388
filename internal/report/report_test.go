package report

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/unbound-force/spindle/internal/trace"
)

// sampleTrace returns a replay that exercises hits, misses, and
// contamination in one run.
func sampleTrace() trace.Result {
	return trace.Run([]string{"R25", "L75", "LABC", "R50"}, 50)
}

// ---------------------------------------------------------------------------
// WriteText tests
// ---------------------------------------------------------------------------

func TestWriteText_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, trace.Run(nil, 50)); err != nil {
		t.Fatal(err)
	}

	output := buf.String()
	if !strings.Contains(output, "0 instruction(s)") {
		t.Errorf("expected '0 instruction(s)', got:\n%s", output)
	}
	if !strings.Contains(output, "No instructions to replay") {
		t.Errorf("expected 'No instructions to replay', got:\n%s", output)
	}
	if !strings.Contains(output, "0 zero crossing(s)") {
		t.Errorf("expected '0 zero crossing(s)', got:\n%s", output)
	}
}

func TestWriteText_RendersSteps(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleTrace()); err != nil {
		t.Fatal(err)
	}

	output := buf.String()
	for _, want := range []string{"R25", "L75", "LABC", "NaN", "1 zero crossing(s)"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
	if !strings.Contains(output, "from position 50") {
		t.Errorf("expected starting position in header, got:\n%s", output)
	}
}

// stripANSI removes ANSI escape sequences from text for width measurement.
var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

func TestWriteText_FitsIn80Columns(t *testing.T) {
	// Human-readable output fits in an 80-column terminal without
	// horizontal scrolling for typical instruction lists.
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleTrace()); err != nil {
		t.Fatal(err)
	}

	// Box-drawing runes are multi-byte but single-column, so width
	// is measured in runes, not bytes.
	const maxWidth = 80
	for i, line := range strings.Split(buf.String(), "\n") {
		plain := stripANSI(line)
		if width := utf8.RuneCountInString(plain); width > maxWidth {
			t.Errorf("line %d is %d columns wide (max %d): %q",
				i+1, width, maxWidth, plain)
		}
	}
}

// ---------------------------------------------------------------------------
// WriteJSON tests
// ---------------------------------------------------------------------------

func TestWriteJSON_EmptyStepsEncodeAsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, trace.Run(nil, 50)); err != nil {
		t.Fatal(err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	tr, ok := parsed["trace"].(map[string]any)
	if !ok {
		t.Fatalf("missing 'trace' object in %s", buf.String())
	}
	if _, ok := tr["steps"].([]any); !ok {
		t.Errorf("'steps' should encode as a JSON array, got %T", tr["steps"])
	}
}

func TestWriteJSON_ValidAgainstSchema(t *testing.T) {
	// Compile the embedded JSON Schema.
	sch, err := jsonschema.UnmarshalJSON(strings.NewReader(Schema))
	if err != nil {
		t.Fatalf("failed to parse schema JSON: %v", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", sch); err != nil {
		t.Fatalf("failed to add schema resource: %v", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		t.Fatalf("failed to compile schema: %v", err)
	}

	// Generate JSON output from sample data.
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleTrace()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	// Parse and validate against schema.
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}
	if err := compiled.Validate(inst); err != nil {
		t.Errorf("JSON output does not conform to schema:\n%v", err)
	}
}

func TestWriteJSON_NaNRendersVerbatim(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, trace.Run([]string{"LABC"}, 50)); err != nil {
		t.Fatal(err)
	}

	var parsed JSONReport
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(parsed.Trace.Steps) != 1 {
		t.Fatalf("got %d steps, want 1", len(parsed.Trace.Steps))
	}
	if parsed.Trace.Steps[0].Distance != "NaN" || parsed.Trace.Steps[0].Position != "NaN" {
		t.Errorf("step = %+v, want NaN distance and position", parsed.Trace.Steps[0])
	}
}
