package repl

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sambeau/monkey/pkg/monkey/evaluator"
	"github.com/sambeau/monkey/pkg/monkey/transcript"
)

type memoryRecorder struct {
	entries []transcript.Entry
}

func (m *memoryRecorder) Record(_ context.Context, e transcript.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}

func runREPL(t *testing.T, input string, opts Options) string {
	t.Helper()
	var out bytes.Buffer
	if err := Start(strings.NewReader(input), &out, opts); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	return out.String()
}

func TestEvaluatesLines(t *testing.T) {
	out := runREPL(t, "let x = 5;\nx * 2\n", Options{})

	want := ">> 5\n>> 10\n>> \n"
	if out != want {
		t.Errorf("unexpected output:\n got %q\nwant %q", out, want)
	}
}

func TestQuitEndsSession(t *testing.T) {
	out := runREPL(t, "1\nquit\n2\n", Options{})

	if strings.Contains(out, "2\n") {
		t.Errorf("input after quit should not be evaluated: %q", out)
	}
	if !strings.HasPrefix(out, ">> 1\n") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestParseErrorsAreIndented(t *testing.T) {
	out := runREPL(t, "let = 5;\n", Options{})

	if !strings.Contains(out, "\texpected next token to be IDENT, got =\n") {
		t.Errorf("expected tab-indented diagnostic, got %q", out)
	}
}

func TestRuntimeErrorPrinted(t *testing.T) {
	out := runREPL(t, "5 + true;\n", Options{})

	if !strings.Contains(out, "ERROR:type mismatch: INTEGER + BOOL") {
		t.Errorf("expected runtime error, got %q", out)
	}
}

func TestMultiLineInput(t *testing.T) {
	input := "let add = fn(a, b) {\n  a + b\n};\nadd(2, 3)\n"
	out := runREPL(t, input, Options{})

	if !strings.Contains(out, ".. ") {
		t.Errorf("expected continuation prompt, got %q", out)
	}
	if !strings.Contains(out, "5\n") {
		t.Errorf("expected result 5, got %q", out)
	}
}

func TestPutsGoesToOutput(t *testing.T) {
	out := runREPL(t, "puts(\"hello\")\n", Options{})

	if !strings.Contains(out, "hello\nnull\n") {
		t.Errorf("expected puts output then null, got %q", out)
	}
}

func TestCommands(t *testing.T) {
	t.Run("env", func(t *testing.T) {
		out := runREPL(t, ":env\nlet a = 1;\nlet s = \"hi\";\n:env\n", Options{})
		if !strings.Contains(out, "(no user variables)") {
			t.Errorf("expected empty env listing, got %q", out)
		}
		if !strings.Contains(out, "  a: INTEGER = 1\n") || !strings.Contains(out, "  s: STRING = hi\n") {
			t.Errorf("expected bindings listed, got %q", out)
		}
	})

	t.Run("env truncates long values on character boundaries", func(t *testing.T) {
		long := strings.Repeat("é", 70)
		out := runREPL(t, "let s = \""+long+"\";\n:env\n", Options{})
		if !utf8.ValidString(out) {
			t.Fatalf("output is not valid UTF-8: %q", out)
		}
		want := "  s: STRING = " + strings.Repeat("é", 57) + "...\n"
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	})

	t.Run("clear", func(t *testing.T) {
		out := runREPL(t, "let a = 1;\n:clear\na\n", Options{})
		if !strings.Contains(out, "Environment cleared") {
			t.Errorf("expected clear confirmation, got %q", out)
		}
		if !strings.Contains(out, "identifier not found: a") {
			t.Errorf("binding should be gone after :clear, got %q", out)
		}
	})

	t.Run("help", func(t *testing.T) {
		out := runREPL(t, ":help\n", Options{})
		if !strings.Contains(out, "REPL Commands:") {
			t.Errorf("expected help text, got %q", out)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		out := runREPL(t, ":nope\n", Options{})
		if !strings.Contains(out, "Unknown command: :nope") {
			t.Errorf("expected unknown command message, got %q", out)
		}
	})
}

func TestCustomPromptsAndBanner(t *testing.T) {
	out := runREPL(t, "if (true) {\n1 }\n", Options{
		Prompt:             "m> ",
		ContinuationPrompt: "m. ",
		Banner:             true,
		Version:            "v1.2.3",
	})

	if !strings.Contains(out, "monkey v1.2.3") {
		t.Errorf("expected banner with version, got %q", out)
	}
	if !strings.Contains(out, "m> m. 1\n") {
		t.Errorf("expected custom prompts, got %q", out)
	}
}

func TestRecorderReceivesEntries(t *testing.T) {
	rec := &memoryRecorder{}
	runREPL(t, "1 + 1\nfoo\nlet x 1\n", Options{Recorder: rec, SessionID: "abc"})

	if len(rec.entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(rec.entries))
	}

	tests := []struct {
		input  string
		output string
		kind   transcript.Kind
	}{
		{"1 + 1", "2", transcript.KindValue},
		{"foo", "identifier not found: foo", transcript.KindError},
		{"let x 1", "expected next token to be =, got INT", transcript.KindParseError},
	}
	for i, tt := range tests {
		e := rec.entries[i]
		if e.Input != tt.input || e.Output != tt.output || e.Kind != tt.kind || e.Session != "abc" {
			t.Errorf("entry %d: got %+v, want input=%q output=%q kind=%q", i, e, tt.input, tt.output, tt.kind)
		}
	}
}

func TestNeedsMoreInput(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1 + 2", false},
		{"fn(x) {", true},
		{"fn(x) { x }", false},
		{"add(1,", true},
		{`"{"`, false},
		{"let x = 1; // {", false},
		{"if (x) {\n  // }\n", true},
		{"}", false},
	}
	for _, tt := range tests {
		if got := needsMoreInput(tt.input); got != tt.want {
			t.Errorf("needsMoreInput(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCompletion(t *testing.T) {
	env := evaluator.NewEnvironment()
	env.Set("counter", &evaluator.Integer{Value: 1})
	words := completionWords(env)

	tests := []struct {
		line string
		want []string
	}{
		{"le", []string{"len", "let"}},
		{"let y = cou", []string{"let y = counter"}},
		{"pu", []string{"puts"}},
		{"", nil},
		{"let ", nil},
		{"zzz", nil},
	}
	for _, tt := range tests {
		got := filterCompletions(tt.line, words)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("filterCompletions(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
