package action

import (
	"strings"
	"testing"
)

func TestHTMLToText_RemovesScriptStyle(t *testing.T) {
	raw := `
<body>
	<div id="main">Hello</div>
	<script>alert("hi")</script>
	<style>.x {}</style>
</body>`

	out := htmlToText(raw)

	if strings.Contains(out, "alert") || strings.Contains(out, ".x {}") {
		t.Errorf("script/style content must be removed, output: %s", out)
	}
	if !strings.Contains(out, "Hello") {
		t.Errorf("expected to keep visible text, got: %s", out)
	}
}

func TestHTMLToText_RemovesComments(t *testing.T) {
	raw := `<body><!-- hidden note --><div>Text</div></body>`

	out := htmlToText(raw)

	if strings.Contains(out, "hidden note") {
		t.Errorf("HTML comments must be removed, got: %s", out)
	}
}

func TestHTMLToText_KeepsLinkTargets(t *testing.T) {
	raw := `<body><p>See <a href="https://example.com/docs">the docs</a> for more.</p></body>`

	out := htmlToText(raw)

	if !strings.Contains(out, "the docs") || !strings.Contains(out, "https://example.com/docs") {
		t.Errorf("link text and target must survive, got: %s", out)
	}
}

func TestHTMLToText_BlocksBecomeLines(t *testing.T) {
	raw := `<body><h1>Title</h1><p>First</p><p>Second</p></body>`

	out := htmlToText(raw)

	lines := strings.Split(out, "\n")
	if len(lines) < 3 {
		t.Errorf("expected block elements on separate lines, got: %q", out)
	}
}

func TestHTMLToText_EmptyAndBrokenInput(t *testing.T) {
	if out := htmlToText(""); strings.TrimSpace(out) != "" {
		t.Errorf("empty input must produce empty output, got: %q", out)
	}

	// x/net/html is lenient, broken markup still parses.
	out := htmlToText("<div><p>unclosed")
	if !strings.Contains(out, "unclosed") {
		t.Errorf("broken markup should still yield its text, got: %q", out)
	}
}
