package news

import (
	"strings"
	"testing"
)

func testAnnouncementPage() string {
	return `<!DOCTYPE html>
<html>
<head><title>Workshop Registration Opens</title></head>
<body>
	<nav><a href="/">Home</a> <a href="/blog">Blog</a></nav>
	<article>
		<h1>Workshop Registration Opens</h1>
		<p>Registration for this year's hands-on workshops is now open. Seats are
		limited and workshops regularly sell out within the first week, so we
		recommend registering early if there is a session you do not want to miss.</p>
		<p>This year's lineup covers laser cutting, PCB design, and an introduction
		to embedded Rust. Every workshop includes all materials, and no prior
		experience is required for the introductory sessions.</p>
		<p>Workshop tickets are separate from conference admission. Holders of a
		full conference pass receive a discount code by email that applies to any
		workshop of their choice during checkout.</p>
	</article>
	<footer>Copyright Maker Conf</footer>
</body>
</html>`
}

func TestExtractContent(t *testing.T) {
	extractor := NewContentExtractor()

	content, err := extractor.Run([]byte(testAnnouncementPage()), "https://blog.example.com/workshops")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(content, "hands-on workshops") {
		t.Errorf("Expected extracted content to contain the article body, got: %s", content)
	}
}

func TestExtractContentEmptyInput(t *testing.T) {
	extractor := NewContentExtractor()

	if _, err := extractor.Run(nil, "https://blog.example.com/workshops"); err == nil {
		t.Error("Expected error for empty page data")
	}
}

func TestExtractContentUnparseableURL(t *testing.T) {
	extractor := NewContentExtractor()

	content, err := extractor.Run([]byte(testAnnouncementPage()), "://not-a-url")
	if err != nil {
		t.Fatalf("Expected extraction to proceed without a base URL, got: %v", err)
	}
	if content == "" {
		t.Error("Expected content despite unparseable page URL")
	}
}
