package ai

import "testing"

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{"plain object", `{"a":1}`, `{"a":1}`, false},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`, false},
		{"fenced without language", "```\n{\"a\":1}\n```", `{"a":1}`, false},
		{"prose around object", `Here is the data: {"a":1} hope it helps`, `{"a":1}`, false},
		{"trailing comma in object", `{"a":1,}`, `{"a":1}`, false},
		{"trailing comma in array", `{"a":[1,2,],}`, `{"a":[1,2]}`, false},
		{"nested objects", `{"a":{"b":2}}`, `{"a":{"b":2}}`, false},
		{"no object at all", "sorry, I can't do that", "", true},
		{"unclosed object", `{"a":1`, "", true},
		{"still broken after fixes", `{"a": unquoted}`, "", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ExtractJSON(c.content)
			if c.wantErr {
				if err == nil {
					t.Fatalf("ExtractJSON(%q) = %q; want error", c.content, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractJSON(%q) error: %v", c.content, err)
			}
			if got != c.want {
				t.Fatalf("ExtractJSON(%q) = %q; want %q", c.content, got, c.want)
			}
		})
	}
}

func TestDecodeResearch(t *testing.T) {
	payload := `{
		"failures": [
			{"number": 1, "title": "Lost the label deal", "year": "1999", "description": "Dropped after one album.", "outcome": "Went independent.", "severity": 4, "source": "Rolling Stone"}
		],
		"quotes": [
			{"text": "I kept going.", "context": "2005 interview", "year": "2005"}
		],
		"sources": ["https://example.com/bio"]
	}`
	raw, err := DecodeResearch(payload)
	if err != nil {
		t.Fatalf("DecodeResearch error: %v", err)
	}
	if len(raw.Failures) != 1 || raw.Failures[0].Title != "Lost the label deal" {
		t.Fatalf("unexpected failures: %+v", raw.Failures)
	}
	if len(raw.Quotes) != 1 || raw.Quotes[0].Text != "I kept going." {
		t.Fatalf("unexpected quotes: %+v", raw.Quotes)
	}

	if _, err := DecodeResearch(`{"failures": "not an array"}`); err == nil {
		t.Fatalf("expected decode error for mistyped payload")
	}
}

func TestNormalizeResearch(t *testing.T) {
	raw := &RawResearch{
		Failures: []RawFailure{
			{Number: 1, Title: "Bankruptcy", Year: "1996", Description: "Lost everything.", Outcome: "Rebuilt from zero.", Severity: 5, Source: "Forbes"},
			{Year: "2003 (approx)", Description: "Canceled tour.", Severity: 9},
		},
		Quotes: []RawQuote{
			{Text: "Never again.", Year: "1997", Source: "Memoir"},
			{Text: "It made me.", Year: "n/a"},
		},
		Sources: []string{"https://a.example", "https://b.example", "https://a.example"},
	}
	citations := []string{"https://b.example", "https://c.example", " "}

	rd := NormalizeResearch(raw, citations)

	if len(rd.Facts) != 2 {
		t.Fatalf("got %d facts; want 2", len(rd.Facts))
	}
	first := rd.Facts[0]
	if first.ID != "fact-1" || first.Category != "failure" || first.Year != 1996 || first.Severity != 5 {
		t.Fatalf("unexpected first fact: %+v", first)
	}
	if first.Description != "Lost everything.\n\nRebuilt from zero." {
		t.Fatalf("outcome not joined into description: %q", first.Description)
	}
	second := rd.Facts[1]
	if second.Title != "Failure 2" {
		t.Fatalf("untitled failure should get a numbered title, got %q", second.Title)
	}
	if second.Severity != 3 {
		t.Fatalf("out-of-range severity should default to 3, got %d", second.Severity)
	}
	if second.Year != 2003 {
		t.Fatalf("year with suffix should still parse, got %d", second.Year)
	}

	if len(rd.Quotes) != 2 {
		t.Fatalf("got %d quotes; want 2", len(rd.Quotes))
	}
	if rd.Quotes[1].Source != "Unknown source" {
		t.Fatalf("missing quote source should default, got %q", rd.Quotes[1].Source)
	}
	if rd.Quotes[1].Year != 0 {
		t.Fatalf("unparseable year should be 0, got %d", rd.Quotes[1].Year)
	}

	want := []string{"https://a.example", "https://b.example", "https://c.example"}
	if len(rd.Sources) != len(want) {
		t.Fatalf("sources = %v; want %v", rd.Sources, want)
	}
	for i := range want {
		if rd.Sources[i] != want[i] {
			t.Fatalf("sources = %v; want %v", rd.Sources, want)
		}
	}

	if rd.Images == nil || len(rd.Images) != 0 {
		t.Fatalf("images should be empty, got %v", rd.Images)
	}
	if rd.GeneratedAt.IsZero() {
		t.Fatalf("generatedAt should be set")
	}
}
