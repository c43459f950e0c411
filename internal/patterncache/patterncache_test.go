package patterncache

import "testing"

func TestGetLiteralMatch(t *testing.T) {
	c := New(DefaultCapacity)
	m, err := c.Get("main.go", CaseSensitiveMode)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Matches("main.go") {
		t.Error("expected literal match on exact path")
	}
	if m.Matches("other.go") {
		t.Error("expected no match on a different literal")
	}
}

func TestGetGlobMatch(t *testing.T) {
	c := New(DefaultCapacity)
	m, err := c.Get("*.go", CaseSensitiveMode)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Matches("main.go") {
		t.Error("expected *.go to match main.go")
	}
	if m.Matches("main.rs") {
		t.Error("expected *.go not to match main.rs")
	}
}

func TestGetSmartCase(t *testing.T) {
	c := New(DefaultCapacity)
	m, err := c.Get("*.GO", CaseSmart)
	if err != nil {
		t.Fatal(err)
	}
	if m.Matches("main.go") {
		t.Error("smart-case with an uppercase pattern should be case-sensitive")
	}
	if !m.Matches("main.GO") {
		t.Error("expected exact-case match")
	}
}

func TestGetSmartCaseLowercaseLiteralMatchesMixedCase(t *testing.T) {
	c := New(DefaultCapacity)
	m, err := c.Get("readme.md", CaseSmart)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Matches("ReadMe.md") {
		t.Error("expected an all-lowercase literal pattern under smart-case to match mixed-case input")
	}
	if !m.Matches("readme.md") {
		t.Error("expected an all-lowercase literal pattern under smart-case to match exact-case input")
	}
}

func TestGetCaseInsensitiveLiteralMatch(t *testing.T) {
	c := New(DefaultCapacity)
	m, err := c.Get("README.md", CaseInsensitiveMode)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Matches("readme.md") {
		t.Error("expected case-insensitive literal match to accept differently-cased input")
	}
	if !m.Matches("ReadMe.md") {
		t.Error("expected case-insensitive literal match to accept mixed-case input")
	}
}

func TestGetCachesRepeatLookups(t *testing.T) {
	c := New(DefaultCapacity)
	if _, err := c.Get("*.go", CaseSensitiveMode); err != nil {
		t.Fatal(err)
	}
	_, misses := c.Stats()
	if _, err := c.Get("*.go", CaseSensitiveMode); err != nil {
		t.Fatal(err)
	}
	hits, missesAfter := c.Stats()
	if hits < 1 {
		t.Errorf("expected at least one hit, got %d", hits)
	}
	if missesAfter != misses {
		t.Errorf("expected no new miss on repeat lookup: before=%d after=%d", misses, missesAfter)
	}
}

func TestGetInvalidPattern(t *testing.T) {
	c := New(DefaultCapacity)
	if _, err := c.Get("[unclosed", CaseSensitiveMode); err == nil {
		t.Error("expected an error for a malformed glob")
	}
}

func TestSeededPatternIsAHit(t *testing.T) {
	c := New(DefaultCapacity)
	if _, err := c.Get("*.go", CaseSensitiveMode); err != nil {
		t.Fatal(err)
	}
	hits, _ := c.Stats()
	if hits != 1 {
		t.Errorf("expected the seeded *.go pattern to be an immediate hit, got %d hits", hits)
	}
}
