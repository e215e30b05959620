package domain_test

import (
	"fmt"
	"slices"
	"sync"
	"testing"

	"go.trai.ch/prcl/internal/core/domain"
)

func TestGraph_Claim(t *testing.T) {
	g := domain.NewGraph()
	path := domain.NewInternedString("/p/a.js")

	first, claimed := g.Claim(path)
	if !claimed {
		t.Fatal("expected first Claim to succeed")
	}

	second, claimed := g.Claim(path)
	if claimed {
		t.Error("expected second Claim to report an existing file")
	}
	if first != second {
		t.Error("expected both claims to return the same record")
	}

	got, ok := g.Get(path)
	if !ok || got != first {
		t.Error("expected Get to return the claimed record")
	}
	if _, ok := g.Get(domain.NewInternedString("/p/b.js")); ok {
		t.Error("expected Get to miss an unclaimed path")
	}
}

func TestGraph_ConcurrentClaim(t *testing.T) {
	g := domain.NewGraph()
	path := domain.NewInternedString("/p/shared.js")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for range 64 {
		wg.Go(func() {
			if _, claimed := g.Claim(path); claimed {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("expected exactly one winner, got %d", winners)
	}
	if g.Len() != 1 {
		t.Errorf("expected 1 file, got %d", g.Len())
	}
}

func TestGraph_FilesSorted(t *testing.T) {
	g := domain.NewGraph()
	for _, p := range []string{"/p/z.js", "/p/a.js", "/p/node_modules/m/index.js", "/p/b.json"} {
		g.Claim(domain.NewInternedString(p))
	}

	want := []string{"/p/a.js", "/p/b.json", "/p/node_modules/m/index.js", "/p/z.js"}
	if got := g.Paths(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	files := g.Files()
	for i, f := range files {
		if f.Path.String() != want[i] {
			t.Errorf("file %d: expected %s, got %s", i, want[i], f.Path)
		}
	}
}

func TestGraph_Main(t *testing.T) {
	g := domain.NewGraph()
	if !g.Main().IsZero() {
		t.Error("expected new graph to have no main")
	}

	main := domain.NewInternedString("/p/main.js")
	g.SetMain(main)
	if g.Main() != main {
		t.Errorf("expected main %s, got %s", main, g.Main())
	}
}

func TestModuleFile(t *testing.T) {
	tests := []struct {
		path   string
		source string
		json   bool
		lines  int
	}{
		{path: "/p/a.js", source: "", json: false, lines: 1},
		{path: "/p/a.js", source: "x\n", json: false, lines: 2},
		{path: "/p/data.json", source: "{\n}", json: true, lines: 2},
		{path: "/p/a.json.js", source: "a\nb\nc", json: false, lines: 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%d", tt.path, tt.lines), func(t *testing.T) {
			f := &domain.ModuleFile{Path: domain.NewInternedString(tt.path), Source: tt.source}
			if f.IsJSON() != tt.json {
				t.Errorf("IsJSON: expected %v, got %v", tt.json, f.IsJSON())
			}
			if f.LineCount() != tt.lines {
				t.Errorf("LineCount: expected %d, got %d", tt.lines, f.LineCount())
			}
		})
	}
}

func TestDependency_External(t *testing.T) {
	external := domain.Dependency{Specifier: "fs"}
	if !external.External() {
		t.Error("expected dependency without path to be external")
	}

	local := domain.Dependency{Specifier: "./a", Path: domain.NewInternedString("/p/a.js")}
	if local.External() {
		t.Error("expected resolved dependency not to be external")
	}
}

func TestBlankInterpreterLine(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "no interpreter", src: "a\nb", want: "a\nb"},
		{name: "interpreter", src: "#!/usr/bin/env node\nconsole.log(1)\n", want: "\nconsole.log(1)\n"},
		{name: "interpreter only", src: "#!/usr/bin/env node", want: ""},
		{name: "hash not at start", src: " #!x\n", want: " #!x\n"},
		{name: "crlf", src: "#!node\r\nx", want: "\nx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.BlankInterpreterLine(tt.src)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if tt.src != "" && got != "" {
				if want, have := countLines(tt.src), countLines(got); want != have {
					t.Errorf("expected %d lines, got %d", want, have)
				}
			}
		})
	}
}

func countLines(s string) int {
	n := 1
	for _, c := range s {
		if c == '\n' {
			n++
		}
	}
	return n
}
