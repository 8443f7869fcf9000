package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ha1tch/floorplan/pkg/config"
	"github.com/ha1tch/floorplan/pkg/element"
	"github.com/ha1tch/floorplan/pkg/persist"
)

func TestParseArgs(t *testing.T) {
	cfg := config.Default()
	opts, err := parseArgs(cfg, []string{"hq", "-o", "out.png", "-w", "800", "--page", "2", "--pretty", "-s", "http://store:9000"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if len(opts.rest) != 1 || opts.rest[0] != "hq" {
		t.Errorf("rest = %v, want [hq]", opts.rest)
	}
	if opts.output != "out.png" || opts.width != 800 || opts.height != 1200 || opts.page != 2 || !opts.pretty {
		t.Errorf("opts = %+v", opts)
	}
	if opts.server != "http://store:9000" || opts.collection != cfg.Collection {
		t.Errorf("server/collection = %q/%q", opts.server, opts.collection)
	}
}

func TestParseArgsErrors(t *testing.T) {
	cases := [][]string{
		{"hq", "-o"},
		{"hq", "-w", "wide"},
		{"hq", "--page", "0"},
	}
	for _, args := range cases {
		if _, err := parseArgs(config.Default(), args); err == nil {
			t.Errorf("parseArgs(%v) should fail", args)
		}
	}
}

func fp(v float64) *float64 { return &v }

func TestSummarize(t *testing.T) {
	doc := persist.Document{
		Elements: []persist.Record{
			{ElementType: "seat", XCoordinate: fp(0), YCoordinate: fp(0)},
			{ElementType: "room", XCoordinate: fp(0), YCoordinate: fp(0)},
			{ElementType: "seat", XCoordinate: fp(10), YCoordinate: fp(0)},
			{ElementType: "device", XCoordinate: fp(10), YCoordinate: fp(0)},
			{ElementType: "hovercraft", XCoordinate: fp(0), YCoordinate: fp(0)},
			{ElementType: "room"},
		},
	}
	s := summarize(persist.Codec{}, doc)
	if s.page != 1 || s.total != 4 || s.invalid != 2 {
		t.Errorf("summary = %+v", s)
	}
	want := []kindCount{{element.KindSeat, 2}, {element.KindDevice, 1}, {element.KindRoom, 1}}
	if len(s.kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", s.kinds, want)
	}
	for i := range want {
		if s.kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %v, want %v", i, s.kinds[i], want[i])
		}
	}
}

func TestReadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hq.json")
	body := `{"zoom":1.5,"pageNumber":2,"elements":[{"id":"a","elementType":"room","xCoordinate":5,"yCoordinate":6,"zIndex":0,"parentId":null}]}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	doc, err := readDocument(path)
	if err != nil {
		t.Fatalf("readDocument: %v", err)
	}
	if doc.PageNumber != 2 || len(doc.Elements) != 1 || *doc.Zoom != 1.5 {
		t.Errorf("doc = %+v", doc)
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte("{"), 0644)
	if _, err := readDocument(bad); err == nil {
		t.Error("readDocument should fail on malformed JSON")
	}
}
