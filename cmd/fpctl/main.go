// Command fpctl is a CLI tool for working with saved floor plans.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/ha1tch/floorplan/pkg/app"
	"github.com/ha1tch/floorplan/pkg/config"
	"github.com/ha1tch/floorplan/pkg/element"
	"github.com/ha1tch/floorplan/pkg/persist"
	"github.com/ha1tch/floorplan/pkg/render"
)

const usage = `fpctl - floor plan store tool

Usage:
  fpctl <command> <plan> [options]

Commands:
  exists     Report whether a plan is saved
  info       Show element counts for a plan
  load       Print a saved plan as JSON
  import     Upload a plan from a JSON file
  delete     Delete a saved plan
  render     Render a plan to PNG
  validate   Check a local JSON plan without uploading it

Options:
  -s, --server <url>       Store base URL (default from ~/.floorplan.toml)
  -c, --collection <name>  Store collection

Examples:
  fpctl load hq --pretty
  fpctl import hq -f hq.json
  fpctl render hq -o hq.png -w 2400 -h 1800 --page 2
  fpctl validate hq.json
`

// options holds the flags shared by every command.
type options struct {
	server     string
	collection string
	output     string
	file       string
	pretty     bool
	width      int
	height     int
	page       int
	rest       []string
}

// parseArgs reads the flags any command accepts. Unknown arguments are
// returned in rest, in order.
func parseArgs(cfg config.Config, args []string) (options, error) {
	opts := options{
		server:     cfg.Server,
		collection: cfg.Collection,
		width:      1600,
		height:     1200,
		page:       1,
	}
	next := func(i int, flag string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s needs a value", flag)
		}
		return args[i+1], nil
	}
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch a {
		case "-s", "--server", "-c", "--collection", "-o", "--output", "-f", "--file":
			v, err := next(i, a)
			if err != nil {
				return opts, err
			}
			i++
			switch a {
			case "-s", "--server":
				opts.server = v
			case "-c", "--collection":
				opts.collection = v
			case "-o", "--output":
				opts.output = v
			default:
				opts.file = v
			}
		case "-w", "--width", "-h", "--height", "--page":
			v, err := next(i, a)
			if err != nil {
				return opts, err
			}
			i++
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return opts, fmt.Errorf("%s: invalid value %q", a, v)
			}
			switch a {
			case "-w", "--width":
				opts.width = n
			case "-h", "--height":
				opts.height = n
			default:
				opts.page = n
			}
		case "--pretty":
			opts.pretty = true
		default:
			opts.rest = append(opts.rest, a)
		}
	}
	return opts, nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	switch cmd {
	case "exists":
		cmdExists(cfg, args)
	case "info":
		cmdInfo(cfg, args)
	case "load":
		cmdLoad(cfg, args)
	case "import":
		cmdImport(cfg, args)
	case "delete":
		cmdDelete(cfg, args)
	case "render":
		cmdRender(cfg, args)
	case "validate":
		cmdValidate(cfg, args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

// planArgs parses args and requires exactly one plan id.
func planArgs(cfg config.Config, args []string, use string) (options, string) {
	opts, err := parseArgs(cfg, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(opts.rest) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: fpctl "+use)
		os.Exit(1)
	}
	return opts, opts.rest[0]
}

func background() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Minute)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func cmdExists(cfg config.Config, args []string) {
	opts, plan := planArgs(cfg, args, "exists <plan>")
	ctx, cancel := background()
	defer cancel()

	ok, err := persist.NewClient(opts.server, opts.collection).Exists(ctx, plan)
	if err != nil {
		fail("Error checking %s: %v", plan, err)
	}
	if !ok {
		fmt.Printf("%s: not found\n", plan)
		os.Exit(1)
	}
	fmt.Printf("%s: exists\n", plan)
}

func cmdLoad(cfg config.Config, args []string) {
	opts, plan := planArgs(cfg, args, "load <plan> [-o output] [--pretty]")
	ctx, cancel := background()
	defer cancel()

	doc, err := persist.NewClient(opts.server, opts.collection).Load(ctx, plan)
	if err != nil {
		fail("Error loading %s: %v", plan, err)
	}
	var data []byte
	if opts.pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		fail("Error encoding %s: %v", plan, err)
	}
	if opts.output == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(opts.output, append(data, '\n'), 0644); err != nil {
		fail("Error writing %s: %v", opts.output, err)
	}
	fmt.Printf("Written: %s\n", opts.output)
}

func cmdInfo(cfg config.Config, args []string) {
	opts, plan := planArgs(cfg, args, "info <plan>")
	ctx, cancel := background()
	defer cancel()

	doc, err := persist.NewClient(opts.server, opts.collection).Load(ctx, plan)
	if err != nil {
		fail("Error loading %s: %v", plan, err)
	}
	codec := persist.Codec{CenterAnchor: cfg.Editor.CenterAnchor}
	s := summarize(codec, *doc)

	fmt.Printf("Plan:        %s\n", plan)
	fmt.Printf("Page:        %d\n", s.page)
	fmt.Printf("Elements:    %d\n", s.total)
	if s.invalid > 0 {
		fmt.Printf("Unreadable:  %d\n", s.invalid)
	}
	if doc.Zoom != nil {
		fmt.Printf("Zoom:        %.2f\n", *doc.Zoom)
	}
	fmt.Println()
	for _, kc := range s.kinds {
		fmt.Printf("  %-12s %d\n", kc.kind, kc.count)
	}
}

type kindCount struct {
	kind  element.Kind
	count int
}

type summary struct {
	page    int
	total   int
	invalid int
	kinds   []kindCount // by descending count, then name
}

// summarize counts the records of doc by kind.
func summarize(c persist.Codec, doc persist.Document) summary {
	s := summary{page: doc.PageNumber}
	if s.page == 0 {
		s.page = 1
	}
	counts := map[element.Kind]int{}
	for _, r := range doc.Elements {
		e, err := c.DecodeRecord(r)
		if err != nil {
			s.invalid++
			continue
		}
		s.total++
		counts[e.Kind]++
	}
	for k, n := range counts {
		s.kinds = append(s.kinds, kindCount{k, n})
	}
	sort.Slice(s.kinds, func(i, j int) bool {
		if s.kinds[i].count != s.kinds[j].count {
			return s.kinds[i].count > s.kinds[j].count
		}
		return s.kinds[i].kind < s.kinds[j].kind
	})
	return s
}

// readDocument parses a plan document from a JSON file.
func readDocument(path string) (persist.Document, error) {
	var doc persist.Document
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func cmdImport(cfg config.Config, args []string) {
	opts, plan := planArgs(cfg, args, "import <plan> -f <file.json>")
	if opts.file == "" {
		fail("Usage: fpctl import <plan> -f <file.json>")
	}
	doc, err := readDocument(opts.file)
	if err != nil {
		fail("Error reading %s: %v", opts.file, err)
	}
	if err := persist.Validate(doc); err != nil {
		fail("Validation failed: %v", err)
	}
	ctx, cancel := background()
	defer cancel()

	if _, err := persist.NewClient(opts.server, opts.collection).Save(ctx, plan, doc); err != nil {
		fail("Error saving %s: %v", plan, err)
	}
	fmt.Printf("Imported %s: %d elements\n", plan, len(doc.Elements))
}

func cmdDelete(cfg config.Config, args []string) {
	opts, plan := planArgs(cfg, args, "delete <plan>")
	ctx, cancel := background()
	defer cancel()

	if err := persist.NewClient(opts.server, opts.collection).Delete(ctx, plan); err != nil {
		fail("Error deleting %s: %v", plan, err)
	}
	fmt.Printf("Deleted: %s\n", plan)
}

func cmdValidate(cfg config.Config, args []string) {
	_, path := planArgs(cfg, args, "validate <file.json>")
	doc, err := readDocument(path)
	if err != nil {
		fail("Error reading %s: %v", path, err)
	}
	if err := persist.Validate(doc); err != nil {
		fail("Validation failed: %v", err)
	}
	s := summarize(persist.Codec{CenterAnchor: cfg.Editor.CenterAnchor}, doc)
	if s.invalid > 0 {
		fail("%s: %d of %d elements cannot be read", path, s.invalid, len(doc.Elements))
	}
	fmt.Printf("%s: valid plan with %d elements on page %d\n", path, s.total, s.page)
}

func cmdRender(cfg config.Config, args []string) {
	opts, plan := planArgs(cfg, args, "render <plan> [-o output.png] [-w width] [-h height] [--page n]")
	if opts.output == "" {
		opts.output = plan + ".png"
	}

	session := app.New(app.Options{
		CanvasWidth:  cfg.Editor.CanvasWidth,
		CanvasHeight: cfg.Editor.CanvasHeight,
		UndoLevels:   1,
	})
	session.Store.SetPage(opts.page)
	sync := persist.NewManager(session, persist.NewClient(opts.server, opts.collection))
	sync.Codec.CenterAnchor = cfg.Editor.CenterAnchor

	ctx, cancel := background()
	defer cancel()
	n, err := sync.Load(ctx, plan)
	if err != nil {
		fail("Error loading %s: %v", plan, err)
	}

	if r, ok := session.Store.ContentBounds(); ok {
		session.View.FitToContent(r.X, r.Y, r.Right(), r.Bottom(), float64(opts.width), float64(opts.height), 40)
	}

	f, err := os.Create(opts.output)
	if err != nil {
		fail("Error creating %s: %v", opts.output, err)
	}
	if err := render.New(session, nil).ExportPNG(f, opts.width, opts.height); err != nil {
		f.Close()
		fail("Error rendering %s: %v", plan, err)
	}
	if err := f.Close(); err != nil {
		fail("Error writing %s: %v", opts.output, err)
	}
	fmt.Printf("Written: %s (%d elements)\n", opts.output, n)
}
