// Command dastrender renders a structured text JSON file to HTML.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/net/html"

	"github.com/derickschaefer/dast"
	"github.com/derickschaefer/dast/htmlrender"
)

func main() {
	root := flag.String("root", "div", "tag wrapping the rendered document")
	strict := flag.Bool("strict", false, "validate the document before rendering")
	pretty := flag.Bool("pretty", false, "print each top-level block on its own line")
	keys := flag.Bool("keys", false, "keep render keys as data-key attributes")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage: dastrender [flags] <file.json|->")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *root, *strict, *pretty, *keys, os.Stdout); err != nil {
		color.Red("dastrender: %v", err)
		os.Exit(1)
	}
}

func run(path, root string, strict, pretty, keys bool, w io.Writer) error {
	if !dast.ValidTagName(root) {
		return fmt.Errorf("%w: %q", dast.ErrInvalidRootTag, root)
	}

	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open: %w", err)
		}
		defer f.Close()
		in = f
	}

	st, err := dast.Decode(in)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	if strict {
		if errs := dast.Validate(st); len(errs) > 0 {
			for _, e := range errs {
				color.Yellow("  %v", e)
			}
			return fmt.Errorf("%d validation errors", len(errs))
		}
	}

	opts := htmlrender.WithRecordStubs(dast.Options[*html.Node]{
		Adapter: htmlrender.Adapter{KeepKeys: keys},
		RootTag: root,
	})
	n, err := dast.Render(st, opts)
	if err != nil {
		var rerr *dast.RenderError
		if errors.As(err, &rerr) && rerr.Node != nil {
			return fmt.Errorf("%w (node %s)", err, rerr.Node.Type())
		}
		return err
	}
	if n == nil {
		return nil
	}

	if !pretty {
		if err := htmlrender.Render(w, n); err != nil {
			return err
		}
		_, err = fmt.Fprintln(w)
		return err
	}
	return printPretty(w, n)
}

// printPretty prints the root's open tag, each child on its own line and
// the close tag. A root without children is printed as is.
func printPretty(w io.Writer, n *html.Node) error {
	full, err := htmlrender.String(n)
	if err != nil {
		return err
	}
	if n.Type != html.ElementNode || n.FirstChild == nil {
		_, err = fmt.Fprintln(w, full)
		return err
	}

	fmt.Fprintln(w, openTag(n))
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		line, err := htmlrender.String(c)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "  "+line)
	}
	_, err = fmt.Fprintln(w, "</"+n.Data+">")
	return err
}

func openTag(n *html.Node) string {
	var b strings.Builder
	b.WriteString("<" + n.Data)
	for _, a := range n.Attr {
		b.WriteString(" " + a.Key + `="` + html.EscapeString(a.Val) + `"`)
	}
	b.WriteString(">")
	return b.String()
}
