package main

import (
	"fmt"
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/muesli/termenv"

	"github.com/dmitrymomot/docval/pkg/validator"
)

const (
	outputText = "text"
	outputJSON = "json"
)

func printResult(w io.Writer, output, name string, res *validator.Result) error {
	if output == outputJSON {
		if err := json.MarshalWrite(w, res, json.Deterministic(true), jsontext.WithIndent("  ")); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	}

	out := termenv.NewOutput(w)
	if res.Valid() {
		_, err := fmt.Fprintf(w, "%s %s\n", out.String("valid").Foreground(termenv.ANSIGreen).Bold(), name)
		return err
	}

	fmt.Fprintf(w, "%s %s\n", out.String("invalid").Foreground(termenv.ANSIRed).Bold(), name)
	for _, field := range res.Fields() {
		for _, e := range res.ErrorsFor(field) {
			fmt.Fprintf(w, "  %s: %s %s\n",
				out.String(field).Bold(),
				e.Message,
				out.String("("+e.Rule+")").Faint(),
			)
		}
	}
	return nil
}
