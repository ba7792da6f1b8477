package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/docval/pkg/document"
	"github.com/dmitrymomot/docval/pkg/ruleset"
	"github.com/dmitrymomot/docval/pkg/validator"
)

type validateOptions struct {
	rules       string
	rulesFormat string
	dataFormat  string
	output      string
}

func newValidateCmd() *cobra.Command {
	var opts validateOptions
	cmd := &cobra.Command{
		Use:   "validate --rules FILE [DOCUMENT|-]",
		Short: "Validate a document against a rule set",
		Long: `Validate reads a JSON or YAML document from a file, or from stdin when the
argument is "-" or missing, and checks it against the rule set in --rules.

Exit status is 0 when the document is valid, 1 when it is not and 2 when the
rule set or the document cannot be used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.rules, "rules", "r", "", "rule set file (JSON or YAML)")
	f.StringVar(&opts.rulesFormat, "ruleset-format", "", "rule set format, overriding the file extension (json|yaml)")
	f.StringVarP(&opts.dataFormat, "format", "f", "", "document format, overriding the file extension (json|yaml)")
	f.StringVarP(&opts.output, "output", "o", outputText, "output format (text|json)")
	_ = cmd.MarkFlagRequired("rules")
	return cmd
}

func runValidate(cmd *cobra.Command, opts validateOptions, args []string) error {
	if opts.output != outputText && opts.output != outputJSON {
		return usageError(fmt.Errorf("unknown output format %q", opts.output))
	}

	rs, err := loadRuleset(opts.rules, opts.rulesFormat)
	if err != nil {
		return usageError(err)
	}
	v, err := rs.Compile()
	if err != nil {
		return usageError(err)
	}

	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	doc, err := readDocument(cmd.InOrStdin(), path, opts.dataFormat)
	if err != nil {
		return usageError(err)
	}

	res := v.ValidateValue(doc)
	if err := printResult(cmd.OutOrStdout(), opts.output, rs.Name, res); err != nil {
		return usageError(err)
	}
	if res.Failed() {
		return &exitError{code: exitInvalid}
	}
	return nil
}

// loadRuleset reads a rule set file. A non-empty format overrides the one
// implied by the extension.
func loadRuleset(path, format string) (*ruleset.Ruleset, error) {
	if format == "" {
		return ruleset.LoadFile(path)
	}
	f, err := document.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ruleset: %w", err)
	}
	rs, err := ruleset.Parse(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if rs.Name == "" {
		base := filepath.Base(path)
		rs.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return rs, nil
}

func readDocument(stdin io.Reader, path, format string) (validator.Value, error) {
	f, err := documentFormat(path, format)
	if err != nil {
		return validator.Null(), err
	}
	if path == "-" {
		return document.Decode(stdin, f)
	}

	file, err := os.Open(path)
	if err != nil {
		return validator.Null(), fmt.Errorf("open document: %w", err)
	}
	defer file.Close()
	return document.Decode(file, f)
}

// documentFormat prefers an explicit format, then the file extension. Stdin
// defaults to JSON.
func documentFormat(path, format string) (document.Format, error) {
	switch {
	case format != "":
		return document.ParseFormat(format)
	case path != "-":
		return document.FormatFromPath(path)
	default:
		return document.FormatJSON, nil
	}
}
