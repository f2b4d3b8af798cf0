package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"headliner/internal/config"
	"headliner/internal/parser"
	"headliner/internal/templates"
	"headliner/internal/validate"
)

func validateCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run consistency checks against the template set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, flags)
		},
	}
	return cmd
}

func runValidate(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	var docs []*parser.Document
	if cfg.Templates.Builtin {
		builtin, err := templates.BuiltinDocuments()
		if err != nil {
			return err
		}
		docs = append(docs, builtin...)
	}
	user, parseErrs, err := templates.ParseDirs(cfg.Templates.Paths, cfg.Templates.Exclude)
	if err != nil {
		return err
	}
	docs = append(docs, user...)

	report, err := validate.Run(docs)
	if err != nil {
		return err
	}
	for _, parseErr := range parseErrs {
		report.Issues = append(report.Issues, validate.Issue{
			Severity: validate.SeverityError,
			Code:     "parse_error",
			Message:  parseErr.Error(),
		})
	}

	var errorIssues []validate.Issue
	var warnIssues []validate.Issue
	for _, issue := range report.Issues {
		switch issue.Severity {
		case validate.SeverityError:
			errorIssues = append(errorIssues, issue)
		case validate.SeverityWarn:
			warnIssues = append(warnIssues, issue)
		}
	}

	out := cmd.OutOrStdout()
	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintf(out, "No issues found in %d templates.\n", report.Templates)
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(out, "Errors (%d):\n", len(errorIssues))
		printIssues(out, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(out, "")
		}
		fmt.Fprintf(out, "Warnings (%d):\n", len(warnIssues))
		printIssues(out, warnIssues)
	}

	if len(errorIssues) > 0 {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(out io.Writer, issues []validate.Issue) {
	for _, issue := range issues {
		location := issue.Template
		if issue.FilePath != "" {
			location = fmt.Sprintf("%s (%s)", location, issue.FilePath)
		}
		if location == "" {
			location = "-"
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}
