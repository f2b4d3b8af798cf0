package main

import (
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"headliner/internal/config"
	"headliner/internal/templates"
)

func templatesCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect the loaded event templates",
	}
	cmd.AddCommand(templatesListCmd(flags))
	cmd.AddCommand(templatesShowCmd(flags))
	return cmd
}

func templatesListCmd(flags *rootFlags) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := registryFromConfig(flags)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCATEGORY\tKIND\tURGENCY\tMIN IMPACT\tMIN CONTROVERSY\tTAGS")
			for _, tmpl := range registry.All() {
				if category != "" && !strings.EqualFold(tmpl.Category, category) {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%.2f\t%s\n",
					tmpl.ID, tmpl.Category, tmpl.Kind, tmpl.Urgency, tmpl.MinImpactScore, tmpl.MinControversy, strings.Join(tmpl.Tags, ","))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Only list this category")
	return cmd
}

func templatesShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one template in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := registryFromConfig(flags)
			if err != nil {
				return err
			}
			tmpl, ok := registry.TemplateByID(args[0])
			if !ok {
				return fmt.Errorf("template %q not found", args[0])
			}
			printTemplate(cmd, tmpl)
			return nil
		},
	}
}

func registryFromConfig(flags *rootFlags) (*templates.Registry, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	return loadRegistry(cfg, slog.Default())
}

func printTemplate(cmd *cobra.Command, tmpl *templates.Template) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", tmpl.ID, tmpl.Category)
	fmt.Fprintf(out, "  kind: %s, urgency: %s\n", tmpl.Kind, tmpl.Urgency)
	fmt.Fprintf(out, "  min impact: %.1f, min controversy: %.2f\n", tmpl.MinImpactScore, tmpl.MinControversy)
	if len(tmpl.RequiredEntities) > 0 {
		fmt.Fprintf(out, "  requires: %s\n", strings.Join(tmpl.RequiredEntities, ", "))
	}
	if len(tmpl.Keywords) > 0 {
		fmt.Fprintf(out, "  keywords: %s\n", strings.Join(tmpl.Keywords, ", "))
	}
	fmt.Fprintf(out, "  tier scaling: %v\n", tmpl.TierScaling)
	if tmpl.SourceFile != "" {
		fmt.Fprintf(out, "  source: %s\n", tmpl.SourceFile)
	}
	fmt.Fprintf(out, "\nHeadline: %s\n", tmpl.Headline)
	fmt.Fprintf(out, "Description: %s\n", tmpl.Description)
	if !tmpl.Context.IsZero() {
		fmt.Fprintf(out, "Context: %s\n", tmpl.Context)
	}
	if len(tmpl.Variables) > 0 {
		fmt.Fprintln(out, "\nVariables:")
		for _, v := range tmpl.Variables {
			required := ""
			if v.Required {
				required = " (required)"
			}
			fmt.Fprintf(out, "  {%s} <- %s, fallback %q%s\n", v.Name, v.Path, v.Fallback, required)
		}
	}
}
