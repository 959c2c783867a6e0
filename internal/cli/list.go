package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"webtools/internal/application/service"
	"webtools/internal/di"
	"webtools/internal/domain/entity"
)

type listOptions struct {
	format string
	url    string
}

func (a *App) newListCmd() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registry entries and their tools",
		Long: `List every registry entry with its domains and tools. No browser is started.

Examples:
  # Everything, as YAML
  webtools list --format yaml

  # Only the tools offered on a product page
  webtools list --url https://www.amazon.com/dp/B0DEADBEEF`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.list(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json or yaml")
	cmd.Flags().StringVar(&opts.url, "url", "", "Only show tools applicable on this URL")

	return cmd
}

func (a *App) list(opts *listOptions) error {
	catalog, err := di.NewCatalog()
	if err != nil {
		return err
	}

	infos := catalog.Infos()
	if opts.url != "" {
		loc, err := entity.ParseLocation(opts.url)
		if err != nil || loc.Host == "" {
			return fmt.Errorf("invalid url %q", opts.url)
		}
		infos = applicableInfos(catalog.Applicable(loc))
	}

	switch opts.format {
	case "json":
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "yaml":
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(infos); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		a.printText(infos)
		return nil
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}
}

// applicableInfos regroups matches per entry, keeping catalog order.
func applicableInfos(matches []service.Match) []entity.EntryInfo {
	var infos []entity.EntryInfo
	index := make(map[string]int)
	for _, m := range matches {
		i, ok := index[m.Entry.ID()]
		if !ok {
			info := m.Entry.Info()
			info.Tools = nil
			infos = append(infos, info)
			i = len(infos) - 1
			index[m.Entry.ID()] = i
		}
		infos[i].Tools = append(infos[i].Tools, service.ToolInfo(m.Tool))
	}
	return infos
}

func (a *App) printText(infos []entity.EntryInfo) {
	if len(infos) == 0 {
		_, _ = fmt.Fprintln(a.stdout, "No tools available.")
		return
	}
	for _, e := range infos {
		_, _ = fmt.Fprintf(a.stdout, "%s (%s) [%s]\n", e.Name, e.ID, strings.Join(e.Domains, ", "))
		for _, t := range e.Tools {
			_, _ = fmt.Fprintf(a.stdout, "  %-28s %s", t.Name, t.Description)
			if t.PathPattern != "" {
				_, _ = fmt.Fprintf(a.stdout, " (path %s)", t.PathPattern)
			}
			_, _ = fmt.Fprintln(a.stdout)
		}
	}
}
