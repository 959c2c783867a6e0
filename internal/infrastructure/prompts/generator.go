package prompts

import (
	"bytes"
	"sort"
	"strings"
	"text/template"

	"webtools/internal/domain/entity"
)

type SiteInfo struct {
	Name        string
	Domains     string
	Description string
}

type AgentPromptData struct {
	Sites []SiteInfo
	Page  string
}

// GenerateAgentPrompt renders baseTemplate with one line per registry entry.
// page is the URL open when the task starts and may be empty.
func GenerateAgentPrompt(baseTemplate string, entries []entity.EntryInfo, page string) (string, error) {
	sites := make([]SiteInfo, 0, len(entries))
	for _, e := range entries {
		sites = append(sites, SiteInfo{
			Name:        e.Name,
			Domains:     strings.Join(e.Domains, ", "),
			Description: e.Description,
		})
	}

	sort.Slice(sites, func(i, j int) bool {
		return sites[i].Name < sites[j].Name
	})

	data := AgentPromptData{
		Sites: sites,
		Page:  page,
	}

	tmpl, err := template.New("agent").Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
