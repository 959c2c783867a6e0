package tools

import (
	"webtools/internal/application/service"
	"webtools/internal/domain/entity"
)

const (
	ToolCHCompanyName   entity.ToolName = "get_company_name"
	ToolCHCompanyNumber entity.ToolName = "get_company_number"
	ToolCHCompanyStatus entity.ToolName = "get_company_status"
	ToolCHOverview      entity.ToolName = "get_company_overview"
	ToolCHOfficers      entity.ToolName = "go_to_officers"
	ToolCHFilingHistory entity.ToolName = "go_to_filing_history"
)

// Company numbers are eight characters, optionally prefixed (SC, NI, OC...).
const companyPagePath = `^/company/[A-Z0-9]{8}(/|$)`

const companyPageRequired = "Make sure you are on a Companies House company page."

func CompaniesHouseEntry(deps Deps) (*service.Entry, error) {
	return service.NewEntry(entity.EntryMeta{
		ID:          "companies-house",
		Name:        "Companies House",
		Version:     "1.2.0",
		Description: "Company profile readers for the UK Companies House register.",
		Domains:     []string{"find-and-update.company-information.service.gov.uk"},
	},
		NewCHCompanyNameTool(deps),
		NewCHCompanyNumberTool(deps),
		NewCHCompanyStatusTool(deps),
		NewCHOverviewTool(deps),
		NewCHOfficersTool(deps),
		NewCHFilingHistoryTool(deps),
	)
}

func NewCHCompanyNameTool(deps Deps) *ReadTool {
	return newReadTool(deps, readSpec{
		name:        ToolCHCompanyName,
		description: "Reads the registered company name. Must be on a company detail page.",
		pathPattern: companyPagePath,
		locators:    textAt(".company-header .heading-xlarge", ".company-header h1", "#content-container h1"),
		format:      "Company name: %s",
		field:       "name",
		notFound:    "Company name not found. " + companyPageRequired,
	})
}

func NewCHCompanyNumberTool(deps Deps) *ReadTool {
	return newReadTool(deps, readSpec{
		name:        ToolCHCompanyNumber,
		description: "Reads the company registration number. Must be on a company detail page.",
		pathPattern: companyPagePath,
		locators:    textAt("#company-number strong", "#company-number"),
		format:      "Company number: %s",
		field:       "number",
		notFound:    "Company number not found. " + companyPageRequired,
	})
}

func NewCHCompanyStatusTool(deps Deps) *ReadTool {
	return newReadTool(deps, readSpec{
		name:        ToolCHCompanyStatus,
		description: "Reads the company status (Active, Dissolved, Liquidation...). Must be on the company overview page.",
		pathPattern: companyPagePath,
		locators:    textAt("#company-status"),
		format:      "Company status: %s",
		field:       "status",
		notFound:    "Company status not found. Make sure you are on the overview tab of a Companies House company page.",
	})
}

func NewCHOverviewTool(deps Deps) *ReadTool {
	return newReadTool(deps, readSpec{
		name: ToolCHOverview,
		description: "Reads the company overview (registered office, type, incorporation date, SIC codes) as plain text. " +
			"Must be on the company overview page.",
		pathPattern: companyPagePath,
		locators:    regionAt("#page-container .govuk-tabs__panel", "#content-container"),
		format:      "%s",
		field:       "overview",
		notFound:    "Company overview not found. " + companyPageRequired,
	})
}

func NewCHOfficersTool(deps Deps) *ClickTool {
	return newClickTool(deps, clickSpec{
		name:        ToolCHOfficers,
		description: "Opens the People tab listing the company's officers. Must be on a company detail page.",
		pathPattern: companyPagePath,
		selectors:   []string{"#people-tab", "a[href$='/officers']"},
		done:        "Navigated to officers.",
		notFound:    "Officers tab not found. " + companyPageRequired,
		navigates:   true,
		ready:       ".appointments-list, #company-appointments",
	})
}

func NewCHFilingHistoryTool(deps Deps) *ClickTool {
	return newClickTool(deps, clickSpec{
		name:        ToolCHFilingHistory,
		description: "Opens the Filing history tab of the company. Must be on a company detail page.",
		pathPattern: companyPagePath,
		selectors:   []string{"#filing-history-tab", "a[href$='/filing-history']"},
		done:        "Navigated to filing history.",
		notFound:    "Filing history tab not found. " + companyPageRequired,
		navigates:   true,
		ready:       "#fhTable",
	})
}
