// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

// Sheet names.
const (
	sheetLegacyCountries = "CC0.3"
	sheetLegacyEmissions = "CC8. Emissions Data"
	sheetLegacyScope2    = "CC8.3a"
	sheetLegacyScope3    = "CC14.1"

	sheetIntroduction = "C0 - Introduction"
	sheetSummary      = "Summary Data"
	sheetPeriods      = "C0.2"
	sheetCountries    = "C0.3"
	sheetBoundaries   = "C0.5"
	sheetScope1       = "C6.1"
	sheetScope2       = "C6.3"
	sheetScope3       = "C6.5"
)

// Legacy (CC) questionnaire columns.
var (
	colLegacyAccount  = []string{"account_id"}
	colLegacyName     = []string{"account_name"}
	colLegacyYear     = []string{"accounting_year"}
	colLegacyCountry  = []string{"incorporated_country", "country"}
	colLegacyTicker   = []string{"ticker"}
	colLegacyISIN     = []string{"isin"}
	colLegacyBoundary = []string{
		"CC8.1 - Please select the boundary you are using for your Scope 1 and 2 greenhouse gas inventory",
	}
	colLegacyScope1 = []string{
		"CC8.2 - Please provide your gross global Scope 1 emissions figures in metric tonnes CO2e",
	}
	colLegacyScope2Location = []string{
		"CC8.3a C1 - Please provide your gross global Scope 2 emissions figures in metric tonnes CO2e\u00a0 - Scope 2, location-based?",
	}
	colLegacyScope2Market = []string{
		"CC8.3a C2 - Please provide your gross global Scope 2 emissions figures in metric tonnes CO2e\u00a0 - Scope 2, market-based (if applicable)?",
	}
	colLegacyScope3Status = []string{
		"CC14.1 C2 - Please account for your organization’s Scope 3 emissions, disclosing and explaining any exclusions - Evaluation status",
	}
	colLegacyScope3Metric = []string{
		"CC14.1 C3 - Please account for your organization’s Scope 3 emissions, disclosing and explaining any exclusions - metric tonnes CO2e",
	}
)

// Positions in the 2015 combined emissions sheet, whose headers are not
// stable enough to match by name.
const (
	pos2015Account  = 1
	pos2015Name     = 3
	pos2015Country  = 4
	pos2015Ticker   = 5
	pos2015ISIN     = 6
	pos2015Row      = 7
	pos2015Year     = 8
	pos2015Boundary = 9
	pos2015Scope1   = 10
	pos2015Scope2   = 11
	pos2015MinWidth = 12
)

// Modern (C) questionnaire columns. Question wording changed between
// vintages, so each logical column lists every known header.
var (
	colAccount  = []string{"Account number", "account_id"}
	colRow      = []string{"Row", "row"}
	colName     = []string{"Organization", "Organisation", "account_name"}
	colCountry  = []string{"Country", "Country/Areas", "Country/Area"}
	colActivity = []string{"Primary activity"}
	colSector   = []string{"Primary sector"}
	colIndustry = []string{"Primary industry"}
	colISIN     = []string{"ISINs", "ISIN"}
	colTicker   = []string{"Tickers", "tickers", "Ticker"}

	colPeriodStart = []string{
		"C0.2_C1_State the start and end date of the year for which you are reporting data. - Start date",
	}
	colPeriodEnd = []string{
		"C0.2_C2_State the start and end date of the year for which you are reporting data. - End date",
	}
	colBoundary = []string{
		"C0.5_Select the option that describes the reporting boundary for which climate-related impacts on your business are being reported. Note that this option should align with your consolidation approach to your Scope 1 and Scope 2 greenhouse gas inventory.",
		"C0.5_Select the option that describes the reporting boundary for which climate-related impacts on your business are being reported. Note that this option should align with your chosen approach for consolidating your GHG inventory.",
	}
	colCoveredCountries = []string{
		"C0.3_Select the countries/regions for which you will be supplying data.",
		"C0.3_Select the countries/areas in which you operate.",
		"C0.3_Select the countries/regions in which you operate.",
	}
	colScope1 = []string{
		"C6.1_C1_What were your organization’s gross global Scope 1 emissions in metric tons CO2e? - Gross global Scope 1 emissions (metric tons CO2e)",
	}
	colScope2Location = []string{
		"C6.3_C1_What were your organization’s gross global Scope 2 emissions in metric tons CO2e? - Scope 2, location-based",
	}
	colScope2Market = []string{
		"C6.3_C2_What were your organization’s gross global Scope 2 emissions in metric tons CO2e? - Scope 2, market-based (if applicable)",
	}
	colScope3Status = []string{
		"C6.5_C1_Account for your organization’s Scope 3 emissions, disclosing and explaining any exclusions. - Evaluation status",
		"C6.5_C1_Account for your organization’s gross global Scope 3 emissions, disclosing and explaining any exclusions. - Evaluation status",
	}
	colScope3Metric = []string{
		"C6.5_C2_Account for your organization’s Scope 3 emissions, disclosing and explaining any exclusions. - Metric tonnes CO2e",
		"C6.5_C2_Account for your organization’s gross global Scope 3 emissions, disclosing and explaining any exclusions. - Metric tonnes CO2e",
		"C6.5_C2_Account for your organization’s gross global Scope 3 emissions, disclosing and explaining any exclusions. - Emissions in reporting year (metric tons CO2e)",
	}
)
