// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"slices"

	"github.com/Pladifes/cdp-preprocessing/internal/table"
	"github.com/Pladifes/cdp-preprocessing/pkg/types"
)

// legacyCountries reads a CC0.3 sheet. Each row names one country across
// its last two columns; rows are gathered per account in sheet order and
// serialized as a JSON string array.
func legacyCountries(t *table.Table) (map[string]string, error) {
	account, err := requireColumn(t, "account", colLegacyAccount...)
	if err != nil {
		return nil, err
	}
	lists := make(map[string][]string)
	first := max(t.Width()-2, 0)
	for i := range t.Rows {
		id := table.Key(t.Cell(i, account))
		if id == "" {
			continue
		}
		var name string
		for col := first; col < t.Width(); col++ {
			if col == account {
				continue
			}
			name += t.Cell(i, col)
		}
		if _, seen := lists[id]; !seen {
			lists[id] = []string{}
		}
		if name != "" {
			lists[id] = append(lists[id], name)
		}
	}
	return encodeLists(lists), nil
}

// modernCountries reads a C0.3 sheet, collecting the selected countries of
// each account into one serialized list.
func modernCountries(t *table.Table) (map[string]string, error) {
	account, err := requireColumn(t, "account", colAccount...)
	if err != nil {
		return nil, err
	}
	country, err := requireColumn(t, "covered countries", colCoveredCountries...)
	if err != nil {
		return nil, err
	}
	lists := make(map[string][]string)
	for i := range t.Rows {
		id := table.Key(t.Cell(i, account))
		if id == "" {
			continue
		}
		name := t.Cell(i, country)
		if _, seen := lists[id]; !seen {
			lists[id] = []string{}
		}
		if name != "" && !table.IsNotApplicable(name) && !slices.Contains(lists[id], name) {
			lists[id] = append(lists[id], name)
		}
	}
	return encodeLists(lists), nil
}

func encodeLists(lists map[string][]string) map[string]string {
	out := make(map[string]string, len(lists))
	for id, l := range lists {
		out[id] = types.EncodeCountries(l)
	}
	return out
}
