// Package discovery implements the search-and-harvest pipeline: query
// planning, candidate classification, HTML document mining, confidence
// probing, downloading, and the conventional-path fallback prober.
package discovery

import "fmt"

// BuildQueries generates the ordered search queries for one institution:
// site-restricted PDF queries first, then institution-name queries for
// broader recall, then HTML-probe queries without the PDF restriction so
// directory pages like /staff-directory can be mined for linked documents.
// The output is deterministic for the same input.
func BuildQueries(name, domain, athleticsDomain string) []string {
	base := []string{
		fmt.Sprintf(`site:%s "athletics staff directory" filetype:pdf`, domain),
		fmt.Sprintf(`site:%s "athletic staff directory" filetype:pdf`, domain),
		fmt.Sprintf(`site:%s "staff directory" "athletics" filetype:pdf`, domain),
		fmt.Sprintf(`site:athletics.%s "staff directory" filetype:pdf`, domain),
		fmt.Sprintf(`site:%s "athletics directory" filetype:pdf`, domain),
		fmt.Sprintf(`site:%s ("coaches directory" OR "coaches contact") filetype:pdf`, domain),
	}
	if athleticsDomain != "" && athleticsDomain != domain {
		base = append(base,
			fmt.Sprintf(`site:%s "staff directory" filetype:pdf`, athleticsDomain),
			fmt.Sprintf(`site:%s ("coaches" OR "directory") filetype:pdf`, athleticsDomain),
		)
	}

	wide := []string{
		fmt.Sprintf(`"%s" "athletics staff directory" filetype:pdf`, name),
		fmt.Sprintf(`"%s" athletics "staff directory" filetype:pdf`, name),
	}

	htmlProbe := []string{
		fmt.Sprintf(`site:%s ("staff directory" AND athletics)`, domain),
		fmt.Sprintf(`site:athletics.%s "staff directory"`, domain),
		fmt.Sprintf(`site:%s inurl:staff-directory`, domain),
	}
	if athleticsDomain != "" && athleticsDomain != domain {
		htmlProbe = append(htmlProbe,
			fmt.Sprintf(`site:%s "staff directory"`, athleticsDomain),
			fmt.Sprintf(`site:%s inurl:staff-directory`, athleticsDomain),
		)
	}

	queries := make([]string, 0, len(base)+len(wide)+len(htmlProbe))
	queries = append(queries, base...)
	queries = append(queries, wide...)
	queries = append(queries, htmlProbe...)
	return queries
}
