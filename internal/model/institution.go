// Package model defines the domain types shared across the discovery and
// extraction pipelines.
package model

// Institution is one academic institution to scout for an athletics staff
// directory. Domains are normalized hostnames (no scheme, no leading www).
type Institution struct {
	UnitID          string `json:"unitid,omitempty"`
	Name            string `json:"name"`
	State           string `json:"state,omitempty"`
	Domain          string `json:"domain"`
	AthleticsDomain string `json:"athletics_domain,omitempty"`
}
