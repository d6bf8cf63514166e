package profile

import (
	"os"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// SportTag is one keyword→sport rule. Rules are applied in slice order and
// every distinct matching sport is collected, so the table's order decides
// the order of a multi-sport profile's sports list.
type SportTag struct {
	Keyword string `yaml:"keyword"`
	Sport   string `yaml:"sport"`
}

// defaultSportTable is the built-in tagging table. Soccer aliases come
// first, including position words and "football", since most source
// directories are soccer programs.
var defaultSportTable = []SportTag{
	{"soccer", "Soccer"},
	{"football", "Soccer"},
	{"men's soccer", "Soccer"},
	{"mens soccer", "Soccer"},
	{"goalkeeper", "Soccer"},
	{"goalie", "Soccer"},
	{"midfielder", "Soccer"},
	{"defender", "Soccer"},
	{"forward", "Soccer"},
	{"striker", "Soccer"},
	{"baseball", "Baseball"},
	{"basketball", "Basketball"},
	{"tennis", "Tennis"},
	{"swimming", "Swimming"},
	{"track", "Track & Field"},
	{"field", "Track & Field"},
	{"cross country", "Cross Country"},
	{"volleyball", "Volleyball"},
	{"golf", "Golf"},
	{"wrestling", "Wrestling"},
	{"lacrosse", "Lacrosse"},
	{"softball", "Softball"},
	{"hockey", "Hockey"},
	{"rowing", "Rowing"},
	{"strength", "Strength & Conditioning"},
	{"conditioning", "Strength & Conditioning"},
}

// LoadSportTable reads a tagging table from a YAML file, or returns the
// built-in table when path is empty.
func LoadSportTable(path string) ([]SportTag, error) {
	if path == "" {
		return defaultSportTable, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "profile: read sport table %s", path)
	}
	var table []SportTag
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, eris.Wrapf(err, "profile: parse sport table %s", path)
	}
	if len(table) == 0 {
		return nil, eris.Errorf("profile: sport table %s is empty", path)
	}
	return table, nil
}

// tagSports scans line against the table and collects every distinct
// matching sport in table order. defaultSport stands in when nothing
// matches; the directory being processed is assumed single-sport when
// ambiguous.
func tagSports(table []SportTag, line, defaultSport string) []string {
	lower := strings.ToLower(line)
	var sports []string
	for _, tag := range table {
		if strings.Contains(lower, tag.Keyword) && !slices.Contains(sports, tag.Sport) {
			sports = append(sports, tag.Sport)
		}
	}
	if len(sports) == 0 {
		sports = []string{defaultSport}
	}
	return sports
}

