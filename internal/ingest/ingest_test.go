package ingest

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "institutions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_IPEDSHeaders(t *testing.T) {
	path := writeTempCSV(t,
		"UNITID,INSTNM,STABBR,INSTURL,ATHURL\n"+
			"184782,Rowan University,NJ,https://www.rowan.edu,rowanathletics.com\n"+
			"217156,Bryant University,RI,www.bryant.edu,\n")

	institutions, err := Load(path)
	require.NoError(t, err)
	require.Len(t, institutions, 2)

	assert.Equal(t, "184782", institutions[0].UnitID)
	assert.Equal(t, "Rowan University", institutions[0].Name)
	assert.Equal(t, "NJ", institutions[0].State)
	assert.Equal(t, "rowan.edu", institutions[0].Domain)
	assert.Equal(t, "rowanathletics.com", institutions[0].AthleticsDomain)

	assert.Equal(t, "bryant.edu", institutions[1].Domain)
	assert.Empty(t, institutions[1].AthleticsDomain)
}

func TestLoad_FriendlyHeaders(t *testing.T) {
	path := writeTempCSV(t,
		"Institution Name,State,Website\n"+
			"Rowan University,nj,rowan.edu\n")

	institutions, err := Load(path)
	require.NoError(t, err)
	require.Len(t, institutions, 1)
	assert.Equal(t, "NJ", institutions[0].State)
	assert.Equal(t, "rowan.edu", institutions[0].Domain)
}

func TestLoad_DropsRowsWithoutDomain(t *testing.T) {
	path := writeTempCSV(t,
		"name,state,website\n"+
			"No Website College,PA,\n"+
			"Rowan University,NJ,rowan.edu\n")

	institutions, err := Load(path)
	require.NoError(t, err)
	require.Len(t, institutions, 1)
	assert.Equal(t, "Rowan University", institutions[0].Name)
}

func TestLoad_DedupesByDomain(t *testing.T) {
	path := writeTempCSV(t,
		"name,state,website\n"+
			"Rowan University,NJ,rowan.edu\n"+
			"Rowan University Duplicate,NJ,https://www.rowan.edu\n")

	institutions, err := Load(path)
	require.NoError(t, err)
	require.Len(t, institutions, 1)
	assert.Equal(t, "Rowan University", institutions[0].Name)
}

func TestLoad_NoUsableRows(t *testing.T) {
	path := writeTempCSV(t, "name,state,website\nGhost College,PA,\n")

	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "usable domain")
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeTempCSV(t, "name,state,website\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_ZIPContainingCSV(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "hd2023.zip")

	f, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("hd2023.csv")
	require.NoError(t, err)
	_, err = w.Write([]byte("UNITID,INSTNM,STABBR,INSTURL\n1,Rowan University,NJ,rowan.edu\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	institutions, err := Load(zipPath)
	require.NoError(t, err)
	require.Len(t, institutions, 1)
	assert.Equal(t, "rowan.edu", institutions[0].Domain)
}

func TestLoad_Latin1Fallback(t *testing.T) {
	// 0xF1 is ñ in Latin-1 and invalid on its own in UTF-8.
	content := append([]byte("name,state,website\nCa"), 0xF1)
	content = append(content, []byte("ada College,TX,canada.edu\n")...)

	path := filepath.Join(t.TempDir(), "latin1.csv")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	institutions, err := Load(path)
	require.NoError(t, err)
	require.Len(t, institutions, 1)
	assert.Equal(t, "Cañada College", institutions[0].Name)
}

func TestFilterStates(t *testing.T) {
	path := writeTempCSV(t,
		"name,state,website\n"+
			"Rowan University,NJ,rowan.edu\n"+
			"Bryant University,RI,bryant.edu\n")

	institutions, err := Load(path)
	require.NoError(t, err)

	filtered := FilterStates(institutions, []string{"ri"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "Bryant University", filtered[0].Name)

	assert.Len(t, FilterStates(institutions, nil), 2)
}
