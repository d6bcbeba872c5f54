package services

import (
	"strings"
	"testing"

	"friend-map-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContactsCSVItalianHeaders(t *testing.T) {
	input := "Nome,Cognome,Città,Email,Telefono\n" +
		"Mario,Rossi,Milano,mario@example.com,+39 333 1234567\n" +
		"Luca,,Roma,,\n"

	friends, rowErrors, err := parseContactsCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, friends, 2)

	assert.Equal(t, "Mario", friends[0].FirstName)
	assert.Equal(t, "Rossi", friends[0].LastName)
	require.NotNil(t, friends[0].City)
	assert.Equal(t, "Milano", *friends[0].City)
	require.NotNil(t, friends[0].Email)
	assert.Equal(t, "mario@example.com", *friends[0].Email)
	require.NotNil(t, friends[0].Phone)
	assert.Equal(t, "+39 333 1234567", *friends[0].Phone)
	assert.Equal(t, models.GeocodePending, friends[0].GeocodeStatus)
	assert.Equal(t, models.ImportSourceCSV, friends[0].Source)

	assert.Equal(t, "Luca", friends[1].FirstName)
	assert.Nil(t, friends[1].Email)
	assert.Nil(t, friends[1].Phone)
}

func TestParseContactsCSVEnglishHeaders(t *testing.T) {
	input := "Name,Surname,City\n" +
		"Alice,Walker,Boston\n"

	friends, rowErrors, err := parseContactsCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, friends, 1)
	assert.Equal(t, "Alice", friends[0].FirstName)
	assert.Equal(t, "Walker", friends[0].LastName)
}

func TestParseContactsCSVBOMAndCaseInsensitiveHeaders(t *testing.T) {
	input := "\uFEFFNOME,COGNOME\nGiulia,Bianchi\n"

	friends, _, err := parseContactsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "Giulia", friends[0].FirstName)
}

func TestParseContactsCSVMissingNameColumn(t *testing.T) {
	input := "Città,Email\nMilano,mario@example.com\n"

	_, _, err := parseContactsCSV(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name column")
}

func TestParseContactsCSVRowErrors(t *testing.T) {
	input := "Nome,Cognome,Città\n" +
		"Mario,Rossi,Milano\n" +
		",,Roma\n" +
		"Luca,Verdi,Torino\n"

	friends, rowErrors, err := parseContactsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, friends, 2)
	require.Len(t, rowErrors, 1)
	// Header is row 1, the nameless row is the third line of the file.
	assert.Equal(t, 3, rowErrors[0].Row)
	assert.Equal(t, "missing name", rowErrors[0].Reason)
}

func TestParseContactsCSVEmptyFile(t *testing.T) {
	_, _, err := parseContactsCSV(strings.NewReader(""))
	require.Error(t, err)
}
