package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passportMRZ = `P<ITAROSSI<<DAVIDE<<<<<<<<<<<<<<<<<<<<<<<<<<
YA12345678ITA8001019M3001012<<<<<<<<<<<<<<06`

const idCardMRZ = `IDITACA00000AA<<<<<<<<<<<<<<<<
8001019F3001012ITA<<<<<<<<<<<8
ROSSI<<MARIA<<<<<<<<<<<<<<<<<<`

func Test_ParseMRZ_TD3(t *testing.T) {
	got := parseMRZ("REPUBBLICA ITALIANA\nPASSAPORTO\n\n" + passportMRZ)

	require.True(t, got.found)
	assert.Equal(t, mrzTD3, got.format)
	assert.Equal(t, 0.95, got.confidence)
	assert.Equal(t, "ROSSI", got.data["surname"])
	assert.Equal(t, "DAVIDE", got.data["given_names"])
	assert.Equal(t, "YA1234567", got.data["document_number"])
	assert.Equal(t, "ITA", got.data["nationality"])
	assert.Equal(t, "1980-01-01", got.data["date_of_birth"])
	assert.Equal(t, "2030-01-01", got.data["expiry_date"])
	assert.Equal(t, "M", got.data["sex"])
}

func Test_ParseMRZ_TD1(t *testing.T) {
	got := parseMRZ("CARTA DI IDENTITA\n\n" + idCardMRZ)

	require.True(t, got.found)
	assert.Equal(t, mrzTD1, got.format)
	assert.Equal(t, "ROSSI", got.data["surname"])
	assert.Equal(t, "MARIA", got.data["given_names"])
	assert.Equal(t, "CA00000AA", got.data["document_number"])
	assert.Equal(t, "1980-01-01", got.data["date_of_birth"])
	assert.Equal(t, "2030-01-01", got.data["expiry_date"])
	assert.Equal(t, "F", got.data["sex"])
}

func Test_ParseMRZ_NotFound(t *testing.T) {
	got := parseMRZ("just a short paragraph of prose\nwith normal lines")

	assert.False(t, got.found)
	assert.Zero(t, got.confidence)
}

func Test_ParseMRZ_LooseFormat(t *testing.T) {
	got := parseMRZ("ROSSI<<DAVIDE<<<<<<<<<<<<<<<\nDOC123456<<<<<<<<<<<<<<<<<<<")

	require.True(t, got.found)
	assert.Equal(t, mrzCustom, got.format)
	assert.Equal(t, 0.8, got.confidence)
	assert.Equal(t, "ROSSI", got.data["surname"])
	assert.Equal(t, "DAVIDE", got.data["given_names"])
}

func Test_ParseMRZDate_CenturyRule(t *testing.T) {
	assert.Equal(t, "2030-01-01", parseMRZDate("300101"))
	assert.Equal(t, "1980-01-01", parseMRZDate("800101"))
	assert.Equal(t, "1950-06-15", parseMRZDate("500615"))
	assert.Equal(t, "2049-12-31", parseMRZDate("491231"))
	assert.Empty(t, parseMRZDate("991332"))
	assert.Empty(t, parseMRZDate("abc"))
}
