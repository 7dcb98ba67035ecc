package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"São Paulo":        "sao paulo",
		"Sao Paulo":        "sao paulo",
		"  SÃO   PAULO  ":  "sao paulo",
		"Ribeirão Preto":   "ribeirao preto",
		"Brasília":         "brasilia",
		"Taubaté":          "taubate",
		"":               "",
		"Belo Horizonte": "belo horizonte",
	}

	for in, want := range cases {
		assert.Equal(t, want, NormalizeName(in), "input %q", in)
	}
}

func TestNormalizeNameMatchesAcrossSpellings(t *testing.T) {
	assert.Equal(t, NormalizeName("São Paulo"), NormalizeName("sao paulo"))
	assert.Equal(t, NormalizeName("Goiânia"), NormalizeName("GOIANIA"))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "11987654321", NormalizePhone("(11) 98765-4321"))
	assert.Equal(t, "1133334444", NormalizePhone("11 3333-4444"))
	assert.Equal(t, "", NormalizePhone("abc"))
}

func TestValidateClient(t *testing.T) {
	phone, err := ValidateClient("Maria Silva", "(11) 98765-4321")
	require.NoError(t, err)
	assert.Equal(t, "11987654321", phone)

	phone, err = ValidateClient("João", "1133334444")
	require.NoError(t, err)
	assert.Equal(t, "1133334444", phone)

	_, err = ValidateClient("João", "119876543") // 9 digits
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "client_phone", verr.Field)

	_, err = ValidateClient("   ", "11987654321")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "client_name", verr.Field)
}
