package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArrayRoundTrip(t *testing.T) {
	arr := StringArray{"SZAKPOLITIKA", "EUUGYEK"}

	val, err := arr.Value()
	require.NoError(t, err)

	var decoded StringArray
	require.NoError(t, decoded.Scan(val))
	assert.Equal(t, arr, decoded)
}

func TestStringArrayScanLegacyPlainString(t *testing.T) {
	var arr StringArray
	require.NoError(t, arr.Scan("SZAKPOLITIKA"))
	assert.Equal(t, StringArray{"SZAKPOLITIKA"}, arr)
}

func TestStringArrayScanNil(t *testing.T) {
	var arr StringArray
	require.NoError(t, arr.Scan(nil))
	assert.Empty(t, arr)
}

func TestStringArrayContains(t *testing.T) {
	arr := StringArray{"SZAKPOLITIKA", "EUUGYEK"}
	assert.True(t, arr.Contains("EUUGYEK"))
	assert.False(t, arr.Contains("JATEKOSITAS"))
	assert.False(t, StringArray(nil).Contains("SZAKPOLITIKA"))
}
