package logging

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const viperConfig = `
	{
		"log": {
			"file": "stdout",
			"level": "INFO",
			"json": true
		}
	}
`

func testFromViperSubKey(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		v = viper.New()
	)

	v.SetConfigType("json")
	require.NoError(v.ReadConfig(strings.NewReader(viperConfig)))

	o, err := FromViper(Sub(v))
	require.NoError(err)
	require.NotNil(o)

	assert.Equal(StdoutFile, o.File)
	assert.Equal("INFO", o.Level)
	assert.True(o.JSON)
}

func testFromViperNil(t *testing.T) {
	var (
		require = require.New(t)
	)

	o, err := FromViper(nil)
	require.NoError(err)
	require.NotNil(o)
	require.NotNil(New(o))
}

func TestFromViper(t *testing.T) {
	t.Run("SubKey", testFromViperSubKey)
	t.Run("Nil", testFromViperNil)
}
