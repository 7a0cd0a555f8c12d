package semholder

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptionsNil(t *testing.T) {
	var (
		assert = assert.New(t)
		o      *Options
	)

	assert.Zero(o.preallocHolders())
	assert.Zero(o.nestedBoosts())
	assert.False(o.debugAssertions())
	assert.False(o.verifyHolders())
	assert.False(o.phDebug())
	assert.NotNil(o.logger())
}

func testOptionsVerifyHoldersRequiresDebug(t *testing.T) {
	assert := assert.New(t)

	o := &Options{VerifyHolders: true}
	assert.False(o.verifyHolders())

	o.DebugAssertions = true
	assert.True(o.verifyHolders())
}

func TestOptions(t *testing.T) {
	t.Run("Nil", testOptionsNil)
	t.Run("VerifyHoldersRequiresDebug", testOptionsVerifyHoldersRequiresDebug)
}

const optionsConfig = `
	{
		"semholder": {
			"preallocHolders": 16,
			"nestedBoosts": 4,
			"debugAssertions": true,
			"phDebug": true
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
	require.NoError(v.ReadConfig(strings.NewReader(optionsConfig)))

	o, err := FromViper(Sub(v))
	require.NoError(err)
	require.NotNil(o)

	assert.Equal(16, o.preallocHolders())
	assert.Equal(4, o.nestedBoosts())
	assert.True(o.debugAssertions())
	assert.True(o.phDebug())
}

func testFromViperNil(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	o, err := FromViper(nil)
	require.NoError(err)
	require.NotNil(o)
	assert.Zero(o.preallocHolders())
}

func TestFromViper(t *testing.T) {
	t.Run("SubKey", testFromViperSubKey)
	t.Run("Nil", testFromViperNil)
}
