package hypernode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePHPVersion(t *testing.T) {
	for _, v := range PHPVersions {
		got, err := ParsePHPVersion(string(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	_, err := ParsePHPVersion("8.4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"8.4"`)
	assert.Contains(t, err.Error(), "5.5, 5.6, 7.0, 7.1, 7.2")

	_, err = ParsePHPVersion("")
	assert.Error(t, err)
}

func TestParseSSHUser(t *testing.T) {
	got, err := ParseSSHUser("root")
	require.NoError(t, err)
	assert.Equal(t, UserRoot, got)

	_, err = ParseSSHUser("vagrant")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app, root")
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, PHP70, DefaultPHPVersion)
	assert.Equal(t, UserApp, DefaultSSHUser)
	assert.Contains(t, PHPVersions, DefaultPHPVersion)
	assert.Contains(t, SSHUsers, DefaultSSHUser)
}

func TestSupports(t *testing.T) {
	tests := []struct {
		php     PHPVersion
		precise bool
	}{
		{PHP55, true},
		{PHP56, true},
		{PHP70, true},
		{PHP71, false},
		{PHP72, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.php), func(t *testing.T) {
			assert.Equal(t, tt.precise, Supports(Precise, tt.php))
			assert.True(t, Supports(Xenial, tt.php), "xenial ships every version")
		})
	}
}

func TestPreciseUnavailable(t *testing.T) {
	assert.Equal(t, []PHPVersion{PHP71, PHP72}, PreciseUnavailable())
}

func TestImageString(t *testing.T) {
	assert.Equal(t, "precise", Precise.String())
	assert.Equal(t, "xenial", Xenial.String())
	assert.Equal(t, "Image(7)", Image(7).String())
}
