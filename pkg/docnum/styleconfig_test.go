package docnum

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStyleConfigs(t *testing.T) {
	yaml := `
SectionHeader:
  size_pt: 14
  bold: true
  color: 1F4E79
  space_before_pt: 6
  space_after_pt: 4
  outline_level: 1
  box:
    edge: bottom
    color: 4472C4
    width_pt8: 8
    table_wrap: true
BulletItem:
  size_pt: 10
  indent_left: 23
  indent_hanging: 13
`
	configs, err := LoadStyleConfigs(strings.NewReader(yaml))
	require.NoError(t, err)
	require.Len(t, configs, 2)

	header := configs["SectionHeader"]
	assert.Equal(t, 14, header.SizePt)
	assert.True(t, header.Bold)
	assert.Equal(t, 1, header.OutlineLevel)
	require.NotNil(t, header.Box)
	assert.True(t, header.Box.TableWrap)
	assert.Equal(t, 8, header.Box.WidthPt8)

	bullet := configs["BulletItem"]
	assert.Equal(t, 23, bullet.IndentLeft)
	assert.Equal(t, 13, bullet.IndentHanging)
}

func TestLoadStyleConfigsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative size", "Bad:\n  size_pt: -1\n"},
		{"hanging exceeds left", "Bad:\n  indent_left: 10\n  indent_hanging: 20\n"},
		{"unknown box edge", "Bad:\n  box:\n    edge: diagonal\n"},
		{"not a mapping", "- just\n- a\n- list\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadStyleConfigs(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}
