package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, theme.Primary)
	assert.NotEmpty(t, theme.BarFill)
}

func TestNewStyles_NilThemeUsesDefault(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.Equal(t, DefaultTheme(), s.Theme())
}

func TestStyles_Tab(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.Tab("概要", true), "概要")
	assert.Contains(t, s.Tab("概要", false), "概要")
}

func TestStyles_Fraction(t *testing.T) {
	s := DefaultStyles()

	tests := []struct {
		name     string
		fraction float64
		width    int
		want     int
	}{
		{"half", 0.5, 10, 10},
		{"clamped high", 2, 4, 4},
		{"clamped low", -1, 4, 4},
		{"zero width", 0.5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lipgloss.Width(s.Fraction(tt.fraction, tt.width)))
		})
	}
}
