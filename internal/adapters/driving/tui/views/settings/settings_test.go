package settings

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nerstat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/nerstat/internal/core/domain"
)

type mockSettings struct {
	values map[string]string
	keys   []string
	err    error
}

func (m *mockSettings) Get() (*domain.AppSettings, error) { return nil, nil }

func (m *mockSettings) Save(*domain.AppSettings) error { return nil }

func (m *mockSettings) SetValue(_, _ string) error { return nil }

func (m *mockSettings) Keys() []string { return m.keys }

func (m *mockSettings) Validate() error { return nil }

func (m *mockSettings) ValidateExtractorConfig() error { return nil }

func (m *mockSettings) GetDefaults() domain.AppSettings { return domain.AppSettings{} }

func (m *mockSettings) GetValue(key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.values[key], nil
}

func (m *mockSettings) SetExtractor(domain.ExtractorProvider, string, string) error {
	return nil
}

func newMock() *mockSettings {
	return &mockSettings{
		keys: []string{"extractor.provider", "extractor.api_token", "output.dir"},
		values: map[string]string{
			"extractor.provider":  "huggingface",
			"extractor.api_token": "hf_abcdefgh1234",
		},
	}
}

func TestView_Init_Loads(t *testing.T) {
	v := NewView(nil, newMock())
	v.SetDimensions(100, 30)

	v.Update(v.Init()())

	require.Len(t, v.Entries(), 3)
	assert.Equal(t, "****1234", v.Entries()[1].Value)

	out := v.View()
	assert.Contains(t, out, "huggingface")
	assert.Contains(t, out, "(unset)")
	assert.NotContains(t, out, "hf_abcdefgh")
}

func TestView_Init_Error(t *testing.T) {
	m := newMock()
	m.err = errors.New("unknown key")
	v := NewView(nil, m)
	v.SetDimensions(100, 30)

	v.Update(v.Init()())

	assert.Contains(t, v.View(), "extractor.provider: unknown key")
}

func TestView_Init_NilService(t *testing.T) {
	v := NewView(nil, nil)

	msg, ok := v.Init()().(messages.SettingsLoaded)

	require.True(t, ok)
	assert.ErrorIs(t, msg.Err, errNoSettings)
}

func TestView_Navigation(t *testing.T) {
	v := NewView(nil, newMock())
	v.Update(v.Init()())

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, v.selected)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_Reload(t *testing.T) {
	v := NewView(nil, newMock())
	v.Update(v.Init()())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})

	require.NotNil(t, cmd)
	assert.Empty(t, v.Entries())
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", mask("extractor.api_token", ""))
	assert.Equal(t, "****", mask("extractor.api_token", "abc"))
	assert.Equal(t, "****wxyz", mask("extractor.api_token", "abcdwxyz"))
	assert.Equal(t, "plain", mask("output.dir", "plain"))
}
