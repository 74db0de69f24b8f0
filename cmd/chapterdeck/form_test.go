package main

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type genCall struct{ leader, month string }

func testForm(leader string, calls *[]genCall) formModel {
	gen := func(l, m string) tea.Cmd {
		*calls = append(*calls, genCall{l, m})
		return func() tea.Msg { return generatedMsg{} }
	}
	return newFormModel(leader, []string{"2025 05", "2025 04", "2025 03"}, "2025 05", gen)
}

func press(t *testing.T, m formModel, keys ...tea.KeyMsg) formModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		var ok bool
		m, ok = next.(formModel)
		require.True(t, ok)
	}
	return m
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
)

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFormRequiresLeader(t *testing.T) {
	var calls []genCall
	m := press(t, testForm("", &calls), keyEnter)
	assert.Empty(t, calls)
	assert.Equal(t, statusError, m.kind)
	assert.Contains(t, m.status, "Chapter Leader")
	assert.False(t, m.running)
}

func TestFormGenerateDefaultMonth(t *testing.T) {
	var calls []genCall
	m := press(t, testForm("", &calls), typed("Ana Ruiz"), keyEnter)
	require.Equal(t, []genCall{{"Ana Ruiz", "2025 05"}}, calls)
	assert.True(t, m.running)
	assert.Equal(t, statusBusy, m.kind)
	assert.Contains(t, m.View(), "Generando presentación de Ana Ruiz (2025 05)")

	// keys are ignored while generating
	m = press(t, m, keyEnter)
	assert.Len(t, calls, 1)

	next, _ := m.Update(generatedMsg{copied: []string{"/d/2025 05/outputs/x.pptx"}, dest: "/d/2025 05/outputs"})
	m = next.(formModel)
	assert.False(t, m.running)
	assert.Equal(t, statusOK, m.kind)
	assert.Equal(t, "Presentación copiada a: /d/2025 05/outputs", m.status)
}

func TestFormPickMonth(t *testing.T) {
	var calls []genCall
	m := testForm("Ana Ruiz", &calls)

	// the month selector is skipped while the default month is used
	m = press(t, m, keyTab, keyTab)
	assert.Equal(t, focusGenerate, m.focus)
	assert.NotContains(t, m.View(), "Selecciona el mes")

	m = press(t, m, keyTab, keyTab, keySpace)
	require.Equal(t, focusDefault, m.focus)
	assert.False(t, m.useDefault)

	m = press(t, m, keyTab, keyRight, keyRight)
	assert.Equal(t, focusMonth, m.focus)
	assert.Equal(t, "2025 03", m.selectedMonth())
	m = press(t, m, keyRight, keyLeft, keyLeft)
	assert.Equal(t, "2025 04", m.selectedMonth())
	assert.Contains(t, m.View(), "‹ 2025 04 ›")

	m = press(t, m, keyTab, keyEnter)
	assert.Equal(t, []genCall{{"Ana Ruiz", "2025 04"}}, calls)
}

func TestFormGenerationOutcome(t *testing.T) {
	var calls []genCall
	m := testForm("Ana Ruiz", &calls)

	next, _ := m.Update(generatedMsg{err: errors.New("template missing")})
	m = next.(formModel)
	assert.Equal(t, statusError, m.kind)
	assert.Equal(t, "Error al generar presentación: template missing", m.status)

	next, _ = m.Update(generatedMsg{dest: "/d/out"})
	m = next.(formModel)
	assert.Equal(t, statusWarn, m.kind)
	assert.True(t, strings.HasPrefix(m.status, "No se encontró"))
}

func TestFormQuit(t *testing.T) {
	var calls []genCall
	_, cmd := testForm("", &calls).Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
