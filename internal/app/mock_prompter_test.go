// Where: internal/app/mock_prompter_test.go
// What: Scripted Prompter for interactive command tests.
// Why: Drive prompts deterministically without a terminal.
package app

type mockPrompter struct {
	answers   map[string]string
	selection string
	asked     []string
	options   []string
}

func (m *mockPrompter) Input(title, value string) (string, error) {
	m.asked = append(m.asked, title)
	if answer, ok := m.answers[title]; ok {
		return answer, nil
	}
	return value, nil
}

func (m *mockPrompter) Select(_ string, options []string) (string, error) {
	m.options = options
	return m.selection, nil
}
