package hookfsm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const playerTable = `
initial: RUNNING
states: [DEFAULT, RUNNING, STOPPED]
transitions:
  - {name: run, from: DEFAULT, to: RUNNING}
  - {from: DEFAULT, to: STOPPED}
  - {from: RUNNING, to: DEFAULT}
  - {name: stop, from: RUNNING, to: STOPPED}
`

func TestLoadDefinition(t *testing.T) {
	def, err := LoadDefinition(strings.NewReader(playerTable))
	require.NoError(t, err)

	table, err := def.Compile()
	require.NoError(t, err)

	assert.Equal(t, []StateID{stDefault, stRunning, stStopped}, table.States())
	assert.Equal(t, stRunning, table.Initial())
	assert.True(t, table.Allowed(stRunning, stDefault))

	to, ok := table.Named(stRunning, "stop")
	assert.True(t, ok)
	assert.Equal(t, stStopped, to)
}

func TestParseDefinitionJSON(t *testing.T) {
	raw := `{"states": ["A", "B"], "transitions": [{"name": "next", "from": "A", "to": "B"}]}`

	def, err := ParseDefinition([]byte(raw))
	require.NoError(t, err)

	m, err := def.Build(WithLogger(discardLogger))
	require.NoError(t, err)
	assert.Equal(t, StateID("A"), m.State())

	state, err := m.Trigger("next", nil)
	require.NoError(t, err)
	assert.Equal(t, StateID("B"), state)
}

func TestParseDefinitionErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{name: "empty", raw: "", wantErr: "parse definition: empty document"},
		{name: "unknown field", raw: "states: [A]\nguards: []\n", wantErr: "field guards not found"},
		{name: "bad shape", raw: "states: A\n", wantErr: "parse definition"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDefinition([]byte(tt.raw))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParsedDefinitionIsValidatedOnCompile(t *testing.T) {
	def, err := ParseDefinition([]byte("states: [A]\ntransitions:\n  - {from: A, to: B}\n"))
	require.NoError(t, err)

	_, err = def.Compile()
	assert.ErrorContains(t, err, `transition to undefined state "B"`)
}

func TestMarshalDefinition(t *testing.T) {
	out, err := yaml.Marshal(testDefinition())
	require.NoError(t, err)

	def, err := ParseDefinition(out)
	require.NoError(t, err)

	table, err := def.Compile()
	require.NoError(t, err)

	want, err := testDefinition().Compile()
	require.NoError(t, err)
	assert.Equal(t, want.Transitions(), table.Transitions())
	assert.Equal(t, want.States(), table.States())
}
