package validator

import (
	"strings"
	"testing"

	"github.com/aretw0/tms/internal/compiler"
	"github.com/aretw0/tms/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, config string) *domain.Program {
	t.Helper()
	prog, err := compiler.NewParser().Parse(strings.NewReader(config))
	require.NoError(t, err)
	return prog
}

func TestValidate_Clean(t *testing.T) {
	r := Validate(parse(t, `q0 10
qH
q0 1 q0 0 right
q0 0 q0 1 right
q0 _ qH _ stay
`))
	assert.Empty(t, r.Issues)
	assert.NoError(t, r.Err())
}

func TestValidate_MissingParts(t *testing.T) {
	r := Validate(parse(t, "# nothing here\n"))
	require.Len(t, r.Errors(), 2)
	assert.Contains(t, r.Issues[0].Message, "missing initial state")
	assert.Contains(t, r.Issues[1].Message, "missing halt state")

	err := r.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 2 errors")
}

func TestValidate_EmptyTapeIsError(t *testing.T) {
	prog := &domain.Program{State: "q0", HaltState: "q0"}
	r := Validate(prog)
	require.Len(t, r.Issues, 1)
	assert.Equal(t, Issue{Severity: SeverityError, Message: "empty tape"}, r.Issues[0])
}

func TestValidate_Warnings(t *testing.T) {
	r := Validate(parse(t, `q0 1
qH
q0 1 q1 1 right
q0 1 qH 1 stay
q1 _ q1 _ stay
q9 1 qH 1 stay
qH 1 q0 1 left
`))

	assert.NoError(t, r.Err(), "warnings do not fail validation")

	var got []string
	for _, i := range r.Issues {
		assert.Equal(t, SeverityWarning, i.Severity)
		got = append(got, i.String())
	}
	assert.Equal(t, []string{
		`warning: instruction 2: shadowed by instruction 1 for state "q0" and symbol "1"`,
		`warning: instruction 5: leaves halt state "qH" and never runs`,
		`warning: halt state "qH" is unreachable from "q0"`,
		`warning: instruction 4: state "q9" is unreachable from "q0"`,
	}, got)
}
