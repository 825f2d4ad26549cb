package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("DISPATCHOR_CAPACITY", "12")
	t.Setenv("DISPATCHOR_TIME", "2s")
	testCases := []struct {
		description string
		input       string
		expected    string
	}{
		{description: "no expressions", input: "capacity: 10", expected: "capacity: 10"},
		{description: "single", input: "capacity: ${env.DISPATCHOR_CAPACITY}", expected: "capacity: 12"},
		{description: "multiple", input: "${env.DISPATCHOR_CAPACITY}/${env.DISPATCHOR_TIME}", expected: "12/2s"},
		{description: "unset", input: "a${env.DISPATCHOR_UNSET}b", expected: "ab"},
		{description: "missing brace", input: "x ${env.DISPATCHOR_TIME", expected: "x ${env.DISPATCHOR_TIME"},
		{description: "invalid key", input: "${env.a-b} ${env.DISPATCHOR_TIME}", expected: "${env.a-b} 2s"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.Equal(t, testCase.expected, expandEnv(testCase.input))
		})
	}
}

func TestDecode_Env(t *testing.T) {
	t.Setenv("DISPATCHOR_CAPACITY", "7")
	doc, err := Decode(".yaml", []byte("services:\n  - workers:\n      - priority: 0\n        capacity: ${env.DISPATCHOR_CAPACITY}\n"))
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, 7, doc.Services[0].Workers[0].Capacity)
}
