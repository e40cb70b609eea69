package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name      string
		selected  bool
		weight    float64
		wantState GateState
	}{
		{"no selection with weight", false, 50, GateIncomplete},
		{"selection with zero weight", true, 0, GateIncomplete},
		{"nothing", false, 0, GateIncomplete},
		{"selection and weight", true, 12.5, GateReady},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantState, Evaluate(tc.selected, tc.weight))
		})
	}
}
