package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		want    Action
		wantErr bool
	}{
		{
			name: "sweep",
			line: "3,4",
			want: Action{Kind: ActionSweep, X: 2, Y: 3},
		},
		{
			name: "flag",
			line: "f1,2",
			want: Action{Kind: ActionFlag, X: 0, Y: 1},
		},
		{
			name: "question",
			line: "?5,5",
			want: Action{Kind: ActionQuestion, X: 4, Y: 4},
		},
		{
			name: "quit",
			line: "q",
			want: Action{Kind: ActionQuit},
		},
		{
			name: "quit ignores trailing input",
			line: "q1,1",
			want: Action{Kind: ActionQuit},
		},
		{
			name: "whitespace around coordinates",
			line: " f 2 , 3 ",
			want: Action{Kind: ActionFlag, X: 1, Y: 2},
		},
		{
			name: "missing y defaults to 1",
			line: "4",
			want: Action{Kind: ActionSweep, X: 3, Y: 0},
		},
		{
			name: "garbage coordinates default to 1",
			line: "f",
			want: Action{Kind: ActionFlag, X: 0, Y: 0},
		},
		{
			name:    "zero coordinate",
			line:    "0,3",
			wantErr: true,
		},
		{
			name:    "x out of bounds",
			line:    "10,1",
			wantErr: true,
		},
		{
			name:    "y out of bounds",
			line:    "1,10",
			wantErr: true,
		},
		{
			name:    "empty line",
			line:    "",
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			action, err := ParseAction(test.line, 9, 9)
			if test.wantErr {
				require.ErrorIs(t, err, ErrInvalidLocation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, action)
		})
	}
}
