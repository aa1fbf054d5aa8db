package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCommandType(t *testing.T) {
	tests := []struct {
		raw    string
		want   CommandType
		wantOK bool
	}{
		{raw: "CREATE_TASK", want: CommandCreateTask, wantOK: true},
		{raw: "UPDATE_TASK", want: CommandUpdateTask, wantOK: true},
		{raw: "DELETE_TASK", want: CommandDeleteTask, wantOK: true},
		{raw: "create", want: CommandCreateTask, wantOK: true},
		{raw: "update", want: CommandUpdateTask, wantOK: true},
		{raw: "delete", want: CommandDeleteTask, wantOK: true},
		{raw: "Create", want: CommandCreateTask, wantOK: true},
		{raw: " delete ", want: CommandDeleteTask, wantOK: true},
		{raw: "create_task", want: CommandCreateTask, wantOK: true},
		{raw: "", wantOK: false},
		{raw: "MOVE_TASK", wantOK: false},
		{raw: "created", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeCommandType(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
