package entities

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskFill(t *testing.T) {
	task := Task{ID: uuid.New()}
	member := uuid.New()
	at := time.Now()

	require.NoError(t, task.Fill(member, at))
	assert.True(t, task.Filled)
	require.NotNil(t, task.FilledByMemberID)
	assert.Equal(t, member, *task.FilledByMemberID)
	assert.Equal(t, at, *task.FilledAt)

	err := task.Fill(uuid.New(), at)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, member, *task.FilledByMemberID, "second claim must not overwrite fulfiller")
	assert.False(t, task.CanBeEdited())
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "08123456789", want: "08123456789"},
		{in: " 0812-3456 789 ", want: "08123456789"},
		{in: "+62 (812) 3456.789", want: "+628123456789"},
		{in: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.in))
		})
	}
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("image/png"))
	assert.True(t, IsImage("IMAGE/JPEG"))
	assert.False(t, IsImage("application/pdf"))
	assert.False(t, IsImage(""))
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{name: "task not found", err: ErrTaskNotFound, kind: ErrNotFound},
		{name: "wrapped not found", err: fmt.Errorf("get task: %w", ErrTaskNotFound), kind: ErrNotFound},
		{name: "task unavailable", err: ErrTaskUnavailable, kind: ErrConflict},
		{name: "phone taken", err: ErrPhoneTaken, kind: ErrConflict},
		{name: "validation", err: NewValidationError("name", "is required"), kind: ErrValidation},
		{name: "store", err: NewStoreError("insert member", errors.New("connection reset")), kind: ErrStore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
		})
	}
}

func TestNewStoreError_KeepsDomainErrors(t *testing.T) {
	assert.Nil(t, NewStoreError("op", nil))
	assert.Equal(t, ErrTaskNotFound, NewStoreError("op", ErrTaskNotFound))

	cause := errors.New("disk full")
	err := NewStoreError("put object", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "put object: disk full", err.Error())
}

func TestValidationError(t *testing.T) {
	var verr ValidationError
	assert.Nil(t, verr.OrNil())

	err := verr.Add("name", "is required").Add("phone", "is required").OrNil()
	require.Error(t, err)
	assert.Equal(t, "validation failed: name: is required; phone: is required", err.Error())

	var target *ValidationError
	require.True(t, errors.As(err, &target))
	assert.Len(t, target.Fields, 2)
}
