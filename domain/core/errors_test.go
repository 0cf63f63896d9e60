package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorHelpers(t *testing.T) {
	srcErr := NewSourceError("titanic.csv", errors.New("no such file"))
	assert.True(t, IsSourceError(srcErr))
	assert.True(t, IsLoadError(srcErr))
	assert.False(t, IsSchemaError(srcErr))
	assert.Contains(t, srcErr.Error(), "titanic.csv")

	schemaErr := NewMissingColumnsError([]string{"Age"})
	assert.True(t, IsSchemaError(schemaErr))
	assert.True(t, IsLoadError(fmt.Errorf("load: %w", schemaErr)))

	notFound := NewNotFoundError("snapshot", "abc")
	assert.True(t, IsNotFoundError(notFound))
	assert.True(t, IsNotFoundError(ErrSnapshotNotFound))
	assert.False(t, IsLoadError(notFound))

	assert.ErrorIs(t, NewUnknownColumnError("Cabin"), ErrUnknownColumn)
}
