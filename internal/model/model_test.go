package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("excused").Valid())
	assert.False(t, Status("").Valid())
	assert.False(t, Status("Present").Valid())
}

func TestStatusCountsAdd(t *testing.T) {
	var c StatusCounts
	c.Add(StatusPresent, 3)
	c.Add(StatusLate, 1)
	c.Add(StatusAbsent, 2)
	assert.Equal(t, StatusCounts{Total: 6, Present: 3, Absent: 2, Late: 1}, c)
}
