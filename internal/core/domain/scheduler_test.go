package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSchedule(t *testing.T) {
	schedule := DefaultSchedule()

	assert.Equal(t, 10*time.Minute, schedule.Frequency)
	assert.Equal(t, 15*time.Minute, schedule.Timeout)
	assert.Equal(t, 3*time.Second, schedule.InitialDelay)
}

func TestIndexTaskID(t *testing.T) {
	assert.Equal(t, "search-index:github", IndexTaskID("github"))
}
