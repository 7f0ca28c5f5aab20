package job

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJobIDs(t *testing.T) {
	assert := require.New(t)
	assert.Equal(ID("medication_12_schedule_7"), RecurringID(12, 7))
	assert.Equal(RecurringID(12, 7), RecurringID(12, 7))
	assert.NotEqual(RecurringID(1, 23), RecurringID(12, 3))
	assert.Equal(ID("followup_99"), FollowUpID(99))
}
