package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidWorkOrderPriority(t *testing.T) {
	for _, p := range []string{
		WorkOrderPriorityLow,
		WorkOrderPriorityMedium,
		WorkOrderPriorityHigh,
		WorkOrderPriorityCritical,
	} {
		assert.True(t, ValidWorkOrderPriority(p), p)
	}

	for _, p := range []string{"", "urgent", "CRITICAL", "Medium"} {
		assert.False(t, ValidWorkOrderPriority(p), p)
	}
}
