package workflows

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedTransitionsContainCurrent(t *testing.T) {
	for _, s := range AllStatuses {
		allowed := AllowedTransitions(string(s))
		assert.Contains(t, allowed, s, "status %s", s)
		assert.Equal(t, s, allowed[0], "current status is listed first for %s", s)
	}
}

func TestAllowedTransitionsTable(t *testing.T) {
	cases := map[Status][]Status{
		StatusNew:            {StatusNew, StatusAccepted, StatusCancelled},
		StatusAccepted:       {StatusAccepted, StatusDiagnostics, StatusCancelled},
		StatusDiagnostics:    {StatusDiagnostics, StatusApproval, StatusCancelled},
		StatusApproval:       {StatusApproval, StatusWaitingParts, StatusInRepair, StatusCancelled},
		StatusWaitingParts:   {StatusWaitingParts, StatusInRepair, StatusCancelled},
		StatusInRepair:       {StatusInRepair, StatusQualityCheck, StatusCancelled},
		StatusQualityCheck:   {StatusQualityCheck, StatusReadyForPickup, StatusCancelled},
		StatusReadyForPickup: {StatusReadyForPickup, StatusCompleted, StatusCancelled},
		StatusCompleted:      {StatusCompleted},
		StatusCancelled:      {StatusCancelled},
	}
	require.Len(t, cases, len(AllStatuses))
	for from, want := range cases {
		assert.Equal(t, want, AllowedTransitions(string(from)), "from %s", from)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.Equal(t, []Status{StatusCompleted}, AllowedTransitions("COMPLETED"))
	assert.Equal(t, []Status{StatusCancelled}, AllowedTransitions("CANCELLED"))
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusReadyForPickup.IsTerminal())
}

func TestAllowedTransitionsNormalizesInput(t *testing.T) {
	assert.Equal(t, AllowedTransitions("NEW"), AllowedTransitions(""))
	assert.Equal(t, AllowedTransitions("IN_REPAIR"), AllowedTransitions(" in_repair "))
}

func TestAllowedTransitionsUnknownFallsBackToSingleton(t *testing.T) {
	assert.Equal(t, []Status{"ON_HOLD"}, AllowedTransitions("on_hold"))
}

func TestAllowedTransitionsReturnsCopy(t *testing.T) {
	allowed := AllowedTransitions("NEW")
	allowed[0] = StatusCompleted
	assert.Equal(t, StatusNew, AllowedTransitions("NEW")[0])
}

func TestSelectDefault(t *testing.T) {
	allowed := []Status{StatusApproval, StatusWaitingParts, StatusInRepair}
	assert.Equal(t, StatusInRepair, SelectDefault(StatusInRepair, allowed))
	assert.Equal(t, StatusApproval, SelectDefault(StatusCompleted, allowed))
	assert.Equal(t, StatusNew, SelectDefault(StatusNew, nil))
}

func TestValidateTransition(t *testing.T) {
	assert.NoError(t, ValidateTransition(StatusNew, StatusAccepted))
	assert.NoError(t, ValidateTransition(StatusCompleted, StatusCompleted))

	err := ValidateTransition(StatusNew, StatusCompleted)
	require.Error(t, err)
	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, StatusNew, te.From)
	assert.Equal(t, StatusCompleted, te.To)

	assert.Error(t, ValidateTransition(StatusCancelled, StatusNew))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("quality_check")
	require.NoError(t, err)
	assert.Equal(t, StatusQualityCheck, s)

	_, err = ParseStatus("BROKEN")
	assert.Error(t, err)
}
