package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// apply runs a sequence of (party, action) pairs from pending and returns the
// final status, asserting each step is accepted
func apply(t *testing.T, steps ...[2]string) string {
	t.Helper()
	current := StatusPending
	for _, step := range steps {
		next, _, err := nextPaymentStatus(current, step[0], step[1])
		assert.NoError(t, err)
		current = next
	}
	return current
}

func TestNextPaymentStatus_ConfirmationIsOrderIndependent(t *testing.T) {
	riderFirst := apply(t,
		[2]string{PartyRider, ActionConfirm},
		[2]string{PartyDriver, ActionConfirm},
	)
	driverFirst := apply(t,
		[2]string{PartyDriver, ActionConfirm},
		[2]string{PartyRider, ActionConfirm},
	)

	assert.Equal(t, StatusFullyConfirmed, riderFirst)
	assert.Equal(t, StatusFullyConfirmed, driverFirst)
}

func TestNextPaymentStatus_DisputeIsSticky(t *testing.T) {
	// a later confirm from the other party must not override the dispute
	got := apply(t,
		[2]string{PartyRider, ActionDispute},
		[2]string{PartyDriver, ActionConfirm},
	)
	assert.Equal(t, StatusCustomerDisputed, got)

	got = apply(t,
		[2]string{PartyDriver, ActionDispute},
		[2]string{PartyRider, ActionConfirm},
	)
	assert.Equal(t, StatusDriverDisputed, got)
}

func TestNextPaymentStatus_SingleSteps(t *testing.T) {
	tests := []struct {
		name        string
		current     string
		party       string
		action      string
		want        string
		wantChanged bool
	}{
		{"rider confirm from pending", StatusPending, PartyRider, ActionConfirm, StatusCustomerConfirmed, true},
		{"driver confirm from pending", StatusPending, PartyDriver, ActionConfirm, StatusDriverConfirmed, true},
		{"rider completes driver confirmation", StatusDriverConfirmed, PartyRider, ActionConfirm, StatusFullyConfirmed, true},
		{"driver completes rider confirmation", StatusCustomerConfirmed, PartyDriver, ActionConfirm, StatusFullyConfirmed, true},
		{"rider dispute from pending", StatusPending, PartyRider, ActionDispute, StatusCustomerDisputed, true},
		{"driver dispute from pending", StatusPending, PartyDriver, ActionDispute, StatusDriverDisputed, true},
		{"rider dispute after own confirm", StatusCustomerConfirmed, PartyRider, ActionDispute, StatusCustomerDisputed, true},
		{"rider re-confirm is a no-op", StatusCustomerConfirmed, PartyRider, ActionConfirm, StatusCustomerConfirmed, false},
		{"driver re-confirm is a no-op", StatusDriverConfirmed, PartyDriver, ActionConfirm, StatusDriverConfirmed, false},
		{"confirm after settle is a no-op", StatusFullyConfirmed, PartyRider, ActionConfirm, StatusFullyConfirmed, false},
		{"any action on rider dispute is a no-op", StatusCustomerDisputed, PartyRider, ActionDispute, StatusCustomerDisputed, false},
		{"any action on driver dispute is a no-op", StatusDriverDisputed, PartyDriver, ActionConfirm, StatusDriverDisputed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := nextPaymentStatus(tt.current, tt.party, tt.action)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestNextPaymentStatus_DisputeAfterSettlementRejected(t *testing.T) {
	_, _, err := nextPaymentStatus(StatusFullyConfirmed, PartyDriver, ActionDispute)
	assert.Error(t, err)
}

func TestNextPaymentStatus_IdempotentReconfirmation(t *testing.T) {
	// confirm(rider) twice then confirm(driver): still fully_confirmed
	got := apply(t,
		[2]string{PartyRider, ActionConfirm},
		[2]string{PartyRider, ActionConfirm},
		[2]string{PartyDriver, ActionConfirm},
		[2]string{PartyDriver, ActionConfirm},
	)
	assert.Equal(t, StatusFullyConfirmed, got)
}
