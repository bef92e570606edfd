package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleNames(t *testing.T) {
	assert.Equal(t, "None", RoleNone.String())
	assert.Equal(t, "Manufacturer", RoleManufacturer.String())
	assert.Equal(t, "Airline", RoleAirline.String())
	assert.Equal(t, "MRO", RoleMRO.String())
	assert.Equal(t, "Regulator", RoleRegulator.String())
}

func TestStatusNames(t *testing.T) {
	assert.Equal(t, "Manufactured", StatusManufactured.String())
	assert.Equal(t, "InTransit", StatusInTransit.String())
	assert.Equal(t, "Installed", StatusInstalled.String())
	assert.Equal(t, "InMaintenance", StatusInMaintenance.String())
	assert.Equal(t, "Retired", StatusRetired.String())
}

func TestOutOfRangeOrdinalPanics(t *testing.T) {
	require.Panics(t, func() { _ = Role(200).String() })
	require.Panics(t, func() { _ = Status(uint8(StatusCount)).String() })
}

func TestRevertErrorMessage(t *testing.T) {
	err := &RevertError{Reason: "caller is not the current owner"}
	assert.Equal(t, "ledger rejected operation: caller is not the current owner", err.Error())
}
