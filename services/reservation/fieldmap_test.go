package reservation

import (
	"testing"

	"travelagency/database/repository/remote"
	"travelagency/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldMappingsAreUnique(t *testing.T) {
	apps := map[string]bool{}
	stores := map[string]bool{}
	for _, m := range FieldMappings {
		assert.False(t, apps[m.AppField], "duplicate app field %s", m.AppField)
		assert.False(t, stores[m.StoreField], "duplicate store field %s", m.StoreField)
		apps[m.AppField] = true
		stores[m.StoreField] = true
	}
}

func TestToStoreUsesIrregularMarkupColumn(t *testing.T) {
	row := ToStore(map[string]any{"markupPreference": 12.5, "walletBalance": int64(100)})

	assert.Equal(t, remote.Record{"agency_markup_pct": 12.5, "wallet_balance": int64(100)}, row)
}

func TestFieldMapRoundTripKnownFields(t *testing.T) {
	app := map[string]any{}
	for _, m := range FieldMappings {
		app[m.AppField] = "v-" + m.AppField
	}

	back := FromStore(ToStore(app))

	assert.Equal(t, app, back)
}

func TestFieldMapUnknownKeysUseMechanicalRule(t *testing.T) {
	row := ToStore(map[string]any{"loyaltyTierLevel": 2})
	assert.Contains(t, row, "loyalty_tier_level")

	app := FromStore(remote.Record{"loyalty_tier_level": 2})
	assert.Contains(t, app, "loyaltyTierLevel")
}

func TestNestedValuesPassThrough(t *testing.T) {
	travelers := []any{map[string]any{"firstName": "Amine", "passportNumber": "P1"}}
	row := ToStore(map[string]any{"travelers": travelers})

	assert.Equal(t, travelers, row["travelers"])
}

func TestEncodeDecodeAgentProfile(t *testing.T) {
	markup := 12.5
	u := models.User{
		ID:               "USR-1",
		Name:             "Sahara Voyages",
		Email:            "contact@sahara.dz",
		Role:             "AGENT",
		AgencyName:       "Sahara Voyages",
		WalletBalance:    20000,
		MarkupPreference: &markup,
		Status:           models.ApprovalApproved,
	}

	row, err := encode(u)
	require.NoError(t, err)
	assert.Equal(t, 12.5, row["agency_markup_pct"])
	assert.Equal(t, int64(20000), row["wallet_balance"])

	back, err := decode[models.User](row)
	require.NoError(t, err)
	assert.Equal(t, u, back)
}
