package utils

import (
	"maestro/src/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptrS(s string) *string { return &s }

func TestTiersFromInput(t *testing.T) {
	end := "2030-04-01T00:00:00Z"
	tiers, err := TiersFromInput([]types.PriceTierInput{
		{ID: "ga", Name: "General", Price: "$20"},
		{ID: "early", Name: "Early Bird", Price: "$15", EndDate: &end},
	})
	assert.Nil(t, err)
	assert.Len(t, tiers, 2)
	assert.NotNil(t, tiers[1].EndDate)
	assert.Equal(t, 2030, tiers[1].EndDate.Year())
}

func TestTiersFromInputDuplicateID(t *testing.T) {
	_, err := TiersFromInput([]types.PriceTierInput{
		{ID: "ga", Name: "General", Price: "$20"},
		{ID: "ga", Name: "General 2", Price: "$25"},
	})
	assert.NotNil(t, err)
}

func TestTiersFromInputBadEndDate(t *testing.T) {
	end := "next friday"
	_, err := TiersFromInput([]types.PriceTierInput{
		{ID: "early", Name: "Early Bird", Price: "$15", EndDate: &end},
	})
	assert.NotNil(t, err)
}

func TestValidatePaymentInstructions(t *testing.T) {
	assert.Nil(t, ValidatePaymentInstructions(nil))

	assert.NotNil(t, ValidatePaymentInstructions(&types.PaymentInstructions{}))

	assert.NotNil(t, ValidatePaymentInstructions(&types.PaymentInstructions{
		Venmo: ptrS("  "),
	}))

	assert.Nil(t, ValidatePaymentInstructions(&types.PaymentInstructions{
		Venmo: ptrS("@ensemble"),
		Zelle: ptrS("pay@ensemble.org"),
	}))
}

func TestProofObjectKey(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	key := ProofObjectKey(7, 42, "receipt.png", at)
	assert.Equal(t, "7/42/1700000000000.png", key)
}

func TestProofObjectKeyNoExtension(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	key := ProofObjectKey(7, 42, "receipt", at)
	assert.Equal(t, "7/42/1700000000000", key)
}
