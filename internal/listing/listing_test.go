package listing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/headsrooms/PlaywrightING/internal/amount"
	"github.com/headsrooms/PlaywrightING/internal/model"
)

var testSentinels = Sentinels{Account: "ACCT", Card: "CARD", Activated: "activated"}

func TestParse_AccountWithDebitCard(t *testing.T) {
	tokens := []string{"ACCT", "Main", "Account", "", "1.234,56", "CARD", "Visa", "Gold", "", "activated"}

	accounts, err := Parse(tokens, model.AccountTypeNormal, testSentinels)
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	acct := accounts[0]
	assert.Equal(t, "Main Account", acct.Name)
	assert.Equal(t, "1234.56", acct.Balance.String())
	assert.Equal(t, model.AccountTypeNormal, acct.Type)
	assert.False(t, acct.Synced())

	require.Len(t, acct.Cards, 1)
	card := acct.Cards[0]
	assert.Equal(t, "Visa Gold", card.Name)
	assert.Equal(t, model.CardKindDebit, card.Kind)
	assert.True(t, card.Activated)
	assert.True(t, card.Transactions.IsEmpty())
}

func TestParse_CardsFollowTheirAccount(t *testing.T) {
	tokens := []string{
		"ACCT", "Cuenta", "Nómina", "1234", "2.000,00",
		"CARD", "Visa", "Debit", "0001", "activated",
		"CARD", "Mastercard", "Oro", "0002", "45,10",
		"ACCT", "Cuenta", "Gastos", "5678", "150,00",
		"CARD", "Visa", "Debit", "0003", "activated",
	}

	accounts, err := Parse(tokens, model.AccountTypeNormal, testSentinels)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	assert.Equal(t, "Cuenta Nómina 1234", accounts[0].Name)
	assert.Equal(t, "2000", accounts[0].Balance.String())
	require.Len(t, accounts[0].Cards, 2)
	assert.Equal(t, "Visa Debit 0001", accounts[0].Cards[0].Name)
	assert.Equal(t, "Mastercard Oro 0002", accounts[0].Cards[1].Name)
	assert.True(t, accounts[0].Cards[1].IsCredit())
	assert.Equal(t, "45.1", accounts[0].Cards[1].OutstandingExpense.String())

	assert.Equal(t, "Cuenta Gastos 5678", accounts[1].Name)
	require.Len(t, accounts[1].Cards, 1)
	assert.Equal(t, "Visa Debit 0003", accounts[1].Cards[0].Name)
}

func TestParse_SavingsHaveNoCards(t *testing.T) {
	tokens := []string{"ACCT", "Cuenta", "Naranja", "9999", "10.000,00", "CARD", "Visa", "Gold", "", "activated"}

	accounts, err := Parse(tokens, model.AccountTypeSavings, testSentinels)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, model.AccountTypeSavings, accounts[0].Type)
	assert.Empty(t, accounts[0].Cards)
}

func TestParse_WithoutAccountSentinel(t *testing.T) {
	accounts, err := Parse([]string{"Cuenta", "Naranja", "9999", "10,00"}, model.AccountTypeSavings, testSentinels)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Cuenta Naranja 9999", accounts[0].Name)
	assert.Equal(t, "10", accounts[0].Balance.String())
}

func TestParse_Empty(t *testing.T) {
	accounts, err := Parse(nil, model.AccountTypeNormal, testSentinels)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestParse_BadBalance(t *testing.T) {
	_, err := Parse([]string{"ACCT", "Main", "Account", "", "n/a"}, model.AccountTypeNormal, testSentinels)
	require.Error(t, err)

	var pe *amount.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestParse_BadCardExpense(t *testing.T) {
	tokens := []string{"ACCT", "Main", "Account", "", "1,00", "CARD", "Visa", "Gold", "", "blocked"}
	_, err := Parse(tokens, model.AccountTypeNormal, testSentinels)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Visa Gold")
}

func TestParse_SubstringNamesShareCards(t *testing.T) {
	// Known limitation: "Visa" is contained in both blocks, so the card
	// parsed from the second block also lands on the first account.
	tokens := []string{
		"ACCT", "Visa", "Plus", "Holder", "1,00",
		"ACCT", "Other", "Account", "", "2,00",
		"CARD", "Visa", "", "", "activated",
	}

	accounts, err := Parse(tokens, model.AccountTypeNormal, testSentinels)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Len(t, accounts[0].Cards, 1)
	assert.Len(t, accounts[1].Cards, 1)
}

func TestSplit(t *testing.T) {
	runs := split([]string{"x", "S", "a", "b", "S", "c"}, "S", true)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, runs)

	assert.Nil(t, split([]string{"a"}, "S", false))
	assert.Equal(t, [][]string{{"a"}}, split([]string{"a"}, "S", true))
}
