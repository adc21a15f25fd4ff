package model

import "github.com/blnkfinance/onboard/model"

type CreateAccount struct {
	CustomerID string `json:"customer_id"`
	AccountInput
}

func (a *CreateAccount) ToAccount() model.Account {
	account := a.AccountInput.ToAccount()
	account.CustomerID = a.CustomerID
	return account
}
