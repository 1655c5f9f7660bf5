package model

import "github.com/shopspring/decimal"

// Account mirrors the slice of the remote accounts schema that the tooling
// reads. Fields this client never inspects are left unselected in the query
// rather than modeled here.
type Account struct {
	ID                   string              `json:"id"`
	DisplayName          string              `json:"displayName"`
	SyncDisabled         bool                `json:"syncDisabled"`
	DeactivatedAt        *string             `json:"deactivatedAt"`
	IsHidden             bool                `json:"isHidden"`
	IsAsset              bool                `json:"isAsset"`
	Mask                 string              `json:"mask"`
	CreatedAt            string              `json:"createdAt"`
	UpdatedAt            string              `json:"updatedAt"`
	DisplayLastUpdatedAt string              `json:"displayLastUpdatedAt"`
	CurrentBalance       decimal.NullDecimal `json:"currentBalance"`
	DisplayBalance       decimal.NullDecimal `json:"displayBalance"`
	IncludeInNetWorth    bool                `json:"includeInNetWorth"`
	IsManual             bool                `json:"isManual"`
	TransactionsCount    int                 `json:"transactionsCount"`
	HoldingsCount        int                 `json:"holdingsCount"`
	Order                int                 `json:"order"`
	LogoURL              string              `json:"logoUrl"`
	Type                 AccountType         `json:"type"`
	Subtype              AccountType         `json:"subtype"`
	Credential           *Credential         `json:"credential"`
	Institution          *Institution        `json:"institution"`
}

type AccountType struct {
	Name    string `json:"name"`
	Display string `json:"display"`
}

type Credential struct {
	ID             string       `json:"id"`
	UpdateRequired bool         `json:"updateRequired"`
	DataProvider   string       `json:"dataProvider"`
	Institution    *Institution `json:"institution"`
}

type Institution struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Status       string `json:"status,omitempty"`
	PrimaryColor string `json:"primaryColor,omitempty"`
	URL          string `json:"url,omitempty"`
}

// Balance returns the current balance, treating a null balance as zero.
func (a Account) Balance() decimal.Decimal {
	if !a.CurrentBalance.Valid {
		return decimal.Zero
	}

	return a.CurrentBalance.Decimal
}

// InstitutionName returns the institution name or an empty string for
// manual accounts with no institution attached.
func (a Account) InstitutionName() string {
	if a.Institution == nil {
		return ""
	}

	return a.Institution.Name
}
