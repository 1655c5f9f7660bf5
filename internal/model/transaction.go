package model

import "github.com/shopspring/decimal"

type Transaction struct {
	ID                 string             `json:"id"`
	Amount             decimal.Decimal    `json:"amount"`
	Pending            bool               `json:"pending"`
	Date               string             `json:"date"`
	HideFromReports    bool               `json:"hideFromReports"`
	PlaidName          string             `json:"plaidName"`
	Notes              string             `json:"notes"`
	IsRecurring        bool               `json:"isRecurring"`
	ReviewStatus       string             `json:"reviewStatus"`
	NeedsReview        bool               `json:"needsReview"`
	IsSplitTransaction bool               `json:"isSplitTransaction"`
	CreatedAt          string             `json:"createdAt"`
	UpdatedAt          string             `json:"updatedAt"`
	Category           *Category          `json:"category"`
	Merchant           *Merchant          `json:"merchant"`
	Account            TransactionAccount `json:"account"`
	Tags               []Tag              `json:"tags"`
	Attachments        []Attachment       `json:"attachments"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Merchant struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	TransactionsCount int    `json:"transactionsCount"`
}

type TransactionAccount struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Order int    `json:"order"`
}

type Attachment struct {
	ID               string `json:"id"`
	Extension        string `json:"extension"`
	Filename         string `json:"filename"`
	OriginalAssetURL string `json:"originalAssetUrl"`
	PublicID         string `json:"publicId"`
	SizeBytes        int64  `json:"sizeBytes"`
}

// TransactionList is the allTransactions payload: the total match count plus
// the requested page of results.
type TransactionList struct {
	TotalCount int           `json:"totalCount"`
	Results    []Transaction `json:"results"`
}

// TransactionFilter narrows a transaction listing. StartDate and EndDate
// must be set together ("yyyy-mm-dd"); the other fields are optional.
type TransactionFilter struct {
	Limit       int
	Offset      int
	StartDate   string
	EndDate     string
	Search      string
	AccountIDs  []string
	CategoryIDs []string
	TagIDs      []string
}

// TransactionDraft describes a transaction to create remotely.
type TransactionDraft struct {
	Date          string
	AccountID     string
	Amount        decimal.Decimal
	MerchantName  string
	CategoryID    string
	Notes         string
	UpdateBalance bool
}

// CategoryName returns the category name or Uncategorized when the remote
// record carries none.
func (t Transaction) CategoryName() string {
	if t.Category == nil || t.Category.Name == "" {
		return "Uncategorized"
	}

	return t.Category.Name
}

// MerchantName returns the merchant name or Unknown when the remote record
// carries none.
func (t Transaction) MerchantName() string {
	if t.Merchant == nil || t.Merchant.Name == "" {
		return "Unknown"
	}

	return t.Merchant.Name
}
