package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categories available for transactions, keyed by transaction type.
var Categories = map[TransactionType][]string{
	TransactionExpense: {"飲食", "交通", "居住", "娛樂", "購物", "醫療", "教育", "其他"},
	TransactionIncome:  {"薪資", "獎金", "投資收益", "兼職", "其他"},
}

const day = 24 * time.Hour

// SeedSnapshot builds the demo dataset used to initialize a brand-new user,
// with every record's userId rewritten to the given id. Holdings start with
// currentPrice equal to averageCost.
func SeedSnapshot(userID string, now time.Time) *Snapshot {
	d := func(offset time.Duration) string {
		return now.Add(-offset).Format("2006-01-02")
	}
	return &Snapshot{
		Accounts: []Account{
			{ID: "a1", UserID: userID, Name: "中國信託 - 薪轉戶", Kind: AccountBank, Balance: decimal.NewFromInt(150000), Currency: "TWD"},
			{ID: "a2", UserID: userID, Name: "現金錢包", Kind: AccountCash, Balance: decimal.NewFromInt(3500), Currency: "TWD"},
			{ID: "a3", UserID: userID, Name: "國泰世華 - 信用卡", Kind: AccountCreditCard, Balance: decimal.NewFromInt(-12000), Currency: "TWD"},
		},
		Transactions: []Transaction{
			{ID: "t1", UserID: userID, AccountID: "a1", Date: d(0), Amount: decimal.NewFromInt(50000), Kind: TransactionIncome, Category: "薪資", Note: "三月薪水"},
			{ID: "t2", UserID: userID, AccountID: "a2", Date: d(1 * day), Amount: decimal.NewFromInt(120), Kind: TransactionExpense, Category: "飲食", Note: "午餐便當"},
			{ID: "t3", UserID: userID, AccountID: "a2", Date: d(2 * day), Amount: decimal.NewFromInt(50), Kind: TransactionExpense, Category: "交通", Note: "捷運"},
			{ID: "t4", UserID: userID, AccountID: "a3", Date: d(3 * day), Amount: decimal.NewFromInt(2500), Kind: TransactionExpense, Category: "購物", Note: "Uniqlo 衣服"},
		},
		Investments: []Holding{
			{ID: "s1", UserID: userID, Symbol: "2330.TW", Name: "台積電", Quantity: decimal.NewFromInt(1000), AverageCost: decimal.NewFromInt(550), CurrentPrice: decimal.NewFromInt(550), LastUpdated: now},
			{ID: "s2", UserID: userID, Symbol: "0050.TW", Name: "元大台灣50", Quantity: decimal.NewFromInt(2000), AverageCost: decimal.NewFromInt(120), CurrentPrice: decimal.NewFromInt(120), LastUpdated: now},
			{ID: "s3", UserID: userID, Symbol: "AAPL", Name: "Apple Inc.", Quantity: decimal.NewFromInt(10), AverageCost: decimal.NewFromInt(150), CurrentPrice: decimal.NewFromInt(150), LastUpdated: now},
		},
	}
}
