package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TransactionType distinguishes sales from purchases
type TransactionType int

const (
	TransactionTypeSale     TransactionType = 1
	TransactionTypePurchase TransactionType = 2
)

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeSale:
		return "sale"
	case TransactionTypePurchase:
		return "purchase"
	}
	return fmt.Sprintf("TransactionType(%d)", int(t))
}

// ParseTransactionType parses "sale" or "purchase"
func ParseTransactionType(s string) (TransactionType, bool) {
	switch s {
	case "sale":
		return TransactionTypeSale, true
	case "purchase":
		return TransactionTypePurchase, true
	}
	return 0, false
}

func (t TransactionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TransactionType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = TransactionType(i)
		return nil
	}
	parsed, ok := ParseTransactionType(str)
	if !ok {
		return fmt.Errorf("unknown transaction type %q", str)
	}
	*t = parsed
	return nil
}

func (t TransactionType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *TransactionType) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		*t = TransactionType(v)
	case int:
		*t = TransactionType(v)
	}
	return nil
}
