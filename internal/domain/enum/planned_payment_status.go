package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PlannedPaymentStatus tracks a scheduled payment towards a supplier debt
type PlannedPaymentStatus int

const (
	PlannedPaymentPlanned PlannedPaymentStatus = 0
	PlannedPaymentDue     PlannedPaymentStatus = 1
	PlannedPaymentPaid    PlannedPaymentStatus = 2
)

func (s PlannedPaymentStatus) String() string {
	switch s {
	case PlannedPaymentPlanned:
		return "planned"
	case PlannedPaymentDue:
		return "due"
	case PlannedPaymentPaid:
		return "paid"
	}
	return fmt.Sprintf("PlannedPaymentStatus(%d)", int(s))
}

func (s PlannedPaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PlannedPaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PlannedPaymentStatus(i)
		return nil
	}
	switch str {
	case "planned":
		*s = PlannedPaymentPlanned
	case "due":
		*s = PlannedPaymentDue
	case "paid":
		*s = PlannedPaymentPaid
	default:
		return fmt.Errorf("unknown planned payment status %q", str)
	}
	return nil
}

func (s PlannedPaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PlannedPaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PlannedPaymentPlanned
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PlannedPaymentStatus(v)
	case int:
		*s = PlannedPaymentStatus(v)
	}
	return nil
}
