package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PlanStatus represents the lifecycle state of a payment plan
type PlanStatus int

const (
	PlanStatusActive    PlanStatus = 0
	PlanStatusCompleted PlanStatus = 1
	PlanStatusCancelled PlanStatus = 2
)

func (s PlanStatus) String() string {
	switch s {
	case PlanStatusActive:
		return "active"
	case PlanStatusCompleted:
		return "completed"
	case PlanStatusCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("PlanStatus(%d)", int(s))
}

func (s PlanStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PlanStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PlanStatus(i)
		return nil
	}
	parsed, ok := ParsePlanStatus(str)
	if !ok {
		return fmt.Errorf("unknown plan status %q", str)
	}
	*s = parsed
	return nil
}

// ParsePlanStatus parses "active", "completed" or "cancelled"
func ParsePlanStatus(str string) (PlanStatus, bool) {
	switch str {
	case "active":
		return PlanStatusActive, true
	case "completed":
		return PlanStatusCompleted, true
	case "cancelled":
		return PlanStatusCancelled, true
	}
	return 0, false
}

func (s PlanStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PlanStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PlanStatusActive
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PlanStatus(v)
	case int:
		*s = PlanStatus(v)
	}
	return nil
}
