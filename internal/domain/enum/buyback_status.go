package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// BuybackStatus represents the status of a persisted buyback transaction
type BuybackStatus int

const (
	BuybackStatusDraft     BuybackStatus = 0
	BuybackStatusCompleted BuybackStatus = 1
)

func (s BuybackStatus) String() string {
	names := [...]string{"Draft", "Completed"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Draft"
	}
	return names[s]
}

func (s BuybackStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *BuybackStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = BuybackStatus(i)
		return nil
	}
	switch str {
	case "Draft":
		*s = BuybackStatusDraft
	case "Completed":
		*s = BuybackStatusCompleted
	}
	return nil
}

func (s BuybackStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *BuybackStatus) Scan(value interface{}) error {
	if value == nil {
		*s = BuybackStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = BuybackStatus(v)
	case int:
		*s = BuybackStatus(v)
	}
	return nil
}
