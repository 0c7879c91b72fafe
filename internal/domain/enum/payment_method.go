package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMethod represents how a buyback payout is handed to the customer
type PaymentMethod int

const (
	PaymentMethodCash         PaymentMethod = 0
	PaymentMethodBankTransfer PaymentMethod = 1
)

func (p PaymentMethod) String() string {
	names := [...]string{"cash", "bank_transfer"}
	if int(p) < 0 || int(p) >= len(names) {
		return "cash"
	}
	return names[p]
}

func (p PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*p = PaymentMethod(i)
		return nil
	}
	switch str {
	case "cash":
		*p = PaymentMethodCash
	case "bank_transfer":
		*p = PaymentMethodBankTransfer
	}
	return nil
}

func (p PaymentMethod) Value() (driver.Value, error) {
	return int64(p), nil
}

func (p *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentMethodCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*p = PaymentMethod(v)
	case int:
		*p = PaymentMethod(v)
	}
	return nil
}
