package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// 远端目录对数值字段的表示不稳定：同一字段在不同响应里可能是 JSON 数字
// 或字符串（"29.99" / 29.99）。Flex 类型在反序列化时两种形式都接受，
// 统一收敛到语义类型。

// FlexFloat 接受字符串或数字形式的浮点数
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("parse float %q: %w", s, err)
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// FlexInt 接受字符串或数字形式的整数
type FlexInt int64

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*i = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*i = 0
			return nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("parse int %q: %w", s, err)
		}
		*i = FlexInt(v)
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*i = FlexInt(v)
	return nil
}

// FlexBool 接受 bool、0/1 数字或其字符串形式
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true", `"true"`, "1", `"1"`:
		*b = true
		return nil
	case "false", `"false"`, "0", `"0"`, "null", `""`:
		*b = false
		return nil
	}
	return fmt.Errorf("parse bool %q", string(data))
}

// PlanDTO /telecom_plans 响应条目（snake_case，数值字段容错）
type PlanDTO struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Price          FlexFloat `json:"price"`
	Data           string    `json:"data"`
	CarrierName    string    `json:"carrier_name"`
	PlanType       string    `json:"plan_type"`
	ContractLength FlexInt   `json:"contract_length"`
	Features       string    `json:"features"`
	CreatedAt      string    `json:"created_at"`
	UpdatedAt      string    `json:"updated_at"`
}

// SimCardDTO /simcards 响应条目
type SimCardDTO struct {
	ID          FlexInt  `json:"id"`
	SlotNumber  FlexInt  `json:"slot_number"`
	CarrierName string   `json:"carrier_name"`
	SimState    string   `json:"sim_state"`
	NetworkType string   `json:"network_type"`
	ICCID       string   `json:"iccid"`
	IMSI        string   `json:"imsi"`
	PhoneNumber string   `json:"phone_number"`
	CountryCode string   `json:"country_code"`
	IsActive    FlexBool `json:"is_active"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// planEnvelope 目录 API 统一响应包：逻辑失败返回 200 + success:false
type planEnvelope struct {
	Success bool      `json:"success"`
	Data    []PlanDTO `json:"data"`
	Count   int       `json:"count"`
	Error   string    `json:"error"`
}
