package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDateAcceptsStoredLayouts(t *testing.T) {
	inputs := []string{
		"2026-10-19",
		"2026-10-19T15:04:05Z",
		"2026-10-19 00:00:00+00:00",
		"2026-10-19 23:59:59",
		" 2026-10-19T08:00:00 ",
	}
	for _, raw := range inputs {
		d, err := ParseDate(raw)
		if err != nil {
			t.Fatalf("parse %q failed: %v", raw, err)
		}
		if d.String() != "2026-10-19" {
			t.Fatalf("parse %q want 2026-10-19 got %s", raw, d.String())
		}
	}
	if _, err := ParseDate("19/10/2026"); err == nil {
		t.Fatalf("non-ISO date should be rejected")
	}
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		OrderDate    Date  `json:"orderDate"`
		DeliveryDate *Date `json:"deliveryDate"`
	}
	if err := json.Unmarshal([]byte(`{"orderDate":"2026-10-19","deliveryDate":""}`), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if payload.OrderDate.String() != "2026-10-19" {
		t.Fatalf("unexpected order date: %s", payload.OrderDate.String())
	}
	if payload.DeliveryDate == nil || !payload.DeliveryDate.IsZero() {
		t.Fatalf("empty string should decode to zero date")
	}

	raw, err := json.Marshal(Date{})
	if err != nil || string(raw) != "null" {
		t.Fatalf("zero date should marshal to null, got %s (%v)", raw, err)
	}
	if err := json.Unmarshal([]byte(`{"orderDate":"tomorrow"}`), &payload); err == nil {
		t.Fatalf("invalid date should fail to decode")
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2026, 10, 19, 22, 30, 0, 0, time.UTC)); err != nil || d.String() != "2026-10-19" {
		t.Fatalf("scan time want 2026-10-19 got %s (%v)", d.String(), err)
	}
	if err := d.Scan([]byte("2026-10-20")); err != nil || d.String() != "2026-10-20" {
		t.Fatalf("scan bytes want 2026-10-20 got %s (%v)", d.String(), err)
	}
	if err := d.Scan(nil); err != nil || !d.IsZero() {
		t.Fatalf("scan nil should reset date")
	}
	if err := d.Scan(42); err == nil {
		t.Fatalf("scan int should fail")
	}
}

func TestMoneyJSONAndRounding(t *testing.T) {
	var body struct {
		Amount Money  `json:"amount"`
		Tax    *Money `json:"tax"`
	}
	if err := json.Unmarshal([]byte(`{"amount":60.005,"tax":"1.2"}`), &body); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if body.Amount.String() != "60.01" {
		t.Fatalf("amount should round half away from zero, got %s", body.Amount.String())
	}
	if body.Tax == nil || body.Tax.String() != "1.20" {
		t.Fatalf("string amount should parse, got %v", body.Tax)
	}

	raw, err := json.Marshal(MustMoney("7"))
	if err != nil || string(raw) != `"7.00"` {
		t.Fatalf("money should marshal as fixed string, got %s (%v)", raw, err)
	}
	if _, err := ParseMoney("abc"); err == nil {
		t.Fatalf("invalid money should fail")
	}

	sum := MustMoney("0.10").Add(MustMoney("0.20"))
	if sum.String() != "0.30" {
		t.Fatalf("decimal add should be exact, got %s", sum.String())
	}
	if MustMoney("5").Sub(MustMoney("5.01")).String() != "-0.01" {
		t.Fatalf("unexpected subtraction result")
	}
}

func TestMoneyBlankStringIsMarked(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`"  "`), &m); err != nil {
		t.Fatalf("blank money should decode, got %v", err)
	}
	if !m.IsBlank() || !m.IsZero() {
		t.Fatalf("blank money should be marked and zero, got %+v", m)
	}
	if err := json.Unmarshal([]byte(`"12.5"`), &m); err != nil || m.IsBlank() || m.String() != "12.50" {
		t.Fatalf("parsed money should clear blank mark, got %s blank=%v err=%v", m.String(), m.IsBlank(), err)
	}
	var missing *Money
	if missing.IsBlank() {
		t.Fatalf("nil money is absent, not blank")
	}
}

func TestMoneyScan(t *testing.T) {
	var m Money
	if err := m.Scan(30.25); err != nil || m.String() != "30.25" {
		t.Fatalf("scan float want 30.25 got %s (%v)", m.String(), err)
	}
	if err := m.Scan("12.345"); err != nil || m.String() != "12.35" {
		t.Fatalf("scan string want 12.35 got %s (%v)", m.String(), err)
	}
	if err := m.Scan(nil); err != nil || !m.IsZero() {
		t.Fatalf("scan nil should be zero")
	}
}

func TestItemListScanIsLenient(t *testing.T) {
	var items ItemList
	if err := items.Scan([]byte(`[{"name":"Shirt","type":"wash","quantity":3}]`)); err != nil {
		t.Fatalf("scan valid list failed: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Shirt" || items[0].Quantity != 3 {
		t.Fatalf("unexpected items: %+v", items)
	}

	for _, raw := range []interface{}{"not json", []byte("null"), nil, `{"name":"x"}`} {
		items = ItemList{{Name: "stale"}}
		if err := items.Scan(raw); err != nil {
			t.Fatalf("scan %v should not fail: %v", raw, err)
		}
		if items == nil || len(items) != 0 {
			t.Fatalf("malformed %v should read as empty list, got %+v", raw, items)
		}
	}

	value, err := ItemList(nil).Value()
	if err != nil || string(value.([]byte)) != "[]" {
		t.Fatalf("nil list should store as [], got %v (%v)", value, err)
	}
}

func TestAddonListScanIsLenient(t *testing.T) {
	var addons AddonList
	if err := addons.Scan(`[{"name":"Express","amount":"5"}]`); err != nil {
		t.Fatalf("scan addons failed: %v", err)
	}
	if len(addons) != 1 || addons[0].Amount.String() != "5.00" {
		t.Fatalf("unexpected addons: %+v", addons)
	}
	if err := addons.Scan("[broken"); err != nil || len(addons) != 0 {
		t.Fatalf("broken addon json should read as empty, got %+v", addons)
	}
}
