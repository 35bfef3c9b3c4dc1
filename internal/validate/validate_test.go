package validate_test

import (
	"testing"

	"salepoint/internal/validate"
)

func TestQty(t *testing.T) {
	cases := map[string]int{
		"1":    1,
		"3":    3,
		"999":  999,
		"1000": 999,
		"0":    0,
		"-2":   0,
		"abc":  0,
		"":     0,
		"2.5":  0,
	}
	for in, want := range cases {
		if got := validate.Qty(in); got != want {
			t.Errorf("Qty(%q)=%d, want %d", in, got, want)
		}
	}
}

func TestPrice(t *testing.T) {
	if v, ok := validate.Price("18.50"); !ok || v != 18.50 {
		t.Fatalf("Price(18.50)=%v,%v", v, ok)
	}
	for _, bad := range []string{"0", "-1", "free", ""} {
		if _, ok := validate.Price(bad); ok {
			t.Errorf("Price(%q) should fail", bad)
		}
	}
}

func TestSKU(t *testing.T) {
	if s, ok := validate.SKU("  esp-1kg "); !ok || s != "ESP-1KG" {
		t.Fatalf("SKU normalization broken: %q %v", s, ok)
	}
	for _, bad := range []string{"", "x", "has space", "way-too-long-for-a-sku-code-aaaaaaaaaaaa"} {
		if _, ok := validate.SKU(bad); ok {
			t.Errorf("SKU(%q) should fail", bad)
		}
	}
}

func TestPassword(t *testing.T) {
	if !validate.Password("Passw0rd!") {
		t.Fatal("known-good password rejected")
	}
	for _, bad := range []string{"short1", "lettersonly", "12345678"} {
		if validate.Password(bad) {
			t.Errorf("Password(%q) should fail", bad)
		}
	}
}
