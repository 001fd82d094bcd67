package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"2024-08-20", "2024-08-20", false},
		{" 2024-02-29 ", "2024-02-29", false},
		{"2024-08-20T23:30:00+02:00", "2024-08-20", false},
		{"20/08/2024", "", true},
	}
	for _, c := range cases {
		d, err := ParseDate(c.in)
		if (err != nil) != c.wantErr {
			t.Fatalf("ParseDate(%q) err = %v", c.in, err)
		}
		if d.String() != c.want {
			t.Fatalf("ParseDate(%q) = %q, want %q", c.in, d.String(), c.want)
		}
	}
}

func TestDateJSON(t *testing.T) {
	var v struct {
		A Date `json:"a"`
		B Date `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":"2024-03-15","b":null}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A.String() != "2024-03-15" || !v.B.IsZero() {
		t.Fatalf("decoded %s / %s", v.A, v.B)
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"a":"2024-03-15","b":null}` {
		t.Fatalf("encoded %s", out)
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)); err != nil || d.String() != "2024-08-01" {
		t.Fatalf("scan time: %s %v", d, err)
	}
	if err := d.Scan([]byte("2024-08-02 00:00:00")); err != nil || d.String() != "2024-08-02" {
		t.Fatalf("scan bytes: %s %v", d, err)
	}
	if err := d.Scan(nil); err != nil || !d.IsZero() {
		t.Fatalf("scan nil: %s %v", d, err)
	}
	if err := d.Scan(42); err == nil {
		t.Fatal("scan int should fail")
	}
	v, _ := DateOf(2024, time.December, 31).Value()
	if v != "2024-12-31" {
		t.Fatalf("value = %v", v)
	}
	if v, _ := (Date{}).Value(); v != nil {
		t.Fatalf("zero value = %v", v)
	}
}

func TestDateArithmetic(t *testing.T) {
	d := DateOf(2024, time.March, 1)
	if got := d.AddDays(-1).String(); got != "2024-02-29" {
		t.Fatalf("AddDays(-1) = %s", got)
	}
	if !d.AddDays(-1).Before(d) || d.Before(d) || !d.Equal(DateOf(2024, 3, 1)) {
		t.Fatal("ordering")
	}
	if d.Weekday() != time.Friday {
		t.Fatalf("weekday = %s", d.Weekday())
	}
}

func TestPrice(t *testing.T) {
	cases := []struct {
		p     Price
		valid bool
		value float64
	}{
		{"", true, 0},
		{"150", true, 150},
		{"20.50", true, 20.5},
		{" 75 ", true, 75},
		{"cheap", false, 0},
		{"-12.5", true, -12.5},
		{".75", true, 0.75},
		{"99999999.99", true, 99999999.99},
		{"NaN", false, 0},
		{"Inf", false, 0},
		{"-Infinity", false, 0},
		{"1e3", false, 1000},
		{"150.001", false, 150.001},
		{"123456789", false, 123456789},
		{"12.", false, 12},
		{".", false, 0},
	}
	for _, c := range cases {
		if c.p.Valid() != c.valid {
			t.Errorf("Price(%q).Valid() = %v", c.p, !c.valid)
		}
		if c.p.Float() != c.value {
			t.Errorf("Price(%q).Float() = %v, want %v", c.p, c.p.Float(), c.value)
		}
	}

	var v struct {
		A Price `json:"a"`
		B Price `json:"b"`
		C Price `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":"99.90","b":12.5,"c":null}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A != "99.90" || v.B != "12.5" || v.C != "" {
		t.Fatalf("decoded %+v", v)
	}
	out, _ := json.Marshal(v)
	if string(out) != `{"a":"99.90","b":"12.5","c":null}` {
		t.Fatalf("encoded %s", out)
	}
}
