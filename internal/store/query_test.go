package store

import (
	"net/url"
	"testing"
	"time"

	"go.uber.org/zap"
)

func testClient() *Client {
	return NewClient("https://example.supabase.co/", "key", time.Second, zap.NewNop())
}

func TestQueryURL(t *testing.T) {
	q := testClient().Table("device_power_logs").
		Select("device_id,PumpError,CreatedOnDate").
		Eq("device_id", 865198074539541).
		Like("CreatedOnDate", "2025-08-21%").
		Order("CreatedOnDate", true).
		Limit(10)

	u, err := url.Parse(q.URL())
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if u.Path != "/rest/v1/device_power_logs" {
		t.Fatalf("path = %q", u.Path)
	}

	params := u.Query()
	if got := params.Get("select"); got != "device_id,PumpError,CreatedOnDate" {
		t.Fatalf("select = %q", got)
	}
	if got := params.Get("device_id"); got != "eq.865198074539541" {
		t.Fatalf("device_id = %q", got)
	}
	// SQL-шаблон '%' кодируется в PostgREST-звездочку
	if got := params.Get("CreatedOnDate"); got != "like.2025-08-21*" {
		t.Fatalf("CreatedOnDate = %q", got)
	}
	if got := params.Get("order"); got != "CreatedOnDate.desc" {
		t.Fatalf("order = %q", got)
	}
	if got := params.Get("limit"); got != "10" {
		t.Fatalf("limit = %q", got)
	}
}

func TestQueryURLDefaults(t *testing.T) {
	u, err := url.Parse(testClient().Table("customer_profile").URL())
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	params := u.Query()
	if got := params.Get("select"); got != "*" {
		t.Fatalf("select default = %q", got)
	}
	if params.Has("order") || params.Has("limit") {
		t.Fatalf("unexpected params: %v", params)
	}
}

func TestQueryFilters(t *testing.T) {
	cases := []struct {
		name   string
		build  func(*Query) *Query
		column string
		want   string
	}{
		{"neq", func(q *Query) *Query { return q.Neq("PumpError", "0") }, "PumpError", "neq.0"},
		{"ilike", func(q *Query) *Query { return q.Ilike("Location", "%mumbai%") }, "Location", "ilike.*mumbai*"},
		{"in", func(q *Query) *Query { return q.In("District", []string{"Pune", "Satara"}) }, "District", "in.(Pune,Satara)"},
		{"order asc", func(q *Query) *Query { return q.Order("CreatedOnDate", false) }, "order", "CreatedOnDate.asc"},
	}
	for _, tc := range cases {
		q := tc.build(testClient().Table("device_power_logs"))
		u, err := url.Parse(q.URL())
		if err != nil {
			t.Fatalf("%s: parse url: %v", tc.name, err)
		}
		if got := u.Query().Get(tc.column); got != tc.want {
			t.Fatalf("%s: %s = %q, want %q", tc.name, tc.column, got, tc.want)
		}
	}
}
