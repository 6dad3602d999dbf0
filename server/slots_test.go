package server

import (
	"net/netip"
	"testing"
)

func TestSlotTableAssignsInArrivalOrder(t *testing.T) {
	tbl := newSlotTable(2)
	a := netip.MustParseAddrPort("127.0.0.1:5000")
	b := netip.MustParseAddrPort("127.0.0.1:5001")
	c := netip.MustParseAddrPort("127.0.0.1:5002")

	if idx, isNew, ok := tbl.Assign(a); idx != 0 || !isNew || !ok {
		t.Fatalf("first assign = (%d, %v, %v), want (0, true, true)", idx, isNew, ok)
	}
	if idx, isNew, ok := tbl.Assign(b); idx != 1 || !isNew || !ok {
		t.Fatalf("second assign = (%d, %v, %v), want (1, true, true)", idx, isNew, ok)
	}
	if !tbl.Full() {
		t.Error("table should be full")
	}
	if _, _, ok := tbl.Assign(c); ok {
		t.Error("full table accepted a third address")
	}
	if tbl.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", tbl.Len())
	}
}

func TestSlotTableAssignIsIdempotent(t *testing.T) {
	tbl := newSlotTable(4)
	a := netip.MustParseAddrPort("10.0.0.1:7000")
	tbl.Assign(a)
	idx, isNew, ok := tbl.Assign(a)
	if idx != 0 || isNew || !ok {
		t.Fatalf("repeat assign = (%d, %v, %v), want (0, false, true)", idx, isNew, ok)
	}
	if tbl.Len() != 1 {
		t.Errorf("repeat assign grew the table to %d", tbl.Len())
	}
}

func TestSlotTableCapacityClamped(t *testing.T) {
	tbl := newSlotTable(9)
	if tbl.capacity != 4 {
		t.Errorf("capacity = %d, want 4", tbl.capacity)
	}
}

func TestSlotTableLookupUnknown(t *testing.T) {
	tbl := newSlotTable(4)
	if _, ok := tbl.Lookup(netip.MustParseAddrPort("127.0.0.1:1")); ok {
		t.Error("lookup on empty table succeeded")
	}
}

func TestCanonicalUnmapsIPv4(t *testing.T) {
	mapped := netip.MustParseAddrPort("[::ffff:127.0.0.1]:9050")
	plain := netip.MustParseAddrPort("127.0.0.1:9050")
	if canonical(mapped) != plain {
		t.Errorf("canonical(%s) = %s, want %s", mapped, canonical(mapped), plain)
	}

	tbl := newSlotTable(4)
	tbl.Assign(canonical(mapped))
	if idx, ok := tbl.Lookup(canonical(plain)); !ok || idx != 0 {
		t.Error("mapped and plain forms of one peer got different slots")
	}
}

func TestAddrsIsACopy(t *testing.T) {
	tbl := newSlotTable(2)
	a := netip.MustParseAddrPort("127.0.0.1:5000")
	tbl.Assign(a)
	addrs := tbl.Addrs()
	addrs[0] = netip.AddrPort{}
	if idx, ok := tbl.Lookup(a); !ok || idx != 0 {
		t.Error("mutating Addrs result changed the table")
	}
}
