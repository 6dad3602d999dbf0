package server

import (
	"net/netip"

	"spaceship-arena/protocol"
)

// slotTable maps client addresses to player indices. Assignment is
// first-come, stable for the session, and never evicts.
type slotTable struct {
	addrs    [protocol.MaxPlayers]netip.AddrPort
	count    int
	capacity int
}

func newSlotTable(capacity int) slotTable {
	if capacity > protocol.MaxPlayers {
		capacity = protocol.MaxPlayers
	}
	return slotTable{capacity: capacity}
}

// Lookup returns the index assigned to addr
func (t *slotTable) Lookup(addr netip.AddrPort) (int, bool) {
	for i := 0; i < t.count; i++ {
		if t.addrs[i] == addr {
			return i, true
		}
	}
	return -1, false
}

// Assign returns addr's index, giving it the next free one if it is new.
// ok is false when addr is unknown and the table is full.
func (t *slotTable) Assign(addr netip.AddrPort) (idx int, isNew, ok bool) {
	if i, found := t.Lookup(addr); found {
		return i, false, true
	}
	if t.count >= t.capacity {
		return -1, false, false
	}
	idx = t.count
	t.addrs[idx] = addr
	t.count++
	return idx, true, true
}

func (t *slotTable) Full() bool { return t.count >= t.capacity }
func (t *slotTable) Len() int   { return t.count }

// Addrs returns a copy of the assigned addresses in index order
func (t *slotTable) Addrs() []netip.AddrPort {
	out := make([]netip.AddrPort, t.count)
	copy(out, t.addrs[:t.count])
	return out
}

// canonical strips the IPv4-in-IPv6 mapping dual-stack sockets report,
// so one peer always maps to one key.
func canonical(addr netip.AddrPort) netip.AddrPort {
	return netip.AddrPortFrom(addr.Addr().Unmap(), addr.Port())
}
